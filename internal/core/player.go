// FILE: internal/core/player.go
package core

import (
	"github.com/google/uuid"
)

// Player identifies one side of a game
type Player struct {
	ID    string `json:"id"`
	Color Color  `json:"color"`
}

// NewPlayer creates a Player with a fresh UUID
func NewPlayer(color Color) *Player {
	return &Player{
		ID:    uuid.New().String(),
		Color: color,
	}
}
