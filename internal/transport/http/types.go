// FILE: internal/transport/http/types.go
package http

import (
	"chessrules/internal/core"
	"chessrules/internal/savefile"
)

// Request types

type CreateGameRequest struct {
	Position *savefile.Document `json:"position,omitempty"` // omitted: standard start
}

type MoveRequest struct {
	Move string `json:"move" validate:"required,min=4,max=16"` // "e2e4" or "e2 e4"
}

type UndoRequest struct {
	Count int `json:"count,omitempty" validate:"omitempty,min=1,max=1000"` // default: 1
}

type WaitQuery struct {
	Wait      bool `query:"wait"`
	MoveCount int  `query:"moveCount" validate:"min=0"`
}

// Response types

type GameResponse struct {
	GameID   string             `json:"gameId"`
	Turn     string             `json:"turn"`  // "w" or "b"
	State    string             `json:"state"` // "ongoing", "white_wins", etc
	Check    bool               `json:"check"` // side to move is in check
	Moves    []string           `json:"moves"`
	Players  PlayersInfo        `json:"players"`
	Position *savefile.Document `json:"position"`
	LastMove *MoveInfo          `json:"lastMove,omitempty"`
}

type PlayersInfo struct {
	White string `json:"white"` // player IDs
	Black string `json:"black"`
}

type MoveInfo struct {
	Move    string `json:"move"`
	Player  string `json:"player"`  // "w" or "b"
	Outcome string `json:"outcome"` // "ok" or "capture"
	Check   bool   `json:"check"`
}

type BoardResponse struct {
	Board    string             `json:"board"` // ASCII representation
	Position *savefile.Document `json:"position"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

func stateToString(s core.State) string {
	switch s {
	case core.StateOngoing:
		return "ongoing"
	case core.StateWhiteWins:
		return "white_wins"
	case core.StateBlackWins:
		return "black_wins"
	case core.StateStalemate:
		return "stalemate"
	default:
		return "unknown"
	}
}
