// FILE: internal/service/game.go
package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"chessrules/internal/board"
	"chessrules/internal/core"
	"chessrules/internal/game"
	"chessrules/internal/parser"
	"chessrules/internal/savefile"
	"chessrules/internal/storage"

	"github.com/google/uuid"
)

// GameState is a copy of one game taken under the service lock
type GameState struct {
	ID          string
	Board       *board.Board
	Turn        core.Color
	State       core.State
	Check       bool // side to move is in check
	Moves       []string
	LastResult  *game.MoveResult
	WhitePlayer core.Player
	BlackPlayer core.Player
}

// CreateGame starts a game from the standard position
func (s *Service) CreateGame() (string, error) {
	g := game.New(core.NewPlayer(core.ColorWhite), core.NewPlayer(core.ColorBlack))
	return s.add(g), nil
}

// CreateGameFromSave starts a game from a saved position
func (s *Service) CreateGameFromSave(doc *savefile.Document) (string, error) {
	g, err := doc.Game(core.NewPlayer(core.ColorWhite), core.NewPlayer(core.ColorBlack))
	if err != nil {
		return "", err
	}
	return s.add(g), nil
}

func (s *Service) add(g *game.Game) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.generateGameID()
	s.games[id] = g

	if s.store != nil {
		s.store.RecordNewGame(storage.GameRecord{
			GameID:          id,
			InitialPosition: encodePosition(savefile.FromBoard(g.InitialBoard(), g.NextTurnColor())),
			StartingTurn:    g.NextTurnColor().String(),
			WhitePlayerID:   g.Player(core.ColorWhite).ID,
			BlackPlayerID:   g.Player(core.ColorBlack).ID,
			StartTimeUTC:    now(),
		})
	}
	return id
}

// generateGameID creates a new unique game ID; the caller holds the lock
func (s *Service) generateGameID() string {
	for {
		id := uuid.New().String()
		if _, exists := s.games[id]; !exists {
			return id
		}
	}
}

// GetGame returns a copy of the game's current state
func (s *Service) GetGame(gameID string) (*GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[gameID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return stateOf(gameID, g), nil
}

func stateOf(id string, g *game.Game) *GameState {
	b := g.CurrentBoard()
	st := &GameState{
		ID:          id,
		Board:       b,
		Turn:        g.NextTurnColor(),
		State:       g.State(),
		Check:       b.IsCheck(g.NextTurnColor()),
		Moves:       g.Moves(),
		WhitePlayer: *g.Player(core.ColorWhite),
		BlackPlayer: *g.Player(core.ColorBlack),
	}
	if r := g.LastResult(); r != nil {
		last := *r
		st.LastResult = &last
	}
	return st
}

// MakeMove parses move text such as "e2e4" or "e2 e4" and plays it for the
// side to move. Rule violations come back as a result with a rejected outcome.
func (s *Service) MakeMove(ctx context.Context, gameID, text string) (*game.MoveResult, error) {
	from, to, err := parser.ParseMove(text)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}

	result, err := g.MoveContext(ctx, from, to)
	if err != nil || !result.Outcome.Applied() {
		return result, err
	}

	s.waiter.Notify(gameID)

	if s.store != nil {
		s.store.RecordMove(storage.MoveRecord{
			GameID:        gameID,
			MoveNumber:    len(g.Moves()),
			Move:          result.Move,
			Outcome:       result.Outcome.String(),
			PositionAfter: encodePosition(savefile.FromBoard(g.CurrentBoard(), g.NextTurnColor())),
			PlayerColor:   result.PlayerColor.String(),
			GameState:     result.GameState.String(),
			MoveTimeUTC:   now(),
		})
	}

	return result, nil
}

// UndoMoves removes the specified number of moves from game history
func (s *Service) UndoMoves(gameID string, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}

	if err := g.UndoMoves(count); err != nil {
		return err
	}

	s.waiter.Notify(gameID)

	if s.store != nil {
		s.store.DeleteUndoneMoves(gameID, len(g.Moves()))
	}
	return nil
}

// DeleteGame removes a game from memory and storage
func (s *Service) DeleteGame(gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.games[gameID]; !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}

	s.waiter.Notify(gameID)
	delete(s.games, gameID)

	if s.store != nil {
		s.store.DeleteGame(gameID)
	}
	return nil
}

// SaveDocument captures the game for a save file
func (s *Service) SaveDocument(gameID string) (*savefile.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[gameID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return savefile.FromGame(g), nil
}

// WaitForChange blocks until the game's move count differs from moveCount,
// the game is deleted, timeout passes or ctx ends, and then returns the
// current state. It returns immediately when the count already differs or
// the game is over.
func (s *Service) WaitForChange(ctx context.Context, gameID string, moveCount int, timeout time.Duration) (*GameState, error) {
	s.mu.RLock()
	g, ok := s.games[gameID]
	if !ok {
		s.mu.RUnlock()
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	if len(g.Moves()) != moveCount || g.State().IsOver() {
		st := stateOf(gameID, g)
		s.mu.RUnlock()
		return st, nil
	}
	// Registered under the lock so no move can slip in between
	changed, cancel := s.waiter.Register(gameID)
	s.mu.RUnlock()
	defer cancel()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-changed:
	case <-timer.C:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return s.GetGame(gameID)
}

func encodePosition(doc *savefile.Document) string {
	var buf bytes.Buffer
	if err := savefile.Encode(&buf, doc); err != nil {
		log.Printf("Failed to encode position: %v", err)
		return "{}"
	}
	return buf.String()
}
