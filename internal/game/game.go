// FILE: internal/game/game.go
package game

import (
	"context"
	"errors"
	"fmt"

	"chessrules/internal/board"
	"chessrules/internal/core"
	"chessrules/internal/parser"
)

var (
	ErrGameOver        = errors.New("game is over")
	ErrInvalidPosition = errors.New("invalid position")
)

type Snapshot struct {
	Board         *board.Board // Position at this point, never mutated after push
	PreviousMove  string       // Move that created this position (empty for initial)
	NextTurnColor core.Color   // Whose turn it is at this position
	PlayerID      string       // ID of the player whose turn it is
	State         core.State   // Game state reached at this position
}

// MoveResult tracks the outcome of a move attempt
type MoveResult struct {
	Move        string        `json:"move"`
	PlayerColor core.Color    `json:"playerColor"`
	Outcome     board.Outcome `json:"outcome"`
	Check       bool          `json:"check"` // Opponent is in check after the move
	GameState   core.State    `json:"gameState"`
}

type Game struct {
	snapshots  []Snapshot
	players    map[core.Color]*core.Player
	lastResult *MoveResult
}

// New starts a game from the standard position with White to move
func New(whitePlayer, blackPlayer *core.Player) *Game {
	return newGame(board.New(), core.ColorWhite, whitePlayer, blackPlayer, core.StateOngoing)
}

// Restore starts a game from a saved position. The position must hold one king
// per color and the side that just moved may not be left in check. A position
// that is already decided is restored with its final state.
func Restore(b *board.Board, turn core.Color, whitePlayer, blackPlayer *core.Player) (*Game, error) {
	if !turn.Valid() {
		return nil, fmt.Errorf("%w: no side to move", ErrInvalidPosition)
	}
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPosition, err)
	}
	if b.IsCheck(core.OppositeColor(turn)) {
		return nil, fmt.Errorf("%w: %s is in check but not to move", ErrInvalidPosition, core.OppositeColor(turn).Name())
	}

	state := evaluate(b, turn)
	return newGame(b.Clone(), turn, whitePlayer, blackPlayer, state), nil
}

func newGame(b *board.Board, turn core.Color, whitePlayer, blackPlayer *core.Player, state core.State) *Game {
	g := &Game{
		players: map[core.Color]*core.Player{
			core.ColorWhite: whitePlayer,
			core.ColorBlack: blackPlayer,
		},
	}
	g.snapshots = []Snapshot{{
		Board:         b,
		NextTurnColor: turn,
		PlayerID:      g.playerID(turn),
		State:         state,
	}}
	return g
}

// evaluate decides the state for the side to move with the sequential search
func evaluate(b *board.Board, toMove core.Color) core.State {
	if b.HasLegalMove(toMove) {
		return core.StateOngoing
	}
	if b.IsCheck(toMove) {
		return core.WinnerState(core.OppositeColor(toMove))
	}
	return core.StateStalemate
}

// Move plays from→to for the side to move
func (g *Game) Move(from, to board.Square) (*MoveResult, error) {
	return g.MoveContext(context.Background(), from, to)
}

// MoveContext is Move with the checkmate search bound to ctx. Rule violations
// are reported in the result; the error is reserved for refusals (game over)
// and for ctx ending before the new position could be evaluated, in which case
// the move is not recorded.
func (g *Game) MoveContext(ctx context.Context, from, to board.Square) (*MoveResult, error) {
	if g.State().IsOver() {
		return nil, fmt.Errorf("%w: %s", ErrGameOver, g.State())
	}

	cur := g.CurrentSnapshot()
	mover := cur.NextTurnColor
	result := &MoveResult{
		Move:        parser.FormatMove(from, to),
		PlayerColor: mover,
		GameState:   cur.State,
	}

	if p := cur.Board.At(from); p.IsEmpty() || p.Color != mover {
		result.Outcome = board.OutcomeIllegal
		return result, nil
	}

	next := cur.Board.Clone()
	result.Outcome = next.Move(from, to)
	if !result.Outcome.Applied() {
		return result, nil
	}

	opponent := core.OppositeColor(mover)
	result.Check = next.IsCheck(opponent)
	switch {
	case result.Check:
		mate, err := next.CheckmateContext(ctx, opponent)
		if err != nil {
			return nil, fmt.Errorf("evaluating position: %w", err)
		}
		if mate {
			result.GameState = core.WinnerState(mover)
		}
	case !next.HasLegalMove(opponent):
		result.GameState = core.StateStalemate
	}

	g.snapshots = append(g.snapshots, Snapshot{
		Board:         next,
		PreviousMove:  result.Move,
		NextTurnColor: opponent,
		PlayerID:      g.playerID(opponent),
		State:         result.GameState,
	})
	g.lastResult = result
	return result, nil
}

func (g *Game) playerID(c core.Color) string {
	if p := g.players[c]; p != nil {
		return p.ID
	}
	return ""
}

func (g *Game) LastResult() *MoveResult {
	return g.lastResult
}

// CurrentSnapshot returns the latest game snapshot
func (g *Game) CurrentSnapshot() Snapshot {
	return g.snapshots[len(g.snapshots)-1]
}

// CurrentBoard returns a copy of the current position
func (g *Game) CurrentBoard() *board.Board {
	return g.CurrentSnapshot().Board.Clone()
}

// InitialBoard returns a copy of the position the game started from
func (g *Game) InitialBoard() *board.Board {
	return g.snapshots[0].Board.Clone()
}

func (g *Game) NextTurnColor() core.Color {
	return g.CurrentSnapshot().NextTurnColor
}

func (g *Game) NextPlayer() *core.Player {
	return g.players[g.NextTurnColor()]
}

func (g *Game) Player(c core.Color) *core.Player {
	return g.players[c]
}

func (g *Game) State() core.State {
	return g.CurrentSnapshot().State
}

func (g *Game) UndoMoves(count int) error {
	if count < 1 {
		return fmt.Errorf("invalid undo count: %d", count)
	}

	availableMoves := len(g.snapshots) - 1
	if availableMoves < count {
		return fmt.Errorf("cannot undo %d moves: only %d moves available", count, availableMoves)
	}

	g.snapshots = g.snapshots[:len(g.snapshots)-count]
	g.lastResult = nil
	return nil
}

func (g *Game) Moves() []string {
	moves := []string{}
	for i := 1; i < len(g.snapshots); i++ {
		moves = append(moves, g.snapshots[i].PreviousMove)
	}
	return moves
}
