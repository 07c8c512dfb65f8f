// FILE: internal/board/check.go
package board

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"chessrules/internal/core"

	"golang.org/x/sync/errgroup"
)

// errEscapeFound stops the remaining search goroutines once any escape is known
var errEscapeFound = errors.New("escape found")

// IsCheck reports whether color's king is attacked on the live grid.
// The board must hold a king of that color; see IsCheckOn.
func (b *Board) IsCheck(color core.Color) bool {
	return IsCheckOn(&b.grid, color)
}

// IsCheckOn reports whether color's king is attacked on g. Attacks are derived
// from the same per-piece rules ordinary moves use: the king is in check when
// any enemy piece's raw outcome against the king square is a capture.
//
// Precondition: g holds a king of the given color. A grid without one is a
// caller bug and panics.
func IsCheckOn(g *Grid, color core.Color) bool {
	king, ok := g.KingSquare(color)
	if !ok {
		panic(fmt.Sprintf("board: no %s king on the grid", color.Name()))
	}

	for _, from := range g.squaresOf(core.OppositeColor(color)) {
		if resolve(g, from, king, nil).outcome == OutcomeCapture {
			return true
		}
	}
	return false
}

// Checkmate reports whether color is in check with no move that escapes it.
//
// The search tries every own piece against every square using raw piece rules
// on grid copies, so it never considers castling. Castling out of check is
// illegal, so no escape is lost.
func (b *Board) Checkmate(color core.Color) bool {
	if !b.IsCheck(color) {
		return false
	}
	return !b.HasLegalMove(color)
}

// Stalemate reports whether color is not in check but has no legal move
func (b *Board) Stalemate(color core.Color) bool {
	if b.IsCheck(color) {
		return false
	}
	return !b.HasLegalMove(color)
}

// HasLegalMove reports whether any of color's pieces has a move that leaves
// its own king safe
func (b *Board) HasLegalMove(color core.Color) bool {
	target := b.passantTarget()
	for _, from := range b.grid.squaresOf(color) {
		if escapes(context.Background(), b.grid, from, color, target) {
			return true
		}
	}
	return false
}

// CheckmateContext is Checkmate with the search spread over one goroutine per
// piece. Every goroutine works on its own grid copy. It returns ctx's error if
// ctx ends before the search is decided.
func (b *Board) CheckmateContext(ctx context.Context, color core.Color) (bool, error) {
	if !b.IsCheck(color) {
		return false, nil
	}

	grid := b.grid
	target := b.passantTarget()
	var found atomic.Bool

	g, gctx := errgroup.WithContext(ctx)
	for _, from := range grid.squaresOf(color) {
		from := from
		g.Go(func() error {
			if escapes(gctx, grid, from, color, target) {
				found.Store(true)
				return errEscapeFound
			}
			return gctx.Err()
		})
	}

	err := g.Wait()
	if found.Load() {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// escapes tries every destination for the piece on from. g is received by
// value, so trials never touch the caller's grid.
func escapes(ctx context.Context, g Grid, from Square, color core.Color, target *Square) bool {
	for r := 0; r < 8; r++ {
		if ctx.Err() != nil {
			return false
		}
		for c := 0; c < 8; c++ {
			to := Square{Row: r, Col: c}
			if to == from {
				continue
			}

			t := resolve(&g, from, to, target)
			if !t.outcome.Applied() {
				continue
			}

			next := g.after(from, to, t)
			if !IsCheckOn(&next, color) {
				return true
			}
		}
	}
	return false
}
