// FILE: internal/board/geometry.go
package board

import (
	"chessrules/internal/core"
)

// pawnDirection is the row delta of a forward pawn step
func pawnDirection(c core.Color) int {
	if c == core.ColorWhite {
		return -1
	}
	return 1
}

func pawnStartRow(c core.Color) int {
	if c == core.ColorWhite {
		return 6
	}
	return 1
}

// promotionRow is the far rank for the color's pawns
func promotionRow(c core.Color) int {
	if c == core.ColorWhite {
		return 0
	}
	return 7
}

// homeRow is the color's back rank
func homeRow(c core.Color) int {
	if c == core.ColorWhite {
		return 7
	}
	return 0
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	default:
		return 0
	}
}

// Reachable reports whether the piece's movement pattern connects from and to,
// ignoring every other piece on the board. For pawns this includes the diagonal
// step, which resolve only accepts as a capture.
func Reachable(p Piece, from, to Square) bool {
	if from == to {
		return false
	}
	dr, dc := to.Row-from.Row, to.Col-from.Col

	switch p.Kind {
	case Pawn:
		fwd := pawnDirection(p.Color)
		if dr == fwd && abs(dc) <= 1 {
			return true
		}
		return dc == 0 && dr == 2*fwd && from.Row == pawnStartRow(p.Color)
	case Rook:
		return straight(dr, dc)
	case Bishop:
		return diagonal(dr, dc)
	case Queen:
		return straight(dr, dc) || diagonal(dr, dc)
	case Knight:
		adr, adc := abs(dr), abs(dc)
		return (adr == 1 && adc == 2) || (adr == 2 && adc == 1)
	case King:
		return abs(dr) <= 1 && abs(dc) <= 1
	}
	return false
}

func straight(dr, dc int) bool {
	return (dr == 0) != (dc == 0)
}

func diagonal(dr, dc int) bool {
	return dr != 0 && abs(dr) == abs(dc)
}

// PathClear reports whether every square strictly between from and to is empty.
// Pairs that are not on a common line have no intervening squares.
func PathClear(g *Grid, from, to Square) bool {
	dr, dc := to.Row-from.Row, to.Col-from.Col
	if !straight(dr, dc) && !diagonal(dr, dc) {
		return true
	}

	sr, sc := sign(dr), sign(dc)
	for r, c := from.Row+sr, from.Col+sc; r != to.Row || c != to.Col; r, c = r+sr, c+sc {
		if !g[r][c].IsEmpty() {
			return false
		}
	}
	return true
}

// trial is the raw evaluation of a move against a grid, before the self-check veto
type trial struct {
	outcome Outcome
	passant bool   // en passant capture
	victim  Square // square of the pawn taken en passant
}

// resolve evaluates the piece standing on from against to. target is the current
// en passant square, nil when there is none.
func resolve(g *Grid, from, to Square, target *Square) trial {
	p := g.At(from)
	if p.IsEmpty() || !Reachable(p, from, to) {
		return trial{outcome: OutcomeIllegal}
	}

	if p.Kind == Pawn {
		return resolvePawn(g, p, from, to, target)
	}

	if !PathClear(g, from, to) {
		return trial{outcome: OutcomeBlocked}
	}
	return trial{outcome: occupancy(p, g.At(to))}
}

func resolvePawn(g *Grid, p Piece, from, to Square, target *Square) trial {
	dest := g.At(to)

	if from.Col != to.Col {
		if !dest.IsEmpty() {
			return trial{outcome: occupancy(p, dest)}
		}
		if target != nil && *target == to {
			victim := Square{Row: from.Row, Col: to.Col}
			if v := g.At(victim); v.Kind == Pawn && v.Color != p.Color {
				return trial{outcome: OutcomeOK, passant: true, victim: victim}
			}
		}
		return trial{outcome: OutcomeIllegal}
	}

	// Forward steps never capture
	if !PathClear(g, from, to) || !dest.IsEmpty() {
		return trial{outcome: OutcomeBlocked}
	}
	return trial{outcome: OutcomeOK}
}

func occupancy(mover, dest Piece) Outcome {
	switch {
	case dest.IsEmpty():
		return OutcomeOK
	case dest.Color == mover.Color:
		return OutcomeBlocked
	default:
		return OutcomeCapture
	}
}

// after returns a copy of g with the trial move applied, without promotion or
// flag bookkeeping
func (g Grid) after(from, to Square, t trial) Grid {
	g.relocate(from, to)
	if t.passant {
		g.Clear(t.victim)
	}
	return g
}
