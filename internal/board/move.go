// FILE: internal/board/move.go
package board

import (
	"chessrules/internal/core"
)

// Move attempts to move the piece on from to to. Only OutcomeOK and
// OutcomeCapture change the board; Blocked and Illegal leave grid, flags and
// en passant target untouched.
func (b *Board) Move(from, to Square) Outcome {
	from.mustBeOnBoard()
	to.mustBeOnBoard()

	p := b.grid.At(from)
	if p.IsEmpty() {
		return OutcomeIllegal
	}

	if p.Kind == King && from.Row == to.Row && abs(to.Col-from.Col) == 2 {
		return b.castle(from, to)
	}

	t := resolve(&b.grid, from, to, b.passantTarget())
	if !t.outcome.Applied() {
		return t.outcome
	}

	next := b.grid.after(from, to, t)
	if IsCheckOn(&next, p.Color) {
		return OutcomeIllegal
	}

	placed := p
	if p.Kind == Pawn && to.Row == promotionRow(p.Color) {
		placed = Piece{Kind: Queen, Color: p.Color}
	}

	b.commit(transition{
		from:    from,
		to:      to,
		placed:  placed,
		passant: t.passant,
		victim:  t.victim,
	})
	return t.outcome
}

// transition lists every change one accepted move makes to the board
type transition struct {
	from, to Square
	placed   Piece // piece that lands on to, after promotion

	castle           bool
	rookFrom, rookTo Square

	passant bool
	victim  Square
}

// commit is the only place that mutates the board during play
func (b *Board) commit(t transition) {
	mover := b.grid.At(t.from)

	b.touch(t.from)
	b.touch(t.to)
	if t.castle {
		b.touch(t.rookFrom)
	}

	if t.passant {
		b.grid.Clear(t.victim)
	}
	if t.castle {
		b.grid.relocate(t.rookFrom, t.rookTo)
	}
	b.grid.Clear(t.from)
	b.grid.Set(t.to, t.placed)

	b.ClearEnPassantTarget()
	if mover.Kind == Pawn && abs(t.to.Row-t.from.Row) == 2 {
		b.SetEnPassantTarget(Square{Row: (t.from.Row + t.to.Row) / 2, Col: t.from.Col})
	}
}

// touch updates castling flags for a king or home-square rook that is about to
// leave s, either by moving or by being captured there
func (b *Board) touch(s Square) {
	p := b.grid.At(s)
	switch {
	case p.Kind == King:
		b.rights.markKing(p.Color)
	case p.Kind == Rook && isRookHome(p.Color, s):
		b.rights.markRook(p.Color, s.Col)
	}
}

func isRookHome(c core.Color, s Square) bool {
	return s.Row == homeRow(c) && (s.Col == 0 || s.Col == 7)
}
