// FILE: internal/board/castle.go
package board

// castle handles a king moving two columns along its own rank. Any failed
// precondition yields OutcomeIllegal with no mutation.
func (b *Board) castle(from, to Square) Outcome {
	king := b.grid.At(from)
	color := king.Color

	if from != (Square{Row: homeRow(color), Col: 4}) {
		return OutcomeIllegal
	}

	step := sign(to.Col - from.Col)
	rookFrom := Square{Row: from.Row, Col: 7}
	if step < 0 {
		rookFrom.Col = 0
	}

	if b.rights.KingMoved(color) || b.rights.RookMoved(color, rookFrom.Col) {
		return OutcomeIllegal
	}
	if b.grid.At(rookFrom) != (Piece{Kind: Rook, Color: color}) {
		return OutcomeIllegal
	}
	if !PathClear(&b.grid, from, rookFrom) {
		return OutcomeIllegal
	}

	// The king may not start on, pass through or land on an attacked square
	vacated := b.grid
	vacated.Clear(from)
	for col := from.Col; ; col += step {
		probe := vacated
		probe.Set(Square{Row: from.Row, Col: col}, king)
		if IsCheckOn(&probe, color) {
			return OutcomeIllegal
		}
		if col == to.Col {
			break
		}
	}

	b.commit(transition{
		from:     from,
		to:       to,
		placed:   king,
		castle:   true,
		rookFrom: rookFrom,
		rookTo:   Square{Row: from.Row, Col: from.Col + step},
	})
	return OutcomeOK
}
