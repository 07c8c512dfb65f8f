package board

import (
	"testing"

	"chessrules/internal/core"
)

// sq converts algebraic notation for test setup
func sq(name string) Square {
	return Square{Row: int('8' - name[1]), Col: int(name[0] - 'a')}
}

func white(k PieceKind) Piece { return Piece{Kind: k, Color: core.ColorWhite} }
func black(k PieceKind) Piece { return Piece{Kind: k, Color: core.ColorBlack} }

// position builds a board from square names with every castling flag clear
func position(t *testing.T, pieces map[string]Piece) *Board {
	t.Helper()
	b := NewEmpty()
	for name, p := range pieces {
		s := sq(name)
		if !s.OnBoard() {
			t.Fatalf("bad square %q", name)
		}
		b.Place(s, p)
	}
	return b
}
