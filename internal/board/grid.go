// FILE: internal/board/grid.go
package board

import (
	"chessrules/internal/core"
)

// Grid is the 8x8 occupancy array. It is a plain value: assigning it copies it.
type Grid [8][8]Piece

var backRank = [8]PieceKind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// StartingGrid returns the standard initial position
func StartingGrid() Grid {
	var g Grid
	for c := 0; c < 8; c++ {
		g[0][c] = Piece{Kind: backRank[c], Color: core.ColorBlack}
		g[1][c] = Piece{Kind: Pawn, Color: core.ColorBlack}
		g[6][c] = Piece{Kind: Pawn, Color: core.ColorWhite}
		g[7][c] = Piece{Kind: backRank[c], Color: core.ColorWhite}
	}
	return g
}

func (g *Grid) At(s Square) Piece {
	s.mustBeOnBoard()
	return g[s.Row][s.Col]
}

func (g *Grid) Set(s Square, p Piece) {
	s.mustBeOnBoard()
	g[s.Row][s.Col] = p
}

func (g *Grid) Clear(s Square) {
	g.Set(s, Piece{})
}

// relocate moves whatever stands on from to to, overwriting to
func (g *Grid) relocate(from, to Square) {
	g.Set(to, g.At(from))
	g.Clear(from)
}

// KingSquare scans the grid for the king of the given color
func (g *Grid) KingSquare(color core.Color) (Square, bool) {
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			if p := g[r][c]; p.Kind == King && p.Color == color {
				return Square{Row: r, Col: c}, true
			}
		}
	}
	return Square{}, false
}

// squaresOf lists the squares holding pieces of the given color in row-major order
func (g *Grid) squaresOf(color core.Color) []Square {
	var squares []Square
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			if p := g[r][c]; !p.IsEmpty() && p.Color == color {
				squares = append(squares, Square{Row: r, Col: c})
			}
		}
	}
	return squares
}

func (g *Grid) count(p Piece) int {
	n := 0
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			if g[r][c] == p {
				n++
			}
		}
	}
	return n
}
