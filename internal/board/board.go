// FILE: internal/board/board.go
package board

import (
	"errors"
	"fmt"
	"strings"

	"chessrules/internal/core"
)

var ErrInvalidBoard = errors.New("invalid board")

// CastlingRights records which kings and original rooks have left their home squares
type CastlingRights struct {
	WhiteKingMoved          bool `json:"white_king_moved"`
	WhiteRookKingsideMoved  bool `json:"white_rook_kingside_moved"`
	WhiteRookQueensideMoved bool `json:"white_rook_queenside_moved"`
	BlackKingMoved          bool `json:"black_king_moved"`
	BlackRookKingsideMoved  bool `json:"black_rook_kingside_moved"`
	BlackRookQueensideMoved bool `json:"black_rook_queenside_moved"`
}

func (r *CastlingRights) KingMoved(c core.Color) bool {
	if c == core.ColorWhite {
		return r.WhiteKingMoved
	}
	return r.BlackKingMoved
}

// RookMoved reports the flag of the rook starting on the given corner column (0 or 7)
func (r *CastlingRights) RookMoved(c core.Color, col int) bool {
	switch {
	case c == core.ColorWhite && col == 7:
		return r.WhiteRookKingsideMoved
	case c == core.ColorWhite:
		return r.WhiteRookQueensideMoved
	case col == 7:
		return r.BlackRookKingsideMoved
	default:
		return r.BlackRookQueensideMoved
	}
}

func (r *CastlingRights) markKing(c core.Color) {
	if c == core.ColorWhite {
		r.WhiteKingMoved = true
	} else {
		r.BlackKingMoved = true
	}
}

func (r *CastlingRights) markRook(c core.Color, col int) {
	switch {
	case c == core.ColorWhite && col == 7:
		r.WhiteRookKingsideMoved = true
	case c == core.ColorWhite:
		r.WhiteRookQueensideMoved = true
	case col == 7:
		r.BlackRookKingsideMoved = true
	default:
		r.BlackRookQueensideMoved = true
	}
}

// Board owns the grid, the castling flags and the en passant target.
// A Board is not safe for concurrent use; hypothetical positions are
// evaluated on Grid copies.
type Board struct {
	grid       Grid
	rights     CastlingRights
	passant    Square
	hasPassant bool
}

// New returns a board in the standard starting position
func New() *Board {
	return &Board{grid: StartingGrid()}
}

// NewEmpty returns a board with no pieces and all castling flags clear
func NewEmpty() *Board {
	return &Board{}
}

// FromGrid builds a board from an arbitrary position
func FromGrid(g Grid, rights CastlingRights) *Board {
	return &Board{grid: g, rights: rights}
}

// Clone returns an independent copy
func (b *Board) Clone() *Board {
	c := *b
	return &c
}

// Grid returns a copy of the grid
func (b *Board) Grid() Grid {
	return b.grid
}

func (b *Board) At(s Square) Piece {
	return b.grid.At(s)
}

// Place puts a piece on a square outside of move rules, for setting up positions
func (b *Board) Place(s Square, p Piece) {
	b.grid.Set(s, p)
}

func (b *Board) Remove(s Square) {
	b.grid.Clear(s)
}

func (b *Board) Castling() CastlingRights {
	return b.rights
}

func (b *Board) SetCastling(r CastlingRights) {
	b.rights = r
}

// EnPassantTarget returns the square a pawn may capture onto en passant
func (b *Board) EnPassantTarget() (Square, bool) {
	return b.passant, b.hasPassant
}

func (b *Board) SetEnPassantTarget(s Square) {
	s.mustBeOnBoard()
	b.passant, b.hasPassant = s, true
}

func (b *Board) ClearEnPassantTarget() {
	b.passant, b.hasPassant = Square{}, false
}

func (b *Board) passantTarget() *Square {
	if !b.hasPassant {
		return nil
	}
	t := b.passant
	return &t
}

// KingSquare locates the king of the given color
func (b *Board) KingSquare(c core.Color) (Square, bool) {
	return b.grid.KingSquare(c)
}

// Validate checks the preconditions of check detection: exactly one king per color
func (b *Board) Validate() error {
	for _, c := range []core.Color{core.ColorWhite, core.ColorBlack} {
		if n := b.grid.count(Piece{Kind: King, Color: c}); n != 1 {
			return fmt.Errorf("%w: %s has %d kings", ErrInvalidBoard, c.Name(), n)
		}
	}
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			p := b.grid[r][c]
			if !p.IsEmpty() && (!p.Color.Valid() || p.Kind > King) {
				return fmt.Errorf("%w: bad piece on %s", ErrInvalidBoard, Sq(r, c))
			}
		}
	}
	return nil
}

// ToASCII creates an ASCII representation of the board
func (b *Board) ToASCII() string {
	var sb strings.Builder
	sb.WriteString("  a b c d e f g h\n")

	for r := 0; r < 8; r++ {
		sb.WriteString(fmt.Sprintf("%d ", 8-r))
		for c := 0; c < 8; c++ {
			piece := b.grid[r][c]
			if piece.IsEmpty() {
				sb.WriteString(". ")
			} else {
				sb.WriteString(fmt.Sprintf("%c ", piece.Letter()))
			}
		}
		sb.WriteString(fmt.Sprintf(" %d\n", 8-r))
	}
	sb.WriteString("  a b c d e f g h")

	return sb.String()
}
