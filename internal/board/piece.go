// FILE: internal/board/piece.go
package board

import (
	"fmt"
	"strings"

	"chessrules/internal/core"
)

type PieceKind byte

const (
	NoPiece PieceKind = iota
	Pawn
	Rook
	Knight
	Bishop
	Queen
	King
)

var kindNames = map[PieceKind]string{
	Pawn:   "pawn",
	Rook:   "rook",
	Knight: "knight",
	Bishop: "bishop",
	Queen:  "queen",
	King:   "king",
}

func (k PieceKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "none"
}

// Letter returns the uppercase piece letter, 0 for NoPiece
func (k PieceKind) Letter() byte {
	switch k {
	case Pawn:
		return 'P'
	case Rook:
		return 'R'
	case Knight:
		return 'N'
	case Bishop:
		return 'B'
	case Queen:
		return 'Q'
	case King:
		return 'K'
	default:
		return 0
	}
}

// ParseKind accepts piece names in any case ("queen", "Queen")
func ParseKind(s string) (PieceKind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return NoPiece, fmt.Errorf("invalid piece kind: %q", s)
}

// Piece is a kind and a color; the zero value is an empty square
type Piece struct {
	Kind  PieceKind
	Color core.Color
}

func NewPiece(kind PieceKind, color core.Color) Piece {
	return Piece{Kind: kind, Color: color}
}

func (p Piece) IsEmpty() bool {
	return p.Kind == NoPiece
}

// Letter returns the FEN-style letter: uppercase for White, lowercase for Black
func (p Piece) Letter() byte {
	l := p.Kind.Letter()
	if l != 0 && p.Color == core.ColorBlack {
		l += 'a' - 'A'
	}
	return l
}

func (p Piece) String() string {
	if p.IsEmpty() {
		return "empty"
	}
	return fmt.Sprintf("%s %s", strings.ToLower(p.Color.Name()), p.Kind)
}

// Square is a zero-based (row, col) coordinate. Row 0 is Black's back rank.
type Square struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func Sq(row, col int) Square {
	return Square{Row: row, Col: col}
}

func (s Square) OnBoard() bool {
	return s.Row >= 0 && s.Row < 8 && s.Col >= 0 && s.Col < 8
}

// String returns algebraic notation, e.g. Square{6, 4} is "e2"
func (s Square) String() string {
	if !s.OnBoard() {
		return fmt.Sprintf("(%d,%d)", s.Row, s.Col)
	}
	return fmt.Sprintf("%c%c", 'a'+s.Col, '8'-s.Row)
}

// mustBeOnBoard panics on coordinates outside the grid. Callers are contracted
// to pass parsed squares only, so this is a programming error.
func (s Square) mustBeOnBoard() {
	if !s.OnBoard() {
		panic(fmt.Sprintf("board: square %s out of range", s))
	}
}

// Outcome is the result of attempting a move
type Outcome int

const (
	OutcomeIllegal Outcome = iota
	OutcomeOK
	OutcomeCapture
	OutcomeBlocked
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeCapture:
		return "capture"
	case OutcomeBlocked:
		return "blocked"
	default:
		return "illegal"
	}
}

// Applied reports whether the move was legal and has been carried out
func (o Outcome) Applied() bool {
	return o == OutcomeOK || o == OutcomeCapture
}
