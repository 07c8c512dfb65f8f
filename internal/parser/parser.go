// FILE: internal/parser/parser.go
package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"chessrules/internal/board"
)

var ErrInvalidFormat = errors.New("invalid move format")

var (
	// "e2 e4", "E2  e4" or the compact "e2e4"
	moveRe   = regexp.MustCompile(`^([a-h][1-8])\s*([a-h][1-8])$`)
	squareRe = regexp.MustCompile(`^[a-h][1-8]$`)
)

// IsMoveText reports whether text has the shape of a move, without
// resolving it against any position
func IsMoveText(text string) bool {
	return moveRe.MatchString(normalize(text))
}

// ParseMove converts move text into origin and destination squares
func ParseMove(text string) (from, to board.Square, err error) {
	m := moveRe.FindStringSubmatch(normalize(text))
	if m == nil {
		return board.Square{}, board.Square{}, fmt.Errorf("%w: %q (expected e.g. \"e2 e4\")", ErrInvalidFormat, text)
	}
	return squareOf(m[1]), squareOf(m[2]), nil
}

// ParseSquare converts algebraic notation such as "e4" into a Square
func ParseSquare(text string) (board.Square, error) {
	s := normalize(text)
	if !squareRe.MatchString(s) {
		return board.Square{}, fmt.Errorf("%w: bad square %q", ErrInvalidFormat, text)
	}
	return squareOf(s), nil
}

func FormatSquare(s board.Square) string {
	return s.String()
}

// FormatMove renders a move in the compact form used by history and the HTTP API
func FormatMove(from, to board.Square) string {
	return from.String() + to.String()
}

func normalize(text string) string {
	return strings.ToLower(strings.Join(strings.Fields(text), " "))
}

// squareOf expects a validated two-character square
func squareOf(s string) board.Square {
	return board.Sq(int('8'-s[1]), int(s[0]-'a'))
}
