// FILE: internal/savefile/savefile.go
package savefile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"chessrules/internal/board"
	"chessrules/internal/core"
	"chessrules/internal/game"
	"chessrules/internal/parser"
)

const fileExt = ".json"

var (
	ErrInvalidDocument = errors.New("invalid save document")
	ErrNotFound        = errors.New("save not found")
)

var nameRe = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// PieceDoc is one occupied grid cell: the piece class name and its color name
type PieceDoc struct {
	Type  string `json:"type"`  // "Pawn", "Rook", ...
	Color string `json:"color"` // "white" or "black"
}

// Document is the on-disk form of a game. The grid is indexed [row][col] with
// row 0 being Black's back rank; empty cells are null.
type Document struct {
	Grid        [][]*PieceDoc `json:"grid"`
	CurrentTurn string        `json:"current_turn"`
	board.CastlingRights
	EnPassant string   `json:"en_passant,omitempty"`
	Moves     []string `json:"moves,omitempty"`
}

// FromBoard captures a position with the side to move
func FromBoard(b *board.Board, turn core.Color) *Document {
	doc := &Document{
		Grid:           make([][]*PieceDoc, 8),
		CurrentTurn:    strings.ToLower(turn.Name()),
		CastlingRights: b.Castling(),
	}

	g := b.Grid()
	for r := 0; r < 8; r++ {
		doc.Grid[r] = make([]*PieceDoc, 8)
		for c := 0; c < 8; c++ {
			p := g[r][c]
			if p.IsEmpty() {
				continue
			}
			doc.Grid[r][c] = &PieceDoc{
				Type:  pieceTypeName(p.Kind),
				Color: strings.ToLower(p.Color.Name()),
			}
		}
	}

	if s, ok := b.EnPassantTarget(); ok {
		doc.EnPassant = parser.FormatSquare(s)
	}
	return doc
}

// FromGame captures the current position of g together with its move history
func FromGame(g *game.Game) *Document {
	doc := FromBoard(g.CurrentBoard(), g.NextTurnColor())
	doc.Moves = g.Moves()
	return doc
}

// Board rebuilds the position and the side to move. It rejects unknown piece
// types and colors, and positions without exactly one king per color.
func (d *Document) Board() (*board.Board, core.Color, error) {
	turn, err := core.ParseColor(d.CurrentTurn)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: current_turn: %v", ErrInvalidDocument, err)
	}

	if len(d.Grid) != 8 {
		return nil, 0, fmt.Errorf("%w: grid has %d rows", ErrInvalidDocument, len(d.Grid))
	}

	var g board.Grid
	for r, row := range d.Grid {
		if len(row) != 8 {
			return nil, 0, fmt.Errorf("%w: grid row %d has %d cells", ErrInvalidDocument, r, len(row))
		}
		for c, cell := range row {
			if cell == nil {
				continue
			}
			p, err := cell.piece()
			if err != nil {
				return nil, 0, fmt.Errorf("%w: %s: %v", ErrInvalidDocument, board.Sq(r, c), err)
			}
			g[r][c] = p
		}
	}

	b := board.FromGrid(g, d.CastlingRights)
	if d.EnPassant != "" {
		s, err := parser.ParseSquare(d.EnPassant)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: en_passant: %v", ErrInvalidDocument, err)
		}
		b.SetEnPassantTarget(s)
	}

	if err := b.Validate(); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return b, turn, nil
}

// Game restores a playable session from the document. Moves are kept in the
// file for reference only; the restored game starts its own history.
func (d *Document) Game(white, black *core.Player) (*game.Game, error) {
	b, turn, err := d.Board()
	if err != nil {
		return nil, err
	}
	g, err := game.Restore(b, turn, white, black)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return g, nil
}

func (p *PieceDoc) piece() (board.Piece, error) {
	kind, err := board.ParseKind(p.Type)
	if err != nil {
		return board.Piece{}, err
	}
	color, err := core.ParseColor(p.Color)
	if err != nil {
		return board.Piece{}, err
	}
	return board.NewPiece(kind, color), nil
}

// pieceTypeName returns the capitalized kind name, e.g. "Knight"
func pieceTypeName(k board.PieceKind) string {
	name := k.String()
	return strings.ToUpper(name[:1]) + name[1:]
}

func Encode(w io.Writer, d *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("failed to encode save: %w", err)
	}
	return nil
}

func Decode(r io.Reader) (*Document, error) {
	var d Document
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return &d, nil
}

// SaveFile writes d to dir/name.json, replacing any previous save of that name
func SaveFile(dir, name string, d *Document) (string, error) {
	if !nameRe.MatchString(name) {
		return "", fmt.Errorf("invalid save name %q: use letters, digits, '-' and '_'", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create save directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, name+"-*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create save file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Encode(tmp, d); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write save file: %w", err)
	}

	path := filepath.Join(dir, name+fileExt)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to write save file: %w", err)
	}
	return path, nil
}

func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, filepath.Base(path))
		}
		return nil, fmt.Errorf("failed to open save: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// List returns the sorted save names in dir, without extension. A missing
// directory has no saves.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list saves: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != fileExt {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), fileExt))
	}
	sort.Strings(names)
	return names, nil
}

// Resolve maps a save name or a 1-based index into List(dir) to a file path
func Resolve(dir, ref string) (string, error) {
	names, err := List(dir)
	if err != nil {
		return "", err
	}

	if i, err := strconv.Atoi(ref); err == nil {
		if i < 1 || i > len(names) {
			return "", fmt.Errorf("%w: no save number %d", ErrNotFound, i)
		}
		return filepath.Join(dir, names[i-1]+fileExt), nil
	}

	name := strings.TrimSuffix(ref, fileExt)
	for _, n := range names {
		if n == name {
			return filepath.Join(dir, n+fileExt), nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, ref)
}
