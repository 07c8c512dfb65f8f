package savefile

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chessrules/internal/board"
	"chessrules/internal/core"
	"chessrules/internal/game"
	"chessrules/internal/parser"

	"github.com/google/go-cmp/cmp"
)

func playedGame(t *testing.T, moves ...string) *game.Game {
	t.Helper()
	g := game.New(core.NewPlayer(core.ColorWhite), core.NewPlayer(core.ColorBlack))
	for _, m := range moves {
		from, to, err := parser.ParseMove(m)
		if err != nil {
			t.Fatal(err)
		}
		res, err := g.Move(from, to)
		if err != nil || !res.Outcome.Applied() {
			t.Fatalf("move %s: %v %v", m, res, err)
		}
	}
	return g
}

func TestEncodeDecodeRestoresPosition(t *testing.T) {
	g := playedGame(t, "e2 e4", "a7 a6", "e4 e5", "d7 d5", "e1 e2")
	// Undo the king move so the en passant window is open again
	if err := g.UndoMoves(1); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, FromGame(g)); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	doc, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	b, turn, err := doc.Board()
	if err != nil {
		t.Fatalf("Board: %v", err)
	}
	if turn != core.ColorWhite {
		t.Errorf("turn = %s, want white", turn.Name())
	}
	if diff := cmp.Diff(g.CurrentBoard().ToASCII(), b.ToASCII()); diff != "" {
		t.Errorf("position mismatch (-want +got):\n%s", diff)
	}
	if target, ok := b.EnPassantTarget(); !ok || target != board.Sq(2, 3) {
		t.Errorf("en passant target = %v %v, want d6", target, ok)
	}
	if diff := cmp.Diff([]string{"e2e4", "a7a6", "e4e5", "d7d5"}, doc.Moves); diff != "" {
		t.Errorf("moves mismatch (-want +got):\n%s", diff)
	}

	restored, err := doc.Game(core.NewPlayer(core.ColorWhite), core.NewPlayer(core.ColorBlack))
	if err != nil {
		t.Fatalf("Game: %v", err)
	}
	res, err := restored.Move(board.Sq(3, 4), board.Sq(2, 3))
	if err != nil || res.Outcome != board.OutcomeCapture {
		t.Errorf("en passant after load = %v, %v", res, err)
	}
}

func TestCastlingFlagsSurvive(t *testing.T) {
	g := playedGame(t, "g1 f3", "a7 a6", "h1 g1", "a6 a5", "g1 h1")

	var buf bytes.Buffer
	if err := Encode(&buf, FromGame(g)); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"white_rook_kingside_moved": true`) {
		t.Errorf("flag missing from document:\n%s", buf.String())
	}

	doc, err := Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	b, _, err := doc.Board()
	if err != nil {
		t.Fatal(err)
	}
	rights := b.Castling()
	if !rights.WhiteRookKingsideMoved || rights.WhiteKingMoved {
		t.Errorf("rights = %+v", rights)
	}
}

func TestDecodeOriginalFormat(t *testing.T) {
	// Grid and turn only, as written by the first version of the save format
	var sb strings.Builder
	sb.WriteString(`{"grid":[`)
	for r := 0; r < 8; r++ {
		if r > 0 {
			sb.WriteString(",")
		}
		cells := make([]string, 8)
		for c := range cells {
			cells[c] = "null"
		}
		switch r {
		case 0:
			cells[4] = `{"type":"King","color":"black"}`
		case 7:
			cells[4] = `{"type":"King","color":"white"}`
			cells[0] = `{"type":"Rook","color":"white"}`
		}
		sb.WriteString("[" + strings.Join(cells, ",") + "]")
	}
	sb.WriteString(`],"current_turn":"white","status":"playing"}`)

	doc, err := Decode(strings.NewReader(sb.String()))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	b, turn, err := doc.Board()
	if err != nil {
		t.Fatalf("Board: %v", err)
	}
	if turn != core.ColorWhite {
		t.Errorf("turn = %s", turn.Name())
	}
	if got := b.At(board.Sq(7, 0)); got != board.NewPiece(board.Rook, core.ColorWhite) {
		t.Errorf("a1 = %v", got)
	}
	if got := b.Move(board.Sq(7, 4), board.Sq(7, 2)); got != board.OutcomeOK {
		t.Errorf("queenside castle after load = %s", got)
	}
}

func TestInvalidDocuments(t *testing.T) {
	valid := func() *Document {
		return FromBoard(board.New(), core.ColorWhite)
	}

	tests := []struct {
		name   string
		mutate func(d *Document)
	}{
		{"bad turn", func(d *Document) { d.CurrentTurn = "red" }},
		{"short grid", func(d *Document) { d.Grid = d.Grid[:7] }},
		{"short row", func(d *Document) { d.Grid[3] = d.Grid[3][:5] }},
		{"bad piece type", func(d *Document) { d.Grid[0][0].Type = "Archbishop" }},
		{"bad piece color", func(d *Document) { d.Grid[0][0].Color = "green" }},
		{"missing king", func(d *Document) { d.Grid[0][4] = nil }},
		{"extra king", func(d *Document) { d.Grid[4][4] = &PieceDoc{Type: "King", Color: "white"} }},
		{"bad en passant", func(d *Document) { d.EnPassant = "z9" }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d := valid()
			tt.mutate(d)
			if _, _, err := d.Board(); !errors.Is(err, ErrInvalidDocument) {
				t.Errorf("Board() err = %v, want ErrInvalidDocument", err)
			}
		})
	}

	if _, err := Decode(strings.NewReader("{not json")); !errors.Is(err, ErrInvalidDocument) {
		t.Errorf("Decode garbage err = %v", err)
	}
}

func TestGameRejectsOpponentInCheck(t *testing.T) {
	b := board.NewEmpty()
	b.Place(board.Sq(7, 4), board.NewPiece(board.King, core.ColorWhite))
	b.Place(board.Sq(0, 4), board.NewPiece(board.King, core.ColorBlack))
	b.Place(board.Sq(4, 4), board.NewPiece(board.Rook, core.ColorWhite))

	doc := FromBoard(b, core.ColorWhite)
	if _, err := doc.Game(core.NewPlayer(core.ColorWhite), core.NewPlayer(core.ColorBlack)); !errors.Is(err, ErrInvalidDocument) {
		t.Errorf("Game() err = %v, want ErrInvalidDocument", err)
	}
}

func TestSaveListResolve(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "saves")

	if names, err := List(dir); err != nil || len(names) != 0 {
		t.Fatalf("List on missing dir = %v, %v", names, err)
	}

	doc := FromBoard(board.New(), core.ColorWhite)
	for _, name := range []string{"zeta", "alpha", "mid_game"} {
		if _, err := SaveFile(dir, name, doc); err != nil {
			t.Fatalf("SaveFile(%s): %v", name, err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	names, err := List(dir)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"alpha", "mid_game", "zeta"}, names); diff != "" {
		t.Errorf("List mismatch (-want +got):\n%s", diff)
	}

	path, err := Resolve(dir, "2")
	if err != nil || filepath.Base(path) != "mid_game.json" {
		t.Errorf("Resolve(2) = %s, %v", path, err)
	}
	path, err = Resolve(dir, "zeta")
	if err != nil || filepath.Base(path) != "zeta.json" {
		t.Errorf("Resolve(zeta) = %s, %v", path, err)
	}
	if _, err := Resolve(dir, "4"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Resolve(4) err = %v", err)
	}
	if _, err := Resolve(dir, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Resolve(missing) err = %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if diff := cmp.Diff(doc, loaded); diff != "" {
		t.Errorf("loaded document mismatch (-want +got):\n%s", diff)
	}

	if _, err := SaveFile(dir, "../escape", doc); err == nil {
		t.Errorf("SaveFile accepted a path name")
	}
	if _, err := LoadFile(filepath.Join(dir, "nope.json")); !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadFile missing err = %v", err)
	}
}
