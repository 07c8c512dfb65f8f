package game

import (
	"context"
	"errors"
	"testing"

	"chessrules/internal/board"
	"chessrules/internal/core"
	"chessrules/internal/parser"

	"github.com/google/go-cmp/cmp"
)

func newTestGame() *Game {
	return New(core.NewPlayer(core.ColorWhite), core.NewPlayer(core.ColorBlack))
}

func play(t *testing.T, g *Game, move string) *MoveResult {
	t.Helper()
	from, to, err := parser.ParseMove(move)
	if err != nil {
		t.Fatalf("ParseMove(%q): %v", move, err)
	}
	res, err := g.Move(from, to)
	if err != nil {
		t.Fatalf("Move(%s): %v", move, err)
	}
	return res
}

func TestTurnsAlternate(t *testing.T) {
	g := newTestGame()

	if res := play(t, g, "e2 e4"); res.Outcome != board.OutcomeOK {
		t.Fatalf("e2e4 outcome = %s", res.Outcome)
	}
	if g.NextTurnColor() != core.ColorBlack {
		t.Errorf("turn = %s, want black", g.NextTurnColor().Name())
	}
	if got, want := g.CurrentSnapshot().PlayerID, g.Player(core.ColorBlack).ID; got != want {
		t.Errorf("snapshot player = %s, want %s", got, want)
	}

	// White may not move twice
	if res := play(t, g, "d2 d4"); res.Outcome != board.OutcomeIllegal {
		t.Errorf("second white move outcome = %s, want illegal", res.Outcome)
	}
	// Black may not move a white piece
	if res := play(t, g, "e4 e5"); res.Outcome != board.OutcomeIllegal {
		t.Errorf("moving from e4 as black = %s, want illegal", res.Outcome)
	}

	if diff := cmp.Diff([]string{"e2e4"}, g.Moves()); diff != "" {
		t.Errorf("moves mismatch (-want +got):\n%s", diff)
	}
}

func TestRejectedMoveKeepsTurn(t *testing.T) {
	g := newTestGame()

	res := play(t, g, "a1 a3")
	if res.Outcome != board.OutcomeBlocked {
		t.Fatalf("a1a3 outcome = %s, want blocked", res.Outcome)
	}
	if g.NextTurnColor() != core.ColorWhite || len(g.Moves()) != 0 {
		t.Errorf("rejected move changed the session")
	}
	if g.LastResult() != nil {
		t.Errorf("rejected move recorded as last result")
	}
}

func TestCurrentBoardIsACopy(t *testing.T) {
	g := newTestGame()
	b := g.CurrentBoard()
	b.Remove(board.Sq(7, 4))

	if g.CurrentBoard().At(board.Sq(7, 4)).Kind != board.King {
		t.Errorf("mutating CurrentBoard changed the game")
	}
}

func TestFoolsMate(t *testing.T) {
	g := newTestGame()
	for _, m := range []string{"f2 f3", "e7 e5", "g2 g4"} {
		play(t, g, m)
	}

	res := play(t, g, "d8 h4")
	if !res.Check || res.GameState != core.StateBlackWins {
		t.Fatalf("d8h4 = %+v, want check and black wins", res)
	}
	if g.State() != core.StateBlackWins {
		t.Errorf("state = %s", g.State())
	}

	from, to, _ := parser.ParseMove("a2 a3")
	if _, err := g.Move(from, to); !errors.Is(err, ErrGameOver) {
		t.Errorf("move after mate err = %v, want ErrGameOver", err)
	}

	if err := g.UndoMoves(1); err != nil {
		t.Fatalf("UndoMoves: %v", err)
	}
	if g.State() != core.StateOngoing || g.NextTurnColor() != core.ColorBlack {
		t.Errorf("after undo: state %s turn %s", g.State(), g.NextTurnColor().Name())
	}
}

func TestCheckReported(t *testing.T) {
	g := newTestGame()
	for _, m := range []string{"e2 e4", "f7 f6"} {
		play(t, g, m)
	}
	res := play(t, g, "d1 h5")
	if !res.Check || res.GameState != core.StateOngoing {
		t.Errorf("d1h5 = %+v, want check with game ongoing", res)
	}
}

func TestStalemateEndsGame(t *testing.T) {
	b := board.NewEmpty()
	b.Place(board.Sq(0, 0), board.NewPiece(board.King, core.ColorBlack))
	b.Place(board.Sq(3, 1), board.NewPiece(board.Queen, core.ColorWhite))
	b.Place(board.Sq(7, 7), board.NewPiece(board.King, core.ColorWhite))

	g, err := Restore(b, core.ColorWhite, core.NewPlayer(core.ColorWhite), core.NewPlayer(core.ColorBlack))
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}

	res := play(t, g, "b5 b6")
	if res.Check || res.GameState != core.StateStalemate {
		t.Errorf("b5b6 = %+v, want stalemate", res)
	}
}

func TestRestore(t *testing.T) {
	white := func(k board.PieceKind) board.Piece { return board.NewPiece(k, core.ColorWhite) }
	black := func(k board.PieceKind) board.Piece { return board.NewPiece(k, core.ColorBlack) }

	tests := []struct {
		name    string
		pieces  map[board.Square]board.Piece
		turn    core.Color
		want    core.State
		wantErr bool
	}{
		{
			name:   "ongoing",
			pieces: map[board.Square]board.Piece{board.Sq(7, 4): white(board.King), board.Sq(0, 4): black(board.King)},
			turn:   core.ColorBlack,
			want:   core.StateOngoing,
		},
		{
			name:    "missing king",
			pieces:  map[board.Square]board.Piece{board.Sq(7, 4): white(board.King)},
			turn:    core.ColorWhite,
			wantErr: true,
		},
		{
			name: "two white kings",
			pieces: map[board.Square]board.Piece{
				board.Sq(7, 4): white(board.King), board.Sq(7, 0): white(board.King), board.Sq(0, 4): black(board.King),
			},
			turn:    core.ColorWhite,
			wantErr: true,
		},
		{
			name: "side not to move in check",
			pieces: map[board.Square]board.Piece{
				board.Sq(7, 4): white(board.King), board.Sq(0, 4): black(board.King), board.Sq(4, 4): white(board.Rook),
			},
			turn:    core.ColorWhite,
			wantErr: true,
		},
		{
			name:    "no side to move",
			pieces:  map[board.Square]board.Piece{board.Sq(7, 4): white(board.King), board.Sq(0, 4): black(board.King)},
			wantErr: true,
		},
		{
			name: "already mated",
			pieces: map[board.Square]board.Piece{
				board.Sq(7, 0): white(board.King), board.Sq(6, 0): black(board.Rook), board.Sq(6, 1): black(board.Rook), board.Sq(0, 7): black(board.King),
			},
			turn: core.ColorWhite,
			want: core.StateBlackWins,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b := board.NewEmpty()
			for s, p := range tt.pieces {
				b.Place(s, p)
			}

			g, err := Restore(b, tt.turn, core.NewPlayer(core.ColorWhite), core.NewPlayer(core.ColorBlack))
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPosition) {
					t.Fatalf("err = %v, want ErrInvalidPosition", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Restore: %v", err)
			}
			if g.State() != tt.want {
				t.Errorf("state = %s, want %s", g.State(), tt.want)
			}
			if g.NextTurnColor() != tt.turn {
				t.Errorf("turn = %s, want %s", g.NextTurnColor().Name(), tt.turn.Name())
			}
		})
	}
}

func TestUndoMoves(t *testing.T) {
	g := newTestGame()
	start := g.CurrentBoard()
	for _, m := range []string{"e2 e4", "e7 e5", "g1 f3"} {
		play(t, g, m)
	}

	if err := g.UndoMoves(0); err == nil {
		t.Errorf("UndoMoves(0) succeeded")
	}
	if err := g.UndoMoves(4); err == nil {
		t.Errorf("UndoMoves(4) with 3 moves succeeded")
	}
	if err := g.UndoMoves(3); err != nil {
		t.Fatalf("UndoMoves(3): %v", err)
	}

	if diff := cmp.Diff(start.ToASCII(), g.CurrentBoard().ToASCII()); diff != "" {
		t.Errorf("board after full undo (-want +got):\n%s", diff)
	}
	if len(g.Moves()) != 0 || g.NextTurnColor() != core.ColorWhite {
		t.Errorf("history not rewound: %v", g.Moves())
	}
}

func TestUndoRestoresEnPassantWindow(t *testing.T) {
	g := newTestGame()
	for _, m := range []string{"e2 e4", "a7 a6", "e4 e5", "d7 d5", "h2 h3"} {
		play(t, g, m)
	}
	if err := g.UndoMoves(1); err != nil {
		t.Fatalf("UndoMoves: %v", err)
	}

	if res := play(t, g, "e5 d6"); res.Outcome != board.OutcomeCapture {
		t.Errorf("en passant after undo = %s, want capture", res.Outcome)
	}
}

func TestMoveContextCancelledLeavesGame(t *testing.T) {
	g := newTestGame()
	for _, m := range []string{"e2 e4", "f7 f6"} {
		play(t, g, m)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	from, to, _ := parser.ParseMove("d1 h5")
	if _, err := g.MoveContext(ctx, from, to); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if len(g.Moves()) != 2 || g.NextTurnColor() != core.ColorWhite {
		t.Errorf("cancelled move was recorded: %v", g.Moves())
	}
}
