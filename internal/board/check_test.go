package board

import (
	"context"
	"errors"
	"testing"

	"chessrules/internal/core"

	"github.com/google/go-cmp/cmp"
)

func TestIsCheckByEachPiece(t *testing.T) {
	tests := []struct {
		name     string
		attacker map[string]Piece
		want     bool
	}{
		{"pawn", map[string]Piece{"d5": black(Pawn)}, true},
		{"pawn straight ahead", map[string]Piece{"e5": black(Pawn)}, false},
		{"rook", map[string]Piece{"e8": black(Rook)}, true},
		{"rook blocked", map[string]Piece{"e8": black(Rook), "e6": white(Pawn)}, false},
		{"knight", map[string]Piece{"f6": black(Knight)}, true},
		{"bishop", map[string]Piece{"b7": black(Bishop)}, true},
		{"bishop blocked by own piece", map[string]Piece{"b7": black(Bishop), "c6": black(Knight)}, false},
		{"queen", map[string]Piece{"a4": black(Queen)}, true},
		{"own rook", map[string]Piece{"e8": white(Rook)}, false},
		{"nothing", map[string]Piece{}, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			pieces := map[string]Piece{"e4": white(King), "h1": black(King)}
			for k, v := range tt.attacker {
				pieces[k] = v
			}
			b := position(t, pieces)

			if got := b.IsCheck(core.ColorWhite); got != tt.want {
				t.Errorf("IsCheck(white) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsCheckWithoutKingPanics(t *testing.T) {
	b := position(t, map[string]Piece{"e1": white(King)})
	defer func() {
		if recover() == nil {
			t.Errorf("IsCheck without a black king did not panic")
		}
	}()
	b.IsCheck(core.ColorBlack)
}

// mateBoards are shared by the sequential and concurrent search tests
var mateBoards = []struct {
	name   string
	pieces map[string]Piece
	color  core.Color
	mate   bool
}{
	{
		name:   "queen supported by king",
		pieces: map[string]Piece{"h1": white(King), "g2": black(Queen), "g3": black(King)},
		color:  core.ColorWhite,
		mate:   true,
	},
	{
		name:   "two rooks on the second rank",
		pieces: map[string]Piece{"a1": white(King), "a2": black(Rook), "b2": black(Rook), "h8": black(King)},
		color:  core.ColorWhite,
		mate:   true,
	},
	{
		// the king takes the unprotected rook on a2
		name:   "rooks on a2 and b1",
		pieces: map[string]Piece{"a1": white(King), "a2": black(Rook), "b1": black(Rook), "h8": black(King)},
		color:  core.ColorWhite,
		mate:   false,
	},
	{
		name:   "back rank",
		pieces: map[string]Piece{"h1": white(King), "g2": white(Pawn), "h2": white(Pawn), "a1": black(Rook), "h8": black(King)},
		color:  core.ColorWhite,
		mate:   true,
	},
	{
		name:   "back rank with an interposing rook",
		pieces: map[string]Piece{"h1": white(King), "g2": white(Pawn), "h2": white(Pawn), "c2": white(Rook), "a1": black(Rook), "h8": black(King)},
		color:  core.ColorWhite,
		mate:   false,
	},
	{
		name:   "attacker can be captured",
		pieces: map[string]Piece{"h1": white(King), "g2": white(Pawn), "h2": white(Pawn), "a8": white(Rook), "a1": black(Rook), "h8": black(King)},
		color:  core.ColorWhite,
		mate:   false,
	},
	{
		name:   "check with a flight square",
		pieces: map[string]Piece{"e1": white(King), "e8": black(Rook), "h8": black(King)},
		color:  core.ColorWhite,
		mate:   false,
	},
	{
		name:   "not in check",
		pieces: map[string]Piece{"a8": black(King), "b6": white(Queen), "h1": white(King)},
		color:  core.ColorBlack,
		mate:   false,
	},
}

func TestCheckmate(t *testing.T) {
	for _, tt := range mateBoards {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b := position(t, tt.pieces)
			before := *b

			if got := b.Checkmate(tt.color); got != tt.mate {
				t.Errorf("Checkmate(%s) = %v, want %v", tt.color.Name(), got, tt.mate)
			}
			if diff := cmp.Diff(before, *b, boardOpts); diff != "" {
				t.Errorf("Checkmate changed the board (-before +after):\n%s", diff)
			}
		})
	}
}

func TestCheckmateContextAgrees(t *testing.T) {
	for _, tt := range mateBoards {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b := position(t, tt.pieces)

			got, err := b.CheckmateContext(context.Background(), tt.color)
			if err != nil {
				t.Fatalf("CheckmateContext: %v", err)
			}
			if want := b.Checkmate(tt.color); got != want {
				t.Errorf("CheckmateContext = %v, Checkmate = %v", got, want)
			}
		})
	}
}

func TestCheckmateContextCancelled(t *testing.T) {
	b := position(t, map[string]Piece{"e1": white(King), "e8": black(Rook), "h8": black(King)})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := b.CheckmateContext(ctx, core.ColorWhite)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

// The only escape from the pawn check is taking the pawn en passant
func TestCheckmateSeesEnPassantEscape(t *testing.T) {
	pieces := map[string]Piece{
		"a4": white(King), "c5": white(Pawn),
		"b5": black(Pawn), "a6": black(Pawn), "h3": black(Rook), "e1": black(Bishop), "h8": black(King),
	}

	b := position(t, pieces)
	b.SetEnPassantTarget(sq("b6"))
	if b.Checkmate(core.ColorWhite) {
		t.Errorf("Checkmate with en passant available = true")
	}
	if mate, err := b.CheckmateContext(context.Background(), core.ColorWhite); err != nil || mate {
		t.Errorf("CheckmateContext = %v, %v; want false, nil", mate, err)
	}

	b.ClearEnPassantTarget()
	if !b.Checkmate(core.ColorWhite) {
		t.Errorf("Checkmate without en passant = false")
	}
}

func TestScholarsMate(t *testing.T) {
	b := New()
	moves := []struct {
		from, to string
		want     Outcome
	}{
		{"e2", "e4", OutcomeOK},
		{"e7", "e5", OutcomeOK},
		{"f1", "c4", OutcomeOK},
		{"b8", "c6", OutcomeOK},
		{"d1", "h5", OutcomeOK},
		{"g8", "f6", OutcomeOK},
		{"h5", "f7", OutcomeCapture},
	}
	for _, m := range moves {
		if got := b.Move(sq(m.from), sq(m.to)); got != m.want {
			t.Fatalf("Move(%s, %s) = %s, want %s", m.from, m.to, got, m.want)
		}
	}

	if !b.IsCheck(core.ColorBlack) {
		t.Errorf("black not in check")
	}
	if !b.Checkmate(core.ColorBlack) {
		t.Errorf("black not checkmated")
	}
	if b.Checkmate(core.ColorWhite) {
		t.Errorf("white reported checkmated")
	}
}

func TestStalemate(t *testing.T) {
	b := position(t, map[string]Piece{"a8": black(King), "b6": white(Queen), "h1": white(King)})

	if !b.Stalemate(core.ColorBlack) {
		t.Errorf("Stalemate(black) = false")
	}
	if b.HasLegalMove(core.ColorBlack) {
		t.Errorf("HasLegalMove(black) = true")
	}
	if b.Stalemate(core.ColorWhite) {
		t.Errorf("Stalemate(white) = true")
	}
}

func TestStartingPositionHasMoves(t *testing.T) {
	b := New()
	for _, c := range []core.Color{core.ColorWhite, core.ColorBlack} {
		if b.IsCheck(c) || b.Checkmate(c) || b.Stalemate(c) {
			t.Errorf("%s: unexpected check state in starting position", c.Name())
		}
		if !b.HasLegalMove(c) {
			t.Errorf("%s: no legal move in starting position", c.Name())
		}
	}
}
