package board

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCastling(t *testing.T) {
	tests := []struct {
		name     string
		pieces   map[string]Piece
		rights   CastlingRights
		from, to string
		want     Outcome
		king     string // expected king square on success
		rook     string // expected rook square on success
	}{
		{
			name:   "white kingside",
			pieces: map[string]Piece{"e1": white(King), "h1": white(Rook), "e8": black(King)},
			from:   "e1", to: "g1",
			want: OutcomeOK, king: "g1", rook: "f1",
		},
		{
			name:   "white queenside",
			pieces: map[string]Piece{"e1": white(King), "a1": white(Rook), "e8": black(King)},
			from:   "e1", to: "c1",
			want: OutcomeOK, king: "c1", rook: "d1",
		},
		{
			name:   "black kingside",
			pieces: map[string]Piece{"e8": black(King), "h8": black(Rook), "e1": white(King)},
			from:   "e8", to: "g8",
			want: OutcomeOK, king: "g8", rook: "f8",
		},
		{
			name:   "black queenside",
			pieces: map[string]Piece{"e8": black(King), "a8": black(Rook), "e1": white(King)},
			from:   "e8", to: "c8",
			want: OutcomeOK, king: "c8", rook: "d8",
		},
		{
			name:   "king has moved",
			pieces: map[string]Piece{"e1": white(King), "h1": white(Rook), "e8": black(King)},
			rights: CastlingRights{WhiteKingMoved: true},
			from:   "e1", to: "g1",
			want: OutcomeIllegal,
		},
		{
			name:   "kingside rook has moved",
			pieces: map[string]Piece{"e1": white(King), "h1": white(Rook), "e8": black(King)},
			rights: CastlingRights{WhiteRookKingsideMoved: true},
			from:   "e1", to: "g1",
			want: OutcomeIllegal,
		},
		{
			name:   "black queenside rook has moved",
			pieces: map[string]Piece{"e8": black(King), "a8": black(Rook), "e1": white(King)},
			rights: CastlingRights{BlackRookQueensideMoved: true},
			from:   "e8", to: "c8",
			want: OutcomeIllegal,
		},
		{
			name:   "piece between king and rook",
			pieces: map[string]Piece{"e1": white(King), "h1": white(Rook), "f1": white(Bishop), "e8": black(King)},
			from:   "e1", to: "g1",
			want: OutcomeIllegal,
		},
		{
			name:   "queenside knight still home",
			pieces: map[string]Piece{"e1": white(King), "a1": white(Rook), "b1": white(Knight), "e8": black(King)},
			from:   "e1", to: "c1",
			want: OutcomeIllegal,
		},
		{
			name:   "transit square attacked",
			pieces: map[string]Piece{"e1": white(King), "h1": white(Rook), "f2": black(Rook), "e8": black(King)},
			from:   "e1", to: "g1",
			want: OutcomeIllegal,
		},
		{
			name:   "queenside transit square attacked",
			pieces: map[string]Piece{"e1": white(King), "a1": white(Rook), "d2": black(Rook), "e8": black(King)},
			from:   "e1", to: "c1",
			want: OutcomeIllegal,
		},
		{
			name:   "destination attacked",
			pieces: map[string]Piece{"e1": white(King), "h1": white(Rook), "g4": black(Rook), "e8": black(King)},
			from:   "e1", to: "g1",
			want: OutcomeIllegal,
		},
		{
			name:   "king in check",
			pieces: map[string]Piece{"e8": black(King), "h8": black(Rook), "e2": white(Rook), "e1": white(King)},
			from:   "e8", to: "g8",
			want: OutcomeIllegal,
		},
		{
			name:   "b-file attack does not stop queenside castling",
			pieces: map[string]Piece{"e1": white(King), "a1": white(Rook), "b5": black(Rook), "e8": black(King)},
			from:   "e1", to: "c1",
			want: OutcomeOK, king: "c1", rook: "d1",
		},
		{
			name:   "rook missing",
			pieces: map[string]Piece{"e1": white(King), "e8": black(King)},
			from:   "e1", to: "g1",
			want: OutcomeIllegal,
		},
		{
			name:   "king off its home square",
			pieces: map[string]Piece{"d1": white(King), "h1": white(Rook), "e8": black(King)},
			from:   "d1", to: "f1",
			want: OutcomeIllegal,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b := position(t, tt.pieces)
			b.SetCastling(tt.rights)
			before := *b

			got := b.Move(sq(tt.from), sq(tt.to))
			if got != tt.want {
				t.Fatalf("Move(%s, %s) = %s, want %s", tt.from, tt.to, got, tt.want)
			}

			if !got.Applied() {
				if diff := cmp.Diff(before, *b, boardOpts); diff != "" {
					t.Errorf("failed castle changed the board (-before +after):\n%s", diff)
				}
				return
			}

			king := before.At(sq(tt.from))
			if b.At(sq(tt.king)) != king {
				t.Errorf("%s = %v, want %v", tt.king, b.At(sq(tt.king)), king)
			}
			if p := b.At(sq(tt.rook)); p.Kind != Rook || p.Color != king.Color {
				t.Errorf("%s = %v, want rook", tt.rook, p)
			}
			if !b.At(sq(tt.from)).IsEmpty() {
				t.Errorf("%s not vacated", tt.from)
			}
			rights := b.Castling()
			if !rights.KingMoved(king.Color) {
				t.Errorf("king flag not set after castling")
			}
		})
	}
}

func TestCastlingRightsLostAfterKingReturns(t *testing.T) {
	b := position(t, map[string]Piece{"e1": white(King), "h1": white(Rook), "e8": black(King)})

	b.Move(sq("e1"), sq("f1"))
	b.Move(sq("f1"), sq("e1"))

	if got := b.Move(sq("e1"), sq("g1")); got != OutcomeIllegal {
		t.Errorf("castle after king returned = %s, want illegal", got)
	}
}

func TestCastleClearsEnPassantTarget(t *testing.T) {
	b := position(t, map[string]Piece{"e1": white(King), "h1": white(Rook), "e8": black(King), "d5": black(Pawn)})
	b.SetEnPassantTarget(sq("d6"))

	if got := b.Move(sq("e1"), sq("g1")); got != OutcomeOK {
		t.Fatalf("Move(e1, g1) = %s, want ok", got)
	}
	if _, ok := b.EnPassantTarget(); ok {
		t.Errorf("en passant target survived castling")
	}
	rights := b.Castling()
	if !rights.WhiteRookKingsideMoved {
		t.Errorf("rook flag not set after castling")
	}
}
