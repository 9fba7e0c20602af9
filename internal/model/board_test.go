package model_test

import (
	"testing"

	"github.com/benbeisheim/chess-ai-backend/internal/model"
	"github.com/benbeisheim/chess-ai-backend/internal/testutil"
)

func TestNewBoardLayout(t *testing.T) {
	b := model.NewBoard()

	tests := []struct {
		sq   model.Square
		want model.Slot
	}{
		{model.Square{Row: 0, Col: 0}, model.Slot{Type: model.Rook, Color: model.Black}},
		{model.Square{Row: 0, Col: 3}, model.Slot{Type: model.Queen, Color: model.Black}},
		{model.Square{Row: 0, Col: 4}, model.Slot{Type: model.King, Color: model.Black}},
		{model.Square{Row: 1, Col: 5}, model.Slot{Type: model.Pawn, Color: model.Black}},
		{model.Square{Row: 4, Col: 4}, model.Slot{}},
		{model.Square{Row: 6, Col: 2}, model.Slot{Type: model.Pawn, Color: model.White}},
		{model.Square{Row: 7, Col: 1}, model.Slot{Type: model.Knight, Color: model.White}},
		{model.Square{Row: 7, Col: 4}, model.Slot{Type: model.King, Color: model.White}},
	}
	for _, tt := range tests {
		got, err := b.PieceAt(tt.sq)
		testutil.AssertNoError(t, err)
		testutil.AssertEqual(t, got, tt.want, "square %s", tt.sq)
	}
}

func TestPieceAtRejectsOutOfRange(t *testing.T) {
	b := model.NewBoard()
	for _, sq := range []model.Square{{Row: -1, Col: 0}, {Row: 8, Col: 0}, {Row: 0, Col: -1}, {Row: 0, Col: 8}} {
		_, err := b.PieceAt(sq)
		testutil.AssertErrorIs(t, err, model.ErrOutOfRange)
	}
}

func TestSlotEmptyInvariant(t *testing.T) {
	b := model.NewBoard()
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			slot := b[row][col]
			if (slot.Type == model.NoPiece) != (slot.Color == model.NoColor) {
				t.Fatalf("slot (%d,%d) is half empty: %+v", row, col, slot)
			}
		}
	}

	// a slot without a color is stored as empty
	cleared := b.With(model.Square{Row: 0, Col: 0}, model.Slot{Type: model.Rook})
	testutil.AssertEqual(t, cleared[0][0], model.Slot{})
}

func TestFindKing(t *testing.T) {
	b := model.NewBoard()

	sq, ok := b.FindKing(model.White)
	if !ok {
		t.Fatal("white king not found")
	}
	testutil.AssertEqual(t, sq, model.Square{Row: 7, Col: 4})

	sq, ok = b.FindKing(model.Black)
	if !ok {
		t.Fatal("black king not found")
	}
	testutil.AssertEqual(t, sq, model.Square{Row: 0, Col: 4})

	if _, ok := model.EmptyBoard().FindKing(model.White); ok {
		t.Error("found a king on an empty board")
	}
}

func TestPiecesOfIsRowMajor(t *testing.T) {
	b := model.NewBoard()

	white := b.PiecesOf(model.White)
	if len(white) != 16 {
		t.Fatalf("expected 16 white pieces, got %d", len(white))
	}
	testutil.AssertEqual(t, white[0], model.Placed{
		Square: model.Square{Row: 6, Col: 0},
		Slot:   model.Slot{Type: model.Pawn, Color: model.White},
	})
	testutil.AssertEqual(t, white[15].Square, model.Square{Row: 7, Col: 7})

	black := b.PiecesOf(model.Black)
	testutil.AssertEqual(t, black[0].Slot, model.Slot{Type: model.Rook, Color: model.Black})
	for i := 1; i < len(black); i++ {
		prev, cur := black[i-1].Square, black[i].Square
		if prev.Row > cur.Row || (prev.Row == cur.Row && prev.Col >= cur.Col) {
			t.Fatalf("pieces out of order at %d: %s then %s", i, prev, cur)
		}
	}

	if got := model.EmptyBoard().PiecesOf(model.White); len(got) != 0 {
		t.Errorf("expected no pieces, got %d", len(got))
	}
}

func TestApplyPromotion(t *testing.T) {
	whitePawn := model.Slot{Type: model.Pawn, Color: model.White}
	blackPawn := model.Slot{Type: model.Pawn, Color: model.Black}

	tests := []struct {
		name  string
		at    model.Square
		slot  model.Slot
		mover model.Color
		want  model.Slot
	}{
		{"white pawn on row 0", model.Square{Row: 0, Col: 3}, whitePawn, model.White, model.Slot{Type: model.Queen, Color: model.White}},
		{"black pawn on row 7", model.Square{Row: 7, Col: 2}, blackPawn, model.Black, model.Slot{Type: model.Queen, Color: model.Black}},
		{"white pawn short of the rank", model.Square{Row: 1, Col: 3}, whitePawn, model.White, whitePawn},
		{"black pawn on its own back rank", model.Square{Row: 0, Col: 3}, blackPawn, model.Black, blackPawn},
		{"rook on the far rank", model.Square{Row: 0, Col: 0}, model.Slot{Type: model.Rook, Color: model.White}, model.White, model.Slot{Type: model.Rook, Color: model.White}},
		{"wrong mover", model.Square{Row: 0, Col: 3}, whitePawn, model.Black, whitePawn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := model.EmptyBoard().With(tt.at, tt.slot)
			after := model.ApplyPromotion(before, tt.at, tt.mover)

			testutil.AssertEqual(t, after[tt.at.Row][tt.at.Col], tt.want)
			testutil.AssertEqual(t, before[tt.at.Row][tt.at.Col], tt.slot, "input board must not change")
		})
	}
}

func TestPieceValues(t *testing.T) {
	want := map[model.PieceType]float64{
		model.Pawn:    1,
		model.Knight:  3,
		model.Bishop:  3,
		model.Rook:    5,
		model.Queen:   9,
		model.King:    100,
		model.NoPiece: 0,
	}
	for piece, value := range want {
		if got := piece.Value(); got != value {
			t.Errorf("%q: got %v want %v", piece, got, value)
		}
	}
}
