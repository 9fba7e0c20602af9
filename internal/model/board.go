package model

import "fmt"

type PieceType string

const (
	NoPiece PieceType = ""
	King    PieceType = "king"
	Queen   PieceType = "queen"
	Rook    PieceType = "rook"
	Bishop  PieceType = "bishop"
	Knight  PieceType = "knight"
	Pawn    PieceType = "pawn"
)

// Value is the material weight used by evaluation. Unknown types are worth 0.
func (p PieceType) Value() float64 {
	switch p {
	case Pawn:
		return 1
	case Knight, Bishop:
		return 3
	case Rook:
		return 5
	case Queen:
		return 9
	case King:
		return 100
	}
	return 0
}

type Color string

const (
	NoColor Color = ""
	White   Color = "white"
	Black   Color = "black"
)

func (c Color) Opponent() Color {
	switch c {
	case White:
		return Black
	case Black:
		return White
	}
	return NoColor
}

// ParseColor accepts "white"/"black" and the single letters "w"/"b".
func ParseColor(s string) (Color, bool) {
	switch s {
	case "white", "w":
		return White, true
	case "black", "b":
		return Black, true
	}
	return NoColor, false
}

// Row 0 is Black's home rank, row 7 is White's.
const (
	BlackHomeRow = 0
	WhiteHomeRow = 7
)

// forward is the row delta of a pawn advance.
func (c Color) forward() int {
	if c == White {
		return -1
	}
	return 1
}

// pawnStartRow is the only row a pawn may double-advance from.
func (c Color) pawnStartRow() int {
	if c == White {
		return 6
	}
	return 1
}

// promotionRow is the far rank for c.
func (c Color) promotionRow() int {
	if c == White {
		return BlackHomeRow
	}
	return WhiteHomeRow
}

type Square struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (s Square) Valid() bool {
	return s.Row >= 0 && s.Row < 8 && s.Col >= 0 && s.Col < 8
}

func (s Square) add(d Square) Square {
	return Square{Row: s.Row + d.Row, Col: s.Col + d.Col}
}

func (s Square) String() string {
	return fmt.Sprintf("(%d,%d)", s.Row, s.Col)
}

// Slot is the content of one square. Type and Color are either both set or
// both empty.
type Slot struct {
	Type  PieceType `json:"type"`
	Color Color     `json:"color"`
}

func (s Slot) Empty() bool {
	return s.Type == NoPiece
}

// Placed pairs an occupied square with its content.
type Placed struct {
	Square Square `json:"square"`
	Slot   Slot   `json:"slot"`
}

// Board is an 8x8 row-major grid. It is a value type: assignment copies the
// whole grid, so no two owners ever share one.
type Board [8][8]Slot

func EmptyBoard() Board {
	return Board{}
}

var backRank = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewBoard returns the standard starting position.
func NewBoard() Board {
	var b Board
	for col := 0; col < 8; col++ {
		b[BlackHomeRow][col] = Slot{Type: backRank[col], Color: Black}
		b[1][col] = Slot{Type: Pawn, Color: Black}
		b[6][col] = Slot{Type: Pawn, Color: White}
		b[WhiteHomeRow][col] = Slot{Type: backRank[col], Color: White}
	}
	return b
}

// PieceAt returns the content of sq, rejecting squares off the board.
func (b Board) PieceAt(sq Square) (Slot, error) {
	if !sq.Valid() {
		return Slot{}, fmt.Errorf("%w: %s", ErrOutOfRange, sq)
	}
	return b[sq.Row][sq.Col], nil
}

func (b *Board) at(sq Square) Slot {
	return b[sq.Row][sq.Col]
}

// With returns a copy of b with slot placed on sq. An empty slot clears sq.
func (b Board) With(sq Square, slot Slot) Board {
	if slot.Type == NoPiece || slot.Color == NoColor {
		slot = Slot{}
	}
	b[sq.Row][sq.Col] = slot
	return b
}

// FindKing reports the square of c's king, if there is one.
func (b Board) FindKing(c Color) (Square, bool) {
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			if b[row][col].Type == King && b[row][col].Color == c {
				return Square{Row: row, Col: col}, true
			}
		}
	}
	return Square{}, false
}

// PiecesOf lists every square owned by c in row-major order.
func (b Board) PiecesOf(c Color) []Placed {
	pieces := make([]Placed, 0, 16)
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			if !b[row][col].Empty() && b[row][col].Color == c {
				pieces = append(pieces, Placed{Square: Square{Row: row, Col: col}, Slot: b[row][col]})
			}
		}
	}
	return pieces
}

// ApplyPromotion turns a pawn of colorJustMoved standing on its far rank into
// a queen. The result is a new board; b is left as it was.
func ApplyPromotion(b Board, sq Square, colorJustMoved Color) Board {
	if !sq.Valid() || sq.Row != colorJustMoved.promotionRow() {
		return b
	}
	if slot := b.at(sq); slot.Type == Pawn && slot.Color == colorJustMoved {
		b[sq.Row][sq.Col] = Slot{Type: Queen, Color: colorJustMoved}
	}
	return b
}
