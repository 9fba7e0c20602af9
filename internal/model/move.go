package model

type MoveKind int

const (
	MoveNormal MoveKind = iota
	MoveCastle
	MovePromotion
)

func (k MoveKind) String() string {
	switch k {
	case MoveCastle:
		return "castle"
	case MovePromotion:
		return "promotion"
	}
	return "normal"
}

func (k MoveKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Move is a candidate transition. It points at a snapshot of the board it
// was generated from; the snapshot is never written, and Apply copies it
// before mutating, so Apply can be called any number of times without
// touching anyone else's board.
//
// For a castle, To is the rook's original square; Apply moves both pieces.
// A promotion move only relocates the pawn, ApplyPromotion finishes it.
type Move struct {
	From Square   `json:"from"`
	To   Square   `json:"to"`
	Kind MoveKind `json:"kind"`

	board *Board
}

// Apply returns the board that results from playing m.
func (m Move) Apply() Board {
	b := *m.board
	switch m.Kind {
	case MoveCastle:
		king := b.at(m.From)
		rook := b.at(m.To)
		row := m.From.Row
		b[row][m.To.Col] = Slot{}
		b[row][kingOriginCol] = Slot{}
		if m.To.Col == kingsideRookCol {
			b[row][6] = king
			b[row][5] = rook
		} else {
			b[row][2] = king
			b[row][3] = rook
		}
	default:
		b[m.To.Row][m.To.Col] = b.at(m.From)
		b[m.From.Row][m.From.Col] = Slot{}
	}
	return b
}

// Mover returns the piece standing on From before the move.
func (m Move) Mover() Slot {
	return m.board.at(m.From)
}

// Captured returns the piece on To before the move, if any. Castles never
// capture.
func (m Move) Captured() Slot {
	if m.Kind == MoveCastle {
		return Slot{}
	}
	return m.board.at(m.To)
}

// SimpleMove is the wire form of a move request.
type SimpleMove struct {
	From Square `json:"from"`
	To   Square `json:"to"`
}

func (m Move) Simple() SimpleMove {
	return SimpleMove{From: m.From, To: m.To}
}
