package model

import (
	"fmt"

	"github.com/notnil/chess"
)

var fromChessType = map[chess.PieceType]PieceType{
	chess.King:   King,
	chess.Queen:  Queen,
	chess.Rook:   Rook,
	chess.Bishop: Bishop,
	chess.Knight: Knight,
	chess.Pawn:   Pawn,
}

var chessPieces = map[Slot]chess.Piece{
	{Type: King, Color: White}:   chess.WhiteKing,
	{Type: Queen, Color: White}:  chess.WhiteQueen,
	{Type: Rook, Color: White}:   chess.WhiteRook,
	{Type: Bishop, Color: White}: chess.WhiteBishop,
	{Type: Knight, Color: White}: chess.WhiteKnight,
	{Type: Pawn, Color: White}:   chess.WhitePawn,
	{Type: King, Color: Black}:   chess.BlackKing,
	{Type: Queen, Color: Black}:  chess.BlackQueen,
	{Type: Rook, Color: Black}:   chess.BlackRook,
	{Type: Bishop, Color: Black}: chess.BlackBishop,
	{Type: Knight, Color: Black}: chess.BlackKnight,
	{Type: Pawn, Color: Black}:   chess.BlackPawn,
}

// chessSquare maps a grid square onto the library's a1..h8 numbering. Row 0
// is rank 8.
func chessSquare(sq Square) chess.Square {
	return chess.NewSquare(chess.File(sq.Col), chess.Rank(7-sq.Row))
}

// ParseFEN reads the piece placement and side to move of a FEN record.
// Castling rights, en passant target and move counters are accepted but
// ignored.
func ParseFEN(fen string) (Board, Color, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return Board{}, NoColor, fmt.Errorf("%w: %v", ErrInvalidFEN, err)
	}
	pos := chess.NewGame(opt).Position()
	cb := pos.Board()

	var b Board
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			sq := Square{Row: row, Col: col}
			piece := cb.Piece(chessSquare(sq))
			if piece == chess.NoPiece {
				continue
			}
			b[row][col] = Slot{Type: fromChessType[piece.Type()], Color: fromChessColor(piece.Color())}
		}
	}
	return b, fromChessColor(pos.Turn()), nil
}

// FEN renders b with turn to move. Castling and en passant fields are always
// "-" since the engine tracks neither.
func (b Board) FEN(turn Color) string {
	pieces := make(map[chess.Square]chess.Piece)
	for _, c := range []Color{White, Black} {
		for _, p := range b.PiecesOf(c) {
			pieces[chessSquare(p.Square)] = chessPieces[p.Slot]
		}
	}
	side := "w"
	if turn == Black {
		side = "b"
	}
	return fmt.Sprintf("%s %s - - 0 1", chess.NewBoard(pieces).String(), side)
}

func fromChessColor(c chess.Color) Color {
	switch c {
	case chess.White:
		return White
	case chess.Black:
		return Black
	}
	return NoColor
}

