package model

import "fmt"

const (
	kingOriginCol    = 4
	queensideRookCol = 0
	kingsideRookCol  = 7
)

var (
	rookDirs   = []Square{{Row: 1, Col: 0}, {Row: -1, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: -1}}
	bishopDirs = []Square{{Row: 1, Col: 1}, {Row: 1, Col: -1}, {Row: -1, Col: 1}, {Row: -1, Col: -1}}
	knightDirs = []Square{{Row: 2, Col: 1}, {Row: 2, Col: -1}, {Row: -2, Col: 1}, {Row: -2, Col: -1}, {Row: 1, Col: 2}, {Row: 1, Col: -2}, {Row: -1, Col: 2}, {Row: -1, Col: -2}}
	kingDirs   = []Square{{Row: 1, Col: 0}, {Row: -1, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: -1}, {Row: 1, Col: 1}, {Row: 1, Col: -1}, {Row: -1, Col: 1}, {Row: -1, Col: -1}}
)

// LegalMoves enumerates the pseudo-legal moves of the piece of type kind and
// color turn standing on origin. Moves that leave the mover's own king in
// check are included; see SafeMoves for the filtered set.
func LegalMoves(b Board, origin Square, kind PieceType, turn Color) ([]Move, error) {
	slot, err := b.PieceAt(origin)
	if err != nil {
		return nil, err
	}
	if slot.Empty() {
		return nil, fmt.Errorf("%w: %s", ErrNoPiece, origin)
	}
	if slot.Type != kind || slot.Color != turn {
		return nil, fmt.Errorf("%w: %s holds %s %s, not %s %s", ErrWrongPiece, origin, slot.Color, slot.Type, turn, kind)
	}
	return pieceMoves(&b, origin, kind, turn), nil
}

// AllMoves enumerates the pseudo-legal moves of every piece of turn, in
// row-major order of origin.
func AllMoves(b Board, turn Color) []Move {
	moves := []Move{}
	for _, p := range b.PiecesOf(turn) {
		moves = append(moves, pieceMoves(&b, p.Square, p.Slot.Type, turn)...)
	}
	return moves
}

// pieceMoves expects snap to be a private copy that nobody writes to again;
// the returned moves keep a pointer to it.
func pieceMoves(snap *Board, from Square, kind PieceType, turn Color) []Move {
	switch kind {
	case Pawn:
		return pawnMoves(snap, from, turn)
	case Knight:
		return stepMoves(snap, from, turn, knightDirs)
	case Bishop:
		return rayMoves(snap, from, turn, bishopDirs)
	case Rook:
		return rayMoves(snap, from, turn, rookDirs)
	case Queen:
		return append(rayMoves(snap, from, turn, bishopDirs), rayMoves(snap, from, turn, rookDirs)...)
	case King:
		return append(stepMoves(snap, from, turn, kingDirs), castleMoves(snap, from, turn)...)
	}
	return nil
}

func pawnMoves(b *Board, from Square, turn Color) []Move {
	pawnMoves := []Move{}
	dir := turn.forward()
	one := Square{Row: from.Row + dir, Col: from.Col}
	if !one.Valid() {
		return pawnMoves
	}
	kind := MoveNormal
	if one.Row == turn.promotionRow() {
		kind = MovePromotion
	}
	// Check move forward 1
	if b.at(one).Empty() {
		pawnMoves = append(pawnMoves, Move{From: from, To: one, Kind: kind, board: b})
		// Check move forward 2 from the start rank
		two := Square{Row: from.Row + 2*dir, Col: from.Col}
		if from.Row == turn.pawnStartRow() && b.at(two).Empty() {
			pawnMoves = append(pawnMoves, Move{From: from, To: two, Kind: MoveNormal, board: b})
		}
	}
	// Check captures
	for _, dc := range []int{-1, 1} {
		target := Square{Row: one.Row, Col: from.Col + dc}
		if !target.Valid() {
			continue
		}
		if occupant := b.at(target); !occupant.Empty() && occupant.Color != turn {
			pawnMoves = append(pawnMoves, Move{From: from, To: target, Kind: kind, board: b})
		}
	}
	return pawnMoves
}

func stepMoves(b *Board, from Square, turn Color, dirs []Square) []Move {
	moves := []Move{}
	for _, dir := range dirs {
		target := from.add(dir)
		if target.Valid() && (b.at(target).Empty() || b.at(target).Color != turn) {
			moves = append(moves, Move{From: from, To: target, Kind: MoveNormal, board: b})
		}
	}
	return moves
}

func rayMoves(b *Board, from Square, turn Color, dirs []Square) []Move {
	moves := []Move{}
	for _, dir := range dirs {
		target := from.add(dir)
		for target.Valid() {
			occupant := b.at(target)
			if occupant.Empty() {
				moves = append(moves, Move{From: from, To: target, Kind: MoveNormal, board: b})
			} else {
				if occupant.Color != turn {
					moves = append(moves, Move{From: from, To: target, Kind: MoveNormal, board: b})
				}
				break
			}
			target = target.add(dir)
		}
	}
	return moves
}

// castleMoves offers a castle towards each own rook on the king's row whose
// path is clear. Whether either piece has moved, and whether the king is or
// passes through check, is not considered.
func castleMoves(b *Board, from Square, turn Color) []Move {
	if from.Col != kingOriginCol {
		return nil
	}
	var moves []Move
	for _, rookCol := range []int{kingsideRookCol, queensideRookCol} {
		rookSq := Square{Row: from.Row, Col: rookCol}
		if rook := b.at(rookSq); rook.Type != Rook || rook.Color != turn {
			continue
		}
		if !clearBetween(b, from.Row, from.Col, rookCol) {
			continue
		}
		moves = append(moves, Move{From: from, To: rookSq, Kind: MoveCastle, board: b})
	}
	return moves
}

// clearBetween reports whether every square strictly between columns a and b
// of row is empty.
func clearBetween(board *Board, row, a, b int) bool {
	if a > b {
		a, b = b, a
	}
	for col := a + 1; col < b; col++ {
		if !board[row][col].Empty() {
			return false
		}
	}
	return true
}
