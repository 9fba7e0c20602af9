package model

// SafeMoves is LegalMoves minus the moves that leave turn's own king in
// check. It is a filter on top of the pseudo-legal generator; the generator
// itself stays unchanged.
func SafeMoves(b Board, origin Square, kind PieceType, turn Color) ([]Move, error) {
	moves, err := LegalMoves(b, origin, kind, turn)
	if err != nil {
		return nil, err
	}
	return filterSafe(moves, turn), nil
}

// AllSafeMoves is AllMoves with the same filter applied.
func AllSafeMoves(b Board, turn Color) []Move {
	return filterSafe(AllMoves(b, turn), turn)
}

func filterSafe(moves []Move, turn Color) []Move {
	safe := make([]Move, 0, len(moves))
	for _, move := range moves {
		if !IsInCheck(move.Apply(), turn) {
			safe = append(safe, move)
		}
	}
	return safe
}

// FindMove returns the candidate going from -> to, if any.
func FindMove(moves []Move, from, to Square) (Move, bool) {
	for _, move := range moves {
		if move.From == from && move.To == to {
			return move, true
		}
	}
	return Move{}, false
}
