package model

// IsInCheck reports whether any piece of c's opponent has a pseudo-legal move
// onto c's king. A board without that king is never in check.
func IsInCheck(b Board, c Color) bool {
	king, ok := b.FindKing(c)
	if !ok {
		return false
	}
	return IsSquareAttacked(b, king, c.Opponent())
}

// IsSquareAttacked reports whether a pseudo-legal move of attacker lands on sq.
func IsSquareAttacked(b Board, sq Square, attacker Color) bool {
	return countAttacks(&b, sq, attacker) > 0
}

// countAttacks counts the pseudo-legal moves of attacker that land on sq.
func countAttacks(b *Board, sq Square, attacker Color) int {
	count := 0
	for _, p := range b.PiecesOf(attacker) {
		for _, move := range pieceMoves(b, p.Square, p.Slot.Type, attacker) {
			if move.Kind != MoveCastle && move.To == sq {
				count++
			}
		}
	}
	return count
}

// KingAttackCount is the number of pseudo-legal moves of c's opponent that
// land on c's king. Zero when c has no king.
func KingAttackCount(b Board, c Color) int {
	king, ok := b.FindKing(c)
	if !ok {
		return 0
	}
	return countAttacks(&b, king, c.Opponent())
}

// IsInCheckmate reports whether c is in check and every pseudo-legal move of
// every piece of c still leaves c in check. A side that is not in check is
// never mated, even when it has no way to move.
func IsInCheckmate(b Board, c Color) bool {
	if !IsInCheck(b, c) {
		return false
	}
	return !HasEscape(b, c)
}

// HasEscape reports whether c has at least one pseudo-legal move after which
// c is not in check. It stops at the first such move.
func HasEscape(b Board, c Color) bool {
	for _, p := range b.PiecesOf(c) {
		for _, move := range pieceMoves(&b, p.Square, p.Slot.Type, c) {
			if !IsInCheck(move.Apply(), c) {
				return true
			}
		}
	}
	return false
}
