package engine

import (
	"math/rand"

	"github.com/benbeisheim/chess-ai-backend/internal/model"
)

// EvaluateBoard is the static material count: white pieces add their value,
// black pieces subtract it.
func EvaluateBoard(b model.Board) float64 {
	var score float64
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			slot := b[row][col]
			switch slot.Color {
			case model.White:
				score += slot.Type.Value()
			case model.Black:
				score -= slot.Type.Value()
			}
		}
	}
	return score
}

// Heuristic scores a move for ordering, from the mover's point of view, on
// the board the move produces. With a non-nil rng the score is blended with a
// fresh uniform draw: r*0.1 + (1-r)*score.
func Heuristic(m model.Move, turn model.Color, rng *rand.Rand) float64 {
	b := m.Apply()
	score := materialAdvantage(b, turn) + pawnStructure(b, turn) - kingSafety(b, turn) + centerControl(b, turn)
	if rng == nil {
		return score
	}
	r := rng.Float64()
	return r*0.1 + (1-r)*score
}

func materialAdvantage(b model.Board, turn model.Color) float64 {
	var score float64
	for _, p := range b.PiecesOf(turn) {
		score += p.Slot.Type.Value()
	}
	for _, p := range b.PiecesOf(turn.Opponent()) {
		score -= p.Slot.Type.Value()
	}
	return score
}

// pawnStructure counts own pawn pairs where one pawn stands a file to the
// side and a rank ahead of the other.
func pawnStructure(b model.Board, turn model.Color) float64 {
	forward := 1
	if turn == model.White {
		forward = -1
	}
	var pawns []model.Square
	for _, p := range b.PiecesOf(turn) {
		if p.Slot.Type == model.Pawn {
			pawns = append(pawns, p.Square)
		}
	}
	count := 0
	for _, pawn := range pawns {
		for _, other := range pawns {
			if abs(other.Col-pawn.Col) == 1 && other.Row == pawn.Row+forward {
				count++
			}
		}
	}
	return float64(count)
}

// kingSafety is the number of opponent moves that land on the mover's king.
func kingSafety(b model.Board, turn model.Color) float64 {
	return float64(model.KingAttackCount(b, turn))
}

func centerControl(b model.Board, turn model.Color) float64 {
	count := 0
	for _, p := range b.PiecesOf(turn) {
		if p.Square.Row >= 3 && p.Square.Row <= 4 && p.Square.Col >= 3 && p.Square.Col <= 4 {
			count++
		}
	}
	return float64(count)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
