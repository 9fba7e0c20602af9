// Package testutil provides shared test assertions.
package testutil

import (
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/benbeisheim/chess-ai-backend/internal/model"
	"github.com/google/go-cmp/cmp"
)

// AssertEqual compares got and want using cmp.Diff and reports differences.
func AssertEqual(t *testing.T, got, want interface{}, msgAndArgs ...interface{}) {
	t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		if msg := formatMessage(msgAndArgs...); msg != "" {
			t.Errorf("%s: mismatch (-want +got):\n%s", msg, diff)
		} else {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	}
}

// AssertNoError stops the test if err is not nil.
func AssertNoError(t *testing.T, err error, msgAndArgs ...interface{}) {
	t.Helper()
	if err != nil {
		if msg := formatMessage(msgAndArgs...); msg != "" {
			t.Fatalf("%s: unexpected error: %v", msg, err)
		}
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertErrorIs fails unless errors.Is(err, target).
func AssertErrorIs(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Errorf("expected error %v, got %v", target, err)
	}
}

// Place returns an empty board with the given pieces on it.
func Place(pieces map[model.Square]model.Slot) model.Board {
	b := model.EmptyBoard()
	for sq, slot := range pieces {
		b = b.With(sq, slot)
	}
	return b
}

// MustFEN parses fen or stops the test.
func MustFEN(t *testing.T, fen string) (model.Board, model.Color) {
	t.Helper()
	b, turn, err := model.ParseFEN(fen)
	if err != nil {
		t.Fatalf("parse %q: %v", fen, err)
	}
	return b, turn
}

// Destinations returns the target squares of moves in row-major order.
func Destinations(moves []model.Move) []model.Square {
	out := make([]model.Square, 0, len(moves))
	for _, m := range moves {
		out = append(out, m.To)
	}
	SortSquares(out)
	return out
}

// Simple strips moves down to their from/to pairs, keeping order.
func Simple(moves []model.Move) []model.SimpleMove {
	out := make([]model.SimpleMove, 0, len(moves))
	for _, m := range moves {
		out = append(out, m.Simple())
	}
	return out
}

func SortSquares(squares []model.Square) {
	sort.Slice(squares, func(i, j int) bool {
		if squares[i].Row != squares[j].Row {
			return squares[i].Row < squares[j].Row
		}
		return squares[i].Col < squares[j].Col
	})
}

func formatMessage(msgAndArgs ...interface{}) string {
	if len(msgAndArgs) == 0 {
		return ""
	}
	if len(msgAndArgs) == 1 {
		if s, ok := msgAndArgs[0].(string); ok {
			return s
		}
		return fmt.Sprint(msgAndArgs[0])
	}
	if format, ok := msgAndArgs[0].(string); ok {
		return fmt.Sprintf(format, msgAndArgs[1:]...)
	}
	return fmt.Sprint(msgAndArgs[0:]...)
}
