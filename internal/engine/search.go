package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"

	"github.com/benbeisheim/chess-ai-backend/internal/model"
	"github.com/gofiber/fiber/v2/log"
	"golang.org/x/sync/errgroup"
)

var ErrInvalidDepth = errors.New("search depth must be at least 1")

// DefaultBranchCap is how many root candidates survive move ordering.
const DefaultBranchCap = 50

type Options struct {
	// BranchCap bounds the root candidates searched after ordering. Moves
	// ranked below it are never searched. Zero means DefaultBranchCap.
	BranchCap int
	// Rand perturbs move ordering. Nil makes ordering deterministic.
	Rand *rand.Rand
	// Workers is the number of root candidates searched at once. Zero means 1.
	Workers int
	// SafeRoot drops root candidates that leave the mover in check. Inner
	// nodes stay pseudo-legal.
	SafeRoot bool
}

type Searcher struct {
	opts Options
	// guards opts.Rand, which is not safe for concurrent use
	mu sync.Mutex
}

func NewSearcher(opts Options) *Searcher {
	if opts.BranchCap <= 0 {
		opts.BranchCap = DefaultBranchCap
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return &Searcher{opts: opts}
}

type scoredMove struct {
	move  model.Move
	score float64
}

// BestMove searches depth plies for turn and returns the best root move.
// Root moves are ordered by Heuristic, cut to BranchCap, and each is scored
// by Minimax from the opponent's side with a full window. White keeps the
// highest score, Black the lowest. A side with no move at all gets
// model.ErrNoMoves.
func (s *Searcher) BestMove(ctx context.Context, b model.Board, turn model.Color, depth int) (model.Move, error) {
	if depth < 1 {
		return model.Move{}, fmt.Errorf("%w: got %d", ErrInvalidDepth, depth)
	}
	var moves []model.Move
	if s.opts.SafeRoot {
		moves = model.AllSafeMoves(b, turn)
	} else {
		moves = model.AllMoves(b, turn)
	}
	if len(moves) == 0 {
		return model.Move{}, fmt.Errorf("%w for %s", model.ErrNoMoves, turn)
	}

	candidates := s.order(moves, turn)
	if len(candidates) > s.opts.BranchCap {
		candidates = candidates[:s.opts.BranchCap]
	}

	// after turn moves, the opponent is to move; maximizing means white
	maximizing := turn.Opponent() == model.White
	scores := make([]float64, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)
	for i, c := range candidates {
		i, c := i, c
		g.Go(func() error {
			score, err := Minimax(gctx, c.move.Apply(), depth-1, math.Inf(-1), math.Inf(1), maximizing)
			scores[i] = score
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return model.Move{}, err
	}

	best := 0
	for i := 1; i < len(scores); i++ {
		if (turn == model.White && scores[i] > scores[best]) || (turn == model.Black && scores[i] < scores[best]) {
			best = i
		}
	}
	log.Debugw("engine: best move",
		"turn", turn,
		"depth", depth,
		"generated", len(moves),
		"searched", len(candidates),
		"from", candidates[best].move.From.String(),
		"to", candidates[best].move.To.String(),
		"score", scores[best])
	return candidates[best].move, nil
}

// order scores every move once and sorts highest first. Equal scores keep
// generation order.
func (s *Searcher) order(moves []model.Move, turn model.Color) []scoredMove {
	s.mu.Lock()
	scored := make([]scoredMove, len(moves))
	for i, m := range moves {
		scored[i] = scoredMove{move: m, score: Heuristic(m, turn, s.opts.Rand)}
	}
	s.mu.Unlock()

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	return scored
}

// Minimax is depth-limited minimax with alpha-beta pruning. The maximizing
// side is always white. At depth 0, or when the side to move has no
// pseudo-legal move, the board's static evaluation is returned. Siblings are
// pruned once beta <= alpha. A cancelled ctx aborts the search with ctx.Err().
func Minimax(ctx context.Context, b model.Board, depth int, alpha, beta float64, maximizing bool) (float64, error) {
	if depth == 0 {
		return EvaluateBoard(b), nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	side := model.Black
	if maximizing {
		side = model.White
	}
	moves := model.AllMoves(b, side)
	if len(moves) == 0 {
		return EvaluateBoard(b), nil
	}

	best := math.Inf(1)
	if maximizing {
		best = math.Inf(-1)
	}
	for _, m := range moves {
		score, err := Minimax(ctx, m.Apply(), depth-1, alpha, beta, !maximizing)
		if err != nil {
			return 0, err
		}
		if maximizing {
			best = math.Max(best, score)
			alpha = math.Max(alpha, score)
		} else {
			best = math.Min(best, score)
			beta = math.Min(beta, score)
		}
		if beta <= alpha {
			break
		}
	}
	return best, nil
}
