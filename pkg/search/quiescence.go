package search

import (
	"github.com/kestrel-engine/kestrel/pkg/board"
	"github.com/kestrel-engine/kestrel/pkg/eval"
)

// quiescence extends search along capturing lines (and queen promotions)
// past the nominal search horizon, to avoid misjudging positions where a
// capture is pending. It never probes or stores to the transposition table
// and carries no principal variation: its only job is a stable static
// evaluation.
func (r *runner) quiescence(pool *board.Pool, s *board.BoardState, ply int, alpha, beta eval.Score) eval.Score {
	r.nodes++
	if r.shouldStop() {
		return 0
	}

	if s.Status.IsTerminal() {
		return eval.Evaluate(s, ply)
	}

	standPat := eval.Evaluate(s, ply)
	if standPat >= beta {
		return beta
	}
	alpha = eval.Max(alpha, standPat)

	count := board.Generate(pool, s, ply, board.All)
	if count == 0 {
		// Generate has classified s.Status by now: re-evaluate to pick up
		// checkmate/stalemate.
		return eval.Evaluate(s, ply)
	}
	orderChildren(pool, ply, count, board.Move{})

	for i := 0; i < count; i++ {
		child := pool.At(ply, i)
		if !child.LastMove.Kind.IsCapture() && child.LastMove.Kind != board.PromoteQueen {
			continue // quiescence only chases captures and queen promotions
		}

		score := -r.quiescence(pool, child, ply+1, -beta, -alpha)
		if score >= beta {
			return beta
		}
		alpha = eval.Max(alpha, score)
	}
	return alpha
}
