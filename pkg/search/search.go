// Package search implements iterative-deepening negamax alpha-beta search
// over the board package's pool/arena, backed by a transposition table and
// quiescence search at the leaves.
package search

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/kestrel-engine/kestrel/pkg/board"
	"github.com/kestrel-engine/kestrel/pkg/eval"
	"go.uber.org/atomic"
)

// nodeCadence is how often, in visited nodes, the search polls the shared
// stop flag. Checking every node would make the atomic load a bottleneck;
// checking too rarely makes "stop" feel unresponsive.
const nodeCadence = 1024

// fullWindowFloor is the depth below which every child is searched with a
// full window: null-window re-search only pays for itself once there is
// enough tree below a move to make the extra re-search cheaper than a wide
// window on every child.
const fullWindowFloor = 4

// PV is the principal variation found for some iterative-deepening depth.
type PV struct {
	Depth int
	Moves []board.Move
	Score eval.Score
	Nodes uint64
	Time  time.Duration
	Hash  float64 // transposition table utilization [0;1] at the time this PV was produced
}

func (p PV) String() string {
	moves := make([]string, len(p.Moves))
	for i, m := range p.Moves {
		moves[i] = m.String()
	}
	return fmt.Sprintf("depth=%v score=%v nodes=%v time=%v hash=%v%% pv=%v", p.Depth, p.Score, p.Nodes, p.Time, int(100*p.Hash), strings.Join(moves, " "))
}

// Options holds per-search tuning. DepthLimit == 0 means no limit: the
// caller is expected to stop the search via Handle.Halt, typically from a
// deadline set by the engine package.
type Options struct {
	DepthLimit int
}

// Launcher starts iteratively deepening searches from a position.
type Launcher interface {
	// Launch begins searching root in the background and returns a handle to
	// stop it plus a channel of ever-deeper PVs. The channel is closed once
	// the search stops, whether by DepthLimit, mate, or Halt.
	Launch(root *board.BoardState, opt Options) (Handle, <-chan PV)
}

// Handle lets the owner of a search stop it and retrieve its best result so
// far. Halt is idempotent and safe to call before the first depth
// completes; it blocks until at least one PV is available.
type Handle interface {
	Halt() PV
}

// runner holds the mutable state of a single iterative-deepening search: the
// node count, the shared cooperative-cancellation flag, and the board pool
// and transposition table it searches against. A runner is used for exactly
// one Launch call.
type runner struct {
	pool  *board.Pool
	tt    TranspositionTable
	stop  *atomic.Bool
	nodes uint64
}

// shouldStop polls the shared stop flag at nodeCadence, so callers that loop
// over many children still notice a stop promptly without paying for an
// atomic load on every node.
func (r *runner) shouldStop() bool {
	if r.nodes%nodeCadence == 0 {
		return r.stop.Load()
	}
	return false
}

// Iterative is a Launcher implementing iterative deepening: each depth's
// search reuses the prior depth's transposition table entries for move
// ordering, so the tree explored at depth d+1 is explored in a much better
// order than a cold search would be.
type Iterative struct {
	Pool *board.Pool
	TT   TranspositionTable
}

func NewIterative(pool *board.Pool, tt TranspositionTable) *Iterative {
	return &Iterative{Pool: pool, TT: tt}
}

func (it *Iterative) Launch(root *board.BoardState, opt Options) (Handle, <-chan PV) {
	out := make(chan PV, 1)
	h := &handle{
		init: make(chan struct{}),
		stop: atomic.NewBool(false),
	}
	go h.process(it, root, opt, out)

	return h, out
}

type handle struct {
	init        chan struct{}
	initialized atomic.Bool
	done        atomic.Bool
	stop        *atomic.Bool

	pv PV
	mu sync.Mutex
}

func (h *handle) process(it *Iterative, root *board.BoardState, opt Options, out chan PV) {
	defer h.markInitialized()
	defer close(out)

	r := &runner{pool: it.Pool, tt: it.TT, stop: h.stop}

	for depth := 1; !h.done.Load(); depth++ {
		start := time.Now()

		score, pv := r.negamax(root, 0, depth, eval.NegInf, eval.Inf)
		if h.stop.Load() {
			return
		}

		result := PV{Depth: depth, Moves: pv, Score: score, Nodes: r.nodes, Time: time.Since(start), Hash: it.TT.Used()}

		h.mu.Lock()
		h.pv = result
		h.mu.Unlock()

		select {
		case <-out:
		default:
		}
		out <- result

		h.markInitialized()

		if opt.DepthLimit > 0 && depth >= opt.DepthLimit {
			return
		}
		if score.IsMate() && matingDepth(score) <= depth {
			return // found the shortest mate reachable at this depth; deeper search can't improve it.
		}
	}
}

func matingDepth(score eval.Score) int {
	n := score.MateIn()
	if n < 0 {
		n = -n
	}
	return 2*n - 1
}

func (h *handle) Halt() PV {
	<-h.init
	h.done.Store(true)
	h.stop.Store(true)

	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pv
}

func (h *handle) markInitialized() {
	if h.initialized.CAS(false, true) {
		close(h.init)
	}
}

// Search runs a single fixed-depth negamax search against root and returns
// the node count, score, and principal variation. It is the non-iterative
// building block Launch drives repeatedly; exposed directly for tests and
// for callers (such as perft-style analysis) that want one depth without the
// iterative-deepening machinery.
func Search(stop *atomic.Bool, pool *board.Pool, tt TranspositionTable, root *board.BoardState, depth int) (uint64, eval.Score, []board.Move) {
	r := &runner{pool: pool, tt: tt, stop: stop}
	score, pv := r.negamax(root, 0, depth, eval.NegInf, eval.Inf)
	return r.nodes, score, pv
}

// negamax searches root at ply (distance from the search root) to depth
// plies remaining, within [alpha, beta], and returns the score (from the
// side to move's perspective) and its principal variation.
func (r *runner) negamax(s *board.BoardState, ply, depth int, alpha, beta eval.Score) (eval.Score, []board.Move) {
	r.nodes++
	if r.shouldStop() {
		return 0, nil
	}

	if depth <= 0 || s.Status.IsTerminal() {
		return r.quiescence(r.pool, s, ply, alpha, beta), nil
	}

	origAlpha := alpha

	var ttMove board.Move
	if bound, ttDepth, ttScore, move, ok := r.tt.Read(s.Key); ok {
		ttMove = move
		if ttDepth >= depth {
			score := eval.FromTT(ttScore, ply)
			switch bound {
			case ExactBound:
				return score, nil
			case LowerBound:
				alpha = eval.Max(alpha, score)
			case UpperBound:
				beta = eval.Min(beta, score)
			}
			if alpha >= beta {
				return score, nil
			}
		}
	}

	count := board.Generate(r.pool, s, ply, board.All)
	if count == 0 {
		return eval.Evaluate(s, ply), nil
	}
	orderChildren(r.pool, ply, count, ttMove)

	best := eval.NegInf
	var bestMove board.Move
	var pv []board.Move

	for i := 0; i < count; i++ {
		if r.shouldStop() {
			break
		}
		child := r.pool.At(ply, i)

		score, rem := r.searchChild(child, ply, depth, i, alpha, beta)

		if score > best {
			best = score
			bestMove = child.LastMove
			pv = append([]board.Move{child.LastMove}, rem...)
		}
		alpha = eval.Max(alpha, score)
		if alpha >= beta {
			break // beta cutoff: the opponent already has a better option elsewhere.
		}
	}

	bound := ExactBound
	switch {
	case best <= origAlpha:
		bound = UpperBound
	case best >= beta:
		bound = LowerBound
	}
	r.tt.Write(s.Key, bound, depth, eval.ToTT(best, ply), bestMove)

	return best, pv
}

// searchChild searches one child of a negamax node, applying a null-window
// probe with full re-search (PVS) for every move but the first once depth is
// deep enough to make the extra re-search worth its cost.
func (r *runner) searchChild(child *board.BoardState, ply, depth, index int, alpha, beta eval.Score) (eval.Score, []board.Move) {
	if index == 0 || depth < fullWindowFloor {
		score, rem := r.negamax(child, ply+1, depth-1, -beta, -alpha)
		return -score, rem
	}

	score, _ := r.negamax(child, ply+1, depth-1, -alpha-1, -alpha)
	score = -score
	if score > alpha && score < beta {
		// The null window failed to refute the move: it may be better than
		// alpha after all, so re-search with the real window to find out by
		// how much and to recover its principal variation.
		full, rem := r.negamax(child, ply+1, depth-1, -beta, -alpha)
		return -full, rem
	}
	return score, nil
}
