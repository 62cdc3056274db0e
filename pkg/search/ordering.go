package search

import (
	"container/heap"

	"github.com/kestrel-engine/kestrel/pkg/board"
	"github.com/kestrel-engine/kestrel/pkg/eval"
)

// priority represents a move's search-order priority: higher explores
// first.
type priority int32

// mvvlva scores a move by "most valuable victim, least valuable attacker":
// captures and promotions score by material gained, biased down by the
// attacker's own value so that, among equal gains, the cheaper attacker
// moves first.
func mvvlva(m board.Move) priority {
	gain := eval.NominalValueGain(m)
	if gain <= 0 {
		return 0
	}
	_, attacker := board.MaterialValue(m.Moved.Type())
	return priority(100*int32(gain) - attacker)
}

// orderChildren reorders the count children written at pool.At(ply, *) by
// search priority: the transposition table's remembered best move first (if
// present among them), then by MVV-LVA, with quiets (priority 0) last. The
// heap does not preserve Generate's order among moves of equal priority.
func orderChildren(pool *board.Pool, ply, count int, ttMove board.Move) {
	h := make(childHeap, count)
	for i := 0; i < count; i++ {
		child := pool.At(ply, i)
		p := mvvlva(child.LastMove)
		if sameMove(child.LastMove, ttMove) {
			p = 1 << 30 // always explored first
		}
		h[i] = childElm{state: *child, pri: p}
	}
	heap.Init(&h)

	for i := 0; i < count; i++ {
		top := heap.Pop(&h).(childElm)
		*pool.At(ply, i) = top.state
	}
}

func sameMove(a, b board.Move) bool {
	return b != board.Move{} && a.From == b.From && a.To == b.To && a.Kind == b.Kind
}

type childElm struct {
	state board.BoardState
	pri   priority
}

type childHeap []childElm

func (h childHeap) Len() int            { return len(h) }
func (h childHeap) Less(i, j int) bool  { return h[i].pri > h[j].pri }
func (h childHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *childHeap) Push(x interface{}) { *h = append(*h, x.(childElm)) }
func (h *childHeap) Pop() interface{} {
	old := *h
	n := len(old)
	elm := old[n-1]
	*h = old[:n-1]
	return elm
}
