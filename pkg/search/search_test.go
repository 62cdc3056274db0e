package search_test

import (
	"context"
	"testing"

	"github.com/kestrel-engine/kestrel/pkg/board"
	"github.com/kestrel-engine/kestrel/pkg/board/fen"
	"github.com/kestrel-engine/kestrel/pkg/eval"
	"github.com/kestrel-engine/kestrel/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
)

func mustDecode(t *testing.T, zt *board.ZobristTable, f string) *board.BoardState {
	t.Helper()
	s, err := fen.Decode(zt, f)
	require.NoError(t, err)
	return s
}

func TestSearchFindsMateInOne(t *testing.T) {
	zt := board.NewZobristTable(1)
	pool := board.NewPool(zt)
	tt := search.NoTranspositionTable{}
	s := mustDecode(t, zt, "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1")

	nodes, score, pv := search.Search(atomic.NewBool(false), pool, tt, s, 3)

	require.NotZero(t, nodes)
	require.NotEmpty(t, pv)
	assert.True(t, score.IsMate())
	assert.Equal(t, 1, score.MateIn())
	assert.Equal(t, "a1a8", pv[0].String())
}

func TestSearchScoresStalemateAsDraw(t *testing.T) {
	zt := board.NewZobristTable(1)
	pool := board.NewPool(zt)
	tt := search.NoTranspositionTable{}
	// Black to move is not in check and has no legal move: stalemate, which
	// the search must score as 0.
	s := mustDecode(t, zt, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")

	_, score, _ := search.Search(atomic.NewBool(false), pool, tt, s, 1)
	assert.Equal(t, eval.Score(0), score)
}

func TestSearchRespectsStopFlag(t *testing.T) {
	zt := board.NewZobristTable(1)
	pool := board.NewPool(zt)
	tt := search.NewTranspositionTable(context.Background(), 1<<16)
	s := mustDecode(t, zt, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")

	stop := atomic.NewBool(false)
	stop.Store(true)

	nodes, _, _ := search.Search(stop, pool, tt, s, 6)
	assert.LessOrEqual(t, nodes, uint64(1100), "a pre-stopped search should stop within one node-cadence window")
}

func TestIterativeLaunchAndHalt(t *testing.T) {
	zt := board.NewZobristTable(1)
	pool := board.NewPool(zt)
	tt := search.NewTranspositionTable(context.Background(), 1<<16)
	s := mustDecode(t, zt, "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1")

	it := search.NewIterative(pool, tt)
	h, out := it.Launch(s, search.Options{DepthLimit: 3})

	var last search.PV
	for pv := range out {
		last = pv
	}

	final := h.Halt()
	assert.Equal(t, last.Score, final.Score)
	assert.True(t, final.Score.IsMate())
}
