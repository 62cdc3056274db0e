package search_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/kestrel-engine/kestrel/pkg/board"
	"github.com/kestrel-engine/kestrel/pkg/eval"
	"github.com/kestrel-engine/kestrel/pkg/search"
	"github.com/stretchr/testify/assert"
)

func TestTranspositionTableSizing(t *testing.T) {
	ctx := context.Background()

	tt := search.NewTranspositionTable(ctx, 0x1000)
	assert.Equal(t, uint64(0x1000), tt.Size())

	tt2 := search.NewTranspositionTable(ctx, 0x1f00)
	assert.Equal(t, uint64(0x1000), tt2.Size())
}

func TestTranspositionTableReadWrite(t *testing.T) {
	ctx := context.Background()
	tt := search.NewTranspositionTable(ctx, 0x10000)

	key := board.ZobristKey(rand.Uint64())

	_, _, _, _, ok := tt.Read(key)
	assert.False(t, ok)

	m, err := board.ParseMove("g4g8q")
	assert.NoError(t, err)

	tt.Write(key, search.ExactBound, 2, eval.Score(150), m)

	bound, depth, score, move, ok := tt.Read(key)
	assert.True(t, ok)
	assert.Equal(t, search.ExactBound, bound)
	assert.Equal(t, 2, depth)
	assert.Equal(t, eval.Score(150), score)
	assert.Equal(t, m, move)

	_, _, _, _, miss := tt.Read(key ^ 0xff0000)
	assert.False(t, miss)
}

func TestTranspositionTableAlwaysReplaces(t *testing.T) {
	ctx := context.Background()
	tt := search.NewTranspositionTable(ctx, 0x10000)

	key := board.ZobristKey(rand.Uint64())
	m, _ := board.ParseMove("a1a2")

	tt.Write(key, search.ExactBound, 10, eval.Score(500), m)
	tt.Write(key, search.LowerBound, 1, eval.Score(-5), m)

	bound, depth, score, _, ok := tt.Read(key)
	assert.True(t, ok)
	assert.Equal(t, search.LowerBound, bound)
	assert.Equal(t, 1, depth)
	assert.Equal(t, eval.Score(-5), score)
}
