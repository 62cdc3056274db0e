package eval_test

import (
	"testing"

	"github.com/kestrel-engine/kestrel/pkg/eval"
	"github.com/stretchr/testify/assert"
)

func TestScoreCrop(t *testing.T) {
	assert.Equal(t, eval.MaxScore, eval.Crop(eval.MaxScore+500))
	assert.Equal(t, eval.MinScore, eval.Crop(eval.MinScore-500))
	assert.Equal(t, eval.Score(17), eval.Crop(17))
}

func TestScoreMinMax(t *testing.T) {
	assert.Equal(t, eval.Score(5), eval.Max(5, 3))
	assert.Equal(t, eval.Score(3), eval.Min(5, 3))
}

func TestScoreIsMate(t *testing.T) {
	assert.True(t, (eval.Mate - 3).IsMate())
	assert.True(t, (-eval.Mate + 3).IsMate())
	assert.False(t, eval.Score(500).IsMate())
}

func TestScoreMateIn(t *testing.T) {
	assert.Equal(t, 1, (eval.Mate - 1).MateIn())
	assert.Equal(t, -1, (-eval.Mate + 1).MateIn())
}

func TestScoreTTRoundTrip(t *testing.T) {
	stored := eval.ToTT(eval.Mate-1, 4)
	assert.Equal(t, eval.Mate-1+4, stored)
	assert.Equal(t, eval.Mate-1, eval.FromTT(stored, 4))
}
