package engine_test

import (
	"context"
	"testing"
	"time"

	"github.com/kestrel-engine/kestrel/pkg/board/fen"
	"github.com/kestrel-engine/kestrel/pkg/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	return engine.New(context.Background(), "kestrel-test", "tester", engine.Options{})
}

func TestNewStartsAtInitialPosition(t *testing.T) {
	e := newTestEngine(t)
	assert.Equal(t, fen.Initial, e.Position())
}

func TestResetReplacesPositionOutright(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)

	const kiwipete = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	require.NoError(t, e.Reset(ctx, kiwipete))
	assert.Equal(t, kiwipete, e.Position())

	require.Error(t, e.Reset(ctx, "not a fen"))
	// a failed Reset must not disturb the previously loaded position
	assert.Equal(t, kiwipete, e.Position())
}

func TestMoveRejectsIllegalMove(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)
	assert.Error(t, e.Move(ctx, "e2e5"))
	assert.Equal(t, fen.Initial, e.Position())
}

func TestMoveAppliesLegalMove(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)
	require.NoError(t, e.Move(ctx, "e2e4"))
	assert.NotEqual(t, fen.Initial, e.Position())
}

func TestNewGameHaltsActiveSearchAndResetsTable(t *testing.T) {
	ctx := context.Background()
	e := engine.New(ctx, "kestrel-test", "tester", engine.Options{Hash: 1})

	out, err := e.Analyze(ctx, engine.Clock{}, 0, true)
	require.NoError(t, err)

	e.NewGame(ctx)

	select {
	case _, ok := <-out:
		if ok {
			// a late PV racing NewGame's halt is fine; the channel must still
			// close promptly.
			for range out {
			}
		}
	case <-time.After(2 * time.Second):
		t.Fatal("NewGame did not halt the active search")
	}
}

func TestAnalyzeReturnsDeepeningPVs(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)
	require.NoError(t, e.Reset(ctx, "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1"))

	out, err := e.Analyze(ctx, engine.Clock{}, 100*time.Millisecond, false)
	require.NoError(t, err)

	var depths []int
	for pv := range out {
		depths = append(depths, pv.Depth)
	}
	require.NotEmpty(t, depths)
	for i := 1; i < len(depths); i++ {
		assert.Greater(t, depths[i], depths[i-1])
	}
}

func TestHaltWithNoActiveSearchErrors(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)
	_, err := e.Halt(ctx)
	assert.Error(t, err)
}
