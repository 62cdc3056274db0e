package board_test

import (
	"testing"

	"github.com/kestrel-engine/kestrel/pkg/board"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sq(t *testing.T, s string) board.Square {
	t.Helper()
	v, err := board.ParseSquareStr(s)
	require.NoError(t, err)
	return v
}

func TestBitboardPopCount(t *testing.T) {
	assert.Equal(t, 0, board.EmptyBitboard.PopCount())
	assert.Equal(t, 1, board.BitMask(sq(t, "g4")).PopCount())
	assert.Equal(t, 2, (board.BitMask(sq(t, "g3")) | board.BitMask(sq(t, "g4"))).PopCount())
}

func TestBitboardString(t *testing.T) {
	empty := "--------/--------/--------/--------/--------/--------/--------/--------"
	assert.Equal(t, empty, board.EmptyBitboard.String())

	withH1 := board.BitMask(sq(t, "h1")).String()
	assert.Equal(t, byte('X'), withH1[len(withH1)-1])
	assert.Equal(t, 0, board.EmptyBitboard.PopCount())
}

func TestKingAttackboard(t *testing.T) {
	h1 := board.KingAttackboard(sq(t, "h1"))
	assert.True(t, h1.IsSet(sq(t, "g1")))
	assert.True(t, h1.IsSet(sq(t, "g2")))
	assert.True(t, h1.IsSet(sq(t, "h2")))
	assert.Equal(t, 3, h1.PopCount())

	d4 := board.KingAttackboard(sq(t, "d4"))
	assert.Equal(t, 8, d4.PopCount())
}

func TestKnightAttackboard(t *testing.T) {
	h1 := board.KnightAttackboard(sq(t, "h1"))
	assert.True(t, h1.IsSet(sq(t, "f2")))
	assert.True(t, h1.IsSet(sq(t, "g3")))
	assert.Equal(t, 2, h1.PopCount())

	d4 := board.KnightAttackboard(sq(t, "d4"))
	assert.Equal(t, 8, d4.PopCount())
}

func TestRookAttackboardEmptyBoard(t *testing.T) {
	h1 := board.RookAttackboard(board.EmptyBitboard, sq(t, "h1"))
	assert.Equal(t, 14, h1.PopCount())
	assert.True(t, h1.IsSet(sq(t, "h8")))
	assert.True(t, h1.IsSet(sq(t, "a1")))
}

func TestRookAttackboardBlocked(t *testing.T) {
	occ := board.BitMask(sq(t, "h2")) | board.BitMask(sq(t, "d1"))
	h1 := board.RookAttackboard(occ, sq(t, "h1"))

	assert.True(t, h1.IsSet(sq(t, "h2"))) // first blocker included
	assert.False(t, h1.IsSet(sq(t, "h3")))
	assert.True(t, h1.IsSet(sq(t, "e1")))
	assert.True(t, h1.IsSet(sq(t, "d1"))) // first blocker included
	assert.False(t, h1.IsSet(sq(t, "c1")))
}

func TestBishopAttackboardEmptyBoard(t *testing.T) {
	d4 := board.BishopAttackboard(board.EmptyBitboard, sq(t, "d4"))
	assert.True(t, d4.IsSet(sq(t, "a1")))
	assert.True(t, d4.IsSet(sq(t, "h8")))
	assert.True(t, d4.IsSet(sq(t, "a7")))
	assert.True(t, d4.IsSet(sq(t, "g1")))
}

func TestQueenAttackboardIsUnion(t *testing.T) {
	occ := board.EmptyBitboard
	e4 := sq(t, "e4")
	want := board.RookAttackboard(occ, e4) | board.BishopAttackboard(occ, e4)
	assert.Equal(t, want, board.QueenAttackboard(occ, e4))
}
