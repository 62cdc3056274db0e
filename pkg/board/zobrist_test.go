package board_test

import (
	"testing"

	"github.com/kestrel-engine/kestrel/pkg/board"
	"github.com/kestrel-engine/kestrel/pkg/board/fen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZobristTableDeterministic(t *testing.T) {
	a := board.NewZobristTable(board.DefaultZobristSeed)
	b := board.NewZobristTable(board.DefaultZobristSeed)

	sq8 := sq(t, "a1")
	pc := board.NewPiece(board.Rook, board.White)
	assert.Equal(t, a.PieceKey(pc, sq8), b.PieceKey(pc, sq8))
	assert.Equal(t, a.TurnKey(), b.TurnKey())
}

func TestHashMatchesIncrementalKey(t *testing.T) {
	zt := board.NewZobristTable(board.DefaultZobristSeed)

	s, err := fen.Decode(zt, fen.Initial)
	require.NoError(t, err)

	want := zt.Hash(&s.Position, s.Turn, s.Rights, s.EPFile, s.EPValid)
	assert.Equal(t, want, s.Key)
}

func TestApplyMaintainsKeyIncrementally(t *testing.T) {
	zt := board.NewZobristTable(board.DefaultZobristSeed)

	s, err := fen.Decode(zt, fen.Initial)
	require.NoError(t, err)

	m, err := board.ParseMove("e2e4")
	require.NoError(t, err)
	m.Moved = s.PieceAt(m.From)
	m.Kind = board.DoublePawnPush

	child := s.Apply(zt, m)

	want := zt.Hash(&child.Position, child.Turn, child.Rights, child.EPFile, child.EPValid)
	assert.Equal(t, want, child.Key)
	assert.NotEqual(t, s.Key, child.Key)
}

func TestCastlingKeyPerRight(t *testing.T) {
	zt := board.NewZobristTable(board.DefaultZobristSeed)

	full := zt.CastlingKey(board.FullCastingRights)
	none := zt.CastlingKey(0)
	assert.NotEqual(t, full, none)

	kingSideOnly := zt.CastlingKey(board.WhiteKingSideCastle)
	assert.NotEqual(t, kingSideOnly, none)
}
