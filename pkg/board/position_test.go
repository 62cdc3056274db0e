package board_test

import (
	"testing"

	"github.com/kestrel-engine/kestrel/pkg/board"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newState(t *testing.T, placements []board.Placement, turn board.Color) *board.BoardState {
	t.Helper()
	zt := board.NewZobristTable(board.DefaultZobristSeed)
	s, err := board.NewGameState(zt, placements, turn, 0, 0, false, 0, 1)
	require.NoError(t, err)
	return s
}

func TestPositionPieceAt(t *testing.T) {
	s := newState(t, []board.Placement{
		{Square: sq(t, "e1"), Piece: board.NewPiece(board.King, board.White)},
		{Square: sq(t, "e8"), Piece: board.NewPiece(board.King, board.Black)},
		{Square: sq(t, "d4"), Piece: board.NewPiece(board.Queen, board.White)},
	}, board.White)

	assert.Equal(t, board.NewPiece(board.Queen, board.White), s.PieceAt(sq(t, "d4")))
	assert.True(t, s.IsEmpty(sq(t, "d5")))
	assert.Equal(t, board.White, s.ColorOf(sq(t, "d4")))
	assert.Equal(t, sq(t, "e1"), s.King(board.White))
	assert.Equal(t, sq(t, "e8"), s.King(board.Black))
}

func TestPositionOccupied(t *testing.T) {
	s := newState(t, []board.Placement{
		{Square: sq(t, "e1"), Piece: board.NewPiece(board.King, board.White)},
		{Square: sq(t, "e8"), Piece: board.NewPiece(board.King, board.Black)},
		{Square: sq(t, "a1"), Piece: board.NewPiece(board.Rook, board.White)},
	}, board.White)

	assert.Equal(t, 3, s.Occupied().PopCount())
	assert.Equal(t, 2, s.OccupiedBy(board.White).PopCount())
	assert.Equal(t, 1, s.OccupiedBy(board.Black).PopCount())
	assert.Equal(t, board.BitMask(sq(t, "a1")), s.Pieces(board.White, board.Rook))
}

func TestPositionIsAttacked(t *testing.T) {
	s := newState(t, []board.Placement{
		{Square: sq(t, "e1"), Piece: board.NewPiece(board.King, board.White)},
		{Square: sq(t, "e8"), Piece: board.NewPiece(board.King, board.Black)},
		{Square: sq(t, "a8"), Piece: board.NewPiece(board.Rook, board.Black)},
	}, board.White)

	assert.True(t, s.IsAttacked(board.Black, sq(t, "a4")))
	assert.False(t, s.IsAttacked(board.Black, sq(t, "b4")))
	assert.False(t, s.IsChecked(board.White))
}

func TestPositionInCheck(t *testing.T) {
	s := newState(t, []board.Placement{
		{Square: sq(t, "e1"), Piece: board.NewPiece(board.King, board.White)},
		{Square: sq(t, "e8"), Piece: board.NewPiece(board.King, board.Black)},
		{Square: sq(t, "e5"), Piece: board.NewPiece(board.Rook, board.Black)},
	}, board.White)

	assert.True(t, s.InCheck)
	assert.True(t, s.IsChecked(board.White))
}

func TestPositionRejectsMissingKing(t *testing.T) {
	zt := board.NewZobristTable(board.DefaultZobristSeed)
	_, err := board.NewGameState(zt, []board.Placement{
		{Square: sq(t, "e8"), Piece: board.NewPiece(board.King, board.Black)},
	}, board.White, 0, 0, false, 0, 1)
	assert.Error(t, err)
}

func TestPositionRejectsDuplicatePlacement(t *testing.T) {
	zt := board.NewZobristTable(board.DefaultZobristSeed)
	_, err := board.NewGameState(zt, []board.Placement{
		{Square: sq(t, "e1"), Piece: board.NewPiece(board.King, board.White)},
		{Square: sq(t, "e8"), Piece: board.NewPiece(board.King, board.Black)},
		{Square: sq(t, "a1"), Piece: board.NewPiece(board.Rook, board.White)},
		{Square: sq(t, "a1"), Piece: board.NewPiece(board.Queen, board.White)},
	}, board.White, 0, 0, false, 0, 1)
	assert.Error(t, err)
}
