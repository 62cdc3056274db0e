// Package fen contains utilities for reading and writing positions in FEN
// notation: piece placement (rank 8 first, '/'-separated, digits for empty
// runs, uppercase for white), side to move, castling rights, en-passant
// target, half-move clock, and full-move number (the last accepted but not
// otherwise consulted by the engine).
package fen

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/kestrel-engine/kestrel/pkg/board"
)

const Initial = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Decode parses a FEN string into a BoardState, using zt to compute the
// position's Zobrist key and incremental evaluation from scratch.
func Decode(zt *board.ZobristTable, s string) (*board.BoardState, error) {
	parts := strings.Split(strings.TrimSpace(s), " ")
	if len(parts) != 6 {
		return nil, fmt.Errorf("invalid number of fields in FEN: %q", s)
	}

	var placements []board.Placement
	sq := board.ZeroSquare
	for _, r := range parts[0] {
		switch {
		case r == '/':
			// cosmetic rank separator
		case unicode.IsDigit(r):
			sq += board.Square(r - '0')
		case unicode.IsLetter(r):
			pc, ok := parsePiece(r)
			if !ok {
				return nil, fmt.Errorf("invalid piece %q in FEN: %q", r, s)
			}
			placements = append(placements, board.Placement{Square: sq, Piece: pc})
			sq++
		default:
			return nil, fmt.Errorf("invalid character %q in FEN: %q", r, s)
		}
	}
	if sq != board.NumSquares {
		return nil, fmt.Errorf("invalid number of squares in FEN: %q", s)
	}

	turn, ok := board.ParseColor(parts[1])
	if !ok {
		return nil, fmt.Errorf("invalid active color in FEN: %q", s)
	}

	rights, err := board.ParseCastling(parts[2])
	if err != nil {
		return nil, fmt.Errorf("invalid castling in FEN: %q: %v", s, err)
	}

	var epFile board.File
	epValid := false
	if parts[3] != "-" {
		epSq, err := board.ParseSquareStr(parts[3])
		if err != nil {
			return nil, fmt.Errorf("invalid en passant in FEN: %q", s)
		}
		epFile, epValid = epSq.File(), true
	}

	halfMove, err := strconv.Atoi(parts[4])
	if err != nil || halfMove < 0 {
		return nil, fmt.Errorf("invalid half-move clock in FEN: %q", s)
	}

	fullMove, err := strconv.Atoi(parts[5])
	if err != nil || fullMove < 0 {
		return nil, fmt.Errorf("invalid full-move number in FEN: %q", s)
	}

	return board.NewGameState(zt, placements, turn, rights, epFile, epValid, halfMove, fullMove)
}

// Encode serializes a BoardState back to its six-field FEN form.
func Encode(s *board.BoardState) string {
	var sb strings.Builder
	for row := 0; row < 8; row++ {
		blanks := 0
		for col := 0; col < 8; col++ {
			sq := board.Square(row*8 + col)
			pc := s.PieceAt(sq)
			if pc.IsEmpty() {
				blanks++
				continue
			}
			if blanks > 0 {
				sb.WriteString(strconv.Itoa(blanks))
				blanks = 0
			}
			sb.WriteString(pc.String())
		}
		if blanks > 0 {
			sb.WriteString(strconv.Itoa(blanks))
		}
		if row != 7 {
			sb.WriteRune('/')
		}
	}

	ep := "-"
	if s.EPValid {
		rank := board.Rank6
		if s.Turn == board.Black {
			rank = board.Rank3
		}
		ep = board.NewSquare(s.EPFile, rank).String()
	}

	return fmt.Sprintf("%v %v %v %v %v %v", sb.String(), s.Turn, s.Rights, ep, s.HalfMove, s.FullMove)
}

func parsePiece(r rune) (board.Piece, bool) {
	t, ok := board.ParsePieceType(r)
	if !ok {
		return 0, false
	}
	c := board.Black
	if unicode.IsUpper(r) {
		c = board.White
	}
	return board.NewPiece(t, c), true
}
