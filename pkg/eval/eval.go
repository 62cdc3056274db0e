// Package eval turns a position's incrementally-maintained material/PSQ
// totals (board.BoardState.Eval) into a search-ready Score, handling the
// terminal cases (checkmate, stalemate) that the board package itself has
// no opinion on.
package eval

import "github.com/kestrel-engine/kestrel/pkg/board"

// Evaluate returns the side-to-move-relative score of s. If s is terminal
// (no legal moves were found for the side to move), the result reflects
// checkmate or stalemate rather than the static material/PSQ balance; ply
// is the distance from the search root, used to prefer shorter mates.
func Evaluate(s *board.BoardState, ply int) Score {
	switch s.Status {
	case board.Stalemate:
		return 0
	case board.WhiteMates, board.BlackMates:
		// The side to move at a terminal, non-stalemate node is always the
		// side with no legal moves left while in check: a loss for them.
		return -(Mate - Score(ply))
	default:
		return Score(s.Eval())
	}
}

// NominalValueGain is the nominal material gain of a move, in centipawns,
// used by move ordering (MVV-LVA) rather than static evaluation.
func NominalValueGain(m board.Move) Score {
	gain := Score(0)
	if !m.Captured.IsEmpty() {
		_, captured := board.MaterialValue(m.Captured.Type())
		gain += Score(captured)
	}
	if m.Kind.IsPromotion() {
		_, pawn := board.MaterialValue(board.Pawn)
		_, promoted := board.MaterialValue(m.Kind.PromotedType())
		gain += Score(promoted) - Score(pawn)
	}
	return gain
}
