package board

// ResolveMove looks up a bare move (as produced by ParseMove, carrying only
// From/To and, for promotions, the promoted type) among the legal moves
// available to s, and returns the fully populated Move — Moved, Captured,
// and exact Kind (capture, en passant, castling, promotion) filled in — plus
// whether a match was found. Used by callers such as the UCI driver that
// receive a move in coordinate notation and must apply it against a
// specific, known-good position.
func ResolveMove(pool *Pool, s *BoardState, ply int, candidate Move) (Move, bool) {
	count := Generate(pool, s, ply, All)
	for i := 0; i < count; i++ {
		m := pool.At(ply, i).LastMove
		if m.From != candidate.From || m.To != candidate.To {
			continue
		}
		if m.Kind.IsPromotion() != candidate.Kind.IsPromotion() {
			continue
		}
		if m.Kind.IsPromotion() && m.Kind.PromotedType() != candidate.Kind.PromotedType() {
			continue
		}
		return m, true
	}
	return Move{}, false
}
