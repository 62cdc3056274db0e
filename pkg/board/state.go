package board

import "fmt"

// Status is the terminal classification of a position, determined once move
// generation for that position has run and found zero legal moves.
type Status uint8

const (
	InProgress Status = iota
	WhiteMates          // white has checkmated black
	BlackMates          // black has checkmated white
	Stalemate
)

func (s Status) IsTerminal() bool {
	return s != InProgress
}

// BoardState is a complete, self-contained position record: piece placement
// plus every field needed to continue play and to unwind to the parent by
// simply discarding the child (copy-make; there is no unapply). Every
// incremental field here (Key, Phase, MGScore, EGScore, InCheck) must agree
// with a from-scratch recomputation (§8 invariants 2-4).
type BoardState struct {
	Position

	Turn     Color
	Rights   Castling
	EPFile   File
	EPValid  bool
	HalfMove int // half-move clock since last capture or pawn move
	FullMove int // full-move number, carried for FEN round-trip only

	LastMove Move
	Status   Status

	Key      ZobristKey
	Phase    int
	MGScore  int32 // White-relative midgame material+PSQ total
	EGScore  int32 // White-relative endgame material+PSQ total
	InCheck  bool
}

// addPiece places pc at sq and folds its contribution into the incremental
// evaluation, phase, and key.
func (s *BoardState) addPiece(zt *ZobristTable, sq Square, pc Piece) {
	s.SetPiece(sq, pc)
	t, c := pc.Type(), pc.Color()
	mg, eg := MaterialValue(t)
	pmg, peg := PSQ(t, c, sq)
	mg, eg = mg+pmg, eg+peg
	if c == Black {
		mg, eg = -mg, -eg
	}
	s.MGScore += mg
	s.EGScore += eg
	s.Phase += PhaseWeight(t)
	s.Key ^= zt.PieceKey(pc, sq)
}

// removePiece removes the known piece pc from sq and unfolds its
// contribution from the incremental evaluation, phase, and key.
func (s *BoardState) removePiece(zt *ZobristTable, sq Square, pc Piece) {
	s.Clear(sq)
	t, c := pc.Type(), pc.Color()
	mg, eg := MaterialValue(t)
	pmg, peg := PSQ(t, c, sq)
	mg, eg = mg+pmg, eg+peg
	if c == Black {
		mg, eg = -mg, -eg
	}
	s.MGScore -= mg
	s.EGScore -= eg
	s.Phase -= PhaseWeight(t)
	s.Key ^= zt.PieceKey(pc, sq)
}

// NewGameState builds the BoardState for a fully specified position: used
// by FEN loading and test fixtures. The incremental fields are computed
// from scratch here; thereafter Apply maintains them incrementally.
func NewGameState(zt *ZobristTable, placements []Placement, turn Color, rights Castling, epFile File, epValid bool, halfMove, fullMove int) (*BoardState, error) {
	s := &BoardState{
		Position: EmptyPosition(),
		Turn:     turn,
		Rights:   rights,
		EPFile:   epFile,
		EPValid:  epValid,
		HalfMove: halfMove,
		FullMove: fullMove,
	}
	for _, p := range placements {
		if !s.IsEmpty(p.Square) {
			return nil, fmt.Errorf("duplicate piece placement at %v", p.Square)
		}
		s.addPiece(zt, p.Square, p.Piece)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	s.Key ^= zt.CastlingKey(rights)
	if epValid {
		s.Key ^= zt.EnPassantKey(epFile)
	}
	if turn == Black {
		s.Key ^= zt.TurnKey()
	}
	s.InCheck = s.IsChecked(turn)
	return s, nil
}

// Placement is a single piece placement, used to build an initial BoardState.
type Placement struct {
	Square Square
	Piece  Piece
}

// Apply returns the BoardState reached by playing m against s. s is never
// mutated; every child is a fresh copy with incremental fields re-derived by
// XOR/add/sub from the parent, per the copy-make discipline (no
// make/unmake undo stack).
func (s *BoardState) Apply(zt *ZobristTable, m Move) BoardState {
	child := *s
	child.LastMove = m
	child.Status = InProgress

	mover := s.Turn
	opp := mover.Opponent()

	// (1) undo the metadata half of the key: castling, EP, side to move.
	child.Key ^= zt.CastlingKey(s.Rights)
	if s.EPValid {
		child.Key ^= zt.EnPassantKey(s.EPFile)
	}
	child.Key ^= zt.TurnKey()

	pc := s.PieceAt(m.From)

	switch m.Kind {
	case EnPassant:
		capSq := NewSquare(m.To.File(), m.From.Rank())
		child.removePiece(zt, capSq, m.Captured)
		child.removePiece(zt, m.From, pc)
		child.addPiece(zt, m.To, pc)

	case CastleKingSide, CastleQueenSide:
		child.removePiece(zt, m.From, pc)
		child.addPiece(zt, m.To, pc)
		rookFrom, rookTo := castlingRookSquares(mover, m.Kind)
		rook := NewPiece(Rook, mover)
		child.removePiece(zt, rookFrom, rook)
		child.addPiece(zt, rookTo, rook)

	default:
		if !m.Captured.IsEmpty() {
			child.removePiece(zt, m.To, m.Captured)
		}
		child.removePiece(zt, m.From, pc)
		if m.Kind.IsPromotion() {
			child.addPiece(zt, m.To, NewPiece(m.Kind.PromotedType(), mover))
		} else {
			child.addPiece(zt, m.To, pc)
		}
	}

	// (2) castling rights: moving the king or a rook, or capturing a rook on
	// its home square, revokes the corresponding rights. Captures on a
	// corner clear only the rights of the color whose corner it is,
	// independent of the other color (per the open castling-rights question).
	child.Rights = updateCastlingRights(s.Rights, m, pc)

	// (3) en passant target: only a double pawn push sets one.
	if m.Kind == DoublePawnPush {
		child.EPFile = m.From.File()
		child.EPValid = true
	} else {
		child.EPValid = false
		child.EPFile = 0
	}

	// (4) half-move clock.
	if pc.Type() == Pawn || m.Kind.IsCapture() {
		child.HalfMove = 0
	} else {
		child.HalfMove = s.HalfMove + 1
	}
	if mover == Black {
		child.FullMove = s.FullMove + 1
	}

	child.Key ^= zt.CastlingKey(child.Rights)
	if child.EPValid {
		child.Key ^= zt.EnPassantKey(child.EPFile)
	}
	child.Turn = opp
	child.InCheck = child.IsChecked(opp)

	return child
}

func castlingRookSquares(c Color, kind Kind) (from, to Square) {
	rank := Rank1
	if c == Black {
		rank = Rank8
	}
	if kind == CastleKingSide {
		return NewSquare(FileH, rank), NewSquare(FileF, rank)
	}
	return NewSquare(FileA, rank), NewSquare(FileD, rank)
}

func updateCastlingRights(rights Castling, m Move, moved Piece) Castling {
	if moved.Type() == King {
		rights = rights.Clear(Both(moved.Color()))
	}
	rights = clearRightOnRookSquare(rights, m.From)
	rights = clearRightOnRookSquare(rights, m.To)
	return rights
}

// clearRightOnRookSquare revokes the single castling right anchored on sq,
// whether sq held the moving rook or a captured enemy rook.
func clearRightOnRookSquare(rights Castling, sq Square) Castling {
	switch sq {
	case NewSquare(FileA, Rank1):
		return rights.Clear(WhiteQueenSideCastle)
	case NewSquare(FileH, Rank1):
		return rights.Clear(WhiteKingSideCastle)
	case NewSquare(FileA, Rank8):
		return rights.Clear(BlackQueenSideCastle)
	case NewSquare(FileH, Rank8):
		return rights.Clear(BlackKingSideCastle)
	default:
		return rights
	}
}

// Eval returns the tapered material+PSQ evaluation from the side-to-move's
// perspective, in centipawns.
func (s *BoardState) Eval() int32 {
	phase := s.Phase
	if phase > MaxPhase {
		phase = MaxPhase
	}
	white := (s.MGScore*int32(phase) + s.EGScore*int32(MaxPhase-phase)) / int32(MaxPhase)
	return white * int32(s.Turn.Unit())
}
