package board

import "fmt"

// Kind classifies a move so that Apply and search can special-case
// castling, en passant, and promotion without re-deriving them from the
// board.
type Kind uint8

const (
	Quiet Kind = iota
	CaptureKind
	DoublePawnPush
	EnPassant
	CastleKingSide
	CastleQueenSide
	PromoteKnight
	PromoteBishop
	PromoteRook
	PromoteQueen
	PromoteCaptureKnight
	PromoteCaptureBishop
	PromoteCaptureRook
	PromoteCaptureQueen
)

// IsCapture reports whether the move kind removes an enemy piece (including
// en passant and capture-promotions).
func (k Kind) IsCapture() bool {
	switch k {
	case CaptureKind, EnPassant, PromoteCaptureKnight, PromoteCaptureBishop, PromoteCaptureRook, PromoteCaptureQueen:
		return true
	default:
		return false
	}
}

// IsPromotion reports whether the move kind promotes a pawn.
func (k Kind) IsPromotion() bool {
	switch k {
	case PromoteKnight, PromoteBishop, PromoteRook, PromoteQueen,
		PromoteCaptureKnight, PromoteCaptureBishop, PromoteCaptureRook, PromoteCaptureQueen:
		return true
	default:
		return false
	}
}

// PromotedType returns the piece type a promotion kind yields. Must only be
// called when IsPromotion() is true.
func (k Kind) PromotedType() PieceType {
	switch k {
	case PromoteKnight, PromoteCaptureKnight:
		return Knight
	case PromoteBishop, PromoteCaptureBishop:
		return Bishop
	case PromoteRook, PromoteCaptureRook:
		return Rook
	case PromoteQueen, PromoteCaptureQueen:
		return Queen
	default:
		panic("not a promotion kind")
	}
}

func promotionKind(t PieceType, capture bool) Kind {
	switch t {
	case Knight:
		if capture {
			return PromoteCaptureKnight
		}
		return PromoteKnight
	case Bishop:
		if capture {
			return PromoteCaptureBishop
		}
		return PromoteBishop
	case Rook:
		if capture {
			return PromoteCaptureRook
		}
		return PromoteRook
	case Queen:
		if capture {
			return PromoteCaptureQueen
		}
		return PromoteQueen
	default:
		panic("invalid promotion piece type")
	}
}

// Move is a not-necessarily-legal move descriptor, generated against a known
// position. Five bytes, suitable for storage in transposition table entries.
type Move struct {
	From, To Square
	Moved    Piece
	Captured Piece // Empty if none.
	Kind     Kind
}

// NewMove builds a quiet or capture move, inferring its Kind from whether a
// capture took place; callers construct double pawn
// pushes, en passant, castling, and promotions explicitly.
func NewMove(from, to Square, moved, captured Piece) Move {
	k := Quiet
	if !captured.IsEmpty() {
		k = CaptureKind
	}
	return Move{From: from, To: to, Moved: moved, Captured: captured, Kind: k}
}

// NewPromotion builds a (possibly capturing) promotion move.
func NewPromotion(from, to Square, moved, captured Piece, promoted PieceType) Move {
	return Move{From: from, To: to, Moved: moved, Captured: captured, Kind: promotionKind(promoted, !captured.IsEmpty())}
}

// ParseMove parses a move in pure algebraic coordinate notation, such as
// "a2a4" or "a7a8q". The parsed move carries no contextual information
// (moved piece, captured piece left Empty, exact kind); ResolveMove fills
// that in against a specific position.
func ParseMove(str string) (Move, error) {
	runes := []rune(str)
	if len(runes) < 4 || len(runes) > 5 {
		return Move{}, fmt.Errorf("invalid move: %q", str)
	}

	from, err := ParseSquare(runes[0], runes[1])
	if err != nil {
		return Move{}, fmt.Errorf("invalid move %q: %v", str, err)
	}
	to, err := ParseSquare(runes[2], runes[3])
	if err != nil {
		return Move{}, fmt.Errorf("invalid move %q: %v", str, err)
	}

	m := Move{From: from, To: to, Captured: Empty}
	if len(runes) == 5 {
		t, ok := ParsePieceType(runes[4])
		if !ok || t == Pawn || t == King {
			return Move{}, fmt.Errorf("invalid promotion in move %q", str)
		}
		m.Kind = promotionKind(t, false)
	}
	return m, nil
}

func (m Move) String() string {
	if m.Kind.IsPromotion() {
		return fmt.Sprintf("%v%v%v", m.From, m.To, m.Kind.PromotedType())
	}
	return fmt.Sprintf("%v%v", m.From, m.To)
}
