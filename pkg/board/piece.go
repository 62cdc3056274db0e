package board

// PieceType represents a chess piece with no color. 3 bits.
type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
)

const NumPieceTypes PieceType = 6

func ParsePieceType(r rune) (PieceType, bool) {
	switch r {
	case 'p', 'P':
		return Pawn, true
	case 'n', 'N':
		return Knight, true
	case 'b', 'B':
		return Bishop, true
	case 'r', 'R':
		return Rook, true
	case 'q', 'Q':
		return Queen, true
	case 'k', 'K':
		return King, true
	default:
		return 0, false
	}
}

func (t PieceType) String() string {
	switch t {
	case Pawn:
		return "p"
	case Knight:
		return "n"
	case Bishop:
		return "b"
	case Rook:
		return "r"
	case Queen:
		return "q"
	case King:
		return "k"
	default:
		return "?"
	}
}

// Piece is a combined piece/color code: (type << 1) | color. All valid codes
// are <= 11; Empty is the distinct sentinel value 12.
type Piece uint8

const Empty Piece = 12

// NewPiece builds the combined code for a piece type and color.
func NewPiece(t PieceType, c Color) Piece {
	return Piece(t)<<1 | Piece(c)
}

func (p Piece) Type() PieceType {
	return PieceType(p >> 1)
}

func (p Piece) Color() Color {
	return Color(p & 1)
}

func (p Piece) IsEmpty() bool {
	return p == Empty
}

func (p Piece) String() string {
	if p == Empty {
		return "."
	}
	s := p.Type().String()
	if p.Color() == White {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}
