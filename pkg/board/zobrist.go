package board

import "math/rand"

// ZobristKey is a position hash formed by XOR-ing random 64-bit keys for
// every (piece, square), side to move, castling right, and en-passant file.
type ZobristKey uint64

// ZobristTable is a deterministic, fixed-seed table of random keys used to
// compute and incrementally maintain ZobristKey values.
type ZobristTable struct {
	pieces   [Empty][NumSquares]ZobristKey // indexed by combined Piece code, 0..11
	turn     ZobristKey                    // XOR'd when black to move
	enpassF  [NumFiles]ZobristKey
	castling [4]ZobristKey // one key per WhiteKingSideCastle/.../BlackQueenSideCastle bit
}

// DefaultZobristSeed is a fixed seed for NewZobristTable, so that keys are
// reproducible across runs.
const DefaultZobristSeed = 0x5EEC0FFEE

func NewZobristTable(seed int64) *ZobristTable {
	r := rand.New(rand.NewSource(seed))

	t := &ZobristTable{}
	for p := Piece(0); p < Empty; p++ {
		for sq := ZeroSquare; sq < NumSquares; sq++ {
			t.pieces[p][sq] = ZobristKey(r.Uint64())
		}
	}
	t.turn = ZobristKey(r.Uint64())
	for f := ZeroFile; f < NumFiles; f++ {
		t.enpassF[f] = ZobristKey(r.Uint64())
	}
	for i := range t.castling {
		t.castling[i] = ZobristKey(r.Uint64())
	}
	return t
}

func (z *ZobristTable) PieceKey(p Piece, sq Square) ZobristKey {
	return z.pieces[p][sq]
}

func (z *ZobristTable) TurnKey() ZobristKey {
	return z.turn
}

func (z *ZobristTable) EnPassantKey(f File) ZobristKey {
	return z.enpassF[f]
}

// CastlingKey returns the XOR of the keys for every active right bit in c.
func (z *ZobristTable) CastlingKey(c Castling) ZobristKey {
	var h ZobristKey
	rights := [4]Castling{WhiteKingSideCastle, WhiteQueenSideCastle, BlackKingSideCastle, BlackQueenSideCastle}
	for i, right := range rights {
		if c.IsAllowed(right) {
			h ^= z.castling[i]
		}
	}
	return h
}

// Hash computes the zobrist key for a position from scratch, as a check on
// the incremental key. NewGameState folds the key in piece by piece instead,
// and BoardState.Apply maintains it incrementally thereafter.
func (z *ZobristTable) Hash(pos *Position, turn Color, castling Castling, epFile File, epValid bool) ZobristKey {
	var h ZobristKey
	for sq := ZeroSquare; sq < NumSquares; sq++ {
		if p := pos.PieceAt(sq); !p.IsEmpty() {
			h ^= z.PieceKey(p, sq)
		}
	}
	h ^= z.CastlingKey(castling)
	if epValid {
		h ^= z.EnPassantKey(epFile)
	}
	if turn == Black {
		h ^= z.turn
	}
	return h
}
