package board

// between[a][b] is the bitboard of squares strictly between a and b along a
// shared rank, file, or diagonal; zero if a and b do not share one. Used to
// detect pins: a sniper and the king share a ray, and exactly one friendly
// piece sits in the between-mask.
var between [NumSquares][NumSquares]Bitboard

var rayDirs = [8][2]int{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
}

func init() {
	for a := ZeroSquare; a < NumSquares; a++ {
		af, ar := int(a.File()), int(a.Rank())
		for _, d := range rayDirs {
			var mask Bitboard
			f, r := af+d[0], ar+d[1]
			for f >= 0 && f <= 7 && r >= 0 && r <= 7 {
				b := NewSquare(File(f), Rank(r))
				between[a][b] = mask
				between[b][a] = mask
				mask = mask.Set(b)
				f += d[0]
				r += d[1]
			}
		}
	}
}

// Between returns the squares strictly between a and b on a shared line, or
// zero if they do not share a rank, file, or diagonal.
func Between(a, b Square) Bitboard {
	return between[a][b]
}
