// perft is a movegen debugging tool. See: https://www.chessprogramming.org/Perft_Results.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/kestrel-engine/kestrel/pkg/board"
	"github.com/kestrel-engine/kestrel/pkg/board/fen"
	"github.com/seekerror/logw"
)

var (
	depth    = flag.Int("depth", 4, "Search depth")
	position = flag.String("fen", "", "Start position (default to standard)")
	divide   = flag.Bool("divide", false, "Divide counts by initial move")
)

func main() {
	ctx := context.Background()
	flag.Parse()

	if *position == "" {
		*position = fen.Initial
	}

	zt := board.NewZobristTable(board.DefaultZobristSeed)
	pool := board.NewPool(zt)

	s, err := fen.Decode(zt, *position)
	if err != nil {
		logw.Exitf(ctx, "Invalid fen %q: %v", *position, err)
	}

	for i := 1; i <= *depth; i++ {
		start := time.Now()
		nodes := perft(pool, s, 0, i, *divide && i == *depth)
		elapsed := time.Since(start)

		fmt.Fprintf(os.Stdout, "perft,%v,%v,%v,%v\n", *position, i, nodes, elapsed.Microseconds())
	}
}

func perft(pool *board.Pool, s *board.BoardState, ply, depth int, divide bool) int64 {
	if depth == 0 {
		return 1
	}

	n := board.Generate(pool, s, ply, board.All)
	var total int64
	for i := 0; i < n; i++ {
		child := pool.At(ply, i)
		count := perft(pool, child, ply+1, depth-1, false)
		if divide {
			fmt.Fprintf(os.Stdout, "%v: %v\n", child.LastMove, count)
		}
		total += count
	}
	return total
}
