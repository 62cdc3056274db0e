// kestrel is a UCI chess engine.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/kestrel-engine/kestrel/pkg/engine"
	"github.com/kestrel-engine/kestrel/pkg/engine/uci"
	"github.com/seekerror/stdlib/pkg/lang"
)

var (
	hash  = flag.Uint("hash", 64, "Transposition table size in MB (0 disables it)")
	depth = flag.Uint("depth", 0, "Fixed search depth (0 for deadline-driven iterative deepening)")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: kestrel [options]

KESTREL is a UCI chess engine.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	opts := engine.Options{Hash: *hash}
	if *depth > 0 {
		opts.DepthLimit = lang.Some(*depth)
	}
	e := engine.New(ctx, "kestrel", "kestrel-engine", opts)

	driver, out := uci.NewDriver(ctx, e)
	go uci.WriteStdoutLines(ctx, out)

	<-driver.Closed()
}
