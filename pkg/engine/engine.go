// Package engine orchestrates position state and search on behalf of a UCI
// driver: it owns the board pool, transposition table, and the one active
// search at a time, and translates UCI-level time controls into a search
// deadline.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kestrel-engine/kestrel/pkg/board"
	"github.com/kestrel-engine/kestrel/pkg/board/fen"
	"github.com/kestrel-engine/kestrel/pkg/search"
	"github.com/seekerror/build"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/seekerror/stdlib/pkg/util/contextx"
)

var version = build.NewVersion(0, 1, 0)

// Options are engine creation options.
type Options struct {
	// DepthLimit overrides the search's own iterative-deepening cutoff when
	// present; absent, the search runs until the deadline or a forced mate.
	DepthLimit lang.Optional[uint]
	// Hash is the transposition table size in MB. Zero disables the table.
	Hash uint
}

func (o Options) String() string {
	depth := "none"
	if v, ok := o.DepthLimit.V(); ok {
		depth = fmt.Sprint(v)
	}
	return fmt.Sprintf("{depth=%v, hash=%vMB}", depth, o.Hash)
}

// Engine holds the single current position, the board pool and
// transposition table backing search, and at most one active search.
type Engine struct {
	name, author string
	opts         Options

	zt   *board.ZobristTable
	pool *board.Pool
	tt   search.TranspositionTable

	root   *board.BoardState
	active search.Handle
	mu     sync.Mutex
}

// New creates an engine at the standard starting position.
func New(ctx context.Context, name, author string, opts Options) *Engine {
	e := &Engine{
		name:   name,
		author: author,
		opts:   opts,
		zt:     board.NewZobristTable(0),
	}
	e.pool = board.NewPool(e.zt)
	e.allocateTable(ctx)

	if err := e.Reset(ctx, fen.Initial); err != nil {
		logw.Exitf(ctx, "Invalid initial position: %v", err)
	}
	logw.Infof(ctx, "Initialized %v, options=%v", e.Name(), e.opts)
	return e
}

func (e *Engine) allocateTable(ctx context.Context) {
	e.tt = search.NoTranspositionTable{}
	if e.opts.Hash > 0 {
		e.tt = search.NewTranspositionTable(ctx, uint64(e.opts.Hash)<<20)
	}
}

// Name returns the engine name and version.
func (e *Engine) Name() string {
	return fmt.Sprintf("%v %v", e.name, version)
}

// Author returns the engine author.
func (e *Engine) Author() string {
	return e.author
}

// NewGame resets engine state for a new game, per the UCI `ucinewgame`
// command: halts any active search and clears the transposition table.
func (e *Engine) NewGame(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.haltActiveLocked(ctx)
	e.allocateTable(ctx)
}

// Position returns the current position in FEN notation.
func (e *Engine) Position() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return fen.Encode(e.root)
}

// Reset loads position (a FEN string), replacing the current root outright.
// There is no undo: copy-make search never retains a parent to roll back to,
// so a full reload is how the engine returns to any earlier position too.
func (e *Engine) Reset(ctx context.Context, position string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.haltActiveLocked(ctx)

	root, err := fen.Decode(e.zt, position)
	if err != nil {
		return fmt.Errorf("invalid FEN %q: %w", position, err)
	}
	e.root = root

	logw.Infof(ctx, "Position reset: %v", position)
	return nil
}

// Move applies move (pure coordinate notation, e.g. "e2e4" or "e7e8q")
// against the current root. The move must be legal in the current position.
func (e *Engine) Move(ctx context.Context, move string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	bare, err := board.ParseMove(move)
	if err != nil {
		return fmt.Errorf("invalid move %q: %w", move, err)
	}

	resolved, ok := board.ResolveMove(e.pool, e.root, 0, bare)
	if !ok {
		return fmt.Errorf("illegal move %q in position %v", move, fen.Encode(e.root))
	}

	child := e.root.Apply(e.zt, resolved)
	e.root = &child

	logw.Infof(ctx, "Applied %v", resolved)
	return nil
}

// Analyze starts a search of the current root and returns a channel of
// ever-deeper principal variations. Only one search may be active; a prior
// one is halted first, matching the UCI "a go interrupts a go" ordering
// guarantee.
func (e *Engine) Analyze(ctx context.Context, clock Clock, movetime time.Duration, infinite bool) (<-chan search.PV, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.haltActiveLocked(ctx)

	depth := 0
	if v, ok := e.opts.DepthLimit.V(); ok {
		depth = int(v)
	}

	dl := deadline(e.root.Turn, clock, movetime, infinite)
	logw.Infof(ctx, "Analyze %v, depth=%v, deadline=%v", fen.Encode(e.root), depth, dl)

	it := search.NewIterative(e.pool, e.tt)
	handle, out := it.Launch(e.root, search.Options{DepthLimit: depth})
	e.active = handle

	done := make(chan struct{})
	wctx, cancel := contextx.WithQuitCancel(ctx, done)
	forwarded := make(chan search.PV, 1)
	go func() {
		defer cancel()
		defer close(done)
		defer close(forwarded)
		for pv := range out {
			logw.Debugf(wctx, "Searched %v: %v", fen.Encode(e.root), pv)
			select {
			case <-forwarded:
			default:
			}
			forwarded <- pv
		}
	}()

	if !infinite {
		time.AfterFunc(dl, func() {
			handle.Halt()
		})
	}

	return forwarded, nil
}

// Halt stops the active search, if any, and returns its last completed
// principal variation.
func (e *Engine) Halt(ctx context.Context) (search.PV, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active == nil {
		return search.PV{}, fmt.Errorf("no active search")
	}
	return e.haltActiveLocked(ctx), nil
}

func (e *Engine) haltActiveLocked(ctx context.Context) search.PV {
	if e.active == nil {
		return search.PV{}
	}
	pv := e.active.Halt()
	e.active = nil
	logw.Infof(ctx, "Search halted: %v", pv)
	return pv
}
