package search

import (
	"context"
	"fmt"
	"math/bits"
	"sync/atomic"
	"unsafe"

	"github.com/kestrel-engine/kestrel/pkg/board"
	"github.com/kestrel-engine/kestrel/pkg/eval"
	"github.com/seekerror/logw"
)

// Bound classifies how a stored score relates to the true value of a node:
// Exact is the minimax value, Lower is a fail-high (true value >= stored),
// Upper is a fail-low (true value <= stored).
type Bound uint8

const (
	ExactBound Bound = iota
	LowerBound
	UpperBound
)

func (b Bound) String() string {
	switch b {
	case ExactBound:
		return "Exact"
	case LowerBound:
		return "Lower"
	case UpperBound:
		return "Upper"
	default:
		return "?"
	}
}

// TranspositionTable caches search results keyed by position hash. Index is
// key&(size-1); every store always overwrites whatever occupied the slot,
// regardless of its depth or age. Must be safe for concurrent use, though
// Kestrel's search is presently single-threaded.
type TranspositionTable interface {
	// Read returns the bound, depth, score and best move stored for key, if
	// the slot is occupied by an entry with a matching key.
	Read(key board.ZobristKey) (Bound, int, eval.Score, board.Move, bool)
	// Write unconditionally stores the entry into key's slot.
	Write(key board.ZobristKey, bound Bound, depth int, score eval.Score, move board.Move)

	// Size returns the table size in bytes.
	Size() uint64
	// Used returns the utilization as a fraction [0;1].
	Used() float64
}

// entry is a single transposition table slot.
type entry struct {
	key   board.ZobristKey
	bound Bound
	depth int32
	score eval.Score
	move  board.Move
}

// table is a power-of-two array of atomic entry pointers, the "single
// pre-allocated pool indexed by key&(size-1)" that spec's transposition
// table names.
type table struct {
	slots []*entry
	mask  uint64
	used  uint64
}

// NewTranspositionTable allocates a table sized to the nearest power of two
// number of entries that fits within size bytes.
func NewTranspositionTable(ctx context.Context, size uint64) TranspositionTable {
	const entrySize = 32
	n := uint64(1) << (63 - bits.LeadingZeros64(size/entrySize))
	if n == 0 {
		n = 1
	}

	logw.Infof(ctx, "Allocating %vMB transposition table with %v entries", size>>20, n)

	return &table{
		slots: make([]*entry, n),
		mask:  n - 1,
	}
}

func (t *table) Size() uint64 {
	return uint64(len(t.slots)) * 32
}

func (t *table) Used() float64 {
	return float64(t.used) / float64(len(t.slots))
}

func (t *table) Read(key board.ZobristKey) (Bound, int, eval.Score, board.Move, bool) {
	idx := uint64(key) & t.mask
	addr := (*unsafe.Pointer)(unsafe.Pointer(&t.slots[idx]))

	e := (*entry)(atomic.LoadPointer(addr))
	if e == nil || e.key != key {
		return 0, 0, 0, board.Move{}, false
	}
	return e.bound, int(e.depth), e.score, e.move, true
}

func (t *table) Write(key board.ZobristKey, bound Bound, depth int, score eval.Score, move board.Move) {
	idx := uint64(key) & t.mask
	addr := (*unsafe.Pointer)(unsafe.Pointer(&t.slots[idx]))

	fresh := &entry{key: key, bound: bound, depth: int32(depth), score: score, move: move}

	old := (*entry)(atomic.SwapPointer(addr, unsafe.Pointer(fresh)))
	if old == nil {
		atomic.AddUint64(&t.used, 1)
	}
}

func (t *table) String() string {
	return fmt.Sprintf("TT[%v @ %v%%]", t.Size(), int(100*t.Used()))
}

// NoTranspositionTable is a no-op TranspositionTable, useful for testing
// search logic without caching effects.
type NoTranspositionTable struct{}

func (NoTranspositionTable) Read(board.ZobristKey) (Bound, int, eval.Score, board.Move, bool) {
	return 0, 0, 0, board.Move{}, false
}
func (NoTranspositionTable) Write(board.ZobristKey, Bound, int, eval.Score, board.Move) {}
func (NoTranspositionTable) Size() uint64                                               { return 0 }
func (NoTranspositionTable) Used() float64                                              { return 0 }
