// Package uci implements the engine-facing side of the Universal Chess
// Interface protocol, reading commands from a line channel and writing
// responses to another, per http://wbec-ridderkerk.nl/html/UCIProtocol.html.
//
// The command surface is intentionally narrow: uci, isready, setoption,
// ucinewgame, position, go, stop, quit. Unknown commands are logged and
// ignored rather than rejected.
package uci

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kestrel-engine/kestrel/pkg/board/fen"
	"github.com/kestrel-engine/kestrel/pkg/engine"
	"github.com/kestrel-engine/kestrel/pkg/search"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/iox"
	"go.uber.org/atomic"
)

const ProtocolName = "uci"

// ReadStdinLines reads stdin lines onto a channel, closing it when stdin is
// exhausted or closed. The only component in this codebase allowed to touch
// os.Stdin directly: it is the wire protocol surface.
func ReadStdinLines(ctx context.Context) <-chan string {
	ret := make(chan string, 1)
	go func() {
		defer close(ret)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			logw.Debugf(ctx, "<< %v", scanner.Text())
			ret <- scanner.Text()
		}
	}()
	return ret
}

// WriteStdoutLines writes lines from out to stdout until the channel closes.
func WriteStdoutLines(ctx context.Context, out <-chan string) {
	for line := range out {
		logw.Debugf(ctx, ">> %v", line)
		_, _ = fmt.Fprintln(os.Stdout, line)
	}
}

// Driver implements a UCI session against a single engine.Engine.
type Driver struct {
	e   *engine.Engine
	out chan<- string

	active atomic.Bool    // true while a bestmove is owed to the GUI
	ponder chan search.PV // forwards intermediate search info

	quit iox.AsyncCloser
	init iox.AsyncCloser
}

// NewDriver starts a driver reading commands from stdin and returns it along
// with its response channel; the response channel is closed once the driver
// exits (on "quit" or a broken input stream).
func NewDriver(ctx context.Context, e *engine.Engine) (*Driver, <-chan string) {
	out := make(chan string, 100)
	d := &Driver{
		e:      e,
		out:    out,
		ponder: make(chan search.PV, 64),
		quit:   iox.NewAsyncCloser(),
		init:   iox.NewAsyncCloser(),
	}
	go d.process(ctx, ReadStdinLines(ctx))
	return d, out
}

// Close requests the driver stop, as if "quit" had been received.
func (d *Driver) Close() {
	d.quit.Close()
}

// Closed reports when the driver has exited.
func (d *Driver) Closed() <-chan struct{} {
	return d.quit.Closed()
}

// Ready reports when the driver has completed its "uci"/"uciok" handshake
// and is ready to accept further commands.
func (d *Driver) Ready() <-chan struct{} {
	return d.init.Closed()
}

func (d *Driver) process(ctx context.Context, in <-chan string) {
	defer d.quit.Close()
	defer close(d.out)

	logw.Infof(ctx, "UCI protocol initialized")

	d.out <- fmt.Sprintf("id name %v", d.e.Name())
	d.out <- fmt.Sprintf("id author %v", d.e.Author())
	d.out <- "uciok"
	d.init.Close()

	for {
		select {
		case line, ok := <-in:
			if !ok {
				logw.Infof(ctx, "Input stream closed")
				return
			}
			if d.dispatch(ctx, line) {
				return // "quit"
			}

		case pv := <-d.ponder:
			if d.active.Load() {
				d.out <- printPV(pv)
			}

		case <-d.quit.Closed():
			d.ensureInactive(ctx)
			logw.Infof(ctx, "Driver closed")
			return
		}
	}
}

// dispatch handles a single input line and reports whether the driver
// should exit ("quit").
func (d *Driver) dispatch(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}
	cmd, args := strings.ToLower(parts[0]), parts[1:]

	switch cmd {
	case "uci":
		d.out <- fmt.Sprintf("id name %v", d.e.Name())
		d.out <- fmt.Sprintf("id author %v", d.e.Author())
		d.out <- "uciok"

	case "isready":
		d.out <- "readyok"

	case "setoption":
		logw.Infof(ctx, "setoption: %v", args) // accepted and ignored

	case "ucinewgame":
		d.ensureInactive(ctx)
		d.e.NewGame(ctx)

	case "position":
		d.ensureInactive(ctx)
		d.handlePosition(ctx, line, args)

	case "go":
		d.ensureInactive(ctx)
		d.handleGo(ctx, args)

	case "stop":
		pv, _ := d.e.Halt(ctx)
		d.searchCompleted(pv)

	case "quit":
		return true

	default:
		logw.Warningf(ctx, "Unknown command %q: %v", cmd, args)
	}
	return false
}

func (d *Driver) handlePosition(ctx context.Context, line string, args []string) {
	position := "startpos"
	rest := args
	if len(args) > 0 && args[0] == "fen" {
		if len(args) < 7 {
			logw.Warningf(ctx, "Malformed position command: %v", line)
			return
		}
		position = strings.Join(args[1:7], " ")
		rest = args[7:]
	} else if len(args) > 0 && args[0] == "startpos" {
		rest = args[1:]
	}

	if position == "startpos" {
		position = fen.Initial
	}
	if err := d.e.Reset(ctx, position); err != nil {
		logw.Warningf(ctx, "Invalid position: %v: %v", line, err)
		return
	}

	for i := 0; i < len(rest); i++ {
		if rest[i] == "moves" {
			continue
		}
		if err := d.e.Move(ctx, rest[i]); err != nil {
			logw.Warningf(ctx, "Invalid move %q in %v: %v", rest[i], line, err)
		}
	}
}

// goArgsWithValue are the "go" keywords that consume a following integer.
// Of these, only wtime/btime/winc/binc/movetime are honored per the engine's
// time-control policy; depth/movestogo/nodes/mate are accepted (their value
// consumed so it isn't mistaken for a command) and otherwise ignored.
var goArgsWithValue = map[string]bool{
	"wtime": true, "btime": true, "winc": true, "binc": true,
	"movetime": true, "movestogo": true, "depth": true, "nodes": true, "mate": true,
}

func (d *Driver) handleGo(ctx context.Context, args []string) {
	var clock engine.Clock
	var movetime time.Duration
	infinite := false

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if goArgsWithValue[arg] {
			i++
			if i >= len(args) {
				logw.Warningf(ctx, "Missing value for %v in go command", arg)
				break
			}
			n, err := strconv.Atoi(args[i])
			if err != nil {
				logw.Warningf(ctx, "Invalid value for %v: %v", arg, args[i])
				continue
			}
			switch arg {
			case "wtime":
				clock.WTime = time.Duration(n) * time.Millisecond
			case "btime":
				clock.BTime = time.Duration(n) * time.Millisecond
			case "winc":
				clock.WInc = time.Duration(n) * time.Millisecond
			case "binc":
				clock.BInc = time.Duration(n) * time.Millisecond
			case "movetime":
				movetime = time.Duration(n) * time.Millisecond
			case "movestogo":
				clock.MovesToGo = n
			}
			continue
		}
		if arg == "infinite" {
			infinite = true
		}
	}

	out, err := d.e.Analyze(ctx, clock, movetime, infinite)
	if err != nil {
		logw.Warningf(ctx, "Analyze failed: %v", err)
		return
	}
	d.active.Store(true)

	go func() {
		var last search.PV
		for pv := range out {
			last = pv
			select {
			case d.ponder <- pv:
			default:
			}
		}
		d.searchCompleted(last)
	}()
}

func (d *Driver) ensureInactive(ctx context.Context) {
	d.active.Store(false)
	_, _ = d.e.Halt(ctx)
}

// searchCompleted emits bestmove exactly once per go, guarded by the CAS so
// a race between an explicit "stop" and the search's own completion never
// emits bestmove twice.
func (d *Driver) searchCompleted(pv search.PV) {
	if !d.active.CAS(true, false) {
		return // already completed for this go
	}
	if len(pv.Moves) == 0 {
		d.out <- "bestmove 0000"
		return
	}
	d.out <- printPV(pv)
	d.out <- fmt.Sprintf("bestmove %v", pv.Moves[0])
}

func printPV(pv search.PV) string {
	parts := []string{"info", fmt.Sprintf("depth %v", pv.Depth)}
	if pv.Score.IsMate() {
		parts = append(parts, fmt.Sprintf("score mate %v", pv.Score.MateIn()))
	} else {
		parts = append(parts, fmt.Sprintf("score cp %v", int(pv.Score)))
	}
	parts = append(parts, fmt.Sprintf("nodes %v", pv.Nodes))
	parts = append(parts, fmt.Sprintf("time %v", pv.Time.Milliseconds()))
	if pv.Time > 0 {
		parts = append(parts, fmt.Sprintf("nps %v", nps(pv)))
	}
	parts = append(parts, fmt.Sprintf("hashfull %v", int(1000*pv.Hash)))
	if len(pv.Moves) > 0 {
		moves := make([]string, len(pv.Moves))
		for i, m := range pv.Moves {
			moves[i] = m.String()
		}
		parts = append(parts, "pv", strings.Join(moves, " "))
	}
	return strings.Join(parts, " ")
}

func nps(pv search.PV) uint64 {
	if pv.Time <= 0 {
		return 0
	}
	return uint64(float64(pv.Nodes) / pv.Time.Seconds())
}
