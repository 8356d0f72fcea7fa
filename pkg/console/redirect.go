package console

import (
	"io"
	"strings"
	"sync"

	"github.com/Benefit-Zebra/ballistica/pkg/ds"
)

// Redirect intercepts text bound for one console stream. Every write is
// echoed to the original console immediately and unmodified; fragments are
// accumulated and coalesced into single log records, shipping when a write
// is newline-terminated or on the next scheduler cycle otherwise. That way a
// logical print composed of several partial writes lands in the sink as one
// record.
//
// Redirects are safe for concurrent writers. Fragment order follows lock
// acquisition order, so partial lines from different goroutines that never
// see an intervening ship can merge into one record; that is inherent to a
// per-channel buffer and intentional. A newline-terminated write always
// ships as its own record (plus any earlier partial fragments), never merged
// with another complete write.
type Redirect struct {
	original Console
	echo     func(string)
	dest     ds.LogDestination
	sink     ds.LogSink
	sched    ds.Scheduler

	lock     sync.Mutex // guards lineBits append/drain
	lineBits []string

	shipLock sync.Mutex // serializes sink emits for this instance
}

var _ Console = (*Redirect)(nil)
var _ io.Writer = (*Redirect)(nil)

// MakeRedirect wraps original. echo is invoked synchronously on every write
// with the raw text (may be nil); dest tags records forwarded to sink; sched
// runs deferred ships on its consumer goroutine.
func MakeRedirect(original Console, echo func(string), dest ds.LogDestination, sink ds.LogSink, sched ds.Scheduler) *Redirect {
	return &Redirect{
		original: original,
		echo:     echo,
		dest:     dest,
		sink:     sink,
		sched:    sched,
	}
}

// WriteString accepts any text, including empty, multi-line, or without a
// trailing newline. It never blocks on sink I/O and never fails.
func (r *Redirect) WriteString(sval string) {
	// visible output comes first, outside any lock, regardless of what
	// the logging side does with the text
	if r.echo != nil {
		r.echo(sval)
	}

	if !strings.HasSuffix(sval, "\n") {
		r.lock.Lock()
		r.lineBits = append(r.lineBits, sval)
		r.lock.Unlock()
		// Defer the ship to the next scheduler cycle so subsequent
		// fragments of the same print can accumulate. One enqueue per
		// write, no dedup; shipLog is idempotent so redundant runs are
		// harmless.
		r.sched.PushCall(r.shipLog, true, true)
		return
	}

	// Newline-terminated: append and drain in a single critical section so
	// this write ships as one record and never merges with another
	// complete write racing on the same instance.
	r.lock.Lock()
	r.lineBits = append(r.lineBits, sval)
	bits := r.lineBits
	r.lineBits = nil
	r.lock.Unlock()
	r.emit(bits)
}

// Write adapts the byte-oriented io.Writer shape onto WriteString.
func (r *Redirect) Write(p []byte) (int, error) {
	r.WriteString(string(p))
	return len(p), nil
}

// shipLog drains the accumulated fragments and forwards them to the sink as
// one record. Safe to run redundantly; an empty drain is a no-op.
func (r *Redirect) shipLog() {
	r.lock.Lock()
	bits := r.lineBits
	r.lineBits = nil
	r.lock.Unlock()
	r.emit(bits)
}

// emit joins a drained fragment set and forwards it. Runs outside the buffer
// lock so sink I/O never blocks writers; shipLock keeps the sink-facing call
// single-writer per instance.
func (r *Redirect) emit(bits []string) {
	line := strings.Join(bits, "")
	if line == "" {
		return
	}
	// records carry no trailing newline by convention; strip exactly one
	line = strings.TrimSuffix(line, "\n")
	r.shipLock.Lock()
	defer r.shipLock.Unlock()
	r.sink.EmitLog(line, r.dest)
}

// Flush delegates to the original console. It does not touch the fragment
// buffer or trigger a ship.
func (r *Redirect) Flush() error {
	return r.original.Flush()
}

// IsTerminal delegates to the original console.
func (r *Redirect) IsTerminal() bool {
	return r.original.IsTerminal()
}

// Destination returns the channel tag this redirect files records under.
func (r *Redirect) Destination() ds.LogDestination {
	return r.dest
}
