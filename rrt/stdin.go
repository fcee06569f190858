package rrt

import (
	"os"

	"github.com/mattn/go-localereader"
	"github.com/muesli/cancelreader"
)

// StdinWaker cancels the blocking read StdinWorker is parked in — the
// concrete Waker spec §6.3 means by "interrupts whatever the Worker is
// blocking on" for a real terminal, rather than the abstract contract
// alone.
type StdinWaker struct {
	r cancelreader.CancelReader
}

// Wake unblocks the in-flight Read. Safe to call more than once.
func (w *StdinWaker) Wake() {
	w.r.Cancel()
}

// StdinWorker reads raw bytes off a cancelable, locale-decoded stdin and
// forwards each chunk to the reactor's tx channel — the concrete Worker
// half of spec §2's "RRT worker -> raw bytes -> ANSI parser" data flow.
// It never interprets the bytes itself; that's forme/ansiparser's job
// once they reach a subscriber.
type StdinWorker struct {
	r   cancelreader.CancelReader
	buf [4096]byte
}

// PollOnce reads one chunk and forwards it. Continue keeps the reactor
// loop going; Stop is returned on EOF or on a Wake-triggered cancellation.
func (w *StdinWorker) PollOnce(tx chan<- []byte) Signal {
	n, err := w.r.Read(w.buf[:])
	if n > 0 {
		chunk := make([]byte, n)
		copy(chunk, w.buf[:n])
		select {
		case tx <- chunk:
		default:
			// A slow broadcast loop does not block the reader; the
			// reactor's own broadcastLoop already drops on backpressure.
		}
	}
	if err != nil {
		// Cancellation (via Wake) and EOF both end the worker the same
		// way; any other read error is treated as equally terminal since
		// there is no recovery path for a broken stdin.
		return Stop
	}
	return Continue
}

// StdinFactory is the default Factory[[]byte] for a real terminal. It
// decodes stdin through go-localereader so that a non-UTF-8 locale still
// produces valid UTF-8 bytes before anything reaches forme/ansiparser,
// then wraps the decoded stream in a cancelreader so Wake() can
// interrupt a blocked Read instead of waiting for the next keystroke
// (spec §6.3's Worker/Waker pair, concretely for stdin).
type StdinFactory struct {
	cancel cancelreader.CancelReader
}

// NewStdinFactory opens the cancelable, locale-decoded stdin reader.
// Call this once per process; the returned Factory is shared by every
// rrt.Reactor subscribing to raw terminal input.
func NewStdinFactory() (*StdinFactory, error) {
	decoded := localereader.NewReader(os.Stdin)
	cr, err := cancelreader.NewReader(decoded)
	if err != nil {
		return nil, err
	}
	return &StdinFactory{cancel: cr}, nil
}

// NewWorker returns the shared cancelable reader wrapped as a Worker.
// The tx argument is unused here; PollOnce takes its own tx each call,
// per the Worker interface.
func (f *StdinFactory) NewWorker(_ chan<- []byte) Worker[[]byte] {
	return &StdinWorker{r: f.cancel}
}

// NewWaker returns a Waker over the same cancelable reader the worker
// reads from, so Wake() actually interrupts that worker's blocking Read.
func (f *StdinFactory) NewWaker() Waker {
	return &StdinWaker{r: f.cancel}
}
