// ABOUTME: Reader turns a raw input source into an ordered event stream with blocking and polled access.
// ABOUTME: Built on muesli/cancelreader so a blocking Next can be interrupted from another goroutine.

package input

import (
	"errors"
	"io"
	"sync"
	"time"

	"github.com/muesli/cancelreader"
)

// ErrCancelled is returned by Next and Poll after Cancel interrupts
// the reader, distinguishing a deliberate stop from a source error.
var ErrCancelled = errors.New("input read cancelled")

// DefaultEscTimeout is how long the decoder waits for the rest of an
// escape sequence before treating a lone ESC byte as the Escape key.
// The two cases are not distinguishable from the byte prefix alone, so
// this inactivity bound is inherent to the protocol, not a bug; tune
// it with WithEscTimeout.
const DefaultEscTimeout = 50 * time.Millisecond

const readBufSize = 256

// Option configures a Reader.
type Option func(*config)

type config struct {
	escTimeout   time.Duration
	resizeEvents bool
}

// WithEscTimeout overrides the lone-ESC disambiguation timeout.
func WithEscTimeout(d time.Duration) Option {
	return func(c *config) { c.escTimeout = d }
}

// WithoutResizeEvents disables delivery of ResizeEvent on platforms
// that report terminal size changes.
func WithoutResizeEvents() Option {
	return func(c *config) { c.resizeEvents = false }
}

// Reader decodes a raw input stream into Events. The sequence is lazy
// and ordered: events are produced as bytes arrive and are never
// reordered. It is restartable per session but not replayable: once
// consumed, an event is gone.
type Reader struct {
	events chan Event
	inject chan Event
	stop   chan struct{}

	stopOnce sync.Once
	cancelFn func() bool

	mu      sync.Mutex
	pending []Event

	// err is set by the run loop before events is closed.
	err error

	escTimeout time.Duration
}

// NewReader returns a Reader decoding ANSI byte input from src. A nil
// src uses the platform default input source: standard input on Unix,
// the console input buffer on Windows (where events arrive as
// pre-structured records instead of bytes).
func NewReader(src io.Reader, opts ...Option) (*Reader, error) {
	cfg := config{escTimeout: DefaultEscTimeout, resizeEvents: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	if src == nil {
		return newPlatformReader(cfg)
	}
	return newByteReader(src, cfg)
}

// newByteReader starts the escape-decoding pipeline over src.
func newByteReader(src io.Reader, cfg config) (*Reader, error) {
	cr, err := cancelreader.NewReader(src)
	if err != nil {
		return nil, err
	}

	r := &Reader{
		events:     make(chan Event, 64),
		inject:     make(chan Event, 8),
		stop:       make(chan struct{}),
		cancelFn:   cr.Cancel,
		escTimeout: cfg.escTimeout,
	}
	go r.run(cr)
	return r, nil
}

// Next blocks until an event is available and returns it. It returns
// ErrCancelled after Cancel, or the source error (io.EOF included)
// once the stream ends.
func (r *Reader) Next() (Event, error) {
	r.mu.Lock()
	if len(r.pending) > 0 {
		ev := r.pending[0]
		r.pending = r.pending[1:]
		r.mu.Unlock()
		return ev, nil
	}
	r.mu.Unlock()

	ev, ok := <-r.events
	if !ok {
		return nil, r.err
	}
	return ev, nil
}

// Poll reports whether an event is available within timeout. A true
// result guarantees the next Next call returns without blocking. Poll
// never consumes events; it only buffers one ahead.
func (r *Reader) Poll(timeout time.Duration) (bool, error) {
	r.mu.Lock()
	if len(r.pending) > 0 {
		r.mu.Unlock()
		return true, nil
	}
	r.mu.Unlock()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case ev, ok := <-r.events:
		if !ok {
			return false, r.err
		}
		r.mu.Lock()
		r.pending = append(r.pending, ev)
		r.mu.Unlock()
		return true, nil
	case <-timer.C:
		return false, nil
	}
}

// Cancel interrupts a blocking read from another goroutine. Pending
// and in-flight events may still be drained; after that, Next returns
// ErrCancelled. Cancel is idempotent.
func (r *Reader) Cancel() {
	r.stopOnce.Do(func() {
		close(r.stop)
		if r.cancelFn != nil {
			r.cancelFn()
		}
	})
}

// readResult holds the outcome of a single Read call.
type readResult struct {
	data []byte
	err  error
}

// readLoop continuously reads from the source and forwards chunks.
// It stops when stop is closed, preventing a goroutine leak when the
// consumer cancels.
func readLoop(src io.Reader, ch chan<- readResult, stop <-chan struct{}) {
	defer close(ch)
	tmp := make([]byte, readBufSize)
	for {
		n, err := src.Read(tmp)
		if n > 0 {
			data := make([]byte, n)
			copy(data, tmp[:n])
			select {
			case ch <- readResult{data: data}:
			case <-stop:
				return
			}
		}
		if err != nil {
			select {
			case ch <- readResult{err: err}:
			case <-stop:
			}
			return
		}
	}
}

// run is the decode loop: it drains complete events from the front of
// the buffer, and when the buffer holds only an ambiguous prefix it
// waits up to escTimeout for more bytes before reinterpreting the
// prefix as literal keypresses.
func (r *Reader) run(src io.Reader) {
	defer close(r.events)

	readCh := make(chan readResult)
	go readLoop(src, readCh, r.stop)

	var buf []byte
	for {
		ambiguous := false
		for len(buf) > 0 {
			consumed, ev, needMore := tryParse(buf, false)
			if needMore {
				ambiguous = true
				break
			}
			buf = buf[consumed:]
			if ev != nil && !r.emit(ev) {
				return
			}
		}

		var timeout <-chan time.Time
		var timer *time.Timer
		if ambiguous {
			timer = time.NewTimer(r.escTimeout)
			timeout = timer.C
		}

		select {
		case res, ok := <-readCh:
			stopTimer(timer)
			if !ok {
				r.finish(buf, io.EOF)
				return
			}
			if res.err != nil {
				r.finish(buf, res.err)
				return
			}
			buf = append(buf, res.data...)
		case <-timeout:
			// Inactivity: resolve the ambiguity in favor of literal
			// keypresses (lone Escape first, then the rest).
			if !r.emitLiteral(&buf) {
				return
			}
		case ev := <-r.inject:
			stopTimer(timer)
			if !r.emit(ev) {
				return
			}
		case <-r.stop:
			stopTimer(timer)
			r.err = ErrCancelled
			return
		}
	}
}

func stopTimer(t *time.Timer) {
	if t != nil {
		t.Stop()
	}
}

// emit delivers ev, aborting if the reader is cancelled.
func (r *Reader) emit(ev Event) bool {
	select {
	case r.events <- ev:
		return true
	case <-r.stop:
		r.err = ErrCancelled
		return false
	}
}

// emitLiteral drains the buffer with ambiguity resolution forced.
func (r *Reader) emitLiteral(buf *[]byte) bool {
	for len(*buf) > 0 {
		consumed, ev, _ := tryParse(*buf, true)
		if consumed == 0 {
			*buf = nil
			return true
		}
		*buf = (*buf)[consumed:]
		if ev != nil && !r.emit(ev) {
			return false
		}
	}
	return true
}

// finish flushes whatever remains in the buffer as literal events and
// records the terminal error for Next/Poll to return.
func (r *Reader) finish(buf []byte, err error) {
	if !r.emitLiteral(&buf) {
		return
	}
	if errors.Is(err, cancelreader.ErrCanceled) {
		err = ErrCancelled
	}
	r.err = err
}
