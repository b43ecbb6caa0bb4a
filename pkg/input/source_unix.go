// ABOUTME: Unix default input source: standard input bytes plus SIGWINCH-driven resize events.
// ABOUTME: Resize notifications are injected into the event stream alongside decoded keys.

//go:build unix

package input

import (
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// newPlatformReader decodes standard input and, unless disabled,
// watches SIGWINCH to deliver ResizeEvent.
func newPlatformReader(cfg config) (*Reader, error) {
	r, err := newByteReader(os.Stdin, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.resizeEvents {
		go watchResize(r)
	}
	return r, nil
}

// watchResize forwards terminal size changes until the reader stops.
func watchResize(r *Reader) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, unix.SIGWINCH)
	defer signal.Stop(sig)

	for {
		select {
		case <-sig:
			cols, rows, err := term.GetSize(int(os.Stdout.Fd()))
			if err != nil {
				continue
			}
			select {
			case r.inject <- ResizeEvent{Cols: cols, Rows: rows}:
			case <-r.stop:
				return
			}
		case <-r.stop:
			return
		}
	}
}
