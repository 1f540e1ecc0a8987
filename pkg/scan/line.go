package scan

import (
	"bufio"
	"context"
	"io"
	"sync"
)

// LineDetector reads newline-terminated payloads from a reader, the way
// keyboard-wedge and serial barcode scanners deliver them. Lines that arrive
// between sessions wait for the next Detect or ReadLine call.
type LineDetector struct {
	r     io.Reader
	once  sync.Once
	lines chan string
}

// NewLineDetector returns a detector over r.
func NewLineDetector(r io.Reader) *LineDetector {
	return &LineDetector{r: r, lines: make(chan string)}
}

// Open starts reading r on first use.
func (d *LineDetector) Open(ctx context.Context) error {
	d.start()
	return nil
}

func (d *LineDetector) start() {
	d.once.Do(func() {
		go func() {
			defer close(d.lines)
			sc := bufio.NewScanner(d.r)
			for sc.Scan() {
				d.lines <- sc.Text()
			}
		}()
	})
}

// Detect returns the next pending line, or nothing if none has arrived.
func (d *LineDetector) Detect(ctx context.Context) ([]string, error) {
	select {
	case line, ok := <-d.lines:
		if !ok {
			return nil, ErrSourceClosed
		}
		return []string{line}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
		return nil, nil
	}
}

// ReadLine blocks for the next line. It lets callers prompt for other input
// on the same stream the scanner types into.
func (d *LineDetector) ReadLine(ctx context.Context) (string, error) {
	d.start()
	select {
	case line, ok := <-d.lines:
		if !ok {
			return "", io.EOF
		}
		return line, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Close is a no-op: the reader outlives individual sessions.
func (d *LineDetector) Close() error { return nil }
