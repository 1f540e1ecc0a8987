// Package scan drives a barcode detector through one-shot scanning sessions.
// A session polls its detector until the first payload that normalizes to a
// non-empty identifier, stops itself and only then hands the payload back.
package scan

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"stockcount/pkg/logger"
)

// DefaultInterval is the pause between detection attempts.
const DefaultInterval = 150 * time.Millisecond

// Formats lists the barcode symbologies detectors are asked to recognize.
var Formats = []string{"ean_13", "ean_8", "upc_a", "upc_e", "code_128", "code_39", "qr_code"}

var (
	// ErrAlreadyRunning is returned by Start while a session is active.
	ErrAlreadyRunning = errors.New("scan: session already running")
	// ErrUnavailable wraps detector start failures.
	ErrUnavailable = errors.New("scan: scanner unavailable, check that the device is connected and permissions are granted")
	// ErrSourceClosed is returned by detectors whose input is exhausted; it
	// ends the session without a result.
	ErrSourceClosed = errors.New("scan: source closed")
)

// Detector is the decoding backend. Detect returns the raw payloads seen in
// one attempt; errors other than ErrSourceClosed are ignored.
type Detector interface {
	Open(ctx context.Context) error
	Detect(ctx context.Context) ([]string, error)
	Close() error
}

// Session runs at most one scan at a time over a Detector.
type Session struct {
	detector  Detector
	normalize func(string) string
	interval  time.Duration
	log       *logger.Logger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// Option configures a Session.
type Option func(*Session)

// WithInterval overrides DefaultInterval.
func WithInterval(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Session) { s.log = l }
}

// NewSession returns an idle session. normalize maps raw payloads to
// identifiers; an empty result means "keep scanning".
func NewSession(d Detector, normalize func(string) string, opts ...Option) *Session {
	s := &Session{
		detector:  d,
		normalize: normalize,
		interval:  DefaultInterval,
		log:       logger.Discard(),
		done:      closedChan(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Running reports whether a scan is active.
func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Done returns a channel closed when the current (or last) scan has ended
// and its result, if any, has been delivered.
func (s *Session) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// Start opens the detector and scans until Stop, ctx cancellation, source
// exhaustion or a successful decode. onResult runs once, after the session
// has been torn down.
func (s *Session) Start(ctx context.Context, onResult func(string)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrAlreadyRunning
	}
	if err := s.detector.Open(ctx); err != nil {
		s.log.Error(ctx, "scanner open failed", "error", err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.running, s.cancel, s.done = true, cancel, done
	s.log.Debug(ctx, "scan started", "interval", s.interval)
	go s.run(runCtx, done, onResult)
	return nil
}

// Stop ends the active scan and waits for the detector to be released. It
// is a no-op when idle.
func (s *Session) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.cancel()
	done := s.done
	s.mu.Unlock()
	<-done
}

// Restart stops any active scan and starts a new one.
func (s *Session) Restart(ctx context.Context, onResult func(string)) error {
	s.Stop()
	return s.Start(ctx, onResult)
}

func (s *Session) run(ctx context.Context, done chan struct{}, onResult func(string)) {
	payload, ok := s.poll(ctx)
	if err := s.detector.Close(); err != nil {
		s.log.Warn(ctx, "scanner close failed", "error", err)
	}

	s.mu.Lock()
	won := s.running && s.done == done
	if won {
		s.running = false
		s.cancel()
	}
	s.mu.Unlock()
	defer close(done)

	if ok && won {
		s.log.Debug(ctx, "scan decoded", "payload", payload)
		onResult(payload)
	}
}

func (s *Session) poll(ctx context.Context) (string, bool) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		codes, err := s.detector.Detect(ctx)
		switch {
		case errors.Is(err, ErrSourceClosed):
			return "", false
		case err != nil:
			if ctx.Err() != nil {
				return "", false
			}
			s.log.Debug(ctx, "detect failed", "error", err)
		default:
			for _, raw := range codes {
				if v := s.normalize(raw); v != "" {
					return v, true
				}
			}
		}
		select {
		case <-ctx.Done():
			return "", false
		case <-ticker.C:
		}
	}
}

func closedChan() chan struct{} {
	c := make(chan struct{})
	close(c)
	return c
}
