package scan

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"
)

type scriptedDetector struct {
	mu      sync.Mutex
	openErr error
	script  [][]string
	errs    []error
	calls   int
	opened  int
	closed  int
}

func (d *scriptedDetector) Open(context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.openErr != nil {
		return d.openErr
	}
	d.opened++
	return nil
}

func (d *scriptedDetector) Detect(context.Context) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	i := d.calls
	d.calls++
	if i < len(d.errs) && d.errs[i] != nil {
		return nil, d.errs[i]
	}
	if i < len(d.script) {
		return d.script[i], nil
	}
	return nil, nil
}

func (d *scriptedDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed++
	return nil
}

func trim(s string) string { return strings.TrimSpace(s) }

func TestSessionFirstDecodeWins(t *testing.T) {
	d := &scriptedDetector{
		script: [][]string{nil, {"   "}, nil, {" 789 ", "123"}, {"456"}},
		errs:   []error{nil, nil, errors.New("frame not ready")},
	}
	s := NewSession(d, trim, WithInterval(time.Millisecond))

	results := make(chan string, 2)
	var stoppedFirst bool
	if err := s.Start(context.Background(), func(v string) {
		stoppedFirst = !s.Running()
		results <- v
	}); err != nil {
		t.Fatalf("start: %v", err)
	}

	select {
	case v := <-results:
		if v != "789" {
			t.Fatalf("expected 789, got %q", v)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for result")
	}
	<-s.Done()
	if !stoppedFirst {
		t.Fatal("session still running when result was delivered")
	}
	if d.closed != 1 {
		t.Fatalf("expected detector closed once, got %d", d.closed)
	}
	select {
	case v := <-results:
		t.Fatalf("unexpected second result %q", v)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestSessionAlreadyRunning(t *testing.T) {
	s := NewSession(&scriptedDetector{}, trim, WithInterval(time.Millisecond))
	if err := s.Start(context.Background(), func(string) {}); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer s.Stop()
	if err := s.Start(context.Background(), func(string) {}); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}
}

func TestSessionStop(t *testing.T) {
	d := &scriptedDetector{}
	s := NewSession(d, trim, WithInterval(time.Millisecond))
	called := false
	if err := s.Start(context.Background(), func(string) { called = true }); err != nil {
		t.Fatalf("start: %v", err)
	}
	s.Stop()
	if s.Running() {
		t.Fatal("expected idle session after stop")
	}
	if called {
		t.Fatal("stopped session delivered a result")
	}
	s.Stop()

	if err := s.Restart(context.Background(), func(string) {}); err != nil {
		t.Fatalf("restart: %v", err)
	}
	s.Stop()
	if d.opened != 2 || d.closed != 2 {
		t.Fatalf("expected 2 open/close cycles, got %d/%d", d.opened, d.closed)
	}
}

func TestSessionOpenFailure(t *testing.T) {
	d := &scriptedDetector{openErr: errors.New("permission denied")}
	s := NewSession(d, trim)
	err := s.Start(context.Background(), func(string) {})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if s.Running() {
		t.Fatal("failed start left session running")
	}
}

func TestSessionContextCancel(t *testing.T) {
	s := NewSession(&scriptedDetector{}, trim, WithInterval(time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	if err := s.Start(ctx, func(string) {}); err != nil {
		t.Fatalf("start: %v", err)
	}
	cancel()
	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("session did not end on cancel")
	}
	if s.Running() {
		t.Fatal("expected idle session")
	}
}

func TestLineDetector(t *testing.T) {
	d := NewLineDetector(strings.NewReader("\n 7891000100103 \n5\n"))
	s := NewSession(d, trim, WithInterval(time.Millisecond))
	results := make(chan string, 1)
	if err := s.Start(context.Background(), func(v string) { results <- v }); err != nil {
		t.Fatalf("start: %v", err)
	}
	select {
	case v := <-results:
		if v != "7891000100103" {
			t.Fatalf("unexpected payload %q", v)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out")
	}

	ctx := context.Background()
	line, err := d.ReadLine(ctx)
	if err != nil || line != "5" {
		t.Fatalf("ReadLine = %q, %v", line, err)
	}
	if _, err := d.ReadLine(ctx); !errors.Is(err, io.EOF) {
		t.Fatalf("expected EOF, got %v", err)
	}
}

func TestLineDetectorSourceClosed(t *testing.T) {
	d := NewLineDetector(strings.NewReader(""))
	s := NewSession(d, trim, WithInterval(time.Millisecond))
	called := false
	if err := s.Start(context.Background(), func(string) { called = true }); err != nil {
		t.Fatalf("start: %v", err)
	}
	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("session did not end on closed source")
	}
	if called {
		t.Fatal("closed source delivered a result")
	}
}

func TestLineDetectorReadLineStartsReader(t *testing.T) {
	d := NewLineDetector(strings.NewReader("12\n"))
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	line, err := d.ReadLine(ctx)
	if err != nil || line != "12" {
		t.Fatalf("ReadLine = %q, %v", line, err)
	}
}
