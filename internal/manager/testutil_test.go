package manager

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fakeEngine is a lightweight in-memory engine used for tests.
type fakeEngine struct {
	id       string
	closed   atomic.Int32
	closeErr error
	// closeGate, when non-nil, blocks Close until closed.
	closeGate chan struct{}
	text      string
	trErr     error
	// inTranscribe, when non-nil, receives once per Transcribe call before it returns.
	inTranscribe chan struct{}
	release      chan struct{}
}

func (e *fakeEngine) Close() error {
	if e.closeGate != nil {
		<-e.closeGate
	}
	e.closed.Add(1)
	return e.closeErr
}

// plainEngine has no transcription capability.
type plainEngine struct{ closed atomic.Bool }

func (e *plainEngine) Close() error { e.closed.Store(true); return nil }

func (e *fakeEngine) Transcribe(ctx context.Context, audio io.Reader, opts TranscribeOptions) (Transcript, error) {
	if e.inTranscribe != nil {
		e.inTranscribe <- struct{}{}
	}
	if e.release != nil {
		select {
		case <-e.release:
		case <-ctx.Done():
			return Transcript{}, ctx.Err()
		}
	}
	if e.trErr != nil {
		return Transcript{}, e.trErr
	}
	b, err := io.ReadAll(audio)
	if err != nil {
		return Transcript{}, err
	}
	text := e.text
	if text == "" {
		text = string(b)
	}
	return Transcript{Text: text, Language: opts.Language}, nil
}

// fakeLoader records calls and hands out fakeEngines.
type fakeLoader struct {
	mu      sync.Mutex
	calls   map[string]int
	engines map[string]*fakeEngine
	errs    map[string]error
	// gate, when non-nil, blocks every Load until closed.
	gate    chan struct{}
	started chan string
	// newEngine overrides engine construction.
	newEngine func(id string) Engine
}

func newFakeLoader() *fakeLoader {
	return &fakeLoader{calls: map[string]int{}, engines: map[string]*fakeEngine{}, errs: map[string]error{}}
}

func (l *fakeLoader) Load(ctx context.Context, id string) (Engine, error) {
	l.mu.Lock()
	l.calls[id]++
	gate, started := l.gate, l.started
	err := l.errs[id]
	l.mu.Unlock()
	if started != nil {
		started <- id
	}
	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	if l.newEngine != nil {
		return l.newEngine(id), nil
	}
	e := &fakeEngine{id: id}
	l.mu.Lock()
	l.engines[id] = e
	l.mu.Unlock()
	return e, nil
}

func (l *fakeLoader) callsFor(id string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls[id]
}

func (l *fakeLoader) engine(id string) *fakeEngine {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.engines[id]
}

var errBoom = errors.New("boom")

// testCtx returns a context with a short timeout, canceled on test cleanup.
func testCtx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return c
}

// mustLoad loads id and releases the returned lease.
func mustLoad(t *testing.T, m *Manager, id string) {
	t.Helper()
	lease, err := m.Load(testCtx(t), id)
	if err != nil {
		t.Fatalf("Load(%q): %v", id, err)
	}
	m.Release(lease)
}

func stateOf(m *Manager, id string) (HandleStatus, bool) {
	for _, hs := range m.Snapshot() {
		if hs.ID == id {
			return hs, true
		}
	}
	return HandleStatus{}, false
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(2 * time.Millisecond)
	}
}
