package manager

import (
	"context"
	"sync"
	"time"
)

// State represents lifecycle state of a model handle.
type State string

const (
	StateLoading   State = "loading"
	StateReady     State = "ready"
	StateUnloading State = "unloading"
)

// Engine is a loaded model instance. The Manager owns every engine it loads
// and is the only caller of Close.
type Engine interface {
	// Close releases resources associated with the engine.
	Close() error
}

// Loader instantiates engines by model id. Load may block for a long time
// (reading weights, warming up); it is never called under a registry lock.
type Loader interface {
	Load(ctx context.Context, modelID string) (Engine, error)
}

// LoaderFunc adapts an ordinary function to the Loader interface.
type LoaderFunc func(ctx context.Context, modelID string) (Engine, error)

// Load calls f(ctx, modelID).
func (f LoaderFunc) Load(ctx context.Context, modelID string) (Engine, error) {
	return f(ctx, modelID)
}

// handle is a single owned model instance plus its usage count.
// All fields except id are guarded by mu. refs > 0 implies state != StateUnloading.
type handle struct {
	id string

	mu       sync.Mutex
	state    State
	refs     int
	engine   Engine
	loadedAt time.Time
	lastUsed time.Time
}

// HandleStatus is a read-only projection of a handle.
type HandleStatus struct {
	ID       string
	State    State
	Refs     int
	LoadedAt time.Time
	LastUsed time.Time
}

func (h *handle) status() HandleStatus {
	h.mu.Lock()
	defer h.mu.Unlock()
	return HandleStatus{ID: h.id, State: h.state, Refs: h.refs, LoadedAt: h.loadedAt, LastUsed: h.lastUsed}
}
