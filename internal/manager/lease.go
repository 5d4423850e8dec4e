package manager

import (
	"sync/atomic"
	"time"

	"github.com/rs/xid"
)

// Lease is a live reference to a loaded model. While a lease is held the
// model cannot be unloaded. Leases are single-use: release each exactly once.
type Lease struct {
	id       xid.ID
	h        *handle
	engine   Engine
	released atomic.Bool
}

func newLease(h *handle, eng Engine) *Lease {
	return &Lease{id: xid.New(), h: h, engine: eng}
}

// ID returns the unique lease id.
func (l *Lease) ID() string { return l.id.String() }

// ModelID returns the id of the leased model.
func (l *Lease) ModelID() string { return l.h.id }

// Engine returns the leased engine. It must not be used after Release.
func (l *Lease) Engine() Engine { return l.engine }

// Acquire takes a lease on a ready model. It fails with a not-found error when
// the model is absent, still loading, or already being unloaded.
func (m *Manager) Acquire(modelID string) (*Lease, error) {
	h, ok := m.models.Load(modelID)
	if !ok {
		return nil, ErrModelNotFound(modelID)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state != StateReady {
		return nil, ErrModelNotFound(modelID)
	}
	h.refs++
	h.lastUsed = time.Now()
	return newLease(h, h.engine), nil
}

// Release returns a lease. Releasing never unloads the model.
// Releasing the same lease twice is a programming error and panics.
func (m *Manager) Release(l *Lease) {
	if l == nil {
		return
	}
	if !l.released.CompareAndSwap(false, true) {
		panic("manager: lease " + l.id.String() + " for model " + l.h.id + " released twice")
	}
	h := l.h
	h.mu.Lock()
	h.refs--
	if h.refs < 0 {
		h.mu.Unlock()
		panic("manager: negative reference count for model " + h.id)
	}
	h.lastUsed = time.Now()
	h.mu.Unlock()
}
