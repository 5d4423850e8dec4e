package manager

import (
	"context"
	"errors"
	"time"
)

type loadResult struct {
	lease *Lease
	err   error
}

// Load registers modelID and instantiates its engine. It fails with an
// already-loaded error if the id is present in any state; concurrent loads of
// the same id race and exactly one wins.
//
// On success the caller receives a lease proving the model was ready at the
// point of return; releasing it does not unload the model. If instantiation
// fails the registration is rolled back and a *LoadFailedError is returned.
//
// If ctx ends first, Load returns ctx.Err() while the instantiation finishes
// in the background; the model then ends up ready or absent, never stuck loading.
func (m *Manager) Load(ctx context.Context, modelID string) (*Lease, error) {
	if modelID == "" {
		return nil, ErrModelNotFound("(unspecified)")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h := &handle{id: modelID, state: StateLoading}
	if _, loaded := m.models.LoadOrStore(modelID, h); loaded {
		m.log.Debug().Str("model", modelID).Msg("load rejected: already registered")
		m.publish(EventLoadRejected, modelID, nil)
		return nil, ErrAlreadyLoaded(modelID)
	}
	m.log.Info().Str("model", modelID).Msg("load start")
	m.publish(EventLoadStart, modelID, nil)

	done := make(chan loadResult, 1)
	go func() {
		lease, err := m.instantiate(context.WithoutCancel(ctx), h)
		done <- loadResult{lease: lease, err: err}
	}()
	select {
	case r := <-done:
		return r.lease, r.err
	case <-ctx.Done():
		m.log.Warn().Str("model", modelID).Err(ctx.Err()).Msg("load abandoned by caller; finishing in background")
		go func() {
			if r := <-done; r.lease != nil {
				m.Release(r.lease)
			}
		}()
		return nil, ctx.Err()
	}
}

// instantiate runs the loader for a handle registered in StateLoading and
// commits the outcome.
func (m *Manager) instantiate(ctx context.Context, h *handle) (*Lease, error) {
	start := time.Now()
	eng, err := m.loader.Load(ctx, h.id)
	if err == nil && eng == nil {
		err = errors.New("loader returned no engine")
	}
	if err != nil {
		m.remove(h)
		dur := time.Since(start)
		m.log.Error().Str("model", h.id).Dur("dur", dur).Err(err).Msg("load failed")
		m.publish(EventLoadFailed, h.id, map[string]any{"error": err.Error(), "dur_ms": int(dur / time.Millisecond)})
		return nil, &LoadFailedError{ModelID: h.id, Cause: err}
	}

	now := time.Now()
	h.mu.Lock()
	h.engine = eng
	h.state = StateReady
	h.loadedAt = now
	h.lastUsed = now
	h.refs++
	lease := newLease(h, eng)
	h.mu.Unlock()

	dur := time.Since(start)
	m.log.Info().Str("model", h.id).Dur("dur", dur).Msg("load done")
	m.publish(EventLoadDone, h.id, map[string]any{"dur_ms": int(dur / time.Millisecond)})
	return lease, nil
}
