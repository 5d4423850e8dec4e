package manager

import (
	"fmt"
)

// Unload tears down a loaded model and removes it from the registry.
//   - Fails with a not-found error if the id is absent or already unloading.
//   - Fails with *InUseError while leases are held or the model is still loading.
//   - Otherwise marks the model unloading (no Acquire can succeed from here on),
//     closes the engine outside all locks and removes the entry.
//
// The entry is removed even when closing the engine fails; the close error is
// returned wrapped.
func (m *Manager) Unload(modelID string) error {
	if modelID == "" {
		return ErrModelNotFound("(unspecified)")
	}
	h, ok := m.models.Load(modelID)
	if !ok {
		return ErrModelNotFound(modelID)
	}

	h.mu.Lock()
	switch {
	case h.state == StateUnloading:
		h.mu.Unlock()
		return ErrModelNotFound(modelID)
	case h.state == StateLoading:
		h.mu.Unlock()
		m.publish(EventUnloadRejected, modelID, map[string]any{"loading": true})
		return &InUseError{ModelID: modelID, Loading: true}
	case h.refs > 0:
		refs := h.refs
		h.mu.Unlock()
		m.log.Info().Str("model", modelID).Int("refs", refs).Msg("unload rejected: in use")
		m.publish(EventUnloadRejected, modelID, map[string]any{"refs": refs})
		return &InUseError{ModelID: modelID, Refs: refs}
	}
	h.state = StateUnloading
	eng := h.engine
	h.engine = nil
	h.mu.Unlock()

	m.log.Info().Str("model", modelID).Msg("unload start")
	m.publish(EventUnloadStart, modelID, nil)

	var closeErr error
	if eng != nil {
		closeErr = eng.Close()
	}
	m.remove(h)

	if closeErr != nil {
		m.log.Warn().Str("model", modelID).Err(closeErr).Msg("engine close failed")
		m.publish(EventUnloadDone, modelID, map[string]any{"error": closeErr.Error()})
		return fmt.Errorf("close engine for model %s: %w", modelID, closeErr)
	}
	m.log.Info().Str("model", modelID).Msg("unload done")
	m.publish(EventUnloadDone, modelID, nil)
	return nil
}
