package manager

import (
	"context"
	"errors"
	"time"
)

// Get returns a lease on modelID, loading the model first when it is not
// registered. If another caller is loading the same model, Get polls until it
// becomes ready, giving up after the configured MaxWait with a too-busy error.
func (m *Manager) Get(ctx context.Context, modelID string) (*Lease, error) {
	deadline := time.Now().Add(m.maxWait)
	for {
		if lease, err := m.Acquire(modelID); err == nil {
			return lease, nil
		}
		lease, err := m.Load(ctx, modelID)
		if err == nil {
			return lease, nil
		}
		if !IsAlreadyLoaded(err) {
			return nil, err
		}
		if time.Now().After(deadline) {
			return nil, tooBusyError{modelID: modelID}
		}
		timer := time.NewTimer(m.poll)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

// Close unloads every registered model, waiting for in-flight leases and
// pending loads to resolve until ctx ends. It returns the joined errors of
// models that could not be unloaded.
func (m *Manager) Close(ctx context.Context) error {
	var errs []error
	for _, id := range m.List() {
		for {
			err := m.Unload(id)
			if err == nil || IsModelNotFound(err) {
				break
			}
			if !IsInUse(err) {
				errs = append(errs, err)
				break
			}
			timer := time.NewTimer(m.poll)
			select {
			case <-ctx.Done():
				timer.Stop()
				return errors.Join(append(errs, err)...)
			case <-timer.C:
			}
		}
	}
	return errors.Join(errs...)
}
