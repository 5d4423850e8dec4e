package manager

import (
	"sort"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/rs/zerolog"
)

// Manager is the model registry: the single source of truth for which models
// are loaded and the only component that instantiates or tears down engines.
//
// The handle map is a concurrent map; every lifecycle transition of a model
// happens under that model's own mutex, so operations on different ids never
// contend and engine loading/closing never runs under a shared lock.
type Manager struct {
	models    *xsync.MapOf[string, *handle]
	loader    Loader
	tracker   *Tracker
	publisher EventPublisher
	log       zerolog.Logger

	maxWait   time.Duration
	poll      time.Duration
	startTime time.Time
}

func newHandleMap() *xsync.MapOf[string, *handle] {
	return xsync.NewMapOf[string, *handle]()
}

// New returns a Manager that loads engines with loader.
func New(loader Loader) *Manager {
	return NewWithConfig(ManagerConfig{Loader: loader})
}

// List returns the ids of models that are loading or ready, sorted.
func (m *Manager) List() []string {
	ids := make([]string, 0, m.models.Size())
	m.models.Range(func(id string, h *handle) bool {
		h.mu.Lock()
		st := h.state
		h.mu.Unlock()
		if st == StateLoading || st == StateReady {
			ids = append(ids, id)
		}
		return true
	})
	sort.Strings(ids)
	return ids
}

// Tracker returns the transcription admission tracker used by the Manager.
func (m *Manager) Tracker() *Tracker { return m.tracker }

// IsOverloaded reports whether active transcriptions reached limit.
func (m *Manager) IsOverloaded(limit *int) bool { return m.tracker.IsOverloaded(limit) }

// ActiveTranscriptions returns the number of in-flight transcriptions.
func (m *Manager) ActiveTranscriptions() int64 { return m.tracker.Active() }

// remove deletes h from the map only if it is still the registered handle for its id.
func (m *Manager) remove(h *handle) {
	m.models.Compute(h.id, func(cur *handle, loaded bool) (*handle, bool) {
		return cur, !loaded || cur == h
	})
}

func (m *Manager) publish(name, modelID string, fields map[string]any) {
	if fields == nil {
		fields = map[string]any{}
	}
	m.publisher.Publish(Event{Name: name, ModelID: modelID, Fields: fields})
}
