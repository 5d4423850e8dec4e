package manager

import (
	"speechd/pkg/types"
)

// Catalog is implemented by loaders that can enumerate the models they can load.
type Catalog interface {
	Available() ([]types.Model, error)
}

// ListModels returns the models the configured loader can load, marking the
// ones currently registered. Loaders without a catalog yield an empty list.
func (m *Manager) ListModels() ([]types.Model, error) {
	cat, ok := m.loader.(Catalog)
	if !ok {
		return []types.Model{}, nil
	}
	models, err := cat.Available()
	if err != nil {
		return nil, err
	}
	loaded := make(map[string]bool)
	for _, id := range m.List() {
		loaded[id] = true
	}
	for i := range models {
		models[i].Loaded = loaded[models[i].ID]
	}
	return models, nil
}
