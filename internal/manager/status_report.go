package manager

import (
	"sort"
	"time"

	"speechd/pkg/types"
)

// Snapshot returns a read-only view of every registered model, sorted by id.
func (m *Manager) Snapshot() []HandleStatus {
	out := make([]HandleStatus, 0, m.models.Size())
	m.models.Range(func(_ string, h *handle) bool {
		out = append(out, h.status())
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Status builds a detailed status response for /status.
func (m *Manager) Status() types.StatusResponse {
	resp := types.StatusResponse{
		ActiveTranscriptions: m.tracker.Active(),
		UptimeSeconds:        int64(time.Since(m.startTime) / time.Second),
		ServerTimeUnix:       time.Now().Unix(),
	}
	snap := m.Snapshot()
	resp.Models = make([]types.ModelStatus, 0, len(snap))
	for _, hs := range snap {
		ms := types.ModelStatus{ModelID: hs.ID, State: string(hs.State), Refs: hs.Refs}
		if !hs.LoadedAt.IsZero() {
			ms.LoadedAt = hs.LoadedAt.Unix()
		}
		if !hs.LastUsed.IsZero() {
			ms.LastUsed = hs.LastUsed.Unix()
		}
		resp.Models = append(resp.Models, ms)
	}
	return resp
}
