package manager

import (
	"context"
	"io"
	"time"
)

// TranscribeOptions configures a single transcription.
type TranscribeOptions struct {
	Language    string
	Prompt      string
	Temperature float64
}

// Transcript is the result of a transcription.
type Transcript struct {
	Text     string
	Language string
	Duration time.Duration
}

// Transcriber is implemented by engines that can turn audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, opts TranscribeOptions) (Transcript, error)
}

// Transcribe runs one transcription on modelID, loading the model on demand.
// The admission tracker counts the call for its whole duration, including the
// failure paths, and the model lease is held until the engine returns.
func (m *Manager) Transcribe(ctx context.Context, modelID string, audio io.Reader, opts TranscribeOptions) (Transcript, error) {
	tok := m.tracker.Begin()
	defer m.tracker.End(tok)

	lease, err := m.Get(ctx, modelID)
	if err != nil {
		return Transcript{}, err
	}
	defer m.Release(lease)

	tr, ok := lease.Engine().(Transcriber)
	if !ok {
		return Transcript{}, ErrTranscriptionUnsupported(modelID)
	}
	start := time.Now()
	out, err := tr.Transcribe(ctx, audio, opts)
	if err != nil {
		m.log.Warn().Str("model", modelID).Str("token", tok.ID()).Dur("dur", time.Since(start)).Err(err).Msg("transcription failed")
		return Transcript{}, err
	}
	m.log.Debug().Str("model", modelID).Str("token", tok.ID()).Str("lease", lease.ID()).Dur("dur", time.Since(start)).Msg("transcription done")
	return out, nil
}
