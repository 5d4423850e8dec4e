package manager

import (
	"context"
	"strings"
	"testing"
)

func TestTranscribe_LoadsAndRuns(t *testing.T) {
	m := New(newFakeLoader())
	out, err := m.Transcribe(testCtx(t), "m", strings.NewReader("hello world"), TranscribeOptions{Language: "en"})
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if out.Text != "hello world" || out.Language != "en" {
		t.Fatalf("unexpected transcript: %+v", out)
	}
	if m.ActiveTranscriptions() != 0 {
		t.Fatalf("tracker not released")
	}
	if hs, _ := stateOf(m, "m"); hs.Refs != 0 || hs.State != StateReady {
		t.Fatalf("expected idle ready model, got %+v", hs)
	}
}

func TestTranscribe_CountsWhileRunning(t *testing.T) {
	in := make(chan struct{}, 2)
	release := make(chan struct{})
	l := newFakeLoader()
	l.newEngine = func(id string) Engine { return &fakeEngine{id: id, inTranscribe: in, release: release} }
	m := New(l)
	mustLoad(t, m, "m")
	limit := 2
	done := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := m.Transcribe(context.Background(), "m", strings.NewReader("x"), TranscribeOptions{})
			done <- err
		}()
	}
	<-in
	<-in
	if !m.IsOverloaded(&limit) {
		t.Fatalf("expected overloaded with two running transcriptions")
	}
	if err := m.Unload("m"); !IsInUse(err) {
		t.Fatalf("expected in use during transcription, got %v", err)
	}
	close(release)
	for i := 0; i < 2; i++ {
		if err := <-done; err != nil {
			t.Fatalf("Transcribe: %v", err)
		}
	}
	if m.IsOverloaded(&limit) || m.ActiveTranscriptions() != 0 {
		t.Fatalf("expected counter back to zero")
	}
}

func TestTranscribe_FailurePathsReleaseEverything(t *testing.T) {
	l := newFakeLoader()
	l.errs["broken"] = errBoom
	l.newEngine = func(id string) Engine {
		if id == "plain" {
			return &plainEngine{}
		}
		return &fakeEngine{id: id, trErr: errBoom}
	}
	m := New(l)

	if _, err := m.Transcribe(testCtx(t), "broken", strings.NewReader("x"), TranscribeOptions{}); !IsLoadFailed(err) {
		t.Fatalf("expected load failed, got %v", err)
	}
	if _, err := m.Transcribe(testCtx(t), "plain", strings.NewReader("x"), TranscribeOptions{}); !IsUnsupported(err) {
		t.Fatalf("expected unsupported, got %v", err)
	}
	if _, err := m.Transcribe(testCtx(t), "failing", strings.NewReader("x"), TranscribeOptions{}); err != errBoom {
		t.Fatalf("expected engine error, got %v", err)
	}
	if m.ActiveTranscriptions() != 0 {
		t.Fatalf("tracker leaked: %d", m.ActiveTranscriptions())
	}
	for _, hs := range m.Snapshot() {
		if hs.Refs != 0 {
			t.Fatalf("lease leaked: %+v", hs)
		}
	}
}
