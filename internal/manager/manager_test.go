package manager

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestNewWithConfigDefaults(t *testing.T) {
	m := NewWithConfig(ManagerConfig{})
	if m.maxWait != defaultMaxWait {
		t.Fatalf("expected default maxWait=%v got %v", defaultMaxWait, m.maxWait)
	}
	if m.poll != defaultPollInterval {
		t.Fatalf("expected default poll=%v got %v", defaultPollInterval, m.poll)
	}
	if m.Tracker() == nil {
		t.Fatalf("expected a default tracker")
	}
	if got := m.List(); len(got) != 0 {
		t.Fatalf("expected empty registry, got %v", got)
	}
}

func TestLoad_NoLoaderConfigured(t *testing.T) {
	m := NewWithConfig(ManagerConfig{})
	_, err := m.Load(testCtx(t), "m")
	if !IsLoadFailed(err) || !errors.Is(err, errNoLoader) {
		t.Fatalf("expected load failed wrapping errNoLoader, got %v", err)
	}
}

func TestUnload_NeverLoadedNotFound(t *testing.T) {
	m := New(newFakeLoader())
	for _, id := range []string{"a", "whisper-tiny", "Systran/faster-whisper-tiny", ""} {
		if err := m.Unload(id); !IsModelNotFound(err) {
			t.Fatalf("Unload(%q): expected not found, got %v", id, err)
		}
	}
}

func TestLoad_SecondLoadAlreadyLoaded(t *testing.T) {
	l := newFakeLoader()
	m := New(l)
	mustLoad(t, m, "m")
	_, err := m.Load(testCtx(t), "m")
	if !IsAlreadyLoaded(err) {
		t.Fatalf("expected already loaded, got %v", err)
	}
	if n := l.callsFor("m"); n != 1 {
		t.Fatalf("expected loader called once, got %d", n)
	}
}

func TestLoad_IDsAreCaseSensitiveAndPathLike(t *testing.T) {
	m := New(newFakeLoader())
	mustLoad(t, m, "Systran/faster-whisper-tiny")
	mustLoad(t, m, "systran/faster-whisper-tiny")
	want := []string{"Systran/faster-whisper-tiny", "systran/faster-whisper-tiny"}
	if got := m.List(); !reflect.DeepEqual(got, want) {
		t.Fatalf("List()=%v want %v", got, want)
	}
}

func TestLoadUnloadRoundTrip(t *testing.T) {
	l := newFakeLoader()
	m := New(l)
	mustLoad(t, m, "m")
	if err := m.Unload("m"); err != nil {
		t.Fatalf("Unload: %v", err)
	}
	for _, id := range m.List() {
		if id == "m" {
			t.Fatalf("model still listed after unload")
		}
	}
	if e := l.engine("m"); e == nil || e.closed.Load() != 1 {
		t.Fatalf("expected engine closed exactly once")
	}
	// The id can be loaded again afterwards.
	mustLoad(t, m, "m")
}

func TestScenario_WhisperTiny(t *testing.T) {
	m := New(newFakeLoader())
	mustLoad(t, m, "whisper-tiny")
	if got := m.List(); !reflect.DeepEqual(got, []string{"whisper-tiny"}) {
		t.Fatalf("List()=%v", got)
	}
	if _, err := m.Load(testCtx(t), "whisper-tiny"); !IsAlreadyLoaded(err) {
		t.Fatalf("expected already loaded, got %v", err)
	}
	if err := m.Unload("whisper-tiny"); err != nil {
		t.Fatalf("Unload: %v", err)
	}
	if got := m.List(); len(got) != 0 {
		t.Fatalf("List()=%v want empty", got)
	}
}

func TestLoad_FailureRollsBack(t *testing.T) {
	l := newFakeLoader()
	l.errs["bad"] = errBoom
	m := New(l)
	_, err := m.Load(testCtx(t), "bad")
	if !IsLoadFailed(err) {
		t.Fatalf("expected load failed, got %v", err)
	}
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected cause to be preserved, got %v", err)
	}
	var lf *LoadFailedError
	if !errors.As(err, &lf) || lf.ModelID != "bad" {
		t.Fatalf("unexpected error value: %#v", err)
	}
	if _, ok := stateOf(m, "bad"); ok {
		t.Fatalf("failed load left an entry behind")
	}
	if err := m.Unload("bad"); !IsModelNotFound(err) {
		t.Fatalf("expected not found after rollback, got %v", err)
	}
	// A later load attempt runs the loader again.
	delete(l.errs, "bad")
	mustLoad(t, m, "bad")
}

func TestLoad_NilEngineIsFailure(t *testing.T) {
	m := New(LoaderFunc(func(context.Context, string) (Engine, error) { return nil, nil }))
	if _, err := m.Load(testCtx(t), "m"); !IsLoadFailed(err) {
		t.Fatalf("expected load failed, got %v", err)
	}
	if len(m.List()) != 0 {
		t.Fatalf("expected rollback")
	}
}

func TestLoad_ReturnsLeaseThatDoesNotUnload(t *testing.T) {
	m := New(newFakeLoader())
	lease, err := m.Load(testCtx(t), "m")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if lease.ModelID() != "m" || lease.Engine() == nil || lease.ID() == "" {
		t.Fatalf("unexpected lease: id=%q model=%q", lease.ID(), lease.ModelID())
	}
	if err := m.Unload("m"); !IsInUse(err) {
		t.Fatalf("expected in use while load lease is held, got %v", err)
	}
	m.Release(lease)
	hs, ok := stateOf(m, "m")
	if !ok || hs.State != StateReady || hs.Refs != 0 {
		t.Fatalf("expected ready with zero refs after release, got %+v ok=%v", hs, ok)
	}
}

func TestAcquire_NotFound(t *testing.T) {
	m := New(newFakeLoader())
	if _, err := m.Acquire("missing"); !IsModelNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAcquire_FailsWhileLoading(t *testing.T) {
	l := newFakeLoader()
	l.gate = make(chan struct{})
	l.started = make(chan string, 1)
	m := New(l)
	errCh := make(chan error, 1)
	go func() {
		lease, err := m.Load(context.Background(), "m")
		if err == nil {
			m.Release(lease)
		}
		errCh <- err
	}()
	<-l.started
	if _, err := m.Acquire("m"); !IsModelNotFound(err) {
		t.Fatalf("expected not found while loading, got %v", err)
	}
	if got := m.List(); !reflect.DeepEqual(got, []string{"m"}) {
		t.Fatalf("loading model should be listed, got %v", got)
	}
	if _, err := m.Load(context.Background(), "m"); !IsAlreadyLoaded(err) {
		t.Fatalf("expected already loaded while loading, got %v", err)
	}
	err := m.Unload("m")
	var iu *InUseError
	if !errors.As(err, &iu) || !iu.Loading {
		t.Fatalf("expected in-use (loading) error, got %v", err)
	}
	close(l.gate)
	if err := <-errCh; err != nil {
		t.Fatalf("Load: %v", err)
	}
	lease, err := m.Acquire("m")
	if err != nil {
		t.Fatalf("Acquire after ready: %v", err)
	}
	m.Release(lease)
}

func TestRelease_TwicePanics(t *testing.T) {
	m := New(newFakeLoader())
	mustLoad(t, m, "m")
	lease, err := m.Acquire("m")
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	m.Release(lease)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on double release")
		}
		hs, _ := stateOf(m, "m")
		if hs.Refs != 0 {
			t.Fatalf("double release corrupted refs: %d", hs.Refs)
		}
	}()
	m.Release(lease)
}

func TestRelease_NilIsNoop(t *testing.T) {
	m := New(newFakeLoader())
	m.Release(nil)
}

func TestUnload_InUseCarriesRefs(t *testing.T) {
	m := New(newFakeLoader())
	mustLoad(t, m, "m")
	a, _ := m.Acquire("m")
	b, _ := m.Acquire("m")
	err := m.Unload("m")
	var iu *InUseError
	if !errors.As(err, &iu) {
		t.Fatalf("expected *InUseError, got %v", err)
	}
	if iu.Refs != 2 || iu.Loading {
		t.Fatalf("unexpected in-use error: %+v", iu)
	}
	if iu.Error() != "model m is in use by 2 request(s) and cannot be unloaded" {
		t.Fatalf("message=%q", iu.Error())
	}
	m.Release(a)
	m.Release(b)
	if err := m.Unload("m"); err != nil {
		t.Fatalf("Unload after release: %v", err)
	}
}

func TestUnload_CloseErrorStillRemoves(t *testing.T) {
	l := newFakeLoader()
	l.newEngine = func(id string) Engine { return &fakeEngine{id: id, closeErr: errBoom} }
	m := New(l)
	mustLoad(t, m, "m")
	err := m.Unload("m")
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected close error, got %v", err)
	}
	if len(m.List()) != 0 {
		t.Fatalf("entry should be removed even when close fails")
	}
}

func TestUnloading_BlocksAcquireAndSecondUnload(t *testing.T) {
	gate := make(chan struct{})
	l := newFakeLoader()
	l.newEngine = func(id string) Engine { return &fakeEngine{id: id, closeGate: gate} }
	m := New(l)
	mustLoad(t, m, "m")

	done := make(chan error, 1)
	go func() { done <- m.Unload("m") }()
	waitFor(t, "unloading state", func() bool {
		hs, ok := stateOf(m, "m")
		return ok && hs.State == StateUnloading
	})
	if _, err := m.Acquire("m"); !IsModelNotFound(err) {
		t.Fatalf("expected not found while unloading, got %v", err)
	}
	if err := m.Unload("m"); !IsModelNotFound(err) {
		t.Fatalf("expected not found for concurrent unload, got %v", err)
	}
	if got := m.List(); len(got) != 0 {
		t.Fatalf("unloading model must not be listed, got %v", got)
	}
	if _, err := m.Load(context.Background(), "m"); !IsAlreadyLoaded(err) {
		t.Fatalf("expected already loaded while unloading, got %v", err)
	}
	close(gate)
	if err := <-done; err != nil {
		t.Fatalf("Unload: %v", err)
	}
}

func TestLoad_CanceledBeforeStart(t *testing.T) {
	l := newFakeLoader()
	m := New(l)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := m.Load(ctx, "m"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled, got %v", err)
	}
	if l.callsFor("m") != 0 || len(m.List()) != 0 {
		t.Fatalf("canceled load must not register or call the loader")
	}
}

func TestLoad_CanceledCallerLoadStillResolves(t *testing.T) {
	l := newFakeLoader()
	l.gate = make(chan struct{})
	l.started = make(chan string, 1)
	m := New(l)
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := m.Load(ctx, "m")
		errCh <- err
	}()
	<-l.started
	cancel()
	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled, got %v", err)
	}
	close(l.gate)
	waitFor(t, "model ready with no refs", func() bool {
		hs, ok := stateOf(m, "m")
		return ok && hs.State == StateReady && hs.Refs == 0
	})
	if err := m.Unload("m"); err != nil {
		t.Fatalf("Unload: %v", err)
	}
}

func TestLoad_CanceledCallerFailedLoadRollsBack(t *testing.T) {
	l := newFakeLoader()
	l.gate = make(chan struct{})
	l.started = make(chan string, 1)
	l.errs["m"] = errBoom
	m := New(l)
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := m.Load(ctx, "m")
		errCh <- err
	}()
	<-l.started
	cancel()
	<-errCh
	close(l.gate)
	waitFor(t, "rollback", func() bool { _, ok := stateOf(m, "m"); return !ok })
}

func TestLoad_SlowLoadDoesNotBlockOtherIDs(t *testing.T) {
	gate := make(chan struct{})
	defer close(gate)
	m := New(LoaderFunc(func(ctx context.Context, id string) (Engine, error) {
		if id == "slow" {
			<-gate
		}
		return &fakeEngine{id: id}, nil
	}))
	go func() { _, _ = m.Load(context.Background(), "slow") }()
	waitFor(t, "slow registered", func() bool { _, ok := stateOf(m, "slow"); return ok })

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	lease, err := m.Load(ctx, "fast")
	if err != nil {
		t.Fatalf("fast load blocked by slow load: %v", err)
	}
	m.Release(lease)
	if err := m.Unload("fast"); err != nil {
		t.Fatalf("Unload fast: %v", err)
	}
}

func TestKindOf(t *testing.T) {
	cases := map[Kind]error{
		KindNotFound:      ErrModelNotFound("a"),
		KindAlreadyLoaded: ErrAlreadyLoaded("a"),
		KindInUse:         &InUseError{ModelID: "a", Refs: 1},
		KindLoadFailed:    &LoadFailedError{ModelID: "a", Cause: errBoom},
		KindUnsupported:   ErrTranscriptionUnsupported("a"),
		KindTooBusy:       tooBusyError{modelID: "a"},
		KindUnknown:       errBoom,
	}
	for want, err := range cases {
		if got := KindOf(err); got != want {
			t.Fatalf("KindOf(%v)=%v want %v", err, got, want)
		}
		wrapped := errors.Join(errors.New("ctx"), err)
		if got := KindOf(wrapped); got != want {
			t.Fatalf("KindOf(wrapped %v)=%v want %v", err, got, want)
		}
	}
	if KindOf(nil) != KindUnknown {
		t.Fatalf("nil should be unknown")
	}
	if KindInUse.String() != "in_use" || Kind(99).String() != "unknown" {
		t.Fatalf("unexpected Kind strings")
	}
}
