package manager

import (
	"errors"
	"fmt"
)

// Kind classifies manager errors so boundary layers can switch over them.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindAlreadyLoaded
	KindInUse
	KindLoadFailed
	KindUnsupported
	KindTooBusy
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindAlreadyLoaded:
		return "already_loaded"
	case KindInUse:
		return "in_use"
	case KindLoadFailed:
		return "load_failed"
	case KindUnsupported:
		return "unsupported"
	case KindTooBusy:
		return "too_busy"
	default:
		return "unknown"
	}
}

// KindOf reports the Kind of err, looking through wrapped errors.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case IsModelNotFound(err):
		return KindNotFound
	case IsAlreadyLoaded(err):
		return KindAlreadyLoaded
	case IsInUse(err):
		return KindInUse
	case IsLoadFailed(err):
		return KindLoadFailed
	case IsUnsupported(err):
		return KindUnsupported
	case IsTooBusy(err):
		return KindTooBusy
	default:
		return KindUnknown
	}
}

// modelNotFoundError is returned when a model id is not registered.
type modelNotFoundError struct{ id string }

func (e modelNotFoundError) Error() string { return "model not found: " + e.id }

// ErrModelNotFound returns an error for a model id missing from the registry.
func ErrModelNotFound(id string) error { return modelNotFoundError{id: id} }

// IsModelNotFound reports whether the error indicates a missing model id.
func IsModelNotFound(err error) bool {
	var e modelNotFoundError
	return errors.As(err, &e)
}

type alreadyLoadedError struct{ id string }

func (e alreadyLoadedError) Error() string { return "model already loaded: " + e.id }

// ErrAlreadyLoaded returns an error for a duplicate or racing Load.
func ErrAlreadyLoaded(id string) error { return alreadyLoadedError{id: id} }

// IsAlreadyLoaded reports whether err indicates the model is already registered.
func IsAlreadyLoaded(err error) bool {
	var e alreadyLoadedError
	return errors.As(err, &e)
}

// InUseError is returned by Unload while a model still serves requests.
type InUseError struct {
	ModelID string
	Refs    int
	// Loading is set when the model has not finished loading yet.
	Loading bool
}

func (e *InUseError) Error() string {
	if e.Loading {
		return fmt.Sprintf("model %s is still loading and cannot be unloaded", e.ModelID)
	}
	return fmt.Sprintf("model %s is in use by %d request(s) and cannot be unloaded", e.ModelID, e.Refs)
}

// IsInUse reports whether err indicates an unload refused due to live references.
func IsInUse(err error) bool {
	var e *InUseError
	return errors.As(err, &e)
}

// LoadFailedError wraps the loader's error for a model id.
type LoadFailedError struct {
	ModelID string
	Cause   error
}

func (e *LoadFailedError) Error() string { return "load model " + e.ModelID + ": " + e.Cause.Error() }

func (e *LoadFailedError) Unwrap() error { return e.Cause }

// IsLoadFailed reports whether err came from a failed engine instantiation.
func IsLoadFailed(err error) bool {
	var e *LoadFailedError
	return errors.As(err, &e)
}

// unsupportedError signals an engine lacking a requested capability.
type unsupportedError struct {
	id  string
	cap string
}

func (e unsupportedError) Error() string { return "model " + e.id + " does not support " + e.cap }

// ErrTranscriptionUnsupported is returned when the engine cannot transcribe.
func ErrTranscriptionUnsupported(id string) error {
	return unsupportedError{id: id, cap: "transcription"}
}

// IsUnsupported reports whether err indicates a missing engine capability.
func IsUnsupported(err error) bool {
	var e unsupportedError
	return errors.As(err, &e)
}

// tooBusyError signals that a model did not become ready within the wait budget.
type tooBusyError struct{ modelID string }

func (e tooBusyError) Error() string { return "too busy: " + e.modelID }

// IsTooBusy reports whether err indicates backpressure (return 429).
func IsTooBusy(err error) bool {
	var e tooBusyError
	return errors.As(err, &e)
}
