package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"speechd/internal/manager"
	"speechd/pkg/types"
)

// HTTPError allows services to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// errorStatus maps a service error to an HTTP status and a client-facing message.
func errorStatus(err error) (int, string) {
	switch manager.KindOf(err) {
	case manager.KindNotFound:
		return http.StatusNotFound, "Model not found"
	case manager.KindAlreadyLoaded:
		return http.StatusConflict, "Model already loaded"
	case manager.KindInUse:
		return http.StatusConflict, err.Error()
	case manager.KindLoadFailed:
		return http.StatusInternalServerError, err.Error()
	case manager.KindUnsupported:
		return http.StatusNotImplemented, err.Error()
	case manager.KindTooBusy:
		IncrementBackpressure("model_busy")
		return http.StatusTooManyRequests, err.Error()
	case manager.KindUnknown:
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout, "request timed out: " + err.Error()
	}
	var he HTTPError
	if errors.As(err, &he) {
		return he.StatusCode(), he.Error()
	}
	return http.StatusInternalServerError, err.Error()
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}

// writeText writes a plain-text response.
func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zlog.Warn().Err(err).Msg("encode response")
	}
}
