package httpapi

import (
	"sync/atomic"
	"time"
)

// maxUploadBytes controls the maximum allowed request body for transcription uploads.
// Default is 25 MiB.
var maxUploadBytes int64 = 25 << 20

// SetMaxUploadBytes allows configuring the maximum upload size.
func SetMaxUploadBytes(n int64) {
	if n <= 0 {
		maxUploadBytes = 25 << 20
		return
	}
	maxUploadBytes = n
}

// loadTimeout caps how long POST /api/ps/{id} waits for the load to finish.
// Zero means no additional timeout beyond server/connection timeouts.
var loadTimeout = int64(0) // seconds

// SetLoadTimeoutSeconds sets the load timeout in seconds (0 disables).
func SetLoadTimeoutSeconds(sec int64) {
	if sec < 0 {
		sec = 0
	}
	loadTimeout = sec
}

func loadTimeoutDuration() time.Duration { return time.Duration(loadTimeout) * time.Second }

// admissionLimit is read by /health on every probe and may be swapped at
// runtime by the config watcher.
var admissionLimit atomic.Pointer[int]

// SetMaxParallelTranscriptions sets the admission limit used by /health.
// nil disables admission control.
func SetMaxParallelTranscriptions(n *int) {
	if n == nil {
		admissionLimit.Store(nil)
		return
	}
	v := *n
	admissionLimit.Store(&v)
}

func maxParallelTranscriptions() *int { return admissionLimit.Load() }

// CORS configuration (opt-in). If disabled, no CORS middleware is added.
var (
	corsEnabled        bool
	corsAllowedOrigins []string
	corsAllowedMethods []string
	corsAllowedHeaders []string
)

// SetCORSOptions configures CORS behavior for the HTTP server.
func SetCORSOptions(enabled bool, origins, methods, headers []string) {
	corsEnabled = enabled
	corsAllowedOrigins = append([]string(nil), origins...)
	corsAllowedMethods = append([]string(nil), methods...)
	corsAllowedHeaders = append([]string(nil), headers...)
}
