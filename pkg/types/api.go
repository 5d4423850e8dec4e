package types

// LoadedModelsResponse is returned by GET /api/ps.
type LoadedModelsResponse struct {
	// Identifiers of loaded (or loading) models.
	// example: ["Systran/faster-whisper-tiny"]
	Models []string `json:"models"`
}

// ModelsResponse wraps the list of models returned by GET /v1/models.
type ModelsResponse struct {
	// List of models available on disk.
	Models []Model `json:"models"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: model not found: whisper-tiny
	Error string `json:"error" example:"model not found: whisper-tiny"`
	// HTTP status code.
	// example: 404
	Code int `json:"code" example:"404"`
}

// ModelStatus summarizes a registered model for /status.
type ModelStatus struct {
	// ID of the model.
	// example: Systran/faster-whisper-tiny
	ModelID string `json:"model_id" example:"Systran/faster-whisper-tiny"`
	// Lifecycle state: loading, ready or unloading.
	// example: ready
	State string `json:"state" example:"ready"`
	// Number of leases currently held on the model.
	// example: 1
	Refs int `json:"refs" example:"1"`
	// Time the model became ready (unix seconds, 0 while loading).
	// example: 1700000000
	LoadedAt int64 `json:"loaded_at_unix" example:"1700000000"`
	// Last time a lease was taken or returned (unix seconds).
	// example: 1700000000
	LastUsed int64 `json:"last_used_unix" example:"1700000000"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Registered models.
	Models []ModelStatus `json:"models"`
	// Transcriptions currently in flight.
	// example: 2
	ActiveTranscriptions int64 `json:"active_transcriptions" example:"2"`
	// Configured admission limit; omitted when admission control is disabled.
	// example: 4
	MaxParallelTranscriptions *int `json:"max_parallel_transcriptions,omitempty" example:"4"`
	// Whether /health currently reports overload.
	// example: false
	Overloaded bool `json:"overloaded" example:"false"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}

// TranscriptionResponse is returned by POST /v1/audio/transcriptions.
type TranscriptionResponse struct {
	// Transcribed text.
	// example: Hello world.
	Text string `json:"text" example:"Hello world."`
	// Detected or requested language.
	// example: en
	Language string `json:"language,omitempty" example:"en"`
	// Audio duration in seconds, when the engine reports it.
	// example: 1.5
	Duration float64 `json:"duration,omitempty" example:"1.5"`
}
