package types

// Model describes a model available on disk that can be loaded by id.
type Model struct {
	// Stable identifier; may contain path segments.
	// example: Systran/faster-whisper-tiny
	ID string `json:"id" example:"Systran/faster-whisper-tiny"`
	// Absolute path to the model file or directory on disk.
	// example: /home/user/.cache/speechd/models/Systran/faster-whisper-tiny
	Path string `json:"path" example:"/home/user/.cache/speechd/models/Systran/faster-whisper-tiny"`
	// Total size on disk in bytes.
	// example: 75538270
	SizeBytes int64 `json:"size_bytes" example:"75538270"`
	// Whether the model is currently loaded.
	// example: true
	Loaded bool `json:"loaded"`
}
