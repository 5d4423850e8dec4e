package httpapi

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"speechd/internal/manager"
	"speechd/pkg/types"
)

// multipartMemory is the part of an upload kept in memory; the rest spills to temp files.
const multipartMemory = 8 << 20

// healthHandler godoc
// @Summary      Health probe with admission control
// @Description  Reports 503 while active transcriptions are at or above max_parallel_transcriptions.
// @Tags         health
// @Produce      plain
// @Success      200 {string} string "OK"
// @Failure      503 {string} string "Service Unavailable"
// @Router       /health [get]
func healthHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc.IsOverloaded(maxParallelTranscriptions()) {
			IncrementBackpressure("health_overloaded")
			writeText(w, http.StatusServiceUnavailable, "Service Unavailable")
			return
		}
		writeText(w, http.StatusOK, "OK")
	}
}

// listLoadedHandler godoc
// @Summary  List loaded model ids
// @Tags     models
// @Produce  json
// @Success  200 {object} types.LoadedModelsResponse
// @Router   /api/ps [get]
func listLoadedHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids := svc.List()
		if ids == nil {
			ids = []string{}
		}
		writeJSON(w, http.StatusOK, types.LoadedModelsResponse{Models: ids})
	}
}

// loadHandler godoc
// @Summary  Load a model
// @Tags     models
// @Produce  plain
// @Param    id  path  string  true  "model id, may contain slashes"
// @Success  201
// @Failure  404 {string} string "Model not found"
// @Failure  409 {string} string "Model already loaded"
// @Failure  500 {string} string "load failure"
// @Failure  504 {string} string "load timed out"
// @Router   /api/ps/{id} [post]
func loadHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := modelIDParam(w, r)
		if !ok {
			return
		}
		ctx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		if d := loadTimeoutDuration(); d > 0 {
			var cancelTimeout context.CancelFunc
			ctx, cancelTimeout = context.WithTimeout(ctx, d)
			defer cancelTimeout()
		}
		lease, err := svc.Load(ctx, id)
		if err != nil {
			switch {
			case errors.Is(err, context.Canceled):
				if r.Context().Err() != nil {
					// client went away; the load finishes in the background
					return
				}
				writeText(w, http.StatusServiceUnavailable, "server shutting down")
			case errors.Is(err, context.DeadlineExceeded):
				writeText(w, http.StatusGatewayTimeout, "model load timed out; loading continues in the background")
			default:
				status, msg := errorStatus(err)
				writeText(w, status, msg)
			}
			return
		}
		// Loading and using are separate; the model stays resident.
		svc.Release(lease)
		w.WriteHeader(http.StatusCreated)
	}
}

// unloadHandler godoc
// @Summary  Unload a model
// @Tags     models
// @Produce  plain
// @Param    id  path  string  true  "model id, may contain slashes"
// @Success  204
// @Failure  404 {string} string "Model not found"
// @Failure  409 {string} string "model is in use"
// @Router   /api/ps/{id} [delete]
func unloadHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := modelIDParam(w, r)
		if !ok {
			return
		}
		if err := svc.Unload(id); err != nil {
			status, msg := errorStatus(err)
			writeText(w, status, msg)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// statusHandler godoc
// @Summary  Server and model status
// @Tags     status
// @Produce  json
// @Success  200 {object} types.StatusResponse
// @Router   /status [get]
func statusHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st := svc.Status()
		st.MaxParallelTranscriptions = maxParallelTranscriptions()
		st.Overloaded = svc.IsOverloaded(st.MaxParallelTranscriptions)
		if st.Models == nil {
			st.Models = []types.ModelStatus{}
		}
		writeJSON(w, http.StatusOK, st)
	}
}

// modelsHandler godoc
// @Summary  List models available on disk
// @Tags     models
// @Produce  json
// @Success  200 {object} types.ModelsResponse
// @Failure  500 {object} types.ErrorResponse
// @Router   /v1/models [get]
func modelsHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		models, err := svc.ListModels()
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if models == nil {
			models = []types.Model{}
		}
		writeJSON(w, http.StatusOK, types.ModelsResponse{Models: models})
	}
}

// transcriptionHandler godoc
// @Summary  Transcribe audio
// @Tags     transcription
// @Accept   mpfd
// @Produce  json
// @Param    file             formData  file    true   "audio file"
// @Param    model            formData  string  true   "model id"
// @Param    language         formData  string  false  "language hint"
// @Param    prompt           formData  string  false  "decoding prompt"
// @Param    temperature      formData  number  false  "sampling temperature (0..1)"
// @Param    response_format  formData  string  false  "json (default) or text"
// @Success  200 {object} types.TranscriptionResponse
// @Failure  400 {object} types.ErrorResponse
// @Failure  404 {object} types.ErrorResponse
// @Failure  413 {object} types.ErrorResponse
// @Failure  429 {object} types.ErrorResponse
// @Failure  501 {object} types.ErrorResponse
// @Router   /v1/audio/transcriptions [post]
func transcriptionHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(min(multipartMemory, maxUploadBytes)); err != nil {
			var mbe *http.MaxBytesError
			if errors.As(err, &mbe) {
				writeJSONError(w, http.StatusRequestEntityTooLarge, "upload exceeds "+strconv.FormatInt(mbe.Limit, 10)+" bytes")
				return
			}
			writeJSONError(w, http.StatusBadRequest, "invalid multipart body")
			return
		}
		defer func() { _ = r.MultipartForm.RemoveAll() }()

		model := strings.TrimSpace(r.FormValue("model"))
		if model == "" {
			writeJSONError(w, http.StatusBadRequest, "model is required")
			return
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "file is required")
			return
		}
		defer file.Close()

		opts := manager.TranscribeOptions{
			Language: r.FormValue("language"),
			Prompt:   r.FormValue("prompt"),
		}
		if v := r.FormValue("temperature"); v != "" {
			t, err := strconv.ParseFloat(v, 64)
			if err != nil || math.IsNaN(t) || t < 0 || t > 1 {
				writeJSONError(w, http.StatusBadRequest, "temperature must be a number between 0 and 1")
				return
			}
			opts.Temperature = t
		}
		format := r.FormValue("response_format")
		switch format {
		case "", "json", "text":
		default:
			writeJSONError(w, http.StatusBadRequest, "unsupported response_format: "+format)
			return
		}

		ctx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		tr, err := svc.Transcribe(ctx, model, file, opts)
		if err != nil {
			// If context was canceled (client disconnect), just return.
			if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
				return
			}
			status, msg := errorStatus(err)
			if status == http.StatusNotFound {
				msg = err.Error()
			}
			writeJSONError(w, status, msg)
			return
		}
		if format == "text" {
			writeText(w, http.StatusOK, tr.Text)
			return
		}
		writeJSON(w, http.StatusOK, types.TranscriptionResponse{
			Text:     tr.Text,
			Language: tr.Language,
			Duration: tr.Duration.Seconds(),
		})
	}
}

// modelIDParam extracts the model id captured by the trailing wildcard.
// Ids may contain slashes, so the whole remainder of the path is used.
func modelIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, err := url.PathUnescape(chi.URLParam(r, "*"))
	if err != nil {
		writeText(w, http.StatusBadRequest, "invalid model id")
		return "", false
	}
	if id == "" {
		writeText(w, http.StatusBadRequest, "model id is required")
		return "", false
	}
	return id, true
}
