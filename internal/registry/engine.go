package registry

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"speechd/internal/common/fsutil"
	"speechd/internal/manager"
	"speechd/pkg/types"
)

// FileLoader loads models from a directory on disk. The engine it produces
// holds the model's weights file open for as long as the model is loaded; the
// inference runtime itself is plugged in by wrapping the loader.
type FileLoader struct {
	root    string
	scanner *Scanner
	log     zerolog.Logger
}

// NewFileLoader returns a loader rooted at dir ('~' is expanded).
func NewFileLoader(dir string, logger zerolog.Logger) (*FileLoader, error) {
	abs, err := absDir(dir)
	if err != nil {
		return nil, err
	}
	return &FileLoader{
		root:    abs,
		scanner: NewScanner(),
		log:     logger.With().Str("component", "loader").Logger(),
	}, nil
}

// Root returns the absolute models directory.
func (l *FileLoader) Root() string { return l.root }

// Available lists the models under the loader's root.
func (l *FileLoader) Available() ([]types.Model, error) {
	if !fsutil.PathExists(l.root) {
		return []types.Model{}, nil
	}
	return l.scanner.Scan(l.root)
}

// Load resolves modelID under the root and opens its weights. Only what the
// scanner would list is loadable: a directory holding a regular model.bin, or a
// regular file with a known model extension. Anything else is not found.
func (l *FileLoader) Load(ctx context.Context, modelID string) (manager.Engine, error) {
	p, err := fsutil.JoinUnder(l.root, modelID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", manager.ErrModelNotFound(modelID), err)
	}
	weights, err := l.weightsPath(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w under %s", manager.ErrModelNotFound(modelID), l.root)
		}
		return nil, err
	}
	start := time.Now()
	size, err := fsutil.DirSize(p)
	if err != nil {
		return nil, fmt.Errorf("size %s: %w", p, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(weights)
	if err != nil {
		return nil, fmt.Errorf("open weights: %w", err)
	}
	l.log.Info().
		Str("model", modelID).
		Str("path", weights).
		Str("size", humanize.Bytes(uint64(size))).
		Dur("dur", time.Since(start)).
		Msg("model weights opened")
	return &FileEngine{id: modelID, path: weights, size: size, f: f}, nil
}

// weightsPath returns the weights file for the model at p, or an error
// wrapping os.ErrNotExist when p is not a model.
func (l *FileLoader) weightsPath(p string) (string, error) {
	fi, err := os.Stat(p)
	if err != nil {
		return "", err
	}
	if fi.IsDir() {
		weights := filepath.Join(p, weightsFile)
		wi, err := os.Stat(weights)
		if err != nil {
			return "", err
		}
		if !wi.Mode().IsRegular() {
			return "", fmt.Errorf("%s: %w", weightsFile, os.ErrNotExist)
		}
		return weights, nil
	}
	if !fi.Mode().IsRegular() || !l.scanner.matches(fi.Name()) {
		return "", fmt.Errorf("%s: %w", fi.Name(), os.ErrNotExist)
	}
	return p, nil
}

// FileEngine is a loaded on-disk model. It does not transcribe by itself.
type FileEngine struct {
	id   string
	path string
	size int64

	mu sync.Mutex
	f  *os.File
}

// Path returns the weights file backing the engine.
func (e *FileEngine) Path() string { return e.path }

// Size returns the model size on disk in bytes.
func (e *FileEngine) Size() int64 { return e.size }

// Close releases the weights file. Closing twice is a no-op.
func (e *FileEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.f == nil {
		return nil
	}
	err := e.f.Close()
	e.f = nil
	return err
}
