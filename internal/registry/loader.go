package registry

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"speechd/internal/common/fsutil"
	"speechd/pkg/types"
)

// weightsFile marks a directory as a model (CTranslate2 / faster-whisper layout).
const weightsFile = "model.bin"

// Scanner discovers models under a directory. A model is either a directory
// containing model.bin, or a single file with one of the scanner's extensions
// (e.g. whisper.cpp ggml-*.bin). IDs are slash-separated paths relative to the
// scanned root, so nested layouts like "Systran/faster-whisper-tiny" work.
type Scanner struct {
	exts []string
}

// NewScanner returns a scanner recognizing the common speech model file types.
func NewScanner() *Scanner {
	return &Scanner{exts: []string{".bin", ".gguf", ".ggml", ".onnx"}}
}

// Scan walks dir and returns the discovered models sorted by id.
func (s *Scanner) Scan(dir string) ([]types.Model, error) {
	abs, err := absDir(dir)
	if err != nil {
		return nil, err
	}
	var models []types.Model
	err = filepath.WalkDir(abs, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == abs {
			return nil
		}
		name := d.Name()
		if strings.HasPrefix(name, ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if fi, err := os.Stat(filepath.Join(p, weightsFile)); err == nil && fi.Mode().IsRegular() {
				m, err := describe(abs, p)
				if err != nil {
					return err
				}
				models = append(models, m)
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !s.matches(name) {
			return nil
		}
		m, err := describe(abs, p)
		if err != nil {
			return err
		}
		models = append(models, m)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", abs, err)
	}
	sort.Slice(models, func(i, j int) bool { return models[i].ID < models[j].ID })
	return models, nil
}

func (s *Scanner) matches(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range s.exts {
		if ext == e {
			return true
		}
	}
	return false
}

func describe(root, p string) (types.Model, error) {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return types.Model{}, fmt.Errorf("rel path: %w", err)
	}
	size, err := fsutil.DirSize(p)
	if err != nil {
		return types.Model{}, fmt.Errorf("size %s: %w", p, err)
	}
	return types.Model{ID: filepath.ToSlash(rel), Path: p, SizeBytes: size}, nil
}

// absDir expands a leading '~' and makes dir absolute.
func absDir(dir string) (string, error) {
	base, err := fsutil.ExpandHome(dir)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return "", fmt.Errorf("abs path: %w", err)
	}
	return abs, nil
}
