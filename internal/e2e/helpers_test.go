package e2e

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"speechd/internal/httpapi"
	"speechd/internal/manager"
	"speechd/internal/registry"
)

// createTempModelsDir creates a models root with one directory per id, each
// holding a model.bin of the given size.
func createTempModelsDir(t *testing.T, size int, ids ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, id := range ids {
		p := filepath.Join(dir, filepath.FromSlash(id), "model.bin")
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", p, err)
		}
		if err := os.WriteFile(p, make([]byte, size), 0o644); err != nil {
			t.Fatalf("write temp model %s: %v", p, err)
		}
	}
	return dir
}

// newServerForDir wires the file loader, manager and HTTP API the same way
// `speechd serve` does.
func newServerForDir(t *testing.T, modelsDir string) (*httptest.Server, *manager.Manager, *manager.MemoryPublisher) {
	t.Helper()
	loader, err := registry.NewFileLoader(modelsDir, zerolog.Nop())
	if err != nil {
		t.Fatalf("file loader: %v", err)
	}
	events := manager.NewMemoryPublisher()
	mgr := manager.NewWithConfig(manager.ManagerConfig{
		Loader:       loader,
		Publisher:    manager.MultiPublisher{httpapi.MetricsPublisher{}, events},
		PollInterval: time.Millisecond,
	})
	srv := httptest.NewServer(httpapi.NewMux(mgr))
	t.Cleanup(srv.Close)
	return srv, mgr, events
}

func httpDo(t *testing.T, method, url string, body io.Reader, contentType string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, b
}

func httpGet(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	return httpDo(t, http.MethodGet, url, nil, "")
}

func wantStatus(t *testing.T, resp *http.Response, body []byte, want int) {
	t.Helper()
	if resp.StatusCode != want {
		t.Fatalf("%s %s: status=%d want %d body=%s", resp.Request.Method, resp.Request.URL.Path, resp.StatusCode, want, bytes.TrimSpace(body))
	}
}
