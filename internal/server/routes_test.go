package server_test

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"github.com/contactaryanshukla14-lgtm/torchserve-workshop/internal/app"
	"github.com/contactaryanshukla14-lgtm/torchserve-workshop/internal/config"
	"github.com/contactaryanshukla14-lgtm/torchserve-workshop/internal/server"
)

// newTestStack builds the gin engine wired to an App whose inference client
// points at the given fake backend.
func newTestStack(t *testing.T, backendURL string) (*app.App, http.Handler) {
	t.Helper()

	u, err := url.Parse(backendURL)
	if err != nil {
		t.Fatalf("failed to parse backend url: %v", err)
	}
	host, portStr, err := net.SplitHostPort(u.Host)
	if err != nil {
		t.Fatalf("failed to split backend host: %v", err)
	}
	port, _ := strconv.Atoi(portStr)

	cfg := &config.Config{
		Environment: "test",
		Host:        "localhost",
		Model:       &config.ModelConfig{Name: "resnet"},
		Backend: &config.BackendConfig{
			Host:          host,
			InferencePort: port,
			TimeoutSecs:   5,
		},
	}

	a, err := app.NewApp(cfg, app.WithInferenceClient())
	if err != nil {
		t.Fatalf("failed to build app: %v", err)
	}
	t.Cleanup(a.Close)

	srv, err := server.NewServer(cfg)
	if err != nil {
		t.Fatalf("failed to build server: %v", err)
	}
	srv.SetupRoutes(a)

	return a, srv.Engine()
}

func testImage(t *testing.T) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, color.NRGBA{R: 10, G: 120, B: 30, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestClassifyReturnsRankedPredictions(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/predictions/resnet" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"tabby": 0.71, "tiger_cat": 0.2, "lynx": 0.05}`))
	}))
	defer backend.Close()

	_, engine := newTestStack(t, backend.URL)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/classify", bytes.NewReader(testImage(t)))
	req.Header.Set("Content-Type", "application/octet-stream")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Status string `json:"status"`
		Data   struct {
			Predictions []struct {
				Class      string  `json:"class"`
				Confidence float64 `json:"confidence"`
			} `json:"predictions"`
			Top struct {
				Class string `json:"class"`
			} `json:"top"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if body.Data.Top.Class != "tabby" {
		t.Fatalf("expected top class tabby, got %q", body.Data.Top.Class)
	}
	if len(body.Data.Predictions) != 3 {
		t.Fatalf("expected 3 predictions, got %d", len(body.Data.Predictions))
	}
	for i := 1; i < len(body.Data.Predictions); i++ {
		if body.Data.Predictions[i].Confidence > body.Data.Predictions[i-1].Confidence {
			t.Fatalf("predictions not sorted by descending confidence: %+v", body.Data.Predictions)
		}
	}
}

func TestClassifyRejectsInvalidImage(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("backend should not be called for an invalid image")
	}))
	defer backend.Close()

	_, engine := newTestStack(t, backend.URL)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/classify", bytes.NewReader([]byte("not an image")))
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestClassifyBackendDecodeFailure(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>definitely not json</html>"))
	}))
	defer backend.Close()

	_, engine := newTestStack(t, backend.URL)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/classify", bytes.NewReader(testImage(t)))
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestClassifyBackendDown(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	backend.Close() // nothing listening

	_, engine := newTestStack(t, backend.URL)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/classify", bytes.NewReader(testImage(t)))
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestBackendHealthOnline(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ping" {
			w.Write([]byte(`{"status": "Healthy"}`))
			return
		}
		http.NotFound(w, r)
	}))
	defer backend.Close()

	_, engine := newTestStack(t, backend.URL)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/backend/health", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestBackendHealthOffline(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	backend.Close()

	_, engine := newTestStack(t, backend.URL)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/backend/health", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestBundlesUnavailableWithoutRegistry(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer backend.Close()

	_, engine := newTestStack(t, backend.URL)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bundles", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHealthz(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer backend.Close()

	_, engine := newTestStack(t, backend.URL)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
