package httpapi

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/iabhiroop/go-procure-backend/internal/config"
	"github.com/iabhiroop/go-procure-backend/internal/domain"
	"github.com/iabhiroop/go-procure-backend/internal/extract"
	"github.com/iabhiroop/go-procure-backend/internal/queue"
)

// --- test DB helper (pure-Go sqlite, no CGO) ---
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:routerdb?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// schema so handlers don't explode on list endpoints
	if err := db.AutoMigrate(&domain.OrderRecord{}, &domain.InventoryItem{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func newTestQueue(t *testing.T) *queue.Queue {
	t.Helper()
	store, err := queue.NewFileStore(filepath.Join(t.TempDir(), "queue.json"))
	if err != nil {
		t.Fatalf("file store: %v", err)
	}
	return queue.New(store)
}

func newTestRouter(t *testing.T, cfg config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	pipeline := extract.NewPipeline(nil, nil, time.Second)
	RegisterRoutes(r, newTestDB(t), newTestQueue(t), pipeline, cfg)
	return r
}

func baseConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		APIBasePath: "/api/v1",
		DocumentDir: t.TempDir(),
		RateRPS:     100,
		RateBurst:   100,
		OTEL:        config.OTELConfig{ServiceName: "test-svc"},
	}
}

func TestRegisterRoutes_HealthMetricsFallbacks(t *testing.T) {
	r := newTestRouter(t, baseConfig(t))

	// Health
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"ok"`) {
		t.Fatalf("healthz -> %d %s", w.Code, w.Body.String())
	}

	// Prometheus endpoint
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "http_requests_total") {
		t.Fatalf("metrics -> %d", w.Code)
	}

	// Unknown route -> enveloped 404
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if w.Code != http.StatusNotFound || !strings.Contains(w.Body.String(), "not_found") {
		t.Fatalf("no route -> %d %s", w.Code, w.Body.String())
	}

	// Wrong method on a known route -> enveloped 405
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/requests", nil))
	if w.Code != http.StatusMethodNotAllowed || !strings.Contains(w.Body.String(), "method_not_allowed") {
		t.Fatalf("no method -> %d %s", w.Code, w.Body.String())
	}
}

func TestRegisterRoutes_RequestFlowThroughStack(t *testing.T) {
	r := newTestRouter(t, baseConfig(t))

	// Enqueue through the full middleware stack.
	body := bytes.NewBufferString(`{"validation_data":{"supplier":"acme","amount":1200}}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/requests", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("enqueue -> %d %s", w.Code, w.Body.String())
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("missing correlation header")
	}

	// It shows up as pending.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/requests", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"count":1`) {
		t.Fatalf("pending -> %d %s", w.Code, w.Body.String())
	}

	// Budget endpoint is wired.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/budget/approval?amount=5000", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "department_manager") {
		t.Fatalf("budget -> %d %s", w.Code, w.Body.String())
	}

	// Mail endpoints reject cleanly when mail is not configured.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/documents/inbound", nil))
	if w.Code != http.StatusServiceUnavailable || !strings.Contains(w.Body.String(), "mail_disabled") {
		t.Fatalf("inbound without mail -> %d %s", w.Code, w.Body.String())
	}
}

func TestRegisterRoutes_RootBasePath(t *testing.T) {
	cfg := baseConfig(t)
	cfg.APIBasePath = "/"
	r := newTestRouter(t, cfg)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/requests/status", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status at root base path -> %d %s", w.Code, w.Body.String())
	}
}

func TestRegisterRoutes_BodyLimit(t *testing.T) {
	r := newTestRouter(t, baseConfig(t))

	huge := bytes.Repeat([]byte("a"), 2<<20)
	payload := append([]byte(`{"validation_data":{"blob":"`), huge...)
	payload = append(payload, []byte(`"}}`)...)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/requests", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("oversized body -> %d", w.Code)
	}
}
