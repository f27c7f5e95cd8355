package bootstrap_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"findmyjob-backend/internal/bootstrap"
	"findmyjob-backend/internal/shared/config"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Port:             "0",
		Env:              "dev",
		CORSAllowOrigin:  []string{"http://localhost:3000"},
		ObjectStoreType:  "local",
		LocalStoreDir:    t.TempDir(),
		MaxUploadBytes:   1 << 20,
		WebUploadEnabled: true,
		JobSearch: config.JobSearch{
			Location:   "Bangalore",
			Experience: 2,
			Pages:      1,
		},
	}
}

func buildRouter(t *testing.T, cfg config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	app, err := bootstrap.Build(cfg)
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })
	return app.Router
}

func TestUploadEndToEnd(t *testing.T) {
	router := buildRouter(t, testConfig(t))

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	fileWriter, err := writer.CreateFormFile("file", "resume.txt")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fileWriter.Write([]byte("Technical Skills: Go, Docker, Kubernetes, PostgreSQL\nProblem solving")); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-Guest-Id", "guest-e2e")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if resp.Header().Get("X-Request-Id") == "" {
		t.Fatalf("expected request id header")
	}

	var result struct {
		Message     string   `json:"message"`
		Filename    string   `json:"filename"`
		Skills      []string `json:"skills"`
		MatchedJobs []string `json:"matched_jobs"`
		NaukriJobs  []any    `json:"naukri_jobs"`
		ScanID      string   `json:"scan_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Message != "File processed successfully!" || result.Filename != "resume.txt" {
		t.Fatalf("unexpected result: %+v", result)
	}
	for _, want := range []string{"docker", "go", "kubernetes", "postgresql"} {
		found := false
		for _, s := range result.Skills {
			if s == want {
				found = true
			}
		}
		if !found {
			t.Fatalf("expected skill %q in %v", want, result.Skills)
		}
	}
	if result.NaukriJobs == nil || len(result.NaukriJobs) != 0 {
		t.Fatalf("expected empty naukri_jobs without providers, got %v", result.NaukriJobs)
	}

	get := httptest.NewRequest(http.MethodGet, "/api/v1/scans/"+result.ScanID, nil)
	get.Header.Set("X-Guest-Id", "guest-e2e")
	getResp := httptest.NewRecorder()
	router.ServeHTTP(getResp, get)
	if getResp.Code != http.StatusOK || !strings.Contains(getResp.Body.String(), `"status":"completed"`) {
		t.Fatalf("unexpected scan lookup: %d %s", getResp.Code, getResp.Body.String())
	}
}

func TestHealthMetricsAndPages(t *testing.T) {
	router := buildRouter(t, testConfig(t))

	for _, path := range []string{"/healthz", "/api/v1/health"} {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), `"ok":true`) {
			t.Fatalf("%s: unexpected response %d %s", path, resp.Code, resp.Body.String())
		}
	}

	metricsResp := httptest.NewRecorder()
	router.ServeHTTP(metricsResp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if metricsResp.Code != http.StatusOK || !strings.Contains(metricsResp.Body.String(), "scan_started_total") {
		t.Fatalf("unexpected metrics response: %d", metricsResp.Code)
	}

	page := httptest.NewRecorder()
	router.ServeHTTP(page, httptest.NewRequest(http.MethodGet, "/", nil))
	if page.Code != http.StatusOK || !strings.Contains(page.Body.String(), "Upload Your Resume") {
		t.Fatalf("unexpected landing page: %d", page.Code)
	}
}

func TestUploadPreflight(t *testing.T) {
	router := buildRouter(t, testConfig(t))

	req := httptest.NewRequest(http.MethodOptions, "/upload", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("unexpected allow origin: %q", got)
	}
}

func TestUploadRateLimited(t *testing.T) {
	cfg := testConfig(t)
	cfg.UploadRatePerSec = 0.001
	cfg.UploadRateBurst = 1
	router := buildRouter(t, cfg)

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/scans", strings.NewReader(""))
		req.Header.Set("X-Guest-Id", "guest-limited")
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		codes = append(codes, resp.Code)
	}
	if codes[0] != http.StatusBadRequest || codes[1] != http.StatusTooManyRequests {
		t.Fatalf("unexpected status codes: %v", codes)
	}
}

func TestUploadRateLimitKeysOnClientIP(t *testing.T) {
	cfg := testConfig(t)
	cfg.UploadRatePerSec = 0.001
	cfg.UploadRateBurst = 1
	router := buildRouter(t, cfg)

	accepted := 0
	for i := 0; i < 20; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/scans", strings.NewReader(""))
		req.RemoteAddr = "192.0.2.1:5000"
		req.Header.Set("X-Guest-Id", fmt.Sprintf("rotating-%d", i))
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i))
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusTooManyRequests {
			accepted++
		}
	}
	if accepted != 1 {
		t.Fatalf("expected one request past the limiter, got %d", accepted)
	}
}
