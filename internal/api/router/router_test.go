package router_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cv-insight/internal/analysis"
	"cv-insight/internal/api/handler"
	"cv-insight/internal/api/router"
	"cv-insight/internal/auth"
	"cv-insight/internal/config"
	"cv-insight/internal/docparse"
)

func testServer(t *testing.T, cfg *config.Config) *server.Hertz {
	t.Helper()

	analyzer := analysis.NewAnalyzer(nil, analysis.WithMockMode(true))
	extractor := docparse.NewLayoutExtractor()
	authService := auth.NewService(nil, nil, cfg.Auth, zerolog.Nop())

	h := server.New()
	router.RegisterRoutes(h, cfg, router.Handlers{
		Analysis:    handler.NewAnalysisHandler(cfg, nil, analyzer, extractor, zerolog.Nop()),
		Auth:        handler.NewAuthHandler(authService, zerolog.Nop()),
		Contact:     handler.NewContactHandler(nil, zerolog.Nop()),
		Reports:     handler.NewReportHandler(nil, zerolog.Nop()),
		AuthService: authService,
	})
	return h
}

func postJSON(t *testing.T, h *server.Hertz, path string, payload any) *ut.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return ut.PerformRequest(h.Engine, "POST", path,
		&ut.Body{Body: bytes.NewBuffer(body), Len: len(body)},
		ut.Header{Key: "Content-Type", Value: "application/json"},
	)
}

func TestHealthRoute(t *testing.T) {
	h := testServer(t, config.DefaultConfig())

	w := ut.PerformRequest(h.Engine, "GET", "/api/v1/health", nil)
	resp := w.Result()

	assert.Equal(t, 200, resp.StatusCode())
	assert.Contains(t, string(resp.Body()), `"status":"ok"`)
}

func TestAnalyzeRouteReturnsReport(t *testing.T) {
	h := testServer(t, config.DefaultConfig())

	w := postJSON(t, h, "/api/v1/analyze", map[string]string{
		"cv_text": "Curriculum Vitae\nJohn Smith\njohn@example.com\n\nWork Experience\nEngineer\n\nSkills\nGo",
		"lang":    "en",
	})
	resp := w.Result()
	require.Equal(t, 200, resp.StatusCode(), string(resp.Body()))

	var parsed struct {
		ReportID string `json:"report_id"`
		Result   struct {
			AnalysisType string `json:"analysis_type"`
			UsedMock     bool   `json:"used_mock"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(resp.Body(), &parsed))
	assert.Len(t, parsed.ReportID, 36)
	assert.Equal(t, "ats_cv_analysis", parsed.Result.AnalysisType)
	assert.True(t, parsed.Result.UsedMock)
}

func TestAnalyzeRouteRejectsShortText(t *testing.T) {
	h := testServer(t, config.DefaultConfig())

	w := postJSON(t, h, "/api/v1/analyze", map[string]string{"cv_text": "hi"})
	assert.Equal(t, 400, w.Result().StatusCode())
}

func TestAnalyzeRouteRateLimited(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.RateLimits.AnalyzePerHour = 2
	h := testServer(t, cfg)

	payload := map[string]string{"cv_text": "Curriculum Vitae with enough text to analyze properly."}
	assert.Equal(t, 200, postJSON(t, h, "/api/v1/analyze", payload).Result().StatusCode())
	assert.Equal(t, 200, postJSON(t, h, "/api/v1/analyze", payload).Result().StatusCode())
	assert.Equal(t, 429, postJSON(t, h, "/api/v1/analyze", payload).Result().StatusCode())
}

func TestReportsRouteRequiresAuth(t *testing.T) {
	h := testServer(t, config.DefaultConfig())

	w := ut.PerformRequest(h.Engine, "GET", "/api/v1/reports", nil)
	assert.Equal(t, 401, w.Result().StatusCode())
}

func TestReportsRouteRejectsBadToken(t *testing.T) {
	h := testServer(t, config.DefaultConfig())

	w := ut.PerformRequest(h.Engine, "GET", "/api/v1/reports", nil,
		ut.Header{Key: "Authorization", Value: "Bearer not.a.token"})
	assert.Equal(t, 401, w.Result().StatusCode())
}

func TestContactRouteAccepted(t *testing.T) {
	h := testServer(t, config.DefaultConfig())

	w := postJSON(t, h, "/api/v1/contact", map[string]string{
		"name":  "Jane Doe",
		"email": "jane@example.com",
		"body":  "How long are reports retained?",
	})
	resp := w.Result()
	require.Equal(t, 202, resp.StatusCode(), string(resp.Body()))
	assert.Contains(t, string(resp.Body()), `"status":"received"`)
}

func TestContactRouteValidation(t *testing.T) {
	h := testServer(t, config.DefaultConfig())

	w := postJSON(t, h, "/api/v1/contact", map[string]string{"email": "jane@example.com"})
	assert.Equal(t, 400, w.Result().StatusCode())
}

func TestAdminRouteRequiresKey(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.AdminAPIKey = "super-secret"
	h := testServer(t, cfg)

	w := ut.PerformRequest(h.Engine, "GET", "/api/v1/admin/dashboard", nil)
	assert.Equal(t, 401, w.Result().StatusCode())

	w = ut.PerformRequest(h.Engine, "GET", "/api/v1/admin/dashboard", nil,
		ut.Header{Key: "X-Admin-Key", Value: "wrong"})
	assert.Equal(t, 401, w.Result().StatusCode())
}
