package onboarding

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"grantwriter-backend/internal/llm"
	"grantwriter-backend/internal/sessions"
)

func newTestRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func TestAnalyzeWithoutWebsiteHandler(t *testing.T) {
	oracle := &scriptedOracle{responses: []string{
		`{"mission_statement":"Feed hungry families"}`,
		`{"status":"NEEDS_MINOR_IMPROVEMENTS","score":60,"gaps":[],"recommendations":[]}`,
	}}
	svc := NewService(oracle, sessions.NewMemoryStore(), nil, nil)
	router := newTestRouter(svc)

	body := `{"mission":"Feed hungry families","core_purpose":"food security","type_of_work":"direct service","goals_aspirations":"expand to 3 counties"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/onboarding/analyze/without-website", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp ReadinessResult
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != StatusNeedsMinorImprovements || resp.SessionID == "" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAnalyzeHandlerRejectsMissingFields(t *testing.T) {
	svc := NewService(&scriptedOracle{}, sessions.NewMemoryStore(), nil, nil)
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/onboarding/analyze/with-website", strings.NewReader(`{"url":"https://x.org"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "validation_error") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestAnalyzeHandlerMapsOracleErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"unavailable", llm.ErrUnavailable, http.StatusServiceUnavailable, "oracle_unavailable"},
		{"malformed", llm.ErrMalformedOutput, http.StatusBadGateway, "malformed_oracle_output"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(&scriptedOracle{err: tt.err}, sessions.NewMemoryStore(), nil, nil)
			router := newTestRouter(svc)

			body := `{"mission":"m","core_purpose":"c","type_of_work":"t","goals_aspirations":"g"}`
			req := httptest.NewRequest(http.MethodPost, "/api/v1/onboarding/analyze/without-website", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if !strings.Contains(w.Body.String(), tt.wantCode) {
				t.Fatalf("body missing %q: %s", tt.wantCode, w.Body.String())
			}
		})
	}
}
