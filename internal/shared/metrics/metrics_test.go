package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestHandlerExposesCounters(t *testing.T) {
	gin.SetMode(gin.TestMode)

	IncAnalysisStarted()
	IncAnalysisCompleted("Impetigo")
	IncAnalysisFailed("invalid_image")
	ObserveInference(42 * time.Millisecond)
	IncReportRendered("ok")

	r := gin.New()
	r.GET("/metrics", Handler())

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	body := resp.Body.String()
	for _, want := range []string{
		"analysis_started_total",
		`analysis_completed_total{disease="Impetigo"}`,
		`analysis_failed_total{reason="invalid_image"}`,
		"inference_duration_ms_bucket",
		`reports_rendered_total{outcome="ok"}`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected metrics output to contain %q", want)
		}
	}
}
