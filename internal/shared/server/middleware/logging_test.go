package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap/zapcore"

	"skin-health-backend/internal/session"
	"skin-health-backend/internal/shared/telemetry"
	"skin-health-backend/internal/shared/util"
)

func TestLoggingIncludesRequiredFields(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	telemetry.SetOutput(zapcore.AddSync(&buf))
	defer telemetry.SetOutput(zapcore.AddSync(&bytes.Buffer{}))

	router := gin.New()
	router.Use(RequestID(), session.Middleware(session.CookieOptions{Name: "skin_session"}), Logging())
	router.GET("/test", func(c *gin.Context) {
		c.Set("analysisId", "analysis-1")
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("X-Request-Id", "req-1")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	last := lines[len(lines)-1]
	var payload map[string]any
	if err := json.Unmarshal([]byte(last), &payload); err != nil {
		t.Fatalf("decode log json: %v", err)
	}

	required := []string{"request_id", "session", "analysis_id", "duration_ms", "status", "route"}
	for _, key := range required {
		if _, ok := payload[key]; !ok {
			t.Fatalf("missing log field: %s", key)
		}
	}
	if payload["msg"] != "request.complete" {
		t.Fatalf("unexpected msg: %v", payload["msg"])
	}
	if payload["request_id"] != "req-1" {
		t.Fatalf("unexpected request_id: %v", payload["request_id"])
	}
	if payload["analysis_id"] != "analysis-1" {
		t.Fatalf("unexpected analysis_id: %v", payload["analysis_id"])
	}

	var sessionID string
	for _, c := range resp.Result().Cookies() {
		if c.Name == "skin_session" {
			sessionID = c.Value
		}
	}
	if payload["session"] != util.ShortHash(sessionID) {
		t.Fatalf("expected hashed session id, got %v", payload["session"])
	}
	if strings.Contains(last, sessionID) {
		t.Fatalf("raw session id must not be logged")
	}
}
