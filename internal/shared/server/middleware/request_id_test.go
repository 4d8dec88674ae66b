package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func TestRequestIDReusesWellFormedHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var seen string
	router := gin.New()
	router.Use(RequestID())
	router.GET("/x", func(c *gin.Context) {
		seen = RequestIDFromContext(c)
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-Id", "edge-42.a_b")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if seen != "edge-42.a_b" {
		t.Fatalf("expected inbound id, got %q", seen)
	}
	if got := rec.Header().Get("X-Request-Id"); got != "edge-42.a_b" {
		t.Fatalf("expected echoed id, got %q", got)
	}
}

func TestRequestIDReplacesMalformedHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RequestID())
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	cases := []string{"", "bad id", "line\x1bbreak", strings.Repeat("a", maxRequestIDLen+1)}
	for _, in := range cases {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		if in != "" {
			req.Header.Set("X-Request-Id", in)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		got := rec.Header().Get("X-Request-Id")
		if got == in {
			t.Fatalf("expected %q to be replaced", in)
		}
		if _, err := uuid.Parse(got); err != nil {
			t.Fatalf("expected generated uuid, got %q", got)
		}
	}
}
