package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"skin-health-backend/internal/session"
	"skin-health-backend/internal/shared/telemetry"
	"skin-health-backend/internal/shared/util"
)

// Logging emits a structured log per request. Session ids are hashed.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		sessionHash := ""
		if sess := session.FromContext(c); sess.Valid() {
			sessionHash = util.ShortHash(sess.ID)
		}

		telemetry.Info("request.complete", map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       c.FullPath(),
			"status":      c.Writer.Status(),
			"bytes":       c.Writer.Size(),
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"session":     sessionHash,
			"analysis_id": c.GetString("analysisId"),
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		})
	}
}
