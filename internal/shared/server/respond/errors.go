package respond

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"skin-health-backend/internal/shared/telemetry"
)

// ErrorBody defines the standardized error object.
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ErrorResponse wraps the error body.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

var errorPage = template.Must(template.New("error").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>{{.Status}} {{.StatusText}}</title><link rel="stylesheet" href="/static/style.css"></head>
<body><main class="card"><h1>{{.StatusText}}</h1><p>{{.Message}}</p><p><a href="/upload">Back to upload</a></p></main></body>
</html>
`))

// Error sends a standardized error response. Browsers asking for HTML get a
// minimal error page; everything else gets the JSON envelope.
func Error(c *gin.Context, status int, code, message string, details interface{}) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if analysisID := c.GetString("analysisId"); analysisID != "" {
		fields["analysis_id"] = analysisID
	}
	telemetry.Error("http.error", fields)

	if WantsHTML(c) {
		c.Status(status)
		c.Header("Content-Type", "text/html; charset=utf-8")
		_ = errorPage.Execute(c.Writer, map[string]any{
			"Status":     status,
			"StatusText": http.StatusText(status),
			"Message":    message,
		})
		c.Abort()
		return
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// WantsHTML reports whether the client prefers an HTML response.
func WantsHTML(c *gin.Context) bool {
	return c.NegotiateFormat(gin.MIMEJSON, gin.MIMEHTML) == gin.MIMEHTML
}
