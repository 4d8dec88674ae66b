package reports

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"skin-health-backend/internal/analyses"
	"skin-health-backend/internal/session"
	"skin-health-backend/internal/shared/metrics"
	"skin-health-backend/internal/shared/server/respond"
	"skin-health-backend/internal/shared/telemetry"
)

const pdfFileName = "diagnosis_report.pdf"

// ResultSource reads the current analysis for a session.
type ResultSource interface {
	Current(sess session.Session) (analyses.Result, error)
}

// Handler serves the result page and the PDF report.
type Handler struct {
	Results  ResultSource
	Renderer *Renderer
}

// NewHandler constructs a Handler.
func NewHandler(results ResultSource, renderer *Renderer) *Handler {
	return &Handler{Results: results, Renderer: renderer}
}

// RegisterRoutes attaches report routes.
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/result", h.resultPage)
	r.GET("/generate-pdf", h.generatePDF)
}

func (h *Handler) resultPage(c *gin.Context) {
	res, err := h.Results.Current(session.FromContext(c))
	if err != nil {
		c.Redirect(http.StatusSeeOther, "/upload")
		return
	}
	c.Set("analysisId", res.AnalysisID)
	c.HTML(http.StatusOK, "result.html", gin.H{"Result": res})
}

func (h *Handler) generatePDF(c *gin.Context) {
	res, err := h.Results.Current(session.FromContext(c))
	if err != nil {
		metrics.IncReportRendered("no_result")
		respond.Error(c, http.StatusBadRequest, "no_result", "No result data available. Please analyze an image first.", nil)
		return
	}
	c.Set("analysisId", res.AnalysisID)

	out, err := h.Renderer.PDF(c.Request.Context(), res)
	if err != nil {
		metrics.IncReportRendered("failed")
		telemetry.Error("report.render_failed", map[string]any{
			"analysis_id": res.AnalysisID,
			"error":       err,
		})
		respond.Error(c, http.StatusInternalServerError, "pdf_failed", "Failed to generate PDF", nil)
		return
	}

	metrics.IncReportRendered("ok")
	c.Header("Content-Disposition", `inline; filename="`+pdfFileName+`"`)
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "application/pdf", out)
}
