// Package reports renders the session's analysis result as an HTML page or a
// PDF document.
package reports

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"image"
	"io"
	"time"

	"skin-health-backend/internal/analyses"
	"skin-health-backend/internal/classifier"
	"skin-health-backend/internal/shared/storage/object"
	"skin-health-backend/internal/shared/telemetry"
)

// ErrRender wraps any failure while producing or checking a PDF.
var ErrRender = errors.New("pdf render failed")

//go:embed templates/report.html
var templateFS embed.FS

const reportTitle = "Diagnosis Report"

// Renderer builds report documents. It is safe for concurrent use.
type Renderer struct {
	tmpl   *template.Template
	images object.ObjectStore
	now    func() time.Time
	// convert is swapped in tests to simulate converter failures.
	convert func(doc []byte, title string, images imageLoader, onMissing func(string, error)) ([]byte, error)
}

// NewRenderer parses the report template. images may be nil, in which case
// reports are produced without the uploaded photo.
func NewRenderer(images object.ObjectStore) (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/report.html")
	if err != nil {
		return nil, fmt.Errorf("parse report template: %w", err)
	}
	return &Renderer{
		tmpl:    tmpl,
		images:  images,
		now:     time.Now,
		convert: htmlToPDF,
	}, nil
}

type reportData struct {
	Result      analyses.Result
	GeneratedAt string
}

// HTML renders the report template for res.
func (r *Renderer) HTML(res analyses.Result) ([]byte, error) {
	var buf bytes.Buffer
	data := reportData{
		Result:      res,
		GeneratedAt: r.now().UTC().Format("2006-01-02 15:04 MST"),
	}
	if err := r.tmpl.ExecuteTemplate(&buf, "report.html", data); err != nil {
		return nil, fmt.Errorf("%w: template: %w", ErrRender, err)
	}
	return buf.Bytes(), nil
}

// PDF renders res to HTML, converts it and verifies the output. The returned
// bytes are either a complete document or nil.
func (r *Renderer) PDF(ctx context.Context, res analyses.Result) ([]byte, error) {
	doc, err := r.HTML(res)
	if err != nil {
		return nil, err
	}

	onMissing := func(key string, err error) {
		telemetry.Warn("report.image_missing", map[string]any{
			"analysis_id": res.AnalysisID,
			"image":       key,
			"error":       err,
		})
	}
	out, err := r.convert(doc, reportTitle, r.loader(ctx), onMissing)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}
	if err := verifyPDF(out); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}
	return out, nil
}

func (r *Renderer) loader(ctx context.Context) imageLoader {
	if r.images == nil {
		return nil
	}
	return func(key string) (image.Image, error) {
		rc, err := r.images.Open(ctx, key)
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, err
		}
		img, _, err := classifier.DecodeBytes(data)
		return img, err
	}
}
