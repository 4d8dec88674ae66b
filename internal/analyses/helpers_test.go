package analyses

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"skin-health-backend/internal/classifier"
	"skin-health-backend/internal/disease"
	"skin-health-backend/internal/session"
	"skin-health-backend/internal/shared/storage/object"
	local "skin-health-backend/internal/shared/storage/object/local"
	"skin-health-backend/internal/web"
)

type fakePredictor struct {
	pred  classifier.Prediction
	err   error
	calls int
}

func (f *fakePredictor) Classify(ctx context.Context, img image.Image) (classifier.Prediction, error) {
	f.calls++
	if f.err != nil {
		return classifier.Prediction{}, f.err
	}
	return f.pred, nil
}

func ringwormPrediction() classifier.Prediction {
	return classifier.Prediction{
		Disease:    disease.Ringworm,
		Confidence: 87.34,
		Scores:     []float32{0.01, 0.02, 0.03, 0.04, 0.8734, 0.0066, 0.01, 0.01},
		Duration:   3 * time.Millisecond,
	}
}

type testEnv struct {
	router    *gin.Engine
	svc       *Service
	predictor *fakePredictor
	dir       string
}

func setupEnv(t *testing.T, naming object.Naming, maxUpload int64) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	kb, err := disease.Default()
	if err != nil {
		t.Fatalf("load knowledge: %v", err)
	}
	dir := t.TempDir()
	predictor := &fakePredictor{pred: ringwormPrediction()}
	svc := &Service{
		Store:      local.New(dir),
		Naming:     naming,
		Classifier: predictor,
		Knowledge:  kb,
		Results:    session.NewStore[Result](time.Hour, nil),
		Now: func() time.Time {
			return time.Date(2026, time.January, 2, 10, 31, 0, 0, time.UTC)
		},
	}

	tmpl, err := web.Templates()
	if err != nil {
		t.Fatalf("templates: %v", err)
	}
	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(session.Middleware(session.CookieOptions{Name: "skin_session", TTL: time.Hour}))
	h := NewHandler(svc, maxUpload)
	h.RegisterRoutes(r)
	h.RegisterAPIRoutes(r.Group("/api/v1"))

	return &testEnv{router: r, svc: svc, predictor: predictor, dir: dir}
}

func validFields() map[string]string {
	return map[string]string{
		"name":     "Asha Verma",
		"age":      "31",
		"address":  "12 Lake Road",
		"mobile":   "9876543210",
		"symptoms": "Itchy circular rash",
		"datetime": "2026-01-02T10:30",
	}
}

func pngBytes(t *testing.T, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func multipartRequest(t *testing.T, path string, fields map[string]string, fileName string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if fileName != "" {
		fw, err := mw.CreateFormFile("image", fileName)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write(data); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func withCookies(req *http.Request, resp *httptest.ResponseRecorder) *http.Request {
	for _, c := range resp.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func storedFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func readStored(t *testing.T, dir, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("read stored %s: %v", name, err)
	}
	return data
}
