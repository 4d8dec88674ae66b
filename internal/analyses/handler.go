package analyses

import (
	"bytes"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"skin-health-backend/internal/classifier"
	"skin-health-backend/internal/disease"
	"skin-health-backend/internal/session"
	"skin-health-backend/internal/shared/server/respond"
	"skin-health-backend/internal/shared/storage/object"
	"skin-health-backend/internal/shared/util"
)

const defaultMaxUploadBytes = 10 << 20 // 10MB

// Handler wires HTTP handlers to the analyses service.
type Handler struct {
	Svc            *Service
	MaxUploadBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
	}
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches the browser form routes.
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/analyze", h.analyzePage)
	r.GET("/uploads/:name", h.image)
}

// RegisterAPIRoutes attaches the JSON routes to the /api/v1 group.
func (h *Handler) RegisterAPIRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyses", h.analyzeJSON)
	rg.GET("/analyses/current", h.current)
}

var validatorsOnce sync.Once

// registerValidators adds notblank to gin's validator so whitespace-only
// fields fail binding like missing ones.
func registerValidators() {
	validatorsOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("notblank", validators.NotBlank)
		}
	})
}

type submissionForm struct {
	Name     string                `form:"name" binding:"required,notblank"`
	Age      string                `form:"age" binding:"required,notblank"`
	Address  string                `form:"address" binding:"required,notblank"`
	Mobile   string                `form:"mobile" binding:"required,notblank"`
	Symptoms string                `form:"symptoms" binding:"required,notblank"`
	DateTime string                `form:"datetime" binding:"required,notblank"`
	Image    *multipart.FileHeader `form:"image" binding:"required"`
}

func (h *Handler) analyzePage(c *gin.Context) {
	res, ok := h.analyze(c)
	if !ok {
		return
	}
	c.HTML(http.StatusOK, "result.html", gin.H{"Result": res})
}

func (h *Handler) analyzeJSON(c *gin.Context) {
	res, ok := h.analyze(c)
	if !ok {
		return
	}
	respond.Created(c, res)
}

// analyze binds the form and runs the service. On failure the error response
// is already written and ok is false.
func (h *Handler) analyze(c *gin.Context) (Result, bool) {
	registerValidators()
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)

	var form submissionForm
	if err := c.ShouldBind(&form); err != nil {
		if isTooLarge(err) {
			respond.Error(c, http.StatusRequestEntityTooLarge, ErrorCodeTooLarge, "upload exceeds the size limit", nil)
			return Result{}, false
		}
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "missing or invalid form fields", missingFields(err))
		return Result{}, false
	}

	ts, err := ParseTimestamp(strings.TrimSpace(form.DateTime))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeDateTime, "datetime must look like 2006-01-02T15:04", fieldIssue("datetime", "invalid_format"))
		return Result{}, false
	}

	data, err := readUpload(form.Image)
	if err != nil {
		if isTooLarge(err) {
			respond.Error(c, http.StatusRequestEntityTooLarge, ErrorCodeTooLarge, "upload exceeds the size limit", nil)
			return Result{}, false
		}
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "unable to read image", nil)
		return Result{}, false
	}

	sub := Submission{
		Name:      strings.TrimSpace(form.Name),
		Age:       strings.TrimSpace(form.Age),
		Address:   strings.TrimSpace(form.Address),
		Mobile:    strings.TrimSpace(form.Mobile),
		Symptoms:  strings.TrimSpace(form.Symptoms),
		Timestamp: ts,
	}
	res, err := h.Svc.Analyze(c.Request.Context(), session.FromContext(c), sub, Upload{
		FileName: form.Image.Filename,
		Data:     data,
	})
	if err != nil {
		writeAnalyzeError(c, err)
		return Result{}, false
	}
	c.Set("analysisId", res.AnalysisID)
	return res, true
}

func (h *Handler) current(c *gin.Context) {
	res, err := h.Svc.Current(session.FromContext(c))
	if err != nil {
		respond.Error(c, http.StatusNotFound, ErrorCodeNotFound, "no analysis in this session", nil)
		return
	}
	c.Set("analysisId", res.AnalysisID)
	respond.OK(c, res)
}

func (h *Handler) image(c *gin.Context) {
	name := c.Param("name")
	rc, err := h.Svc.Store.Open(c.Request.Context(), name)
	if err != nil {
		switch {
		case errors.Is(err, object.ErrNotFound), errors.Is(err, object.ErrInvalidKey):
			respond.Error(c, http.StatusNotFound, ErrorCodeNotFound, "image not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, ErrorCodeStorage, "failed to read image", nil)
		}
		return
	}
	defer rc.Close()

	head := make([]byte, 512)
	n, _ := io.ReadFull(rc, head)
	head = head[:n]
	c.Header("Cache-Control", "private, max-age=300")
	c.Header("X-Content-Type-Options", "nosniff")
	c.DataFromReader(http.StatusOK, -1, http.DetectContentType(head), io.MultiReader(bytes.NewReader(head), rc), nil)
}

func writeAnalyzeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrInvalidFileName):
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "image file name is not usable", fieldIssue("image", "invalid_filename"))
	case errors.Is(err, ErrEmptyImage):
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "image is empty", fieldIssue("image", "empty"))
	case errors.Is(err, ErrNoSession):
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "session cookie is missing", nil)
	case errors.Is(err, ErrValidation):
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "invalid submission", nil)
	case errors.Is(err, classifier.ErrInvalidImage):
		respond.Error(c, http.StatusBadRequest, ErrorCodeImage, "uploaded file is not a supported image", nil)
	case errors.Is(err, classifier.ErrInference), errors.Is(err, classifier.ErrBadOutput):
		respond.Error(c, http.StatusInternalServerError, ErrorCodeInference, "image classification failed", nil)
	case errors.Is(err, ErrConsistency), errors.Is(err, disease.ErrUnknownLabel):
		respond.Error(c, http.StatusInternalServerError, ErrorCodeConsistency, "predicted label has no knowledge entry", nil)
	case errors.Is(err, ErrStorage):
		respond.Error(c, http.StatusInternalServerError, ErrorCodeStorage, "failed to store image", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, "analysis failed", nil)
	}
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func missingFields(err error) []map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make([]map[string]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, map[string]string{
			"field": strings.ToLower(fe.Field()),
			"issue": fe.Tag(),
		})
	}
	return out
}

func fieldIssue(field, issue string) []map[string]string {
	return []map[string]string{{"field": field, "issue": issue}}
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "request body too large")
}
