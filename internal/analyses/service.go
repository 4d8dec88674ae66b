package analyses

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"net/http"
	"time"

	"github.com/google/uuid"

	"skin-health-backend/internal/classifier"
	"skin-health-backend/internal/disease"
	"skin-health-backend/internal/session"
	"skin-health-backend/internal/shared/metrics"
	"skin-health-backend/internal/shared/storage/object"
	"skin-health-backend/internal/shared/telemetry"
	"skin-health-backend/internal/shared/util"
)

// Predictor classifies a decoded image.
type Predictor interface {
	Classify(ctx context.Context, img image.Image) (classifier.Prediction, error)
}

// Service runs the upload, classify and store flow.
type Service struct {
	Store      object.ObjectStore
	Naming     object.Naming
	Classifier Predictor
	Knowledge  *disease.KnowledgeBase
	Results    *session.Store[Result]
	Now        func() time.Time
}

// Analyze persists the upload, classifies it and, only when every step
// succeeded, writes the result into the session slot.
func (s *Service) Analyze(ctx context.Context, sess session.Session, sub Submission, up Upload) (Result, error) {
	metrics.IncAnalysisStarted()
	res, err := s.analyze(ctx, sess, sub, up)
	if err != nil {
		reason := failureReason(err)
		metrics.IncAnalysisFailed(reason)
		telemetry.Error("analysis.failed", map[string]any{
			"session": util.ShortHash(sess.ID),
			"reason":  reason,
			"error":   err,
		})
		return Result{}, err
	}

	s.Results.Put(sess, res)
	metrics.IncAnalysisCompleted(res.PredictedDisease)
	telemetry.Info("analysis.completed", map[string]any{
		"session":     util.ShortHash(sess.ID),
		"analysis_id": res.AnalysisID,
		"disease":     res.PredictedDisease,
		"confidence":  res.PredictionScore,
		"image":       res.ImageFilename,
	})
	return res, nil
}

func (s *Service) analyze(ctx context.Context, sess session.Session, sub Submission, up Upload) (Result, error) {
	if !sess.Valid() {
		return Result{}, ErrNoSession
	}
	if len(up.Data) == 0 {
		return Result{}, ErrEmptyImage
	}
	safeName, err := util.SanitizeFileName(up.FileName)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	// Undecodable uploads are rejected before anything is written.
	img, _, err := classifier.DecodeBytes(up.Data)
	if err != nil {
		return Result{}, err
	}

	naming := s.Naming
	if naming == nil {
		naming = object.OverwriteNaming
	}
	key := naming(safeName)
	if _, err := s.Store.Put(ctx, key, http.DetectContentType(up.Data), bytes.NewReader(up.Data)); err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	pred, err := s.Classifier.Classify(ctx, img)
	if err != nil {
		return Result{}, err
	}
	metrics.ObserveInference(pred.Duration)

	rec, err := s.Knowledge.Lookup(pred.Disease)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrConsistency, err)
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}

	return Result{
		AnalysisID:         uuid.NewString(),
		Name:               sub.Name,
		Age:                sub.Age,
		Address:            sub.Address,
		Mobile:             sub.Mobile,
		Symptoms:           sub.Symptoms,
		Date:               sub.Timestamp.Format("2006-01-02"),
		Time:               sub.Timestamp.Format("15:04"),
		ImageFilename:      key,
		PredictedDisease:   rec.Name(),
		PredictionScore:    pred.Confidence,
		DiseaseDetail:      rec.Detail,
		DiseasePrecautions: rec.Precautions,
		DiseaseTreatment:   rec.Treatment,
		Scores:             toScores(pred.Scores),
		AnalyzedAt:         now().UTC(),
	}, nil
}

// Current returns the session's current result.
func (s *Service) Current(sess session.Session) (Result, error) {
	res, ok := s.Results.Get(sess)
	if !ok {
		return Result{}, ErrNoResult
	}
	return res, nil
}

func toScores(raw []float32) []Score {
	out := make([]Score, 0, len(raw))
	for i, p := range raw {
		d, err := disease.FromIndex(i)
		if err != nil {
			continue
		}
		out = append(out, Score{
			Disease:     d.String(),
			Probability: math.Round(float64(p)*100*100) / 100,
		})
	}
	return out
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return ErrorCodeValidation
	case errors.Is(err, ErrStorage):
		return ErrorCodeStorage
	case errors.Is(err, classifier.ErrInvalidImage):
		return ErrorCodeImage
	case errors.Is(err, classifier.ErrInference), errors.Is(err, classifier.ErrBadOutput):
		return ErrorCodeInference
	case errors.Is(err, ErrConsistency), errors.Is(err, disease.ErrUnknownLabel):
		return ErrorCodeConsistency
	default:
		return ErrorCodeInternal
	}
}
