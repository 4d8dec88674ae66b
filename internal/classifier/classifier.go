// Package classifier turns an uploaded photo into a disease prediction.
//
// A Classifier owns the preprocessing contract (224x224 RGB, intensities in
// [0,1], NHWC) and delegates the numeric work to a Backend. The Classifier is
// immutable once built and may be shared by any number of goroutines as long
// as the Backend is also safe for concurrent use.
package classifier

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"time"

	"skin-health-backend/internal/disease"
)

var (
	// ErrInvalidImage is returned when the upload cannot be decoded as an image.
	ErrInvalidImage = errors.New("invalid image")
	// ErrInference wraps any failure reported by the backend.
	ErrInference = errors.New("inference failed")
	// ErrBadOutput is returned when the backend output is not a probability
	// distribution over the disease set.
	ErrBadOutput = errors.New("unexpected model output")
)

// probabilityTolerance bounds how far the output sum may drift from 1.
const probabilityTolerance = 1e-3

// Backend runs the model on a preprocessed input tensor and returns one score
// per disease in model output order.
type Backend interface {
	Infer(ctx context.Context, input []float32) ([]float32, error)
}

// Prediction is the outcome of one classification.
type Prediction struct {
	Disease disease.Disease
	// Confidence is the winning probability scaled to 0..100, two decimals.
	Confidence float64
	Scores     []float32
	Duration   time.Duration
}

// Classifier wraps a Backend with preprocessing and output validation.
type Classifier struct {
	backend Backend
	timeout time.Duration
}

// New constructs a Classifier. A zero timeout disables the per-call deadline.
func New(backend Backend, timeout time.Duration) (*Classifier, error) {
	if backend == nil {
		return nil, errors.New("classifier backend is required")
	}
	return &Classifier{backend: backend, timeout: timeout}, nil
}

// Classify preprocesses img and returns the most probable disease.
func (c *Classifier) Classify(ctx context.Context, img image.Image) (Prediction, error) {
	if img == nil {
		return Prediction{}, ErrInvalidImage
	}
	return c.ClassifyTensor(ctx, Preprocess(img))
}

// ClassifyTensor runs an already preprocessed tensor through the backend.
func (c *Classifier) ClassifyTensor(ctx context.Context, input []float32) (Prediction, error) {
	if len(input) != TensorLen {
		return Prediction{}, fmt.Errorf("%w: input length %d, want %d", ErrInvalidImage, len(input), TensorLen)
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	scores, err := c.backend.Infer(ctx, input)
	elapsed := time.Since(start)
	if err != nil {
		return Prediction{}, fmt.Errorf("%w: %w", ErrInference, err)
	}
	if err := ctx.Err(); err != nil {
		return Prediction{}, fmt.Errorf("%w: %w", ErrInference, err)
	}

	if err := validateScores(scores); err != nil {
		return Prediction{}, err
	}

	idx := argmax(scores)
	d, err := disease.FromIndex(idx)
	if err != nil {
		return Prediction{}, err
	}

	out := make([]float32, len(scores))
	copy(out, scores)
	return Prediction{
		Disease:    d,
		Confidence: roundConfidence(scores[idx]),
		Scores:     out,
		Duration:   elapsed,
	}, nil
}

func validateScores(scores []float32) error {
	if len(scores) != disease.Count {
		return fmt.Errorf("%w: %d scores, want %d", ErrBadOutput, len(scores), disease.Count)
	}
	var sum float64
	for i, s := range scores {
		v := float64(s)
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v > 1+probabilityTolerance {
			return fmt.Errorf("%w: score[%d]=%v", ErrBadOutput, i, s)
		}
		sum += v
	}
	if math.Abs(sum-1) > probabilityTolerance {
		return fmt.Errorf("%w: scores sum to %.6f", ErrBadOutput, sum)
	}
	return nil
}

// argmax returns the index of the largest score; the lowest index wins ties.
func argmax(scores []float32) int {
	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}
	return best
}

func roundConfidence(p float32) float64 {
	v := math.Round(float64(p)*100*100) / 100
	return math.Min(100, math.Max(0, v))
}
