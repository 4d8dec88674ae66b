// Package tflite runs the skin classifier on the TensorFlow Lite C runtime.
// It requires cgo and libtensorflowlite_c at link time.
package tflite

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mattn/go-tflite"

	"skin-health-backend/internal/classifier"
	"skin-health-backend/internal/shared/telemetry"
)

// Options tunes the interpreter pool.
type Options struct {
	Threads  int
	PoolSize int
}

// Backend implements classifier.Backend. The model is loaded once and shared
// by PoolSize interpreters; each Infer borrows one interpreter exclusively.
type Backend struct {
	model   *tflite.Model
	options *tflite.InterpreterOptions
	pool    chan *tflite.Interpreter
	all     []*tflite.Interpreter
}

// Open loads the model at path and checks it against the expected input and
// output shapes. Any mismatch is returned as an error so the caller can refuse
// to start.
func Open(path string, opts Options) (*Backend, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("model weights %s: %w", path, err)
	}
	if opts.PoolSize <= 0 {
		opts.PoolSize = 1
	}
	if opts.Threads <= 0 {
		opts.Threads = 1
	}

	model := tflite.NewModelFromFile(path)
	if model == nil {
		return nil, fmt.Errorf("model weights %s: cannot load tflite model", path)
	}

	options := tflite.NewInterpreterOptions()
	options.SetNumThread(opts.Threads)
	options.SetErrorReporter(func(msg string, _ interface{}) {
		telemetry.Error("tflite.error", map[string]any{"msg": msg})
	}, nil)

	b := &Backend{
		model:   model,
		options: options,
		pool:    make(chan *tflite.Interpreter, opts.PoolSize),
	}
	for i := 0; i < opts.PoolSize; i++ {
		interp, err := newInterpreter(model, options)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.all = append(b.all, interp)
		b.pool <- interp
	}

	telemetry.Info("classifier.model_loaded", map[string]any{
		"path":      path,
		"pool_size": opts.PoolSize,
		"threads":   opts.Threads,
	})
	return b, nil
}

func newInterpreter(model *tflite.Model, options *tflite.InterpreterOptions) (*tflite.Interpreter, error) {
	interp := tflite.NewInterpreter(model, options)
	if interp == nil {
		return nil, errors.New("cannot create tflite interpreter")
	}
	if status := interp.AllocateTensors(); status != tflite.OK {
		interp.Delete()
		return nil, fmt.Errorf("allocate tensors: status %v", status)
	}
	if interp.GetInputTensorCount() != 1 || interp.GetOutputTensorCount() != 1 {
		interp.Delete()
		return nil, fmt.Errorf("model has %d inputs and %d outputs, want 1 and 1", interp.GetInputTensorCount(), interp.GetOutputTensorCount())
	}

	input := interp.GetInputTensor(0)
	output := interp.GetOutputTensor(0)
	if input.Type() != tflite.Float32 || output.Type() != tflite.Float32 {
		interp.Delete()
		return nil, fmt.Errorf("model tensors must be float32, got input=%v output=%v", input.Type(), output.Type())
	}
	if err := classifier.ValidateShape(dims(input), dims(output)); err != nil {
		interp.Delete()
		return nil, err
	}
	return interp, nil
}

func dims(t *tflite.Tensor) []int {
	out := make([]int, t.NumDims())
	for i := range out {
		out[i] = t.Dim(i)
	}
	return out
}

// Infer copies input into a pooled interpreter, invokes it and returns a copy
// of the output scores.
func (b *Backend) Infer(ctx context.Context, input []float32) ([]float32, error) {
	var interp *tflite.Interpreter
	select {
	case interp = <-b.pool:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { b.pool <- interp }()

	in := interp.GetInputTensor(0).Float32s()
	if len(in) != len(input) {
		return nil, fmt.Errorf("input tensor holds %d values, got %d", len(in), len(input))
	}
	copy(in, input)

	if status := interp.Invoke(); status != tflite.OK {
		return nil, fmt.Errorf("invoke: status %v", status)
	}

	raw := interp.GetOutputTensor(0).Float32s()
	out := make([]float32, len(raw))
	copy(out, raw)
	return out, nil
}

// Close releases all interpreters and the model. It must not be called while
// Infer calls are in flight.
func (b *Backend) Close() {
	for _, interp := range b.all {
		interp.Delete()
	}
	b.all = nil
	if b.options != nil {
		b.options.Delete()
	}
	if b.model != nil {
		b.model.Delete()
	}
}

var _ classifier.Backend = (*Backend)(nil)
