package classifier

import (
	"fmt"

	"skin-health-backend/internal/disease"
)

// ExpectedInputShape and ExpectedOutputShape describe the only model
// architecture this service can serve.
var (
	ExpectedInputShape  = []int{1, InputSize, InputSize, Channels}
	ExpectedOutputShape = []int{1, disease.Count}
)

// ValidateShape checks model tensor dimensions against the expected
// architecture.
func ValidateShape(input, output []int) error {
	if !equalDims(input, ExpectedInputShape) {
		return fmt.Errorf("model input shape %v, want %v", input, ExpectedInputShape)
	}
	if !equalDims(output, ExpectedOutputShape) {
		return fmt.Errorf("model output shape %v, want %v", output, ExpectedOutputShape)
	}
	return nil
}

func equalDims(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
