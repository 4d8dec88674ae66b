package analyses

import (
	"net/url"
	"time"
)

// TimestampLayout is the layout of the datetime-local form field.
const TimestampLayout = "2006-01-02T15:04"

// Submission is a validated patient form without the image.
type Submission struct {
	Name      string
	Age       string
	Address   string
	Mobile    string
	Symptoms  string
	Timestamp time.Time
}

// Upload is the raw image part of a submission.
type Upload struct {
	FileName string
	Data     []byte
}

// Score is one disease probability, scaled to 0..100.
type Score struct {
	Disease     string  `json:"disease"`
	Probability float64 `json:"probability"`
}

// Result is the complete outcome of one analysis, as held in the session slot.
type Result struct {
	AnalysisID         string    `json:"analysis_id"`
	Name               string    `json:"name"`
	Age                string    `json:"age"`
	Address            string    `json:"address"`
	Mobile             string    `json:"mobile"`
	Symptoms           string    `json:"symptoms"`
	Date               string    `json:"date"`
	Time               string    `json:"time"`
	ImageFilename      string    `json:"image_filename"`
	PredictedDisease   string    `json:"predicted_disease"`
	PredictionScore    float64   `json:"prediction_score"`
	DiseaseDetail      string    `json:"disease_detail"`
	DiseasePrecautions string    `json:"disease_precautions"`
	DiseaseTreatment   string    `json:"disease_treatment"`
	Scores             []Score   `json:"scores"`
	AnalyzedAt         time.Time `json:"analyzed_at"`
}

// ImageURL is the path the stored upload is served under.
func (r Result) ImageURL() string {
	if r.ImageFilename == "" {
		return ""
	}
	return "/uploads/" + url.PathEscape(r.ImageFilename)
}

// ParseTimestamp parses the datetime form field.
func ParseTimestamp(raw string) (time.Time, error) {
	t, err := time.Parse(TimestampLayout, raw)
	if err != nil {
		return time.Time{}, ErrInvalidTimestamp
	}
	return t, nil
}
