package analyses

import (
	"errors"
	"testing"
)

func TestParseTimestamp(t *testing.T) {
	ts, err := ParseTimestamp("2026-03-09T07:05")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if ts.Format("2006-01-02") != "2026-03-09" || ts.Format("15:04") != "07:05" {
		t.Fatalf("unexpected timestamp %v", ts)
	}

	for _, raw := range []string{"not-a-date", "", "2026-03-09", "2026-03-09 07:05", "2026-13-01T10:00"} {
		if _, err := ParseTimestamp(raw); !errors.Is(err, ErrInvalidTimestamp) {
			t.Fatalf("%q: expected ErrInvalidTimestamp, got %v", raw, err)
		}
	}
}

func TestResultImageURL(t *testing.T) {
	if got := (Result{ImageFilename: "a b.png"}).ImageURL(); got != "/uploads/a%20b.png" {
		t.Fatalf("unexpected url %q", got)
	}
	if got := (Result{}).ImageURL(); got != "" {
		t.Fatalf("expected empty url, got %q", got)
	}
}
