package disease

import (
	"errors"
	"strings"
	"testing"
)

func TestDefaultCoversEveryDisease(t *testing.T) {
	kb, err := Default()
	if err != nil {
		t.Fatalf("load default knowledge base: %v", err)
	}
	for _, d := range All() {
		rec, err := kb.Lookup(d)
		if err != nil {
			t.Fatalf("lookup %s: %v", d, err)
		}
		if rec.Disease != d || rec.Name() != d.String() {
			t.Fatalf("record mismatch for %s: %+v", d, rec)
		}
		if rec.Detail == "" || rec.Precautions == "" || rec.Treatment == "" {
			t.Fatalf("empty fields for %s", d)
		}
	}
}

func TestLookupRejectsOutOfRange(t *testing.T) {
	kb, err := Default()
	if err != nil {
		t.Fatalf("load default knowledge base: %v", err)
	}
	for _, d := range []Disease{-1, Disease(Count)} {
		if _, err := kb.Lookup(d); !errors.Is(err, ErrUnknownLabel) {
			t.Fatalf("Lookup(%d) expected ErrUnknownLabel, got %v", int(d), err)
		}
	}
}

func TestLoadRejectsMissingDisease(t *testing.T) {
	doc := completeDoc(t, func(name string) bool { return name != "Shingles" })
	_, err := Load(strings.NewReader(doc))
	if !errors.Is(err, ErrIncompleteKnowledge) {
		t.Fatalf("expected ErrIncompleteKnowledge, got %v", err)
	}
	if !strings.Contains(err.Error(), "Shingles") {
		t.Fatalf("expected missing disease in error, got %v", err)
	}
}

func TestLoadRejectsUnknownDisease(t *testing.T) {
	doc := completeDoc(t, func(string) bool { return true })
	doc = strings.Replace(doc, "{", `{"Eczema":{"detail":"d","precautions":"p","treatment":"t"},`, 1)
	_, err := Load(strings.NewReader(doc))
	if !errors.Is(err, ErrIncompleteKnowledge) {
		t.Fatalf("expected ErrIncompleteKnowledge, got %v", err)
	}
	if !strings.Contains(err.Error(), "Eczema") {
		t.Fatalf("expected unknown disease in error, got %v", err)
	}
}

func TestLoadRejectsEmptyFields(t *testing.T) {
	doc := completeDoc(t, func(string) bool { return true })
	doc = strings.Replace(doc, `"treatment":"t-Impetigo"`, `"treatment":"  "`, 1)
	if _, err := Load(strings.NewReader(doc)); !errors.Is(err, ErrIncompleteKnowledge) {
		t.Fatalf("expected ErrIncompleteKnowledge, got %v", err)
	}
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	if _, err := Load(strings.NewReader(`{"Cellulitis": [`)); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestParseAndFromIndex(t *testing.T) {
	d, err := Parse("Athlete's Foot")
	if err != nil || d != AthletesFoot {
		t.Fatalf("Parse returned %v, %v", d, err)
	}
	if _, err := Parse("Acne"); !errors.Is(err, ErrUnknownLabel) {
		t.Fatalf("expected ErrUnknownLabel, got %v", err)
	}
	d, err = FromIndex(7)
	if err != nil || d != Shingles {
		t.Fatalf("FromIndex(7) returned %v, %v", d, err)
	}
	if _, err := FromIndex(8); !errors.Is(err, ErrUnknownLabel) {
		t.Fatalf("expected ErrUnknownLabel, got %v", err)
	}
}

func completeDoc(t *testing.T, include func(name string) bool) string {
	t.Helper()
	var parts []string
	for _, d := range All() {
		name := d.String()
		if !include(name) {
			continue
		}
		parts = append(parts, `"`+name+`":{"detail":"d-`+name+`","precautions":"p-`+name+`","treatment":"t-`+name+`"}`)
	}
	return "{" + strings.Join(parts, ",") + "}"
}
