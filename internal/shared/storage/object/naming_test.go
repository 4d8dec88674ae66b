package object

import (
	"strings"
	"testing"
)

func TestNamingFor(t *testing.T) {
	if got := NamingFor("overwrite")("rash.jpg"); got != "rash.jpg" {
		t.Fatalf("overwrite naming changed key: %q", got)
	}

	unique := NamingFor("unique")
	a, b := unique("rash.jpg"), unique("rash.jpg")
	if a == b {
		t.Fatalf("expected distinct keys, got %q twice", a)
	}
	if !strings.HasSuffix(a, "_rash.jpg") {
		t.Fatalf("expected sanitized suffix, got %q", a)
	}
}
