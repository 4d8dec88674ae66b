package util

import (
	"errors"
	"testing"
)

func TestSanitizeFileName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "lesion.jpg", want: "lesion.jpg"},
		{name: "spaces", in: "my arm  photo.png", want: "my_arm_photo.png"},
		{name: "unix traversal", in: "../../etc/passwd", want: "passwd"},
		{name: "windows path", in: `C:\Users\me\rash.jpeg`, want: "rash.jpeg"},
		{name: "accents", in: "éruption.jpg", want: "eruption.jpg"},
		{name: "leading dots", in: "..hidden.png", want: "hidden.png"},
		{name: "symbols", in: "a;b<c>|d.jpg", want: "abcd.jpg"},
		{name: "device name", in: "CON.jpg", want: "_CON.jpg"},
		{name: "device name lower", in: "nul", want: "_nul"},
		{name: "device with suffix", in: "com1.tar.gz", want: "_com1.tar.gz"},
		{name: "device prefix only", in: "console.png", want: "console.png"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := SanitizeFileName(tt.in)
			if err != nil {
				t.Fatalf("SanitizeFileName(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("SanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeFileNameRejectsEmpty(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "   ", "../", "...", "日本語"} {
		if _, err := SanitizeFileName(in); !errors.Is(err, ErrInvalidFileName) {
			t.Fatalf("SanitizeFileName(%q) expected ErrInvalidFileName, got %v", in, err)
		}
	}
}
