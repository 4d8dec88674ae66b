package util

import (
	"errors"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ErrInvalidFileName is returned when nothing usable is left after sanitizing.
var ErrInvalidFileName = errors.New("invalid file name")

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SanitizeFileName reduces a client supplied name to a safe flat file name.
// Directory components are dropped, the name is folded to ASCII, whitespace
// runs become underscores and any remaining character outside [A-Za-z0-9._-]
// is removed. Leading and trailing dots and underscores are trimmed. Names
// whose stem is a reserved Windows device (CON, NUL, COM1...) get a leading
// underscore so the stored file stays addressable on every platform.
func SanitizeFileName(name string) (string, error) {
	s := strings.TrimSpace(name)
	if i := strings.LastIndexAny(s, `/\`); i >= 0 {
		s = s[i+1:]
	}

	s = asciiFold(s)
	s = strings.Join(strings.Fields(s), "_")
	s = unsafeFileChars.ReplaceAllString(s, "")
	s = strings.Trim(s, "._")

	if s == "" {
		return "", ErrInvalidFileName
	}
	if isWindowsDevice(s) {
		s = "_" + s
	}
	return s, nil
}

var windowsDevices = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true, "COM5": true,
	"COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true, "LPT5": true,
	"LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

func isWindowsDevice(name string) bool {
	stem, _, _ := strings.Cut(name, ".")
	return windowsDevices[strings.ToUpper(stem)]
}

func asciiFold(s string) string {
	decomposed := norm.NFKD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if r < 0x80 {
			b.WriteRune(r)
		}
	}
	return b.String()
}
