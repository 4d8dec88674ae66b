package reports

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf16"

	"github.com/ledongthuc/pdf"
)

// verifyPDF re-opens a rendered document and requires at least one page.
func verifyPDF(data []byte) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("read rendered pdf: %v", rec)
		}
	}()
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("read rendered pdf: %w", err)
	}
	if reader.NumPage() < 1 {
		return errors.New("rendered pdf has no pages")
	}
	return nil
}

// PlainText extracts the text layer of a PDF, one line per text object.
// Type0 fonts with Identity-H encoding are read as UTF-16BE code points, the
// form the report writer emits for its embedded UTF-8 fonts. Other fonts use
// the encoders of their font dictionaries.
func PlainText(data []byte) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("read pdf text: %v", rec)
		}
	}()
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		contents := page.V.Key("Contents")
		if page.V.IsNull() || contents.Kind() == pdf.Null {
			continue
		}
		encoders := make(map[string]pdf.TextEncoding)
		for _, name := range page.Fonts() {
			encoders[name] = fontEncoder(page.Font(name))
		}

		var enc pdf.TextEncoding = rawText{}
		show := func(v pdf.Value) {
			if v.Kind() == pdf.String {
				b.WriteString(enc.Decode(v.RawString()))
			}
		}
		pdf.Interpret(contents, func(stk *pdf.Stack, op string) {
			args := make([]pdf.Value, stk.Len())
			for j := len(args) - 1; j >= 0; j-- {
				args[j] = stk.Pop()
			}
			switch op {
			case "BT", "T*":
				b.WriteString("\n")
			case "Tf":
				enc = rawText{}
				if len(args) == 2 {
					if e, ok := encoders[args[0].Name()]; ok {
						enc = e
					}
				}
			case "Tj", "'", "\"":
				if len(args) > 0 {
					show(args[len(args)-1])
				}
			case "TJ":
				if len(args) == 1 {
					for k := 0; k < args[0].Len(); k++ {
						show(args[0].Index(k))
					}
				}
			}
		})
	}
	return b.String(), nil
}

func fontEncoder(f pdf.Font) pdf.TextEncoding {
	if f.V.Key("Subtype").Name() == "Type0" && f.V.Key("Encoding").Name() == "Identity-H" {
		return utf16Text{}
	}
	return f.Encoder()
}

type rawText struct{}

func (rawText) Decode(raw string) string { return raw }

type utf16Text struct{}

func (utf16Text) Decode(raw string) string {
	units := make([]uint16, 0, len(raw)/2)
	for i := 0; i+1 < len(raw); i += 2 {
		units = append(units, uint16(raw[i])<<8|uint16(raw[i+1]))
	}
	return string(utf16.Decode(units))
}
