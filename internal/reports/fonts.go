package reports

import (
	"embed"
	"fmt"

	"github.com/go-pdf/fpdf"
)

const fontFamily = "DejaVu"

//go:embed fonts/*.ttf
var fontFS embed.FS

var fontFiles = map[string]string{
	"":   "fonts/DejaVuSansCondensed.ttf",
	"B":  "fonts/DejaVuSansCondensed-Bold.ttf",
	"I":  "fonts/DejaVuSansCondensed-Oblique.ttf",
	"BI": "fonts/DejaVuSansCondensed-BoldOblique.ttf",
}

// registerFonts adds the embedded UTF-8 family in every style htmlWriter
// selects. Text is written as UTF-8, so patient data in any script keeps its
// code points in the text layer; glyphs outside the font render blank.
func registerFonts(pdf *fpdf.Fpdf) error {
	for style, name := range fontFiles {
		data, err := fontFS.ReadFile(name)
		if err != nil {
			return fmt.Errorf("load report font %s: %w", name, err)
		}
		pdf.AddUTF8FontFromBytes(fontFamily, style, data)
	}
	return pdf.Error()
}
