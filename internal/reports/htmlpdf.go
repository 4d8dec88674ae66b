package reports

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/nfnt/resize"
	"golang.org/x/net/html"
)

const (
	bodyFontSize = 11.0
	thumbMaxPx   = 480
	thumbWidthMM = 60.0
)

var headingSizes = map[string]float64{"h1": 18, "h2": 14, "h3": 12}

// imageLoader returns the decoded image stored under key.
type imageLoader func(key string) (image.Image, error)

// htmlWriter lays out a small HTML subset onto an fpdf document: headings,
// paragraphs, line breaks, bold/italic/underline, lists, rules and images.
// Anything else is rendered as plain text or ignored.
type htmlWriter struct {
	pdf       *fpdf.Fpdf
	images    imageLoader
	onMissing func(key string, err error)

	bold, italic, underline int
	size                    float64
	skip                    int
	lineStart               bool
	imageSeq                int
}

func htmlToPDF(doc []byte, title string, images imageLoader, onMissing func(string, error)) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetCreator("skin-health-backend", true)
	pdf.SetMargins(18, 18, 18)
	pdf.SetAutoPageBreak(true, 18)
	if err := registerFonts(pdf); err != nil {
		return nil, err
	}
	pdf.AddPage()

	w := &htmlWriter{
		pdf:       pdf,
		images:    images,
		onMissing: onMissing,
		size:      bodyFontSize,
		lineStart: true,
	}
	w.applyFont()

	if err := w.walk(bytes.NewReader(doc)); err != nil {
		return nil, err
	}
	if err := pdf.Error(); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func (w *htmlWriter) walk(r io.Reader) error {
	z := html.NewTokenizer(r)
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return fmt.Errorf("tokenize report html: %w", err)
			}
			return nil
		case html.TextToken:
			if w.skip == 0 {
				w.text(string(z.Text()))
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			w.open(tok)
		case html.EndTagToken:
			tok := z.Token()
			w.close(tok.Data)
		}
		if w.pdf.Err() {
			return w.pdf.Error()
		}
	}
}

func (w *htmlWriter) open(tok html.Token) {
	switch tok.Data {
	case "head", "title", "style", "script":
		w.skip++
	case "b", "strong":
		w.bold++
	case "i", "em":
		w.italic++
	case "u":
		w.underline++
	case "h1", "h2", "h3":
		w.breakLine()
		w.pdf.Ln(2)
		w.size = headingSizes[tok.Data]
		w.bold++
	case "p", "div", "ul", "ol":
		w.breakLine()
	case "li":
		w.breakLine()
		w.write("• ")
	case "br":
		w.newline()
	case "hr":
		w.breakLine()
		left, _, right, _ := w.pdf.GetMargins()
		pageW, _ := w.pdf.GetPageSize()
		y := w.pdf.GetY() + 2
		w.pdf.Line(left, y, pageW-right, y)
		w.pdf.SetY(y + 3)
		w.lineStart = true
	case "img":
		w.image(attr(tok, "data-key"))
	}
	w.applyFont()
}

func (w *htmlWriter) close(tag string) {
	switch tag {
	case "head", "title", "style", "script":
		if w.skip > 0 {
			w.skip--
		}
	case "b", "strong":
		w.bold = max(0, w.bold-1)
	case "i", "em":
		w.italic = max(0, w.italic-1)
	case "u":
		w.underline = max(0, w.underline-1)
	case "h1", "h2", "h3":
		w.bold = max(0, w.bold-1)
		w.newline()
		w.size = bodyFontSize
		w.pdf.Ln(1)
	case "p", "div", "ul", "ol":
		w.breakLine()
		w.pdf.Ln(2)
	case "li":
		w.newline()
	}
	w.applyFont()
}

// text writes collapsed whitespace, dropping leading blanks at line start.
func (w *htmlWriter) text(raw string) {
	if strings.TrimSpace(raw) == "" {
		if !w.lineStart && raw != "" {
			w.write(" ")
		}
		return
	}
	s := strings.Join(strings.Fields(raw), " ")
	if !w.lineStart && startsWithSpace(raw) {
		s = " " + s
	}
	if endsWithSpace(raw) {
		s += " "
	}
	w.write(s)
}

func (w *htmlWriter) write(s string) {
	w.pdf.Write(w.lineHeight(), s)
	w.lineStart = false
}

func (w *htmlWriter) newline() {
	w.pdf.Ln(w.lineHeight())
	w.lineStart = true
}

// breakLine ends the current line unless the cursor already sits at its start.
func (w *htmlWriter) breakLine() {
	if !w.lineStart {
		w.newline()
	}
}

func (w *htmlWriter) image(key string) {
	if key == "" || w.images == nil {
		return
	}
	img, err := w.images(key)
	if err != nil {
		if w.onMissing != nil {
			w.onMissing(key, err)
		}
		return
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, flatten(resize.Thumbnail(thumbMaxPx, thumbMaxPx, img, resize.Bilinear))); err != nil {
		if w.onMissing != nil {
			w.onMissing(key, err)
		}
		return
	}

	w.imageSeq++
	name := fmt.Sprintf("upload-%d", w.imageSeq)
	opts := fpdf.ImageOptions{ImageType: "png"}
	w.pdf.RegisterImageOptionsReader(name, opts, &buf)
	w.breakLine()
	w.pdf.ImageOptions(name, -1, -1, thumbWidthMM, 0, true, opts, 0, "")
	w.lineStart = true
}

func (w *htmlWriter) applyFont() {
	style := ""
	if w.bold > 0 {
		style += "B"
	}
	if w.italic > 0 {
		style += "I"
	}
	if w.underline > 0 {
		style += "U"
	}
	w.pdf.SetFont(fontFamily, style, w.size)
}

func (w *htmlWriter) lineHeight() float64 {
	return w.size * 0.5
}

// flatten draws img onto an opaque white canvas so the PNG has no alpha.
func flatten(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}

func attr(tok html.Token, key string) string {
	for _, a := range tok.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func startsWithSpace(s string) bool {
	return s != "" && strings.ContainsRune(" \t\n\r\f", rune(s[0]))
}

func endsWithSpace(s string) bool {
	return s != "" && strings.ContainsRune(" \t\n\r\f", rune(s[len(s)-1]))
}
