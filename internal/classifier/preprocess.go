package classifier

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Model input geometry.
const (
	InputSize = 224
	Channels  = 3
	TensorLen = InputSize * InputSize * Channels
)

// Decode reads an image in any registered format.
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrInvalidImage, err)
	}
	return img, format, nil
}

// DecodeBytes is Decode over an in-memory upload.
func DecodeBytes(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: empty upload", ErrInvalidImage)
	}
	return Decode(bytes.NewReader(data))
}

// Preprocess resizes img to InputSize x InputSize with bicubic resampling and
// returns its RGB intensities divided by 255, row-major with interleaved
// channels. Alpha is dropped; grayscale sources yield equal channels.
func Preprocess(img image.Image) []float32 {
	resized := img
	b := img.Bounds()
	if b.Dx() != InputSize || b.Dy() != InputSize {
		resized = resize.Resize(InputSize, InputSize, img, resize.Bicubic)
	}

	rb := resized.Bounds()
	out := make([]float32, 0, TensorLen)
	for y := rb.Min.Y; y < rb.Min.Y+InputSize; y++ {
		for x := rb.Min.X; x < rb.Min.X+InputSize; x++ {
			r, g, bl := rgb8(resized, x, y)
			out = append(out, float32(r)/255, float32(g)/255, float32(bl)/255)
		}
	}
	return out
}

// rgb8 returns the colour at (x, y) as 8-bit channels without alpha
// premultiplication.
func rgb8(img image.Image, x, y int) (uint8, uint8, uint8) {
	switch src := img.(type) {
	case *image.RGBA:
		c := src.RGBAAt(x, y)
		return unpremultiply(c.R, c.A), unpremultiply(c.G, c.A), unpremultiply(c.B, c.A)
	case *image.NRGBA:
		c := src.NRGBAAt(x, y)
		return c.R, c.G, c.B
	case *image.Gray:
		v := src.GrayAt(x, y).Y
		return v, v, v
	}
	r, g, b, a := img.At(x, y).RGBA()
	if a == 0 {
		return 0, 0, 0
	}
	// RGBA() is alpha-premultiplied 16-bit.
	return uint8((r * 0xffff / a) >> 8), uint8((g * 0xffff / a) >> 8), uint8((b * 0xffff / a) >> 8)
}

func unpremultiply(c, a uint8) uint8 {
	if a == 0xff {
		return c
	}
	if a == 0 {
		return 0
	}
	return uint8(uint32(c) * 0xff / uint32(a))
}
