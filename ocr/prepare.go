package ocr

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"

	"github.com/tsawler/isaref/text"
)

// Prepared is a page image ready for recognition.
type Prepared struct {
	Gray *image.Gray
	// PointsPerPixel converts prepared pixels to PDF points.
	PointsPerPixel float64
}

// PNG encodes the prepared image.
func (p *Prepared) PNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, p.Gray); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Size returns the page size in points.
func (p *Prepared) Size() (width, height float64) {
	b := p.Gray.Bounds()
	return float64(b.Dx()) * p.PointsPerPixel, float64(b.Dy()) * p.PointsPerPixel
}

// Prepare decodes a page image, upscales it to opts.MinDPI when it was
// scanned at a lower resolution and converts it to grayscale.
func Prepare(r io.Reader, opts Options) (*Prepared, error) {
	src, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	dpi := opts.DPI
	if dpi <= 0 {
		dpi = 300
	}
	scale := 1.0
	if opts.MinDPI > dpi {
		scale = opts.MinDPI / dpi
	}

	b := src.Bounds()
	w := int(float64(b.Dx())*scale + 0.5)
	h := int(float64(b.Dy())*scale + 0.5)
	dst := image.NewGray(image.Rect(0, 0, w, h))
	if scale == 1 {
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	}

	if opts.Logger != nil {
		opts.Logger.Debug("prepared image", "format", format, "width", w, "height", h, "scale", scale)
	}
	return &Prepared{Gray: dst, PointsPerPixel: 72 / (dpi * scale)}, nil
}

// Fragments converts recognized words to fragments in PDF points. Words
// below opts.MinConfidence and empty boxes are dropped.
func (p *Prepared) Fragments(words []Word, opts Options) []text.TextFragment {
	f := p.PointsPerPixel
	height := float64(p.Gray.Bounds().Dy())

	out := make([]text.TextFragment, 0, len(words))
	for _, w := range words {
		if w.Confidence < opts.MinConfidence || w.X1 <= w.X0 || w.Y1 <= w.Y0 {
			continue
		}
		size := float64(w.Y1-w.Y0) * f
		out = append(out, text.TextFragment{
			Text:     w.Text,
			X:        float64(w.X0) * f,
			Y:        (height - float64(w.Y1)) * f,
			Width:    float64(w.X1-w.X0) * f,
			Height:   size,
			FontName: opts.Font,
			FontSize: size,
		})
	}
	return out
}
