package ocr

import (
	"errors"
	"log/slog"

	"github.com/tsawler/isaref/text"
)

// ErrOCRNotEnabled is returned when OCR functions are called but OCR support
// was not compiled in. Rebuild with -tags ocr to enable OCR support.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// PageSegMode represents page segmentation modes for OCR.
// These control how Tesseract analyzes the page layout.
type PageSegMode int

// Page segmentation modes used for reference pages.
const (
	PSM_AUTO         PageSegMode = 3  // Fully automatic
	PSM_SINGLE_BLOCK PageSegMode = 6  // Single uniform block of text
	PSM_SPARSE_TEXT  PageSegMode = 11 // Find as much text as possible
)

// Word is one recognized word in image pixels, origin top-left.
type Word struct {
	Text       string
	X0, Y0     int
	X1, Y1     int
	Confidence float64
}

// Options controls preparation and recognition of page images.
type Options struct {
	// Language is the Tesseract language; "+" separates several.
	// Default: "eng"
	Language string

	// PageSegMode selects Tesseract's layout analysis.
	// Default: PSM_SPARSE_TEXT, which keeps table cells apart
	PageSegMode PageSegMode

	// DPI is the resolution the images were scanned at.
	// Default: 300
	DPI float64

	// MinDPI is the resolution images are upscaled to before recognition.
	// Default: 300
	MinDPI float64

	// MinConfidence drops words Tesseract is less sure of (0-100).
	// Default: 30
	MinConfidence float64

	// Font is the font family given to every word; OCR has no font names.
	// Default: "OCR"
	Font string

	Assembler text.AssemblerConfig
	Logger    *slog.Logger
}

// DefaultOptions returns options for 300 dpi English scans.
func DefaultOptions() Options {
	return Options{
		Language:      "eng",
		PageSegMode:   PSM_SPARSE_TEXT,
		DPI:           300,
		MinDPI:        300,
		MinConfidence: 30,
		Font:          "OCR",
		Assembler:     text.DefaultAssemblerConfig(),
	}
}
