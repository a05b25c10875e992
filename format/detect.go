// Package format detects which element source can read an input.
package format

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format represents a supported input format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// PDF indicates a PDF document.
	PDF
	// PDFXML indicates the XML written by "pdftohtml -xml".
	PDFXML
	// DocAI indicates a Google Document AI document saved as JSON.
	DocAI
	// Image indicates a scanned page image, or a directory of them.
	Image
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case PDF:
		return "PDF"
	case PDFXML:
		return "PDFXML"
	case DocAI:
		return "DocAI"
	case Image:
		return "Image"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case PDF:
		return ".pdf"
	case PDFXML:
		return ".xml"
	case DocAI:
		return ".json"
	case Image:
		return ".png"
	default:
		return ""
	}
}

// Parse returns the format named s, case-insensitively. It accepts the
// String forms plus "xml", "json" and "ocr".
func Parse(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pdf":
		return PDF, nil
	case "pdfxml", "xml":
		return PDFXML, nil
	case "docai", "json":
		return DocAI, nil
	case "image", "ocr":
		return Image, nil
	default:
		return Unknown, fmt.Errorf("unknown format %q", s)
	}
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return PDF
	case ".xml":
		return PDFXML
	case ".json":
		return DocAI
	case ".png", ".jpg", ".jpeg", ".gif", ".tif", ".tiff", ".bmp":
		return Image
	default:
		return Unknown
	}
}

var imageMagic = [][]byte{
	[]byte("\x89PNG\r\n\x1a\n"),
	[]byte("\xff\xd8\xff"),
	[]byte("GIF87a"),
	[]byte("GIF89a"),
	[]byte("II*\x00"),
	[]byte("MM\x00*"),
	[]byte("BM"),
}

// DetectFromMagic checks the leading bytes of a file to determine format.
// Returns Unknown if the format cannot be determined from magic bytes alone.
func DetectFromMagic(data []byte) Format {
	if bytes.HasPrefix(data, []byte("%PDF")) {
		return PDF
	}
	for _, m := range imageMagic {
		if bytes.HasPrefix(data, m) {
			return Image
		}
	}

	trimmed := bytes.TrimLeft(data, " \t\r\n\xef\xbb\xbf")
	switch {
	case bytes.HasPrefix(trimmed, []byte("<")) && bytes.Contains(trimmed, []byte("<pdf2xml")):
		return PDFXML
	case bytes.HasPrefix(trimmed, []byte("{")) && bytes.Contains(trimmed, []byte(`"pages"`)):
		return DocAI
	}
	return Unknown
}

// DetectFromReader inspects the first 512 bytes of the content.
func DetectFromReader(r io.Reader) (Format, error) {
	magic := make([]byte, 512)
	n, err := io.ReadFull(r, magic)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return Unknown, err
	}
	return DetectFromMagic(magic[:n]), nil
}

// DetectFile determines the format of a path. A directory is an Image
// source. Content is checked first; the extension is the fallback.
func DetectFile(path string) (Format, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Unknown, err
	}
	if info.IsDir() {
		return Image, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return Unknown, err
	}
	defer f.Close()

	format, err := DetectFromReader(f)
	if err != nil {
		return Unknown, err
	}
	if format == Unknown {
		format = Detect(path)
	}
	return format, nil
}
