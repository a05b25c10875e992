// Package ocr is the element source for scanned pages.
//
// Page images are decoded (PNG, JPEG, GIF, TIFF or BMP), upscaled to a
// usable resolution and converted to grayscale with golang.org/x/image, then
// recognized word by word with Tesseract via gosseract. Word boxes become
// text fragments that the text package stacks into boxes, the same way the
// PDF sources do.
//
// Recognition needs the "ocr" build tag and an installed Tesseract:
//
//	go build -tags ocr
//
// On macOS:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr libtesseract-dev
//
// Without the tag, image preparation still works but every recognition call
// returns ErrOCRNotEnabled.
package ocr
