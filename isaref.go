// Package isaref reconstructs the instruction tables of the Intel 64 and
// IA-32 instruction set reference from the positioned text of its pages.
//
// Basic usage:
//
//	recs, warnings, err := isaref.Open("sdm-vol2.pdf").Records()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", isaref.FormatWarnings(warnings))
//	}
//
// With options:
//
//	res, err := isaref.Open("sdm-vol2.xml").
//	    Format(format.PDFXML).
//	    PageRange(120, 180).
//	    ProfileFile("sdm-2023.yaml").
//	    Lenient().
//	    Run()
//
// The lower-level packages (layout, tables, section, normalize, records) can
// be used directly on a model.Document built by any element source.
package isaref

import (
	"github.com/tsawler/isaref/model"
)

// Open returns an Extractor for the file at filename. The format is detected
// from the file content and extension unless set with Format.
//
// Example:
//
//	entries, warnings, err := isaref.Open("sdm-vol2.pdf").Entries()
func Open(filename string) *Extractor {
	return &Extractor{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromDocument returns an Extractor over an already built document.
//
// Example:
//
//	doc, _ := pdfxml.ParseFile(ctx, "sdm.xml", pdfxml.DefaultOptions())
//	recs, _, err := isaref.FromDocument(doc).Records()
func FromDocument(doc *model.Document) *Extractor {
	return &Extractor{
		doc:     doc,
		options: defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil.
//
// Example:
//
//	res := isaref.Must(isaref.Open("sdm.pdf").Run())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustValue wraps a terminal returning (T, []Warning, error). It panics if
// the error is non-nil and discards the warnings.
//
// Example:
//
//	recs := isaref.MustValue(isaref.Open("sdm.pdf").Records())
func MustValue[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
