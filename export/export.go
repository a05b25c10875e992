// Package export writes instruction records to delimited text, SQLite and a
// PDF report.
//
// [Report.Export] picks the writer from the file extension:
//
//	r := &export.Report{Source: "sdm.pdf", Records: recs, Diagnostics: diags}
//	if err := r.Export("instructions.csv"); err != nil {
//	    log.Fatal(err)
//	}
package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tsawler/isaref/model"
	"github.com/tsawler/isaref/records"
)

// Report is everything one extraction run produced.
type Report struct {
	// Source names the input document.
	Source      string
	Records     []model.InstructionRecord
	Diagnostics []records.Diagnostic
}

// Exporter writes a report to a file in one format.
type Exporter interface {
	Export(r *Report, filename string) error
}

// ForFile returns the exporter for filename's extension.
func ForFile(filename string) (Exporter, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv", ".txt":
		return &CSVExporter{}, nil
	case ".db", ".sqlite", ".sqlite3":
		return &SQLiteExporter{}, nil
	case ".pdf":
		return &PDFExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %q (use .csv, .db or .pdf)", ext)
	}
}

// Export writes the report in the format named by filename's extension.
func (r *Report) Export(filename string) error {
	e, err := ForFile(filename)
	if err != nil {
		return err
	}
	return e.Export(r, filename)
}
