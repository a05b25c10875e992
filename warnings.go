package isaref

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tsawler/isaref/records"
)

// ErrNoEntries is returned when the selected range holds no instruction
// entries, usually because the font profile does not match the document.
var ErrNoEntries = errors.New("no instruction entries found")

// WarningCode classifies a Warning.
type WarningCode string

const (
	WarnPageSkipped     WarningCode = "page-skipped"
	WarnFontsUnresolved WarningCode = "fonts-unresolved"
	WarnEntryNotFound   WarningCode = "range-entry-not-found"
	WarnExitNotFound    WarningCode = "range-exit-not-found"
	WarnSection         WarningCode = "section"
	WarnEntrySkipped    WarningCode = "entry-skipped"

	// Record mapping diagnostics keep the records package codes.
	WarnUnrecognizedKey = WarningCode(records.CodeUnrecognizedKey)
	WarnNoEncodingTable = WarningCode(records.CodeNoEncodingTable)
	WarnNoEncodingMatch = WarningCode(records.CodeNoEncodingMatch)
)

// Warning is a recoverable problem found during extraction.
type Warning struct {
	Code    WarningCode
	Entry   string // instruction page heading, if any
	Page    int    // 0 when not tied to a page
	Message string
}

func (w Warning) String() string {
	var sb strings.Builder
	sb.WriteString(string(w.Code))
	if w.Page > 0 {
		fmt.Fprintf(&sb, " (page %d)", w.Page)
	}
	sb.WriteString(": ")
	sb.WriteString(w.Message)
	return sb.String()
}

// FormatWarnings renders warnings one per line.
func FormatWarnings(warnings []Warning) string {
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}

// CountWarnings returns the number of warnings with each code.
func CountWarnings(warnings []Warning) map[WarningCode]int {
	counts := make(map[WarningCode]int)
	for _, w := range warnings {
		counts[w.Code]++
	}
	return counts
}

func diagnosticWarning(d records.Diagnostic) Warning {
	return Warning{Code: WarningCode(d.Code), Entry: d.Entry, Message: d.String()}
}
