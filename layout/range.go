package layout

import (
	"math"
	"regexp"
	"strings"

	"github.com/tsawler/isaref/model"
)

// ElementSignature describes one of the leading elements of a page.
type ElementSignature struct {
	// Every fragment must occur in the element text
	TextContains []string

	// Fragment of the font id; empty matches any font
	FontContains string

	// Expected bottom edge; nil skips the position check
	Y0 *float64

	// Allowed distance from Y0
	Tolerance float64
}

// Matches reports whether e fits the signature.
func (s ElementSignature) Matches(e model.Element) bool {
	for _, frag := range s.TextContains {
		if !strings.Contains(e.Text, frag) {
			return false
		}
	}
	if s.FontContains != "" && !strings.Contains(e.Font, s.FontContains) {
		return false
	}
	if s.Y0 != nil && math.Abs(e.BBox.Bottom()-*s.Y0) > s.Tolerance {
		return false
	}
	return true
}

// PageSignature matches the first len(sig) elements of a page, in reading
// order, against the element signatures.
type PageSignature []ElementSignature

// Matches reports whether page starts with elements fitting the signature.
// An empty signature never matches.
func (sig PageSignature) Matches(page *model.Page) bool {
	if len(sig) == 0 || len(page.Elements) < len(sig) {
		return false
	}
	for i, s := range sig {
		if !s.Matches(page.Elements[i]) {
			return false
		}
	}
	return true
}

// RangeConfig holds the signatures delimiting the instruction reference
// chapters.
type RangeConfig struct {
	// Entry identifies the first page of the range.
	// Default: running header "INSTRUCTION SET REFERENCE, " followed by a
	// page heading containing "—".
	Entry PageSignature

	// Exit identifies the first page after the range.
	// Default: the "SAFER MODE EXTENSIONS REFERENCE" chapter title page.
	Exit PageSignature
}

func float(f float64) *float64 { return &f }

// DefaultRangeConfig returns the signatures of the 2023 printing of the manual
func DefaultRangeConfig() RangeConfig {
	return RangeConfig{
		Entry: PageSignature{
			{
				TextContains: []string{"INSTRUCTION SET REFERENCE, "},
				FontContains: "NeoSansIntel,9.0",
				Y0:           float(749.076),
				Tolerance:    0.25,
			},
			{
				TextContains: []string{"—"},
				FontContains: "NeoSansIntelMedium,12.0",
				Y0:           float(711.41),
				Tolerance:    0.25,
			},
		},
		Exit: PageSignature{
			{TextContains: []string{"CHAPTER ", "\nSAFER MODE EXTENSIONS REFERENCE"}},
		},
	}
}

// Range is an inclusive span of page numbers.
type Range struct {
	FirstPage int
	LastPage  int

	// EntryFound and ExitFound report whether the signatures matched or the
	// range fell back to the document bounds.
	EntryFound bool
	ExitFound  bool
}

// SelectRange finds the pages holding instruction entries. The first page
// matching config.Entry starts the range; scanning from the end, the last
// page matching config.Exit ends it and is itself excluded. Either bound
// falls back to the document start or end when its signature is not found.
func SelectRange(doc *model.Document, config RangeConfig) Range {
	var r Range
	if len(doc.Pages) == 0 {
		return r
	}

	r.FirstPage = doc.Pages[0].Number
	for _, p := range doc.Pages {
		if config.Entry.Matches(p) {
			r.FirstPage = p.Number
			r.EntryFound = true
			break
		}
	}

	r.LastPage = doc.Pages[len(doc.Pages)-1].Number
	for i := len(doc.Pages) - 1; i >= 0; i-- {
		if config.Exit.Matches(doc.Pages[i]) {
			r.LastPage = doc.Pages[i].Number - 1
			r.ExitFound = true
			break
		}
	}

	return r
}

// Elements returns the document elements inside the range.
func (r Range) Elements(doc *model.Document) model.Elements {
	return doc.Elements().FilterByPages(r.FirstPage, r.LastPage)
}

// DefaultBoundary matches entry page headings: two runs of text separated
// by an em-dash, as in "ADD—Add".
var DefaultBoundary = regexp.MustCompile(`(?s)^[^—]+—.+$`)

// Span is the run of elements belonging to one instruction entry. Marker is
// the page heading that starts it and is always the first element.
type Span struct {
	Marker   model.Element
	Elements model.Elements
}

// SplitEntries cuts elems into one span per entry. Every page heading
// matching boundary starts a span running up to, not including, the next
// one; the last span runs to the end of elems. Elements before the first
// marker belong to no span.
func SplitEntries(elems model.Elements, fonts FontClassification, boundary *regexp.Regexp) []Span {
	markers := elems.FilterByFont(fonts.PageHeading...).FilterByRegex(boundary)

	spans := make([]Span, 0, len(markers))
	for i, m := range markers {
		var body model.Elements
		if i+1 < len(markers) {
			body = elems.Between(m, markers[i+1])
		} else {
			body = elems.After(m, false)
		}
		spans = append(spans, Span{Marker: m, Elements: body.Add(m)})
	}
	return spans
}
