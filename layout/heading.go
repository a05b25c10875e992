package layout

import (
	"math"
	"slices"
	"strings"

	"github.com/tsawler/isaref/model"
)

// Role is what an element is within an entry span.
type Role int

const (
	RoleBody Role = iota
	RolePageHeading
	RoleSectionHeading
	RoleFigureHeading
	RoleTableHeading
	RoleTableColumnHeading
	RoleNote
	RoleUnlabeledNote
	RolePageFurniture
	RoleStrayMark
	// RoleNoise is a section-font element too far from both heading anchors.
	// It stays a table candidate.
	RoleNoise
)

// String returns a string representation of the role
func (r Role) String() string {
	switch r {
	case RolePageHeading:
		return "page-heading"
	case RoleSectionHeading:
		return "section-heading"
	case RoleFigureHeading:
		return "figure-heading"
	case RoleTableHeading:
		return "table-heading"
	case RoleTableColumnHeading:
		return "table-column-heading"
	case RoleNote:
		return "note"
	case RoleUnlabeledNote:
		return "unlabeled-note"
	case RolePageFurniture:
		return "page-furniture"
	case RoleStrayMark:
		return "stray-mark"
	case RoleNoise:
		return "noise"
	default:
		return "body"
	}
}

// LocatorConfig holds configuration for heading and note location
type LocatorConfig struct {
	// LeftAnchor is the x0 of left-aligned section headings
	// Default: 45.0
	LeftAnchor float64

	// CenterAnchor is the horizontal centre of centred section headings
	// Default: 302.0
	CenterAnchor float64

	// AnchorTolerance is the allowed distance from either anchor
	// Default: 10.0
	AnchorTolerance float64

	// FooterTop: elements whose top edge is at or below this are page footers
	// Default: 55.0
	FooterTop float64

	// HeaderBottom: elements whose bottom edge is at or above this are page headers
	// Default: 745.0
	HeaderBottom float64

	// NoteAnchor starts the notes block; matched case-insensitively
	// Default: "notes:"
	NoteAnchor string

	// UnlabeledNoteWidth: elements wider than this are running notes
	// Default: 287.8
	UnlabeledNoteWidth float64

	// FigureMarker and TableMarker identify figure and table captions set in
	// the section heading font
	// Default: "Figure", "Table"
	FigureMarker string
	TableMarker  string

	// StrayMarks are element texts that are extraction artifacts
	// Default: "\\"
	StrayMarks []string
}

// DefaultLocatorConfig returns the geometry of the 2023 printing of the manual
func DefaultLocatorConfig() LocatorConfig {
	return LocatorConfig{
		LeftAnchor:         45.0,
		CenterAnchor:       302.0,
		AnchorTolerance:    10.0,
		FooterTop:          55.0,
		HeaderBottom:       745.0,
		NoteAnchor:         "notes:",
		UnlabeledNoteWidth: 287.8,
		FigureMarker:       "Figure",
		TableMarker:        "Table",
		StrayMarks:         []string{"\\"},
	}
}

// Locator assigns roles to the elements of entry spans
type Locator struct {
	fonts  FontClassification
	config LocatorConfig
}

// NewLocator creates a locator with default configuration
func NewLocator(fonts FontClassification) *Locator {
	return NewLocatorWithConfig(fonts, DefaultLocatorConfig())
}

// NewLocatorWithConfig creates a locator with custom configuration
func NewLocatorWithConfig(fonts FontClassification, config LocatorConfig) *Locator {
	return &Locator{fonts: fonts, config: config}
}

// SpanLayout is the role assignment of one entry span. An element can hold
// several roles (a note printed in the footer area, say); each role list is
// in reading order.
type SpanLayout struct {
	Elements model.Elements

	PageHeadings        model.Elements
	SectionHeadings     model.Elements
	FigureHeadings      model.Elements
	TableHeadings       model.Elements
	TableColumnHeadings model.Elements
	Notes               model.Elements
	UnlabeledNotes      model.Elements
	PageFurniture       model.Elements
	StrayMarks          model.Elements
	Noise               model.Elements
}

// Locate classifies every element of span.
func (l *Locator) Locate(span model.Elements) *SpanLayout {
	span = span.Sorted()
	c := l.config
	out := &SpanLayout{Elements: span}

	out.PageHeadings = span.FilterByFont(l.fonts.PageHeading...)

	candidates := span.Remove(out.PageHeadings).FilterByFont(l.fonts.SectionHeading...)
	out.FigureHeadings = captions(candidates, c.FigureMarker)
	out.TableHeadings = captions(candidates, c.TableMarker)
	candidates = candidates.Remove(out.FigureHeadings, out.TableHeadings)

	out.TableColumnHeadings = candidates.Filter(func(e model.Element) bool {
		return len(span.HorizontallyInLineWith(e)) > 0
	})
	candidates = candidates.Remove(out.TableColumnHeadings)

	out.Noise = candidates.Filter(func(e model.Element) bool { return !l.anchored(e) })
	out.SectionHeadings = candidates.Remove(out.Noise)

	out.PageFurniture = span.Filter(func(e model.Element) bool {
		return e.BBox.Top() <= c.FooterTop || e.BBox.Bottom() >= c.HeaderBottom
	})

	out.Notes = l.notes(span, out.SectionHeadings)

	out.UnlabeledNotes = span.Filter(func(e model.Element) bool {
		return e.Width() > c.UnlabeledNoteWidth
	})

	out.StrayMarks = span.Filter(func(e model.Element) bool {
		return slices.Contains(c.StrayMarks, strings.TrimSpace(e.Text))
	})

	return out
}

func captions(candidates model.Elements, marker string) model.Elements {
	if marker == "" {
		return nil
	}
	return candidates.FilterByTextContains(marker)
}

// anchored reports whether a heading candidate is left-aligned at the margin
// or centred on the page.
func (l *Locator) anchored(e model.Element) bool {
	c := l.config
	return math.Abs(e.BBox.Left()-c.LeftAnchor) <= c.AnchorTolerance ||
		math.Abs(e.CenterX()-c.CenterAnchor) <= c.AnchorTolerance
}

// notes returns the elements from the note anchor up to the next section
// heading after it. Without an anchor there are no notes.
func (l *Locator) notes(span, sections model.Elements) model.Elements {
	needle := strings.ToLower(l.config.NoteAnchor)
	if needle == "" {
		return nil
	}
	anchors := span.Filter(func(e model.Element) bool {
		return strings.Contains(strings.ToLower(e.Text), needle)
	})
	anchor, ok := anchors.First()
	if !ok {
		return nil
	}

	notes := span.After(anchor, true)
	if next, ok := sections.After(anchor, true).First(); ok {
		notes = notes.Before(next, false)
	}
	return notes
}

// Role returns the primary role of e. Headings take precedence over notes,
// notes over furniture and stray marks.
func (s *SpanLayout) Role(e model.Element) Role {
	ordered := []struct {
		role  Role
		elems model.Elements
	}{
		{RolePageHeading, s.PageHeadings},
		{RoleSectionHeading, s.SectionHeadings},
		{RoleFigureHeading, s.FigureHeadings},
		{RoleTableHeading, s.TableHeadings},
		{RoleTableColumnHeading, s.TableColumnHeadings},
		{RoleNote, s.Notes},
		{RoleUnlabeledNote, s.UnlabeledNotes},
		{RolePageFurniture, s.PageFurniture},
		{RoleStrayMark, s.StrayMarks},
		{RoleNoise, s.Noise},
	}
	for _, o := range ordered {
		if o.elems.Contains(e) {
			return o.role
		}
	}
	return RoleBody
}

// InstructionHeading returns the last page heading on the page of the first
// page heading.
func (s *SpanLayout) InstructionHeading() (model.Element, bool) {
	first, ok := s.PageHeadings.First()
	if !ok {
		return model.Element{}, false
	}
	onPage := s.PageHeadings.FilterByPages(first.Page, first.Page)
	return onPage.Last()
}

// TableCandidates returns the span without headings, notes, page furniture
// and stray marks. Table column headings and noise are kept.
func (s *SpanLayout) TableCandidates() model.Elements {
	return s.Elements.Remove(
		s.PageHeadings,
		s.SectionHeadings,
		s.FigureHeadings,
		s.TableHeadings,
		s.PageFurniture,
		s.Notes,
		s.UnlabeledNotes,
		s.StrayMarks,
	)
}

// PrecedingHeading returns the nearest section heading before e.
func (s *SpanLayout) PrecedingHeading(e model.Element) (model.Element, bool) {
	return s.SectionHeadings.Before(e, false).Last()
}

// FollowingHeading returns the nearest section heading after e.
func (s *SpanLayout) FollowingHeading(e model.Element) (model.Element, bool) {
	return s.SectionHeadings.After(e, false).First()
}

// SectionHeading returns the first section heading whose text contains substr.
func (s *SpanLayout) SectionHeading(substr string) (model.Element, bool) {
	return s.SectionHeadings.FilterByTextContains(substr).First()
}

// Between returns the span elements strictly between start and end in
// reading order.
func (s *SpanLayout) Between(start, end model.Element) model.Elements {
	return s.Elements.Between(start, end)
}
