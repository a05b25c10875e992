package layout

import (
	"slices"
	"strings"
)

// FontConfig lists the font id fragments that identify each font role.
// A document font belongs to a role when its id contains any of the role's
// fragments.
type FontConfig struct {
	// PageHeading identifies instruction page headings ("ADD—Add").
	// Default: "NeoSansIntelMedium,12.0"
	PageHeading []string

	// SectionHeading identifies section headings ("Description", "Operation").
	// Default: "NeoSansIntelMedium,10.0", "NNLNGJ+NeoSansIntelMedium,9.0"
	SectionHeading []string

	// TableHeader identifies table column headings.
	// Default: "NeoSansIntelMedium,9.0"
	TableHeader []string

	// TableBody identifies table cell text.
	// Default: "NeoSansIntel,9.0", "NeoSansIntel,Italic,9.0"
	TableBody []string
}

// DefaultFontConfig returns the fonts of the 2023 printing of the manual
func DefaultFontConfig() FontConfig {
	return FontConfig{
		PageHeading:    []string{"NeoSansIntelMedium,12.0"},
		SectionHeading: []string{"NeoSansIntelMedium,10.0", "NNLNGJ+NeoSansIntelMedium,9.0"},
		TableHeader:    []string{"NeoSansIntelMedium,9.0"},
		TableBody:      []string{"NeoSansIntel,9.0", "NeoSansIntel,Italic,9.0"},
	}
}

// FontClassification maps font roles to the concrete font ids of one
// document. It is computed once per document and passed to every stage that
// needs it; it is never modified afterwards.
type FontClassification struct {
	PageHeading    []string
	SectionHeading []string
	TableHeader    []string
	TableBody      []string
}

// ClassifyFonts resolves config against the distinct font ids of a document.
// A role whose fragments match no font is left empty.
func ClassifyFonts(fonts []string, config FontConfig) FontClassification {
	return FontClassification{
		PageHeading:    matchFonts(fonts, config.PageHeading),
		SectionHeading: matchFonts(fonts, config.SectionHeading),
		TableHeader:    matchFonts(fonts, config.TableHeader),
		TableBody:      matchFonts(fonts, config.TableBody),
	}
}

// IsPageHeading reports whether font is a page heading font.
func (fc FontClassification) IsPageHeading(font string) bool {
	return slices.Contains(fc.PageHeading, font)
}

// IsSectionHeading reports whether font is a section heading font.
func (fc FontClassification) IsSectionHeading(font string) bool {
	return slices.Contains(fc.SectionHeading, font)
}

// Complete reports whether the heading roles the extractor depends on were
// resolved.
func (fc FontClassification) Complete() bool {
	return len(fc.PageHeading) > 0 && len(fc.SectionHeading) > 0
}

func matchFonts(fonts, fragments []string) []string {
	var out []string
	for _, f := range fonts {
		for _, frag := range fragments {
			if strings.Contains(f, frag) {
				out = append(out, f)
				break
			}
		}
	}
	return out
}
