// Package profile loads layout profiles: the YAML documents holding every
// position, font and spelling the extractor is tuned to.
//
// A profile file only needs the settings it changes. [Load] starts from the
// embedded default profile and overlays the file on top of it; lists replace
// the default list, key_corrections entries are added to the defaults.
package profile

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/isaref/layout"
	"github.com/tsawler/isaref/normalize"
	"github.com/tsawler/isaref/section"
	"github.com/tsawler/isaref/tables"
)

//go:embed default.yaml
var defaultYAML []byte

// ErrInvalidProfile is returned for profiles that parse but cannot be used.
var ErrInvalidProfile = errors.New("profile: invalid")

// Profile is the YAML form of a layout profile.
type Profile struct {
	Name     string            `yaml:"name"`
	Range    RangeProfile      `yaml:"range"`
	Boundary string            `yaml:"boundary"`
	Fonts    FontProfile       `yaml:"fonts"`
	Locator  LocatorProfile    `yaml:"locator"`
	Table    TableProfile      `yaml:"table"`
	Sections SectionProfile    `yaml:"sections"`
	Keys     map[string]string `yaml:"key_corrections"`
}

// Signature describes one leading element of a page.
type Signature struct {
	TextContains []string `yaml:"text_contains"`
	FontContains string   `yaml:"font_contains"`
	Y0           *float64 `yaml:"y0"`
	Tolerance    float64  `yaml:"tolerance"`
}

// RangeProfile holds the page signatures delimiting the instruction range.
type RangeProfile struct {
	Entry []Signature `yaml:"entry"`
	Exit  []Signature `yaml:"exit"`
}

// FontProfile lists font id fragments per role.
type FontProfile struct {
	PageHeading    []string `yaml:"page_heading"`
	SectionHeading []string `yaml:"section_heading"`
	TableHeader    []string `yaml:"table_header"`
	TableBody      []string `yaml:"table_body"`
}

// LocatorProfile holds heading and note geometry.
type LocatorProfile struct {
	LeftAnchor         float64  `yaml:"left_anchor"`
	CenterAnchor       float64  `yaml:"center_anchor"`
	AnchorTolerance    float64  `yaml:"anchor_tolerance"`
	FooterTop          float64  `yaml:"footer_top"`
	HeaderBottom       float64  `yaml:"header_bottom"`
	NoteAnchor         string   `yaml:"note_anchor"`
	UnlabeledNoteWidth float64  `yaml:"unlabeled_note_width"`
	FigureMarker       string   `yaml:"figure_marker"`
	TableMarker        string   `yaml:"table_marker"`
	StrayMarks         []string `yaml:"stray_marks"`
}

// TableProfile holds table reconstruction settings.
type TableProfile struct {
	GarbagePrefixes []string     `yaml:"garbage_prefixes"`
	GarbageTexts    []string     `yaml:"garbage_texts"`
	HeaderPattern   string       `yaml:"header_pattern"`
	PageStride      float64      `yaml:"page_stride"`
	Corrections     []Correction `yaml:"corrections"`
}

// Correction replaces cells starting with Prefix by Text.
type Correction struct {
	Prefix string `yaml:"prefix"`
	Text   string `yaml:"text"`
}

// SectionProfile holds section extraction settings.
type SectionProfile struct {
	EncodingHeading string `yaml:"encoding_heading"`
}

// Default returns the embedded default profile.
func Default() *Profile {
	p := &Profile{}
	if err := yaml.Unmarshal(defaultYAML, p); err != nil {
		panic(fmt.Sprintf("profile: embedded default: %v", err))
	}
	return p
}

// Load reads a profile file and overlays it on the default profile. The
// result is validated.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile %s: %w", path, err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", path, err)
	}
	return p, nil
}

// Parse overlays YAML data on the default profile and validates the result.
func Parse(data []byte) (*Profile, error) {
	p := Default()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks that the profile compiles.
func (p *Profile) Validate() error {
	_, err := p.Compile()
	return err
}

// Marshal renders the profile as YAML. Strings holding line breaks are
// written double quoted so that Parse reads them back unchanged.
func (p *Profile) Marshal() ([]byte, error) {
	var root yaml.Node
	if err := root.Encode(p); err != nil {
		return nil, fmt.Errorf("marshal profile: %w", err)
	}
	quoteMultiline(&root)
	return yaml.Marshal(&root)
}

func quoteMultiline(n *yaml.Node) {
	if n.Kind == yaml.ScalarNode && strings.Contains(n.Value, "\n") {
		n.Style = yaml.DoubleQuotedStyle
	}
	for _, c := range n.Content {
		quoteMultiline(c)
	}
}

// Compiled is a profile converted into the configuration values of the
// pipeline packages.
type Compiled struct {
	Name       string
	Range      layout.RangeConfig
	Boundary   *regexp.Regexp
	Fonts      layout.FontConfig
	Locator    layout.LocatorConfig
	Table      tables.Options
	Section    section.Config
	Normalizer *normalize.Normalizer
}

// Compile converts the profile. It fails with ErrInvalidProfile when a
// pattern does not compile, a required setting is missing or the key
// corrections are not idempotent.
func (p *Profile) Compile() (*Compiled, error) {
	if len(p.Fonts.PageHeading) == 0 || len(p.Fonts.SectionHeading) == 0 {
		return nil, fmt.Errorf("%w: page_heading and section_heading fonts are required", ErrInvalidProfile)
	}
	if p.Table.PageStride <= 0 {
		return nil, fmt.Errorf("%w: page_stride must be > 0", ErrInvalidProfile)
	}

	boundary, err := regexp.Compile(p.Boundary)
	if err != nil {
		return nil, fmt.Errorf("%w: boundary: %w", ErrInvalidProfile, err)
	}
	header, err := regexp.Compile(p.Table.HeaderPattern)
	if err != nil {
		return nil, fmt.Errorf("%w: header_pattern: %w", ErrInvalidProfile, err)
	}
	norm, err := normalize.New(p.Keys)
	if err != nil {
		return nil, fmt.Errorf("%w: key_corrections: %w", ErrInvalidProfile, err)
	}

	c := &Compiled{
		Name:     p.Name,
		Boundary: boundary,
		Range: layout.RangeConfig{
			Entry: pageSignature(p.Range.Entry),
			Exit:  pageSignature(p.Range.Exit),
		},
		Fonts: layout.FontConfig{
			PageHeading:    p.Fonts.PageHeading,
			SectionHeading: p.Fonts.SectionHeading,
			TableHeader:    p.Fonts.TableHeader,
			TableBody:      p.Fonts.TableBody,
		},
		Locator: layout.LocatorConfig{
			LeftAnchor:         p.Locator.LeftAnchor,
			CenterAnchor:       p.Locator.CenterAnchor,
			AnchorTolerance:    p.Locator.AnchorTolerance,
			FooterTop:          p.Locator.FooterTop,
			HeaderBottom:       p.Locator.HeaderBottom,
			NoteAnchor:         p.Locator.NoteAnchor,
			UnlabeledNoteWidth: p.Locator.UnlabeledNoteWidth,
			FigureMarker:       p.Locator.FigureMarker,
			TableMarker:        p.Locator.TableMarker,
			StrayMarks:         p.Locator.StrayMarks,
		},
		Table: tables.Options{
			GarbagePrefixes: p.Table.GarbagePrefixes,
			GarbageTexts:    p.Table.GarbageTexts,
			HeaderPattern:   header,
			PageStride:      p.Table.PageStride,
		},
		Section:    section.Config{EncodingHeading: p.Sections.EncodingHeading},
		Normalizer: norm,
	}
	for _, corr := range p.Table.Corrections {
		c.Table.Corrections = append(c.Table.Corrections, tables.Correction{Prefix: corr.Prefix, Text: corr.Text})
	}
	return c, nil
}

func pageSignature(sigs []Signature) layout.PageSignature {
	out := make(layout.PageSignature, len(sigs))
	for i, s := range sigs {
		out[i] = layout.ElementSignature{
			TextContains: s.TextContains,
			FontContains: s.FontContains,
			Y0:           s.Y0,
			Tolerance:    s.Tolerance,
		}
	}
	return out
}
