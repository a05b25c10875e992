package profile

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/tsawler/isaref/layout"
	"github.com/tsawler/isaref/normalize"
	"github.com/tsawler/isaref/section"
	"github.com/tsawler/isaref/tables"
)

func TestDefaultMatchesPackageDefaults(t *testing.T) {
	c, err := Default().Compile()
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	if !reflect.DeepEqual(c.Fonts, layout.DefaultFontConfig()) {
		t.Errorf("fonts = %+v, want %+v", c.Fonts, layout.DefaultFontConfig())
	}
	if !reflect.DeepEqual(c.Locator, layout.DefaultLocatorConfig()) {
		t.Errorf("locator = %+v, want %+v", c.Locator, layout.DefaultLocatorConfig())
	}
	if !reflect.DeepEqual(c.Range, layout.DefaultRangeConfig()) {
		t.Errorf("range = %+v, want %+v", c.Range, layout.DefaultRangeConfig())
	}
	if c.Boundary.String() != layout.DefaultBoundary.String() {
		t.Errorf("boundary = %q", c.Boundary)
	}
	if c.Section != section.DefaultConfig() {
		t.Errorf("section = %+v", c.Section)
	}

	def := tables.DefaultOptions()
	if !reflect.DeepEqual(c.Table.Corrections, def.Corrections) {
		t.Errorf("corrections = %q, want %q", c.Table.Corrections, def.Corrections)
	}
	if !reflect.DeepEqual(c.Table.GarbagePrefixes, def.GarbagePrefixes) ||
		!reflect.DeepEqual(c.Table.GarbageTexts, def.GarbageTexts) {
		t.Errorf("garbage = %q %q", c.Table.GarbagePrefixes, c.Table.GarbageTexts)
	}
	if c.Table.HeaderPattern.String() != def.HeaderPattern.String() || c.Table.PageStride != def.PageStride {
		t.Errorf("table = %+v", c.Table)
	}

	if !reflect.DeepEqual(Default().Keys, normalize.DefaultCorrections) {
		t.Error("key_corrections differ from normalize.DefaultCorrections")
	}
}

func TestParseOverlaysDefaults(t *testing.T) {
	p, err := Parse([]byte(`
name: custom
locator:
  left_anchor: 50
key_corrections:
  "Opcode**": Opcode
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if p.Name != "custom" {
		t.Errorf("Name = %q", p.Name)
	}
	if p.Locator.LeftAnchor != 50 {
		t.Errorf("LeftAnchor = %v", p.Locator.LeftAnchor)
	}
	if p.Locator.CenterAnchor != 302 {
		t.Errorf("CenterAnchor lost its default: %v", p.Locator.CenterAnchor)
	}
	if p.Keys["Opcode**"] != "Opcode" || p.Keys["Op En"] != "Op/En" {
		t.Errorf("key corrections not merged: %d entries", len(p.Keys))
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad boundary", "boundary: '(['"},
		{"bad header pattern", "table:\n  header_pattern: '*'"},
		{"zero stride", "table:\n  page_stride: 0"},
		{"no page heading font", "fonts:\n  page_heading: []"},
		{"key chain", "key_corrections:\n  Opcode/Instruction: Opcode Instruction"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if !errors.Is(err, ErrInvalidProfile) {
				t.Errorf("expected ErrInvalidProfile, got %v", err)
			}
		})
	}
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	if _, err := Parse([]byte("locator: [")); err == nil {
		t.Error("expected a parse error")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	if err := os.WriteFile(path, []byte("name: from-file\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if p.Name != "from-file" {
		t.Errorf("Name = %q", p.Name)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	data, err := Default().Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	p, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !reflect.DeepEqual(p, Default()) {
		t.Error("marshalled default profile does not parse back to itself")
	}
}

func TestMarshalQuotesLineBreaks(t *testing.T) {
	data, err := Default().Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	for _, want := range []string{
		`"\nSAFER MODE EXTENSIONS REFERENCE"`,
		`"Opcode/\nInstruction": Opcode/Instruction`,
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("Marshal() output missing %s", want)
		}
	}

	p, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	exit := p.Range.Exit[0].TextContains
	if len(exit) != 2 || exit[1] != "\nSAFER MODE EXTENSIONS REFERENCE" {
		t.Errorf("exit signature = %q", exit)
	}
}
