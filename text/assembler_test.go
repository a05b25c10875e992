package text

import (
	"testing"
)

// frag builds a fragment whose glyphs are each 5 points wide.
func frag(s string, x, y float64) TextFragment {
	return TextFragment{
		Text:     s,
		X:        x,
		Y:        y,
		Width:    5 * float64(len(s)),
		Height:   10,
		FontName: "NeoSansIntel",
		FontSize: 9,
	}
}

func TestFontID(t *testing.T) {
	if got := FontID("ABCDEF+NeoSansIntel", 9); got != "ABCDEF+NeoSansIntel,9.0" {
		t.Errorf("FontID = %q", got)
	}
	if got := FontID("X", 11.96); got != "X,12.0" {
		t.Errorf("FontID = %q", got)
	}
}

func TestLines(t *testing.T) {
	tests := []struct {
		name  string
		frags []TextFragment
		want  []string
	}{
		{
			name:  "word gap inserts space",
			frags: []TextFragment{frag("ADD", 10, 100), frag("AL", 27, 100)},
			want:  []string{"ADD AL"},
		},
		{
			name:  "adjacent glyphs join",
			frags: []TextFragment{frag("A", 10, 100), frag("D", 15, 100), frag("D", 20, 100)},
			want:  []string{"ADD"},
		},
		{
			name:  "wide gap splits line",
			frags: []TextFragment{frag("Opcode", 10, 100), frag("Valid", 80, 100)},
			want:  []string{"Opcode", "Valid"},
		},
		{
			name:  "input order does not matter",
			frags: []TextFragment{frag("AL", 27, 100), frag("ADD", 10, 100)},
			want:  []string{"ADD AL"},
		},
		{
			name:  "whitespace dropped",
			frags: []TextFragment{frag("  ", 0, 100), frag("NOP", 10, 100)},
			want:  []string{"NOP"},
		},
		{
			name:  "top line first",
			frags: []TextFragment{frag("low", 10, 50), frag("high", 10, 100)},
			want:  []string{"high", "low"},
		},
	}

	a := NewAssembler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := a.Lines(tt.frags)
			if len(lines) != len(tt.want) {
				t.Fatalf("got %d lines, want %d", len(lines), len(tt.want))
			}
			for i, l := range lines {
				if l.Text != tt.want[i] {
					t.Errorf("line %d = %q, want %q", i, l.Text, tt.want[i])
				}
			}
		})
	}
}

func TestBoxesStackAlignedLines(t *testing.T) {
	a := NewAssembler()
	frags := []TextFragment{
		frag("Line A", 10, 100),
		frag("Line B", 10, 89),
		// too far below to continue the box
		frag("Line C", 10, 70),
	}
	boxes := a.Boxes(a.Lines(frags))
	if len(boxes) != 2 {
		t.Fatalf("got %d boxes, want 2", len(boxes))
	}
	if got := boxes[0].Text(); got != "Line A\nLine B" {
		t.Errorf("box 0 = %q", got)
	}
	if boxes[0].BBox.Bottom() != 89 || boxes[0].BBox.Top() != 110 {
		t.Errorf("box 0 bounds = %+v", boxes[0].BBox)
	}
	if got := boxes[1].Text(); got != "Line C" {
		t.Errorf("box 1 = %q", got)
	}
}

func TestBoxesKeepCellsApart(t *testing.T) {
	a := NewAssembler()
	// Two table cells on the same rows with a wide gutter.
	frags := []TextFragment{
		frag("04 ib", 10, 100),
		frag("ADD AL,", 100, 100),
		frag("imm8", 100, 89),
	}
	boxes := a.Boxes(a.Lines(frags))
	if len(boxes) != 2 {
		t.Fatalf("got %d boxes, want 2", len(boxes))
	}
	if boxes[0].Text() != "04 ib" || boxes[1].Text() != "ADD AL,\nimm8" {
		t.Errorf("boxes = %q, %q", boxes[0].Text(), boxes[1].Text())
	}
}

func TestAssemble(t *testing.T) {
	a := NewAssembler()
	elems := a.Assemble([]TextFragment{frag("ADD", 10, 100), frag("AL", 27, 100)})
	if len(elems) != 1 {
		t.Fatalf("got %d elements, want 1", len(elems))
	}
	e := elems[0]
	if e.Text != "ADD AL" {
		t.Errorf("Text = %q", e.Text)
	}
	if e.Font != "NeoSansIntel,9.0" {
		t.Errorf("Font = %q", e.Font)
	}
	if e.BBox.Left() != 10 || e.BBox.Right() != 37 {
		t.Errorf("BBox = %+v", e.BBox)
	}

	if got := a.Assemble(nil); len(got) != 0 {
		t.Errorf("Assemble(nil) = %v", got)
	}
}
