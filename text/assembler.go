package text

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/tsawler/isaref/model"
)

// TextFragment represents a piece of extracted text with position
type TextFragment struct {
	Text string
	// X, Y is the lower-left corner
	X, Y     float64
	Width    float64
	Height   float64
	FontName string
	FontSize float64
}

// BBox returns the fragment bounds.
func (f TextFragment) BBox() model.BBox {
	return model.NewBBox(f.X, f.Y, f.Width, f.Height)
}

// glyphWidth returns the average width of one glyph of the fragment.
func (f TextFragment) glyphWidth() float64 {
	n := utf8.RuneCountInString(f.Text)
	if n == 0 {
		return f.Width
	}
	return f.Width / float64(n)
}

// FontID formats a font id as "BaseFont,Size" with one decimal.
func FontID(name string, size float64) string {
	return fmt.Sprintf("%s,%.1f", name, size)
}

// AssemblerConfig holds the grouping margins, each relative to glyph or line
// size.
type AssemblerConfig struct {
	// LineOverlap is the minimum vertical overlap, relative to the smaller
	// height, for two fragments to share a line
	// Default: 0.5
	LineOverlap float64

	// CharMargin is the largest gap inside a line, in glyph widths
	// Default: 0.81438
	CharMargin float64

	// LineMargin is the largest gap between lines of one box, in line heights
	// Default: 0.11
	LineMargin float64

	// WordMargin is the gap, in glyph sizes, above which a space is inserted
	// Default: 0.1
	WordMargin float64
}

// DefaultAssemblerConfig returns the margins the instruction tables were tuned with
func DefaultAssemblerConfig() AssemblerConfig {
	return AssemblerConfig{
		LineOverlap: 0.5,
		CharMargin:  0.81438,
		LineMargin:  0.11,
		WordMargin:  0.1,
	}
}

// Line is a run of fragments on one baseline.
type Line struct {
	Fragments []TextFragment
	BBox      model.BBox
	Text      string
}

// Font returns the font id of the first fragment.
func (l Line) Font() string {
	if len(l.Fragments) == 0 {
		return ""
	}
	return FontID(l.Fragments[0].FontName, l.Fragments[0].FontSize)
}

// Box is a stack of lines forming one text element.
type Box struct {
	Lines []Line
	BBox  model.BBox
}

// Text returns the lines joined with "\n".
func (b Box) Text() string {
	texts := make([]string, len(b.Lines))
	for i, l := range b.Lines {
		texts[i] = l.Text
	}
	return strings.Join(texts, "\n")
}

// Assembler groups fragments into lines and boxes
type Assembler struct {
	config AssemblerConfig
}

// NewAssembler creates an assembler with default configuration
func NewAssembler() *Assembler {
	return &Assembler{config: DefaultAssemblerConfig()}
}

// NewAssemblerWithConfig creates an assembler with custom configuration
func NewAssemblerWithConfig(config AssemblerConfig) *Assembler {
	return &Assembler{config: config}
}

// Assemble turns the fragments of one page into elements. Page and Index
// are left for model.NewDocument to assign.
func (a *Assembler) Assemble(frags []TextFragment) model.Elements {
	boxes := a.Boxes(a.Lines(frags))
	out := make(model.Elements, 0, len(boxes))
	for _, b := range boxes {
		out = append(out, model.Element{
			Text: b.Text(),
			BBox: b.BBox,
			Font: b.Lines[0].Font(),
		})
	}
	return out
}

// Lines groups fragments into lines, top to bottom and left to right.
// Whitespace-only fragments are dropped.
func (a *Assembler) Lines(frags []TextFragment) []Line {
	sorted := make([]TextFragment, 0, len(frags))
	for _, f := range frags {
		if strings.TrimSpace(f.Text) != "" {
			sorted = append(sorted, f)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		ti, tj := sorted[i].Y+sorted[i].Height, sorted[j].Y+sorted[j].Height
		if ti != tj {
			return ti > tj
		}
		return sorted[i].X < sorted[j].X
	})

	var lines []Line
	for _, band := range a.bands(sorted) {
		lines = append(lines, a.splitBand(band)...)
	}
	return lines
}

// bands groups top-sorted fragments whose vertical extents overlap enough.
func (a *Assembler) bands(sorted []TextFragment) [][]TextFragment {
	var (
		bands [][]TextFragment
		cur   []TextFragment
		box   model.BBox
	)
	for _, f := range sorted {
		fb := f.BBox()
		if len(cur) > 0 && a.sameLine(box, fb) {
			cur = append(cur, f)
			box = box.Union(fb)
			continue
		}
		if len(cur) > 0 {
			bands = append(bands, cur)
		}
		cur = []TextFragment{f}
		box = fb
	}
	if len(cur) > 0 {
		bands = append(bands, cur)
	}
	return bands
}

func (a *Assembler) sameLine(band, f model.BBox) bool {
	overlap := math.Min(band.Top(), f.Top()) - math.Max(band.Bottom(), f.Bottom())
	return overlap > 0 && overlap >= a.config.LineOverlap*math.Min(band.Height, f.Height)
}

// splitBand orders a band left to right and cuts it at wide gaps.
func (a *Assembler) splitBand(band []TextFragment) []Line {
	sort.SliceStable(band, func(i, j int) bool { return band[i].X < band[j].X })

	var (
		lines []Line
		cur   []TextFragment
	)
	for _, f := range band {
		if len(cur) > 0 {
			prev := cur[len(cur)-1]
			gap := f.X - (prev.X + prev.Width)
			if gap > a.config.CharMargin*math.Max(prev.glyphWidth(), f.glyphWidth()) {
				lines = append(lines, a.newLine(cur))
				cur = nil
			}
		}
		cur = append(cur, f)
	}
	if len(cur) > 0 {
		lines = append(lines, a.newLine(cur))
	}
	return lines
}

func (a *Assembler) newLine(frags []TextFragment) Line {
	l := Line{Fragments: frags, BBox: frags[0].BBox()}
	var sb strings.Builder
	for i, f := range frags {
		if i > 0 {
			prev := frags[i-1]
			gap := f.X - (prev.X + prev.Width)
			size := math.Max(prev.glyphWidth(), prev.Height)
			if gap > a.config.WordMargin*size &&
				!strings.HasSuffix(prev.Text, " ") && !strings.HasPrefix(f.Text, " ") {
				sb.WriteByte(' ')
			}
			l.BBox = l.BBox.Union(f.BBox())
		}
		sb.WriteString(f.Text)
	}
	l.Text = strings.TrimSpace(sb.String())
	return l
}

// Boxes stacks lines into boxes. Lines must be in top-to-bottom order, as
// returned by Lines.
func (a *Assembler) Boxes(lines []Line) []Box {
	var boxes []Box
	for _, l := range lines {
		joined := false
		for i := range boxes {
			if a.continues(boxes[i], l) {
				boxes[i].Lines = append(boxes[i].Lines, l)
				boxes[i].BBox = boxes[i].BBox.Union(l.BBox)
				joined = true
				break
			}
		}
		if !joined {
			boxes = append(boxes, Box{Lines: []Line{l}, BBox: l.BBox})
		}
	}

	sort.SliceStable(boxes, func(i, j int) bool {
		if boxes[i].BBox.Top() != boxes[j].BBox.Top() {
			return boxes[i].BBox.Top() > boxes[j].BBox.Top()
		}
		return boxes[i].BBox.Left() < boxes[j].BBox.Left()
	})
	return boxes
}

// continues reports whether l is the next line of box b.
func (a *Assembler) continues(b Box, l Line) bool {
	last := b.Lines[len(b.Lines)-1].BBox
	cur := l.BBox
	d := a.config.LineMargin * math.Max(last.Height, cur.Height)

	gap := last.Bottom() - cur.Top()
	if gap < -d || gap > d {
		return false
	}
	if math.Abs(last.Height-cur.Height) > d {
		return false
	}
	return math.Abs(last.Left()-cur.Left()) <= d ||
		math.Abs(last.Right()-cur.Right()) <= d ||
		math.Abs(last.CenterX()-cur.CenterX()) <= d
}
