package tables

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/tsawler/isaref/model"
)

// ErrIncompleteFirstRow is returned when the first row of a table has fewer
// populated cells than the widest row, leaving no earlier row to merge into.
var ErrIncompleteFirstRow = errors.New("tables: first row is incomplete")

// Correction replaces any cell whose text starts with Prefix by Text.
type Correction struct {
	Prefix string
	Text   string
}

// Options holds reconstructor configuration
type Options struct {
	// Elements whose text starts with one of these are discarded
	GarbagePrefixes []string

	// Elements whose trimmed text equals one of these are discarded
	GarbageTexts []string

	// Rows after the first whose first cell matches are dropped as repeated headers
	HeaderPattern *regexp.Regexp

	// Multiplier for the page number in the row sort key; must exceed page height
	PageStride float64

	// Known extraction artifacts and their canonical cell text
	Corrections []Correction

	Logger *slog.Logger
}

// VFPClassCategories is the complete operand description that some printings
// of the VFPCLASS tables split across cells.
const VFPClassCategories = "Tests the input for the following categories: NaN, +0, -0, +Infinity, -Infinity, denormal, finite negative. " +
	"The immediate field provides a mask bit for each of these category tests. " +
	"The masked test results are OR-ed together to form a mask result."

// DefaultOptions returns default configuration
func DefaultOptions() Options {
	return Options{
		GarbagePrefixes: []string{"NaN,"},
		GarbageTexts:    []string{"\\"},
		HeaderPattern:   regexp.MustCompile(`(?i)opcode`),
		PageStride:      1000,
		Corrections: []Correction{
			{Prefix: "Tests the input for the following", Text: VFPClassCategories},
		},
	}
}

// Reconstructor turns a filtered set of positioned text elements into a
// rectangular table using geometric overlap alone.
type Reconstructor struct {
	opts Options
	log  *slog.Logger
}

// NewReconstructor creates a reconstructor. Zero-valued fields in opts fall
// back to DefaultOptions.
func NewReconstructor(opts Options) *Reconstructor {
	def := DefaultOptions()
	if opts.HeaderPattern == nil {
		opts.HeaderPattern = def.HeaderPattern
	}
	if opts.PageStride <= 0 {
		opts.PageStride = def.PageStride
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Reconstructor{opts: opts, log: log}
}

// Reconstruct builds a table from elems. An empty candidate set yields an
// empty table. The result is independent of the input order.
func (r *Reconstructor) Reconstruct(elems model.Elements) (*model.Table, error) {
	elems = r.discardGarbage(elems)
	if len(elems) == 0 {
		return &model.Table{}, nil
	}

	grid := BuildGrid(elems, r.opts.PageStride)
	r.log.Debug("grid built",
		"elements", len(elems), "columns", len(grid.Columns), "rows", len(grid.Rows))

	merged, err := mergeIncompleteRows(grid)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(merged))
	for i, cells := range merged {
		row := make([]string, len(cells))
		for c, cell := range cells {
			row[c] = r.correct(stringify(cell))
		}
		if i > 0 && r.opts.HeaderPattern.MatchString(row[0]) {
			r.log.Debug("dropping repeated header row", "row", i)
			continue
		}
		rows = append(rows, row)
	}

	return &model.Table{Rows: rows}, nil
}

// discardGarbage drops known garbage and boxes without extent. A zero-width
// or zero-height box has no projection to overlap, so it cannot be placed in
// a column or row.
func (r *Reconstructor) discardGarbage(elems model.Elements) model.Elements {
	return elems.Filter(func(e model.Element) bool {
		if e.BBox.Width <= 0 || e.BBox.Height <= 0 {
			r.log.Debug("dropping element without extent", "text", e.Text, "page", e.Page)
			return false
		}
		for _, p := range r.opts.GarbagePrefixes {
			if strings.HasPrefix(e.Text, p) {
				return false
			}
		}
		text := strings.TrimSpace(e.Text)
		for _, g := range r.opts.GarbageTexts {
			if text == g {
				return false
			}
		}
		return true
	})
}

func (r *Reconstructor) correct(cell string) string {
	for _, c := range r.opts.Corrections {
		if strings.HasPrefix(cell, c.Prefix) {
			return c.Text
		}
	}
	return cell
}

// mergeIncompleteRows folds every row with fewer populated cells than the
// widest row into the row emitted before it.
func mergeIncompleteRows(g *Grid) ([][]model.Elements, error) {
	width := 0
	for r := range g.Cells {
		width = max(width, g.Populated(r))
	}

	var out [][]model.Elements
	for r, cells := range g.Cells {
		if g.Populated(r) == width {
			row := make([]model.Elements, len(cells))
			copy(row, cells)
			out = append(out, row)
			continue
		}
		if len(out) == 0 {
			return nil, fmt.Errorf("%w: %d of %d cells populated starting at %q",
				ErrIncompleteFirstRow, g.Populated(r), width, firstText(cells))
		}
		prev := out[len(out)-1]
		for c, cell := range cells {
			prev[c] = append(prev[c], cell...)
		}
	}
	return out, nil
}

// stringify joins the lines of a cell from top to bottom. A cell continued
// on a later page keeps that page's lines after the earlier ones.
func stringify(cell model.Elements) string {
	if len(cell) == 0 {
		return ""
	}
	lines := make(model.Elements, len(cell))
	copy(lines, cell)
	sort.SliceStable(lines, func(i, j int) bool {
		a, b := lines[i], lines[j]
		if a.Page != b.Page {
			return a.Page < b.Page
		}
		if a.BBox.Top() != b.BBox.Top() {
			return a.BBox.Top() > b.BBox.Top()
		}
		return a.Index < b.Index
	})
	return strings.Join(lines.Texts(), "\n")
}

func firstText(cells []model.Elements) string {
	for _, cell := range cells {
		if len(cell) > 0 {
			return cell[0].Text
		}
	}
	return ""
}
