package tables

import (
	"errors"
	"reflect"
	"testing"

	"github.com/tsawler/isaref/model"
)

// fixture assigns reading-order indices in the order cells are added.
type fixture struct {
	elems model.Elements
}

func (f *fixture) add(text string, page int, x0, y0, x1, y1 float64) *fixture {
	f.elems = append(f.elems, model.Element{
		Text:  text,
		BBox:  model.NewBBoxFromCorners(x0, y0, x1, y1),
		Page:  page,
		Font:  "NeoSansIntel,9.0",
		Index: len(f.elems),
	})
	return f
}

func reversed(es model.Elements) model.Elements {
	out := make(model.Elements, len(es))
	for i, e := range es {
		out[len(es)-1-i] = e
	}
	return out
}

func reconstruct(t *testing.T, elems model.Elements) *model.Table {
	t.Helper()
	table, err := NewReconstructor(DefaultOptions()).Reconstruct(elems)
	if err != nil {
		t.Fatalf("Reconstruct() error = %v", err)
	}
	return table
}

// ============================================================================
// Clustering Tests
// ============================================================================

func TestBuildGrid_TransitiveColumns(t *testing.T) {
	f := &fixture{}
	f.add("a", 1, 50, 700, 100, 710).
		add("b", 1, 90, 680, 200, 690).
		add("c", 1, 190, 660, 250, 670).
		add("d", 1, 300, 700, 350, 710)

	grid := BuildGrid(f.elems, 1000)

	if len(grid.Columns) != 2 {
		t.Fatalf("expected 2 columns, got %d", len(grid.Columns))
	}
	if got := grid.Columns[0].Members.Texts(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("first column = %v", got)
	}
	if len(grid.Rows) != 3 {
		t.Errorf("expected 3 rows, got %d", len(grid.Rows))
	}
}

func TestBuildGrid_TouchingEdgesStaySeparate(t *testing.T) {
	f := &fixture{}
	f.add("left", 1, 50, 700, 100, 710).
		add("right", 1, 100, 700, 150, 710).
		add("below", 1, 50, 690, 100, 700)

	grid := BuildGrid(f.elems, 1000)

	if len(grid.Columns) != 2 {
		t.Errorf("expected 2 columns, got %d", len(grid.Columns))
	}
	if len(grid.Rows) != 2 {
		t.Errorf("expected 2 rows, got %d", len(grid.Rows))
	}
}

func TestBuildGrid_RowsDoNotSpanPages(t *testing.T) {
	f := &fixture{}
	f.add("p1", 1, 50, 700, 100, 710).
		add("p2", 2, 50, 700, 100, 710)

	grid := BuildGrid(f.elems, 1000)

	if len(grid.Columns) != 1 {
		t.Errorf("columns should span pages, got %d", len(grid.Columns))
	}
	if len(grid.Rows) != 2 {
		t.Fatalf("rows should not span pages, got %d", len(grid.Rows))
	}
	if grid.Rows[0].Members[0].Text != "p1" {
		t.Errorf("page 1 row should sort first, got %q", grid.Rows[0].Members[0].Text)
	}
}

func TestBuildGrid_EveryElementInOneCell(t *testing.T) {
	f := sampleTable()
	grid := BuildGrid(f.elems, 1000)

	seen := make(map[int]int)
	for _, row := range grid.Cells {
		for _, cell := range row {
			for _, e := range cell {
				seen[e.Index]++
			}
		}
	}
	for _, e := range f.elems {
		if seen[e.Index] != 1 {
			t.Errorf("element %v assigned to %d cells", e, seen[e.Index])
		}
	}
}

// ============================================================================
// Reconstruction Tests
// ============================================================================

func sampleTable() *fixture {
	f := &fixture{}
	f.add("Opcode", 1, 50, 700, 100, 710).
		add("Instruction", 1, 150, 700, 220, 710).
		add("Description", 1, 300, 700, 400, 710).
		add("0F 01", 1, 50, 680, 90, 690).
		add("NOP", 1, 150, 680, 180, 690).
		add("No operation.", 1, 300, 680, 370, 690).
		add("66 0F", 1, 50, 660, 90, 670).
		add("ADD r, m", 1, 150, 660, 200, 670).
		add("Adds.", 1, 300, 660, 340, 670).
		add("Second line.", 1, 300, 648, 360, 658)
	return f
}

func TestReconstruct_MergesWrappedRows(t *testing.T) {
	table := reconstruct(t, sampleTable().elems)

	want := [][]string{
		{"Opcode", "Instruction", "Description"},
		{"0F 01", "NOP", "No operation."},
		{"66 0F", "ADD r, m", "Adds.\nSecond line."},
	}
	if !reflect.DeepEqual(table.Rows, want) {
		t.Errorf("Rows = %q, want %q", table.Rows, want)
	}
}

func TestReconstruct_IndependentOfInputOrder(t *testing.T) {
	f := sampleTable()
	a := reconstruct(t, f.elems)
	b := reconstruct(t, reversed(f.elems))

	if !reflect.DeepEqual(a.Rows, b.Rows) {
		t.Errorf("permuted input produced a different table:\n%q\n%q", a.Rows, b.Rows)
	}
}

func TestReconstruct_IncompleteFirstRow(t *testing.T) {
	f := &fixture{}
	f.add("Title only", 1, 50, 720, 100, 730).
		add("Opcode", 1, 50, 700, 100, 710).
		add("Instruction", 1, 150, 700, 220, 710)

	_, err := NewReconstructor(DefaultOptions()).Reconstruct(f.elems)
	if !errors.Is(err, ErrIncompleteFirstRow) {
		t.Fatalf("expected ErrIncompleteFirstRow, got %v", err)
	}
}

func TestReconstruct_DropsRepeatedHeader(t *testing.T) {
	f := &fixture{}
	f.add("Opcode", 1, 50, 700, 100, 710).
		add("Instruction", 1, 150, 700, 220, 710).
		add("0F 01", 1, 50, 100, 90, 110).
		add("NOP", 1, 150, 100, 180, 110).
		add("Opcode", 2, 50, 700, 100, 710).
		add("Instruction", 2, 150, 700, 220, 710).
		add("0F 02", 2, 50, 680, 90, 690).
		add("LAR", 2, 150, 680, 180, 690)

	table := reconstruct(t, f.elems)

	want := [][]string{
		{"Opcode", "Instruction"},
		{"0F 01", "NOP"},
		{"0F 02", "LAR"},
	}
	if !reflect.DeepEqual(table.Rows, want) {
		t.Errorf("Rows = %q, want %q", table.Rows, want)
	}
}

func TestReconstruct_DiscardsGarbage(t *testing.T) {
	f := &fixture{}
	f.add("Opcode", 1, 50, 700, 100, 710).
		add("Instruction", 1, 150, 700, 220, 710).
		add("NaN, +0, -0", 1, 500, 600, 560, 610).
		add("\\", 1, 700, 690, 703, 700)

	table := reconstruct(t, f.elems)

	if table.NumColumns() != 2 || table.RowCount() != 1 {
		t.Errorf("garbage should not create cells, got %q", table.Rows)
	}
}

func TestReconstruct_DropsElementsWithoutExtent(t *testing.T) {
	f := &fixture{}
	f.add("Opcode", 1, 50, 700, 100, 710).
		add("Instruction", 1, 150, 700, 220, 710).
		add("00 /r", 1, 50, 680, 100, 690).
		add("ADD r/m8, r8", 1, 150, 680, 220, 690).
		add("|", 1, 100, 600, 100, 720).
		add("_", 1, 60, 695, 210, 695)

	a := reconstruct(t, f.elems)
	b := reconstruct(t, reversed(f.elems))

	want := [][]string{{"Opcode", "Instruction"}, {"00 /r", "ADD r/m8, r8"}}
	if !reflect.DeepEqual(a.Rows, want) {
		t.Errorf("Rows = %q, want %q", a.Rows, want)
	}
	if !reflect.DeepEqual(a.Rows, b.Rows) {
		t.Errorf("permuted input produced a different table:\n%q\n%q", a.Rows, b.Rows)
	}
}

func TestReconstruct_AppliesCorrections(t *testing.T) {
	f := &fixture{}
	f.add("Operand", 1, 50, 700, 100, 710).
		add("Description", 1, 150, 700, 220, 710).
		add("imm8", 1, 50, 680, 90, 690).
		add("Tests the input for the following", 1, 150, 680, 300, 690)

	table := reconstruct(t, f.elems)

	if got := table.Cell(1, 1); got != VFPClassCategories {
		t.Errorf("Cell(1,1) = %q, want corrected text", got)
	}
}

func TestReconstruct_Empty(t *testing.T) {
	table := reconstruct(t, nil)
	if table.RowCount() != 0 {
		t.Errorf("expected empty table, got %d rows", table.RowCount())
	}
}

func TestStringify_TopToBottom(t *testing.T) {
	cell := model.Elements{
		{Text: "third", BBox: model.NewBBox(0, 10, 10, 5), Page: 1, Index: 0},
		{Text: "first", BBox: model.NewBBox(0, 30, 10, 5), Page: 1, Index: 2},
		{Text: "second", BBox: model.NewBBox(0, 20, 10, 5), Page: 1, Index: 1},
	}

	if got := stringify(cell); got != "first\nsecond\nthird" {
		t.Errorf("stringify() = %q", got)
	}
}
