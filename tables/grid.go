package tables

import (
	"math"
	"sort"

	"github.com/tsawler/isaref/model"
)

// Cluster is a maximal set of elements connected by direct overlap along one
// axis. Members are kept in reading order.
type Cluster struct {
	Members model.Elements
	BBox    model.BBox
}

func newCluster(members model.Elements) Cluster {
	c := Cluster{Members: members}
	for i, e := range members {
		if i == 0 {
			c.BBox = e.BBox
			continue
		}
		c.BBox = c.BBox.Union(e.BBox)
	}
	return c
}

// firstPage returns the lowest page number among the members.
func (c Cluster) firstPage() int {
	page := math.MaxInt
	for _, e := range c.Members {
		if e.Page < page {
			page = e.Page
		}
	}
	return page
}

// firstIndex returns the lowest reading-order index among the members.
func (c Cluster) firstIndex() int {
	if len(c.Members) == 0 {
		return math.MaxInt
	}
	return c.Members[0].Index
}

// Grid is the row/column structure of a candidate element set before any
// rows are merged. Cells[r][c] holds the elements of row r in column c.
type Grid struct {
	Columns []Cluster
	Rows    []Cluster
	Cells   [][]model.Elements
}

// Populated returns how many cells of row r hold at least one element.
func (g *Grid) Populated(r int) int {
	n := 0
	for _, cell := range g.Cells[r] {
		if len(cell) > 0 {
			n++
		}
	}
	return n
}

// BuildGrid clusters elems into columns (x overlap, any page) and rows
// (y overlap, same page), orders both geometrically and assigns every element
// to exactly one cell. pageStride must exceed the page height so that rows on
// an earlier page always sort before rows on a later one. Every element must
// have positive width and height; Reconstructor drops the others first.
func BuildGrid(elems model.Elements, pageStride float64) *Grid {
	elems = elems.Sorted()

	columns := clusterColumns(elems)
	sort.SliceStable(columns, func(i, j int) bool {
		if columns[i].BBox.Left() != columns[j].BBox.Left() {
			return columns[i].BBox.Left() < columns[j].BBox.Left()
		}
		return columns[i].firstIndex() < columns[j].firstIndex()
	})

	rows := clusterRows(elems)
	rowKey := func(c Cluster) float64 {
		return float64(c.firstPage())*pageStride - c.BBox.Top()
	}
	sort.SliceStable(rows, func(i, j int) bool {
		ki, kj := rowKey(rows[i]), rowKey(rows[j])
		if ki != kj {
			return ki < kj
		}
		return rows[i].firstIndex() < rows[j].firstIndex()
	})

	colOf := make(map[int]int, len(elems))
	for c, col := range columns {
		for _, e := range col.Members {
			colOf[e.Index] = c
		}
	}

	cells := make([][]model.Elements, len(rows))
	for r, row := range rows {
		cells[r] = make([]model.Elements, len(columns))
		for _, e := range row.Members {
			c := colOf[e.Index]
			cells[r][c] = append(cells[r][c], e)
		}
	}

	return &Grid{Columns: columns, Rows: rows, Cells: cells}
}

// clusterColumns computes the transitive closure of horizontal-projection
// overlap. Sorting by left edge and sweeping with the running right edge
// finds every overlapping pair needed to connect a component, so each
// element is unioned at most once.
func clusterColumns(elems model.Elements) []Cluster {
	order := make([]int, len(elems))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return elems[order[a]].BBox.Left() < elems[order[b]].BBox.Left()
	})

	ds := newDisjointSet(len(elems))
	reach := math.Inf(-1)
	prev := -1
	for _, i := range order {
		box := elems[i].BBox
		if prev >= 0 && box.Left() < reach {
			ds.union(prev, i)
		}
		reach = math.Max(reach, box.Right())
		prev = i
	}

	return collect(elems, ds)
}

// clusterRows computes the transitive closure of vertical-projection overlap
// among elements of the same page.
func clusterRows(elems model.Elements) []Cluster {
	order := make([]int, len(elems))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ea, eb := elems[order[a]], elems[order[b]]
		if ea.Page != eb.Page {
			return ea.Page < eb.Page
		}
		return ea.BBox.Bottom() < eb.BBox.Bottom()
	})

	ds := newDisjointSet(len(elems))
	reach := math.Inf(-1)
	prev := -1
	page := 0
	for _, i := range order {
		e := elems[i]
		if prev >= 0 && e.Page == page && e.BBox.Bottom() < reach {
			ds.union(prev, i)
		} else if e.Page != page {
			reach = math.Inf(-1)
		}
		reach = math.Max(reach, e.BBox.Top())
		page = e.Page
		prev = i
	}

	return collect(elems, ds)
}

func collect(elems model.Elements, ds *disjointSet) []Cluster {
	groups := ds.groups()
	clusters := make([]Cluster, 0, len(groups))
	for _, g := range groups {
		members := make(model.Elements, len(g))
		for k, i := range g {
			members[k] = elems[i]
		}
		clusters = append(clusters, newCluster(members))
	}
	return clusters
}
