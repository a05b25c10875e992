package model

import "sort"

// Page holds the elements of a single page.
type Page struct {
	Number   int     // 1-indexed page number
	Width    float64 // Page width in points
	Height   float64 // Page height in points
	Elements Elements
}

// Document is a paginated set of positioned elements in reading order.
type Document struct {
	Pages []*Page

	elements Elements
	fonts    map[string]int
}

// NewDocument builds a document from pages. Each page's elements are put in
// reading order (top to bottom, then left to right, ties kept in source
// order) and given document-wide indices. Pages are ordered by Number.
func NewDocument(pages []*Page) *Document {
	doc := &Document{fonts: make(map[string]int)}

	sorted := make([]*Page, len(pages))
	copy(sorted, pages)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Number < sorted[j].Number })

	index := 0
	for _, p := range sorted {
		elems := make(Elements, len(p.Elements))
		copy(elems, p.Elements)
		sort.SliceStable(elems, func(i, j int) bool {
			a, b := elems[i].BBox, elems[j].BBox
			if a.Top() != b.Top() {
				return a.Top() > b.Top()
			}
			return a.Left() < b.Left()
		})
		for i := range elems {
			elems[i].Page = p.Number
			elems[i].Index = index
			index++
			doc.fonts[elems[i].Font]++
		}
		page := &Page{Number: p.Number, Width: p.Width, Height: p.Height, Elements: elems}
		doc.Pages = append(doc.Pages, page)
		doc.elements = append(doc.elements, elems...)
	}

	return doc
}

// Elements returns every element of the document in reading order.
func (d *Document) Elements() Elements {
	return d.elements
}

// PageCount returns the number of pages
func (d *Document) PageCount() int {
	return len(d.Pages)
}

// GetPage returns the page with the given number, or nil.
func (d *Document) GetPage(number int) *Page {
	for _, p := range d.Pages {
		if p.Number == number {
			return p
		}
	}
	return nil
}

// Fonts returns the distinct font ids of the document, sorted.
func (d *Document) Fonts() []string {
	out := make([]string, 0, len(d.fonts))
	for f := range d.fonts {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// FontCount returns how many elements use font.
func (d *Document) FontCount(font string) int {
	return d.fonts[font]
}

// RestrictPages returns a new document holding only the listed page numbers.
// Element indices are reassigned; page numbers are preserved.
func (d *Document) RestrictPages(numbers []int) *Document {
	want := make(map[int]bool, len(numbers))
	for _, n := range numbers {
		want[n] = true
	}
	var pages []*Page
	for _, p := range d.Pages {
		if want[p.Number] {
			pages = append(pages, p)
		}
	}
	return NewDocument(pages)
}
