package model

import "fmt"

// Element is a positioned piece of text as delivered by an element source.
// Elements are immutable once a Document has been built from them.
type Element struct {
	Text string
	BBox BBox
	// Page is the 1-indexed page number.
	Page int
	// Font identifies the font, conventionally "BaseFont,Size" with the size
	// printed to one decimal (e.g. "NNLNGJ+NeoSansIntelMedium,12.0").
	Font string
	// Index is the element's position in document reading order. It is
	// assigned by NewDocument and is unique within a document.
	Index int
}

// String returns a short description used in logs and test failures.
func (e Element) String() string {
	return fmt.Sprintf("#%d p%d %q (%.1f,%.1f,%.1f,%.1f) %s",
		e.Index, e.Page, e.Text,
		e.BBox.Left(), e.BBox.Bottom(), e.BBox.Right(), e.BBox.Top(), e.Font)
}

// Width returns the horizontal extent of the element.
func (e Element) Width() float64 {
	return e.BBox.Width
}

// CenterX returns the horizontal centre of the element.
func (e Element) CenterX() float64 {
	return e.BBox.CenterX()
}
