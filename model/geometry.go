package model

import "math"

// BBox is an axis-aligned rectangle in page space. Y grows upwards from the
// bottom of the page, as in PDF user space.
type BBox struct {
	X      float64 // left edge
	Y      float64 // bottom edge
	Width  float64
	Height float64
}

// NewBBox creates a bounding box from its lower-left corner and size.
func NewBBox(x, y, width, height float64) BBox {
	return BBox{X: x, Y: y, Width: width, Height: height}
}

// NewBBoxFromCorners creates a bounding box from its lower-left (x0, y0) and
// upper-right (x1, y1) corners. Swapped corners are normalized.
func NewBBoxFromCorners(x0, y0, x1, y1 float64) BBox {
	return BBox{
		X:      math.Min(x0, x1),
		Y:      math.Min(y0, y1),
		Width:  math.Abs(x1 - x0),
		Height: math.Abs(y1 - y0),
	}
}

func (b BBox) Left() float64   { return b.X }
func (b BBox) Right() float64  { return b.X + b.Width }
func (b BBox) Bottom() float64 { return b.Y }
func (b BBox) Top() float64    { return b.Y + b.Height }

// CenterX returns the horizontal midpoint.
func (b BBox) CenterX() float64 { return b.X + b.Width/2 }

// OverlapsX reports whether the horizontal projections of the two boxes
// share a positive-length interval. Touching edges do not overlap.
func (b BBox) OverlapsX(other BBox) bool {
	return b.Left() < other.Right() && other.Left() < b.Right()
}

// OverlapsY reports whether the vertical projections of the two boxes
// share a positive-length interval. Touching edges do not overlap.
func (b BBox) OverlapsY(other BBox) bool {
	return b.Bottom() < other.Top() && other.Bottom() < b.Top()
}

// Union returns the smallest box enclosing both boxes.
func (b BBox) Union(other BBox) BBox {
	return NewBBoxFromCorners(
		math.Min(b.Left(), other.Left()),
		math.Min(b.Bottom(), other.Bottom()),
		math.Max(b.Right(), other.Right()),
		math.Max(b.Top(), other.Top()),
	)
}
