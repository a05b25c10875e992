// Package model defines the data structures shared by every stage of the
// instruction table extraction pipeline.
//
// # Elements
//
// An [Element] is a positioned piece of text delivered by an element source:
// text, bounding box, page number and font id. A [Document] owns the elements
// of all pages in reading order and exposes them as [Elements], an ordered
// list with filter, set and reading-order operations:
//
//	doc := model.NewDocument(pages)
//	headings := doc.Elements().FilterByFont(font).FilterByRegex(re)
//	body := doc.Elements().Between(headings[0], headings[1])
//
// # Tables and records
//
// The table reconstructor produces [Table] values (rows of cell strings).
// Section extraction turns them into [InstructionEntry] values made of
// [Variant] rows, and the record mapper flattens those into
// [InstructionRecord] values.
//
// # Geometry
//
// [BBox] uses the PDF coordinate system: the origin is the lower-left corner
// of the page and Y grows upwards.
package model
