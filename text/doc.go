// Package text assembles positioned glyph runs into the multi-line text
// boxes the rest of the pipeline works on.
//
// Element sources deliver [TextFragment] values: a single glyph or a word
// with its position and font. The [Assembler] groups fragments into lines
// and lines into boxes:
//
//	a := text.NewAssembler()
//	elems := a.Assemble(fragments)
//
// # Lines
//
// Fragments whose vertical extents overlap by at least LineOverlap of the
// smaller height share a band. Within a band, fragments are ordered left to
// right and split into separate lines wherever the gap exceeds CharMargin
// glyph widths. A space is inserted between fragments more than WordMargin
// apart.
//
// # Boxes
//
// A line joins the box above it when the vertical gap is at most
// LineMargin line heights, both have about the same height and they are
// left, right or centre aligned. The box text joins its lines with "\n".
//
// The defaults reproduce the tight margins the instruction tables were
// tuned with, which keep adjacent table cells in separate boxes.
package text
