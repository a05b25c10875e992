// Package layout locates the parts of the instruction set reference that the
// table reconstructor works on.
//
// It answers three questions about a document:
//
//   - which fonts play which role ([ClassifyFonts])
//   - which pages hold instruction entries and where each entry starts
//     ([SelectRange], [SplitEntries])
//   - what each element of an entry is: heading, note, page furniture or
//     table body ([Locator])
//
// All positions, fonts and tolerances come from configuration values so a
// different printing of the manual can be handled by a new profile rather
// than new code.
//
// # Usage
//
//	fonts := layout.ClassifyFonts(doc.Fonts(), layout.DefaultFontConfig())
//	r := layout.SelectRange(doc, layout.DefaultRangeConfig())
//	for _, span := range layout.SplitEntries(r.Elements(doc), fonts, layout.DefaultBoundary) {
//		l := layout.NewLocator(fonts).Locate(span.Elements)
//		...
//	}
package layout
