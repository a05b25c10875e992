// Package docai is an element source for Google Document AI results.
//
// A document can be processed online with [Process] or loaded from a saved
// JSON response with [Decode]. [Convert] turns the tokens of each page into
// positioned fragments and assembles them into text boxes. Normalized
// vertices are scaled to a page of Options.PageWidth points, keeping the
// aspect ratio reported in the page dimension.
//
// Document AI reports fonts only when style detection is enabled on the
// processor. Tokens without style information get the FallbackFont family
// and their own height as size.
package docai
