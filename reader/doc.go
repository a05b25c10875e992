// Package reader is the native PDF element source.
//
// It reads positioned glyphs with github.com/ledongthuc/pdf, assembles them
// into multi-line text boxes with the text package and returns a
// [model.Document]:
//
//	r, err := reader.Open("sdm-vol2.pdf", reader.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	doc, skipped, err := r.Document(ctx, nil)
//
// Pages are 1-indexed. A page whose content stream cannot be decoded is
// reported in the skipped list and left out of the document; it does not
// abort the read.
package reader
