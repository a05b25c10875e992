package reader

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/tsawler/isaref/model"
	"github.com/tsawler/isaref/text"
)

// Letter size, used when a page carries no usable MediaBox.
const (
	defaultPageWidth  = 612.0
	defaultPageHeight = 792.0
)

// Options controls glyph conversion and box assembly.
type Options struct {
	// Descent is the part of the font size drawn below the baseline.
	// Default: 0.2
	Descent float64

	// GlyphWidth is the width, relative to font size, assumed for glyphs
	// whose font has no width table.
	// Default: 0.5
	GlyphWidth float64

	Assembler text.AssemblerConfig
	Logger    *slog.Logger
}

// DefaultOptions returns the options the instruction reference was read with.
func DefaultOptions() Options {
	return Options{
		Descent:    0.2,
		GlyphWidth: 0.5,
		Assembler:  text.DefaultAssemblerConfig(),
	}
}

// PageError records a page that could not be read.
type PageError struct {
	Page int
	Err  error
}

func (e PageError) Error() string {
	return fmt.Sprintf("page %d: %v", e.Page, e.Err)
}

func (e PageError) Unwrap() error {
	return e.Err
}

// Reader represents an open PDF file
type Reader struct {
	file      *os.File
	pdf       *pdf.Reader
	opts      Options
	assembler *text.Assembler
	log       *slog.Logger
}

// Open opens a PDF file and returns a Reader
func Open(filename string, opts Options) (*Reader, error) {
	file, r, err := pdf.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filename, err)
	}

	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	return &Reader{
		file:      file,
		pdf:       r,
		opts:      opts,
		assembler: text.NewAssemblerWithConfig(opts.Assembler),
		log:       log,
	}, nil
}

// Close closes the PDF file
func (r *Reader) Close() error {
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

// PageCount returns the number of pages in the PDF
func (r *Reader) PageCount() int {
	return r.pdf.NumPage()
}

// Fragments returns the glyphs of a page (1-indexed) as text fragments.
func (r *Reader) Fragments(number int) (frags []text.TextFragment, err error) {
	if number < 1 || number > r.PageCount() {
		return nil, fmt.Errorf("page %d out of range [1, %d]", number, r.PageCount())
	}

	// The content stream parser panics on malformed input.
	defer func() {
		if p := recover(); p != nil {
			frags = nil
			err = fmt.Errorf("decode content: %v", p)
		}
	}()

	page := r.pdf.Page(number)
	if page.V.IsNull() {
		return nil, fmt.Errorf("page %d is missing", number)
	}
	return r.convert(page.Content().Text), nil
}

// convert maps glyphs, positioned on their baseline, to fragments positioned
// on their lower-left corner.
func (r *Reader) convert(glyphs []pdf.Text) []text.TextFragment {
	frags := make([]text.TextFragment, 0, len(glyphs))
	for _, g := range glyphs {
		if strings.TrimSpace(g.S) == "" {
			continue
		}
		size := g.FontSize
		if size <= 0 {
			size = 1
		}
		width := g.W
		if width <= 0 {
			width = r.opts.GlyphWidth * size * float64(len([]rune(g.S)))
		}
		frags = append(frags, text.TextFragment{
			Text:     g.S,
			X:        g.X,
			Y:        g.Y - r.opts.Descent*size,
			Width:    width,
			Height:   size,
			FontName: g.Font,
			FontSize: g.FontSize,
		})
	}
	return frags
}

// PageSize returns the MediaBox size of a page, inherited from the page tree
// when the page has none.
func (r *Reader) PageSize(number int) (width, height float64) {
	defer func() {
		if p := recover(); p != nil {
			width, height = defaultPageWidth, defaultPageHeight
		}
	}()

	v := r.pdf.Page(number).V
	for i := 0; i < 10 && !v.IsNull(); i++ {
		if w, h, ok := mediaBox(v.Key("MediaBox")); ok {
			return w, h
		}
		v = v.Key("Parent")
	}
	return defaultPageWidth, defaultPageHeight
}

func mediaBox(box pdf.Value) (width, height float64, ok bool) {
	if box.Kind() != pdf.Array || box.Len() != 4 {
		return 0, 0, false
	}
	var c [4]float64
	for i := range c {
		c[i] = box.Index(i).Float64()
	}
	width, height = c[2]-c[0], c[3]-c[1]
	if width < 0 {
		width = -width
	}
	if height < 0 {
		height = -height
	}
	return width, height, width > 0 && height > 0
}

// Page reads one page (1-indexed) into a model page.
func (r *Reader) Page(number int) (*model.Page, error) {
	frags, err := r.Fragments(number)
	if err != nil {
		return nil, err
	}
	w, h := r.PageSize(number)
	return &model.Page{
		Number:   number,
		Width:    w,
		Height:   h,
		Elements: r.assembler.Assemble(frags),
	}, nil
}

// Document reads the listed pages, or every page when numbers is empty.
// Unreadable pages are skipped and returned as PageErrors; the context is
// checked between pages.
func (r *Reader) Document(ctx context.Context, numbers []int) (*model.Document, []PageError, error) {
	if len(numbers) == 0 {
		numbers = make([]int, r.PageCount())
		for i := range numbers {
			numbers[i] = i + 1
		}
	}

	var (
		pages   []*model.Page
		skipped []PageError
	)
	for _, n := range numbers {
		if err := ctx.Err(); err != nil {
			return nil, skipped, err
		}
		page, err := r.Page(n)
		if err != nil {
			r.log.Warn("skipping unreadable page", "page", n, "error", err)
			skipped = append(skipped, PageError{Page: n, Err: err})
			continue
		}
		r.log.Debug("read page", "page", n, "elements", len(page.Elements))
		pages = append(pages, page)
	}

	return model.NewDocument(pages), skipped, nil
}
