package isaref

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/tsawler/isaref/docai"
	"github.com/tsawler/isaref/export"
	"github.com/tsawler/isaref/format"
	"github.com/tsawler/isaref/layout"
	"github.com/tsawler/isaref/model"
	"github.com/tsawler/isaref/ocr"
	"github.com/tsawler/isaref/pdfxml"
	"github.com/tsawler/isaref/profile"
	"github.com/tsawler/isaref/reader"
	"github.com/tsawler/isaref/records"
	"github.com/tsawler/isaref/section"
	"github.com/tsawler/isaref/tables"
)

// Extractor provides a fluent interface for extracting instruction records.
// Each configuration method returns a new Extractor instance, making it
// safe for concurrent use and allowing method chaining.
type Extractor struct {
	// Source: a file, or a document built by the caller
	filename string
	doc      *model.Document

	// Configuration
	options ExtractOptions

	// Accumulated error (fail-fast)
	err error
}

// clone creates a shallow copy of the Extractor with a deep copy of options.
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		filename: e.filename,
		doc:      e.doc,
		options:  e.options.clone(),
		err:      e.err,
	}
}

// ============================================================================
// Configuration Methods (return new Extractor instance)
// ============================================================================

// Pages specifies which pages to extract from (1-indexed).
// Multiple calls are cumulative.
//
// Example:
//
//	recs, _, err := isaref.Open("sdm.pdf").Pages(120, 121).Records()
func (e *Extractor) Pages(pages ...int) *Extractor {
	newExt := e.clone()
	newExt.options.pages = append(newExt.options.pages, pages...)
	return newExt
}

// PageRange specifies a range of pages to extract from (1-indexed, inclusive).
//
// Example:
//
//	recs, _, err := isaref.Open("sdm.pdf").PageRange(120, 180).Records()
func (e *Extractor) PageRange(start, end int) *Extractor {
	newExt := e.clone()
	if start > end {
		newExt.err = fmt.Errorf("invalid page range %d-%d", start, end)
		return newExt
	}
	for i := start; i <= end; i++ {
		newExt.options.pages = append(newExt.options.pages, i)
	}
	return newExt
}

// Format overrides format detection.
func (e *Extractor) Format(f format.Format) *Extractor {
	newExt := e.clone()
	newExt.options.format = f
	return newExt
}

// Profile sets the layout profile. The default is the 2023 printing of the
// manual.
func (e *Extractor) Profile(p *profile.Profile) *Extractor {
	newExt := e.clone()
	if p == nil {
		newExt.err = fmt.Errorf("%w: nil profile", profile.ErrInvalidProfile)
		return newExt
	}
	newExt.options.profile = p
	return newExt
}

// ProfileFile loads the layout profile from a YAML file.
//
// Example:
//
//	recs, _, err := isaref.Open("sdm.pdf").ProfileFile("sdm-2016.yaml").Records()
func (e *Extractor) ProfileFile(path string) *Extractor {
	newExt := e.clone()
	p, err := profile.Load(path)
	if err != nil {
		newExt.err = err
		return newExt
	}
	newExt.options.profile = p
	return newExt
}

// DocumentAI sends PDF input to a Document AI processor instead of reading
// its text locally. Selected pages are cut out of the PDF before upload.
func (e *Extractor) DocumentAI(cfg *docai.Config) *Extractor {
	newExt := e.clone()
	newExt.options.docai = cfg
	return newExt
}

// Lenient skips entries whose tables cannot be reconstructed, reporting
// them as warnings instead of failing the run.
func (e *Extractor) Lenient() *Extractor {
	newExt := e.clone()
	newExt.options.lenient = true
	return newExt
}

// Logger sets the logger; the default is slog.Default().
func (e *Extractor) Logger(l *slog.Logger) *Extractor {
	newExt := e.clone()
	newExt.options.logger = l
	return newExt
}

// Context sets the context checked while reading pages and entries. A nil
// ctx restores context.Background().
func (e *Extractor) Context(ctx context.Context) *Extractor {
	if ctx == nil {
		ctx = context.Background()
	}
	newExt := e.clone()
	newExt.options.ctx = ctx
	return newExt
}

// ============================================================================
// Terminal Operations
// ============================================================================

// Result is everything one extraction run produced.
type Result struct {
	Document *model.Document
	Fonts    layout.FontClassification
	Range    layout.Range

	// Sections holds the raw tables of every extracted entry, before key
	// normalization.
	Sections []*section.Result

	Entries     []model.InstructionEntry
	Records     []model.InstructionRecord
	Diagnostics []records.Diagnostic
	Warnings    []Warning
}

// UnrecognizedKeys summarizes the variant keys no record field claimed.
func (r *Result) UnrecognizedKeys() []records.KeyReport {
	return records.UnrecognizedKeys(r.Diagnostics)
}

// Report returns the records and diagnostics as an export report.
func (r *Result) Report(source string) *export.Report {
	return &export.Report{Source: source, Records: r.Records, Diagnostics: r.Diagnostics}
}

// Run loads the document and runs the whole pipeline.
func (e *Extractor) Run() (*Result, error) {
	doc, warnings, err := e.load()
	if err != nil {
		return nil, err
	}
	return e.extract(doc, warnings)
}

// Document loads the selected pages without extracting anything.
func (e *Extractor) Document() (*model.Document, []Warning, error) {
	return e.load()
}

// Entries returns the normalized instruction entries.
//
// Example:
//
//	entries, warnings, err := isaref.Open("sdm.pdf").Entries()
func (e *Extractor) Entries() ([]model.InstructionEntry, []Warning, error) {
	res, err := e.Run()
	if err != nil {
		return nil, nil, err
	}
	return res.Entries, res.Warnings, nil
}

// Records returns one record per instruction variant. Record mapping
// diagnostics are returned as warnings.
func (e *Extractor) Records() ([]model.InstructionRecord, []Warning, error) {
	res, err := e.Run()
	if err != nil {
		return nil, nil, err
	}
	return res.Records, res.Warnings, nil
}

// Range locates the pages holding instruction entries without extracting
// them.
func (e *Extractor) Range() (layout.Range, []Warning, error) {
	doc, warnings, err := e.load()
	if err != nil {
		return layout.Range{}, nil, err
	}
	comp, err := e.options.profile.Compile()
	if err != nil {
		return layout.Range{}, nil, err
	}
	rng := layout.SelectRange(doc, comp.Range)
	return rng, append(warnings, rangeWarnings(rng)...), nil
}

// PageCount returns the number of pages in the source.
func (e *Extractor) PageCount() (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	if e.doc != nil {
		return e.doc.PageCount(), nil
	}
	f, err := e.sourceFormat()
	if err != nil {
		return 0, err
	}
	if f == format.PDF {
		return api.PageCountFile(e.filename)
	}
	doc, _, err := e.load()
	if err != nil {
		return 0, err
	}
	return doc.PageCount(), nil
}

func (e *Extractor) extract(doc *model.Document, warnings []Warning) (*Result, error) {
	log := e.options.log()
	ctx := e.options.ctx

	comp, err := e.options.profile.Compile()
	if err != nil {
		return nil, err
	}

	res := &Result{Document: doc, Warnings: warnings}
	res.Fonts = layout.ClassifyFonts(doc.Fonts(), comp.Fonts)
	if !res.Fonts.Complete() {
		res.Warnings = append(res.Warnings, Warning{
			Code:    WarnFontsUnresolved,
			Message: fmt.Sprintf("profile %q: heading fonts not found in document", comp.Name),
		})
	}

	res.Range = layout.SelectRange(doc, comp.Range)
	res.Warnings = append(res.Warnings, rangeWarnings(res.Range)...)
	log.Debug("selected range", "first", res.Range.FirstPage, "last", res.Range.LastPage)

	spans := layout.SplitEntries(res.Range.Elements(doc), res.Fonts, comp.Boundary)
	if len(spans) == 0 {
		return nil, fmt.Errorf("%w in pages %d-%d", ErrNoEntries, res.Range.FirstPage, res.Range.LastPage)
	}

	tableOpts := comp.Table
	tableOpts.Logger = log
	sx := section.NewExtractor(
		layout.NewLocatorWithConfig(res.Fonts, comp.Locator),
		tables.NewReconstructor(tableOpts),
		comp.Section,
		log,
	)

	for _, span := range spans {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sr, err := sx.Extract(span)
		if err != nil {
			if !e.options.lenient {
				return nil, fmt.Errorf("entry %q (page %d): %w", span.Marker.Text, span.Marker.Page, err)
			}
			log.Warn("skipping entry", "entry", span.Marker.Text, "page", span.Marker.Page, "error", err)
			res.Warnings = append(res.Warnings, Warning{
				Code:    WarnEntrySkipped,
				Entry:   span.Marker.Text,
				Page:    span.Marker.Page,
				Message: err.Error(),
			})
			continue
		}
		for _, msg := range sr.Warnings {
			res.Warnings = append(res.Warnings, Warning{
				Code:    WarnSection,
				Entry:   sr.Entry.Name,
				Page:    span.Marker.Page,
				Message: msg,
			})
		}
		res.Sections = append(res.Sections, sr)
		res.Entries = append(res.Entries, comp.Normalizer.Entry(sr.Entry))
	}

	res.Records, res.Diagnostics = records.Map(res.Entries)
	for _, d := range res.Diagnostics {
		res.Warnings = append(res.Warnings, diagnosticWarning(d))
	}

	log.Info("extraction complete",
		"entries", len(res.Entries),
		"records", len(res.Records),
		"warnings", len(res.Warnings))
	return res, nil
}

func rangeWarnings(r layout.Range) []Warning {
	var out []Warning
	if !r.EntryFound {
		out = append(out, Warning{
			Code:    WarnEntryNotFound,
			Page:    r.FirstPage,
			Message: "no page matched the entry signature; starting at the first page",
		})
	}
	if !r.ExitFound {
		out = append(out, Warning{
			Code:    WarnExitNotFound,
			Page:    r.LastPage,
			Message: "no page matched the exit signature; ending at the last page",
		})
	}
	return out
}

// ============================================================================
// Sources
// ============================================================================

func (e *Extractor) sourceFormat() (format.Format, error) {
	if e.filename == "" {
		return format.Unknown, errors.New("no filename specified")
	}
	if e.options.format != format.Unknown {
		return e.options.format, nil
	}
	f, err := format.DetectFile(e.filename)
	if err != nil {
		return format.Unknown, err
	}
	if f == format.Unknown {
		return format.Unknown, fmt.Errorf("unsupported file format: %s", e.filename)
	}
	return f, nil
}

func (e *Extractor) load() (*model.Document, []Warning, error) {
	if e.err != nil {
		return nil, nil, e.err
	}
	if e.doc != nil {
		doc, err := restrictPages(e.doc, e.options.pages)
		return doc, nil, err
	}

	f, err := e.sourceFormat()
	if err != nil {
		return nil, nil, err
	}
	log := e.options.log().With("source", e.filename, "format", f.String())
	ctx := e.options.ctx

	var doc *model.Document
	switch f {
	case format.PDF:
		if e.options.docai != nil {
			return e.loadDocumentAI(log)
		}
		return e.loadPDF(log)

	case format.PDFXML:
		opts := pdfxml.DefaultOptions()
		opts.Logger = log
		doc, err = pdfxml.ParseFile(ctx, e.filename, opts)

	case format.DocAI:
		var data []byte
		data, err = os.ReadFile(e.filename)
		if err != nil {
			return nil, nil, err
		}
		doc, err = convertDocAI(data, log)

	case format.Image:
		opts := ocr.DefaultOptions()
		opts.Logger = log
		var info os.FileInfo
		info, err = os.Stat(e.filename)
		if err != nil {
			return nil, nil, err
		}
		if info.IsDir() {
			doc, err = ocr.ReadDir(ctx, e.filename, opts)
		} else {
			doc, err = ocr.ReadImages(ctx, []string{e.filename}, opts)
		}

	default:
		return nil, nil, fmt.Errorf("unsupported file format: %s", f)
	}
	if err != nil {
		return nil, nil, err
	}

	doc, err = restrictPages(doc, e.options.pages)
	return doc, nil, err
}

func (e *Extractor) loadPDF(log *slog.Logger) (*model.Document, []Warning, error) {
	opts := reader.DefaultOptions()
	opts.Logger = log
	r, err := reader.Open(e.filename, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer r.Close()

	pages, err := resolvePages(e.options.pages, r.PageCount())
	if err != nil {
		return nil, nil, err
	}
	doc, skipped, err := r.Document(e.options.ctx, pages)
	if err != nil {
		return nil, nil, err
	}

	var warnings []Warning
	for _, pe := range skipped {
		warnings = append(warnings, Warning{Code: WarnPageSkipped, Page: pe.Page, Message: pe.Err.Error()})
	}
	return doc, warnings, nil
}

// loadDocumentAI uploads the selected pages. The processor numbers the pages
// of the upload from 1; they are mapped back to the source page numbers.
func (e *Extractor) loadDocumentAI(log *slog.Logger) (*model.Document, []Warning, error) {
	data, err := os.ReadFile(e.filename)
	if err != nil {
		return nil, nil, err
	}
	count, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read PDF: %w", err)
	}
	pages, err := resolvePages(e.options.pages, count)
	if err != nil {
		return nil, nil, err
	}

	if len(pages) > 0 {
		selected := make([]string, len(pages))
		for i, p := range pages {
			selected[i] = strconv.Itoa(p)
		}
		var buf bytes.Buffer
		if err := api.Trim(bytes.NewReader(data), &buf, selected, nil); err != nil {
			return nil, nil, fmt.Errorf("failed to select pages: %w", err)
		}
		data = buf.Bytes()
	}

	log.Info("processing with Document AI", "processor", e.options.docai.ProcessorName(), "bytes", len(data))
	pb, err := docai.Process(e.options.ctx, data, e.options.docai)
	if err != nil {
		return nil, nil, err
	}
	opts := docai.DefaultOptions()
	opts.Logger = log
	doc := docai.Convert(pb, opts)

	if len(pages) > 0 {
		for _, p := range doc.Pages {
			if p.Number >= 1 && p.Number <= len(pages) {
				p.Number = pages[p.Number-1]
			}
		}
		doc = model.NewDocument(doc.Pages)
	}
	return doc, nil, nil
}

func convertDocAI(data []byte, log *slog.Logger) (*model.Document, error) {
	pb, err := docai.Decode(data)
	if err != nil {
		return nil, err
	}
	opts := docai.DefaultOptions()
	opts.Logger = log
	return docai.Convert(pb, opts), nil
}

// resolvePages validates the requested pages against pageCount and returns
// them sorted and deduplicated. No request means every page and returns nil.
func resolvePages(requested []int, pageCount int) ([]int, error) {
	if len(requested) == 0 {
		return nil, nil
	}

	seen := make(map[int]bool)
	var pages []int
	for _, p := range requested {
		if p < 1 || p > pageCount {
			return nil, fmt.Errorf("page %d out of range (1-%d)", p, pageCount)
		}
		if !seen[p] {
			seen[p] = true
			pages = append(pages, p)
		}
	}
	sort.Ints(pages)
	return pages, nil
}

func restrictPages(doc *model.Document, requested []int) (*model.Document, error) {
	if len(requested) == 0 {
		return doc, nil
	}
	for _, p := range requested {
		if doc.GetPage(p) == nil {
			return nil, fmt.Errorf("page %d not in document (%d pages)", p, doc.PageCount())
		}
	}
	return doc.RestrictPages(requested), nil
}
