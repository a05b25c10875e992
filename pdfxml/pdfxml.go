// Package pdfxml is an element source for the XML written by
// "pdftohtml -xml".
//
// Each <text> element is one line of text with a top-left origin. Lines are
// converted to PDF user space and stacked into multi-line boxes with the
// text package, so the result is shaped like the native reader's output.
package pdfxml

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/tsawler/isaref/model"
	"github.com/tsawler/isaref/text"
)

// Options controls coordinate scaling and box assembly.
type Options struct {
	// Zoom is the scale pdftohtml was run with; coordinates are divided by it.
	// Default: 1.5 (the pdftohtml default)
	Zoom float64

	Assembler text.AssemblerConfig
	Logger    *slog.Logger
}

// DefaultOptions returns options for pdftohtml's default zoom.
func DefaultOptions() Options {
	return Options{
		Zoom:      1.5,
		Assembler: text.DefaultAssemblerConfig(),
	}
}

var prologEncoding = regexp.MustCompile(`<\?xml[^>]*encoding=["']([A-Za-z0-9_-]+)["']`)

// decoderFor returns the decoder for the encoding named in the XML prolog,
// or nil for UTF-8.
func decoderFor(data []byte) (*encoding.Decoder, error) {
	m := prologEncoding.FindSubmatch(data)
	if m == nil {
		return nil, nil
	}
	switch strings.ToLower(string(m[1])) {
	case "utf-8", "utf8":
		return nil, nil
	case "iso-8859-1", "latin1":
		return charmap.ISO8859_1.NewDecoder(), nil
	case "iso-8859-15", "latin9":
		return charmap.ISO8859_15.NewDecoder(), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder(), nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", m[1])
	}
}

type fontSpec struct {
	family string
	size   float64
}

type page struct {
	number int
	width  float64
	height float64
	lines  []line
}

type line struct {
	top, left, width, height float64
	font                     string
	text                     string
}

// Parse reads pdftohtml XML into a document. The context is checked
// between pages.
func Parse(ctx context.Context, r io.Reader, opts Options) (*model.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read xml: %w", err)
	}
	dec, err := decoderFor(data)
	if err != nil {
		return nil, err
	}
	if dec != nil {
		if data, err = dec.Bytes(data); err != nil {
			return nil, fmt.Errorf("decode xml: %w", err)
		}
	}

	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	zoom := opts.Zoom
	if zoom <= 0 {
		zoom = 1
	}

	raw, err := tokenize(data)
	if err != nil {
		return nil, err
	}

	assembler := text.NewAssemblerWithConfig(opts.Assembler)
	pages := make([]*model.Page, 0, len(raw))
	for _, p := range raw {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		frags := make([]text.TextFragment, 0, len(p.lines))
		for i := range p.lines {
			frags = append(frags, p.lines[i].fragment(p.height, zoom))
		}
		elems := assembler.Assemble(frags)
		log.Debug("read page", "page", p.number, "lines", len(p.lines), "elements", len(elems))
		pages = append(pages, &model.Page{
			Number:   p.number,
			Width:    p.width / zoom,
			Height:   p.height / zoom,
			Elements: elems,
		})
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("no <page> elements found")
	}
	return model.NewDocument(pages), nil
}

// ParseFile reads a pdftohtml XML file.
func ParseFile(ctx context.Context, path string, opts Options) (*model.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Parse(ctx, f, opts)
}

// fragment converts a top-left origin line into a bottom-left fragment.
func (l *line) fragment(pageHeight, zoom float64) text.TextFragment {
	family, size := splitFont(l.font)
	return text.TextFragment{
		Text:     l.text,
		X:        l.left / zoom,
		Y:        (pageHeight - l.top - l.height) / zoom,
		Width:    l.width / zoom,
		Height:   l.height / zoom,
		FontName: family,
		FontSize: size / zoom,
	}
}

func splitFont(id string) (string, float64) {
	i := strings.LastIndexByte(id, ',')
	if i < 0 {
		return id, 0
	}
	size, _ := strconv.ParseFloat(id[i+1:], 64)
	return id[:i], size
}

func tokenize(data []byte) ([]*page, error) {
	z := html.NewTokenizer(bytes.NewReader(data))
	fonts := make(map[string]fontSpec)

	var (
		pages []*page
		cur   *page
		ln    *line
		sb    strings.Builder
	)
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return nil, fmt.Errorf("tokenize xml: %w", err)
			}
			return pages, nil

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			attrs := attrMap(tok.Attr)
			switch tok.Data {
			case "page":
				cur = &page{
					number: atoi(attrs["number"], len(pages)+1),
					width:  atof(attrs["width"]),
					height: atof(attrs["height"]),
				}
				pages = append(pages, cur)
			case "fontspec":
				fonts[attrs["id"]] = fontSpec{family: attrs["family"], size: atof(attrs["size"])}
			case "text":
				if cur == nil || tt == html.SelfClosingTagToken {
					continue
				}
				fs := fonts[attrs["font"]]
				ln = &line{
					top:    atof(attrs["top"]),
					left:   atof(attrs["left"]),
					width:  atof(attrs["width"]),
					height: atof(attrs["height"]),
					font:   text.FontID(fs.family, fs.size),
				}
				sb.Reset()
			}

		case html.TextToken:
			if ln != nil {
				sb.WriteString(z.Token().Data)
			}

		case html.EndTagToken:
			switch z.Token().Data {
			case "text":
				if ln != nil && cur != nil && strings.TrimSpace(sb.String()) != "" {
					ln.text = sb.String()
					cur.lines = append(cur.lines, *ln)
				}
				ln = nil
			case "page":
				cur = nil
			}
		}
	}
}

func attrMap(attrs []html.Attribute) map[string]string {
	m := make(map[string]string, len(attrs))
	for _, a := range attrs {
		m[a.Key] = a.Val
	}
	return m
}

func atof(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

func atoi(s string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fallback
	}
	return n
}
