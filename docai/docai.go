package docai

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strings"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"google.golang.org/api/option"
	"google.golang.org/protobuf/encoding/protojson"
	"gopkg.in/yaml.v3"

	"github.com/tsawler/isaref/model"
	"github.com/tsawler/isaref/text"
)

// Config identifies the processor used for online processing.
type Config struct {
	ProjectID       string `yaml:"project_id"`
	Location        string `yaml:"location"`
	ProcessorID     string `yaml:"processor_id"`
	CredentialsFile string `yaml:"credentials_file"`
}

// Validate checks that the processor is fully named.
func (c *Config) Validate() error {
	var missing []string
	if c.ProjectID == "" {
		missing = append(missing, "project_id")
	}
	if c.Location == "" {
		missing = append(missing, "location")
	}
	if c.ProcessorID == "" {
		missing = append(missing, "processor_id")
	}
	if len(missing) > 0 {
		return fmt.Errorf("docai config: missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// LoadConfig reads a processor config from a YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read docai config: %w", err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse docai config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ProcessorName returns the resource name of the processor.
func (c *Config) ProcessorName() string {
	return fmt.Sprintf("projects/%s/locations/%s/processors/%s", c.ProjectID, c.Location, c.ProcessorID)
}

// Process sends PDF bytes to Document AI and returns the processed document.
func Process(ctx context.Context, pdfBytes []byte, cfg *Config) (*documentaipb.Document, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := []option.ClientOption{
		option.WithEndpoint(fmt.Sprintf("%s-documentai.googleapis.com:443", cfg.Location)),
	}
	creds := cfg.CredentialsFile
	if creds == "" {
		creds = os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	}
	if creds != "" {
		opts = append(opts, option.WithCredentialsFile(creds))
	}

	client, err := documentai.NewDocumentProcessorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create document ai client: %w", err)
	}
	defer client.Close()

	resp, err := client.ProcessDocument(ctx, &documentaipb.ProcessRequest{
		Name: cfg.ProcessorName(),
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  pdfBytes,
				MimeType: "application/pdf",
			},
		},
		SkipHumanReview: true,
	})
	if err != nil {
		return nil, fmt.Errorf("process document: %w", err)
	}
	return resp.GetDocument(), nil
}

// Decode parses a Document AI document saved as JSON.
func Decode(data []byte) (*documentaipb.Document, error) {
	doc := &documentaipb.Document{}
	if err := (protojson.UnmarshalOptions{DiscardUnknown: true}).Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("decode document ai json: %w", err)
	}
	return doc, nil
}

// Options controls page scaling and box assembly.
type Options struct {
	// PageWidth is the width, in points, every page is scaled to.
	// Default: 612
	PageWidth float64

	// FallbackFont is the font family of tokens without style information.
	// Default: "DocumentAI"
	FallbackFont string

	Assembler text.AssemblerConfig
	Logger    *slog.Logger
}

// DefaultOptions returns options for letter-size pages.
func DefaultOptions() Options {
	return Options{
		PageWidth:    612,
		FallbackFont: "DocumentAI",
		Assembler:    text.DefaultAssemblerConfig(),
	}
}

// Convert turns a Document AI document into a model document.
func Convert(doc *documentaipb.Document, opts Options) *model.Document {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	assembler := text.NewAssemblerWithConfig(opts.Assembler)
	runes := []rune(doc.GetText())

	pages := make([]*model.Page, 0, len(doc.GetPages()))
	for i, p := range doc.GetPages() {
		number := int(p.GetPageNumber())
		if number == 0 {
			number = i + 1
		}
		width, height := pageSize(p.GetDimension(), opts.PageWidth)

		frags := make([]text.TextFragment, 0, len(p.GetTokens()))
		for _, tok := range p.GetTokens() {
			f, ok := fragment(tok, runes, width, height, opts.FallbackFont)
			if ok {
				frags = append(frags, f)
			}
		}
		elems := assembler.Assemble(frags)
		log.Debug("converted page", "page", number, "tokens", len(p.GetTokens()), "elements", len(elems))
		pages = append(pages, &model.Page{Number: number, Width: width, Height: height, Elements: elems})
	}
	return model.NewDocument(pages)
}

func pageSize(dim *documentaipb.Document_Page_Dimension, width float64) (float64, float64) {
	if width <= 0 {
		width = 612
	}
	if dim.GetWidth() <= 0 || dim.GetHeight() <= 0 {
		return width, width * 792 / 612
	}
	return width, width * float64(dim.GetHeight()) / float64(dim.GetWidth())
}

func fragment(tok *documentaipb.Document_Page_Token, runes []rune, pageWidth, pageHeight float64, fallbackFont string) (text.TextFragment, bool) {
	layout := tok.GetLayout()
	s := strings.TrimSpace(textFromLayout(layout, runes))
	vertices := layout.GetBoundingPoly().GetNormalizedVertices()
	if s == "" || len(vertices) == 0 {
		return text.TextFragment{}, false
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, v := range vertices {
		x, y := float64(v.GetX()), float64(v.GetY())
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}

	f := text.TextFragment{
		Text:   s,
		X:      minX * pageWidth,
		Y:      (1 - maxY) * pageHeight,
		Width:  (maxX - minX) * pageWidth,
		Height: (maxY - minY) * pageHeight,
	}
	style := tok.GetStyleInfo()
	if style.GetFontType() != "" && style.GetFontSize() > 0 {
		f.FontName = style.GetFontType()
		f.FontSize = float64(style.GetFontSize())
	} else {
		f.FontName = fallbackFont
		f.FontSize = f.Height
	}
	return f, true
}

// textFromLayout concatenates the text segments a layout refers to.
func textFromLayout(layout *documentaipb.Document_Page_Layout, runes []rune) string {
	var sb strings.Builder
	for _, seg := range layout.GetTextAnchor().GetTextSegments() {
		start, end := int(seg.GetStartIndex()), int(seg.GetEndIndex())
		if end > len(runes) {
			end = len(runes)
		}
		if start < 0 {
			start = 0
		}
		if start > end {
			start = end
		}
		sb.WriteString(string(runes[start:end]))
	}
	return sb.String()
}
