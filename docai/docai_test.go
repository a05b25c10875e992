package docai

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
)

const sampleJSON = `{
  "text": "ADD AL\nNOP\n",
  "pages": [
    {
      "pageNumber": 1,
      "dimension": {"width": 612, "height": 792, "unit": "pixels"},
      "tokens": [
        {
          "layout": {
            "textAnchor": {"textSegments": [{"endIndex": "4"}]},
            "boundingPoly": {"normalizedVertices": [
              {"x": 0.125, "y": 0.5}, {"x": 0.1875, "y": 0.5},
              {"x": 0.1875, "y": 0.515625}, {"x": 0.125, "y": 0.515625}
            ]}
          },
          "styleInfo": {"fontSize": 9, "fontType": "NeoSansIntel"}
        },
        {
          "layout": {
            "textAnchor": {"textSegments": [{"startIndex": "4", "endIndex": "7"}]},
            "boundingPoly": {"normalizedVertices": [
              {"x": 0.1953125, "y": 0.5}, {"x": 0.21875, "y": 0.5},
              {"x": 0.21875, "y": 0.515625}, {"x": 0.1953125, "y": 0.515625}
            ]}
          },
          "styleInfo": {"fontSize": 9, "fontType": "NeoSansIntel"}
        }
      ]
    },
    {
      "pageNumber": 2,
      "dimension": {"width": 1224, "height": 1584, "unit": "pixels"},
      "tokens": [
        {
          "layout": {
            "textAnchor": {"textSegments": [{"startIndex": "7", "endIndex": "11"}]},
            "boundingPoly": {"normalizedVertices": [
              {"x": 0.125, "y": 0.25}, {"x": 0.1875, "y": 0.25},
              {"x": 0.1875, "y": 0.265625}, {"x": 0.125, "y": 0.265625}
            ]}
          },
          "someFutureField": true
        }
      ]
    }
  ]
}`

func TestDecodeAndConvert(t *testing.T) {
	pb, err := Decode([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	doc := Convert(pb, DefaultOptions())

	if doc.PageCount() != 2 {
		t.Fatalf("PageCount = %d, want 2", doc.PageCount())
	}

	p1 := doc.GetPage(1)
	if p1.Width != 612 || p1.Height != 792 {
		t.Errorf("page 1 size = %v x %v", p1.Width, p1.Height)
	}
	if len(p1.Elements) != 1 {
		t.Fatalf("page 1 has %d elements, want 1", len(p1.Elements))
	}
	e := p1.Elements[0]
	if e.Text != "ADD AL" {
		t.Errorf("text = %q", e.Text)
	}
	if e.Font != "NeoSansIntel,9.0" {
		t.Errorf("font = %q", e.Font)
	}
	if e.BBox.Left() != 76.5 || e.BBox.Bottom() != 383.625 || e.BBox.Right() != 133.875 {
		t.Errorf("bbox = %+v", e.BBox)
	}

	p2 := doc.GetPage(2)
	if len(p2.Elements) != 1 || p2.Elements[0].Text != "NOP" {
		t.Fatalf("page 2 elements = %v", p2.Elements)
	}
	if f := p2.Elements[0].Font; !strings.HasPrefix(f, "DocumentAI,") {
		t.Errorf("fallback font = %q", f)
	}
}

func TestDecodeInvalid(t *testing.T) {
	if _, err := Decode([]byte(`{"pages": 3}`)); err == nil {
		t.Error("expected error for malformed document")
	}
}

func TestConvertSkipsEmptyTokens(t *testing.T) {
	pb := &documentaipb.Document{
		Text: "  ",
		Pages: []*documentaipb.Document_Page{{
			Tokens: []*documentaipb.Document_Page_Token{
				{Layout: &documentaipb.Document_Page_Layout{
					TextAnchor: &documentaipb.Document_TextAnchor{
						TextSegments: []*documentaipb.Document_TextAnchor_TextSegment{{StartIndex: 0, EndIndex: 2}},
					},
				}},
				// segment past the end of the text
				{Layout: &documentaipb.Document_Page_Layout{
					TextAnchor: &documentaipb.Document_TextAnchor{
						TextSegments: []*documentaipb.Document_TextAnchor_TextSegment{{StartIndex: 5, EndIndex: 9}},
					},
				}},
			},
		}},
	}
	doc := Convert(pb, DefaultOptions())
	if doc.PageCount() != 1 {
		t.Fatalf("PageCount = %d, want 1", doc.PageCount())
	}
	p := doc.GetPage(1)
	if len(p.Elements) != 0 {
		t.Errorf("got %d elements, want 0", len(p.Elements))
	}
	if p.Width != 612 || p.Height != 792 {
		t.Errorf("default page size = %v x %v", p.Width, p.Height)
	}
}

func TestConfig(t *testing.T) {
	cfg := &Config{ProjectID: "p", Location: "eu"}
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "processor_id") {
		t.Errorf("Validate = %v, want missing processor_id", err)
	}

	cfg.ProcessorID = "abc"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
	if got := cfg.ProcessorName(); got != "projects/p/locations/eu/processors/abc" {
		t.Errorf("ProcessorName = %q", got)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "docai.yaml")
	data := "project_id: p\nlocation: us\nprocessor_id: abc\ncredentials_file: /keys/sa.json\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	want := Config{ProjectID: "p", Location: "us", ProcessorID: "abc", CredentialsFile: "/keys/sa.json"}
	if *cfg != want {
		t.Errorf("LoadConfig = %+v, want %+v", *cfg, want)
	}

	incomplete := filepath.Join(dir, "incomplete.yaml")
	if err := os.WriteFile(incomplete, []byte("project_id: p\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(incomplete); err == nil {
		t.Error("expected error for incomplete config")
	}
	if _, err := LoadConfig(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
