package reader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ledongthuc/pdf"
)

func TestConvert(t *testing.T) {
	r := &Reader{opts: DefaultOptions()}

	frags := r.convert([]pdf.Text{
		{Font: "ABCDEF+NeoSansIntel", FontSize: 10, X: 45, Y: 100, W: 6, S: "A"},
		{Font: "ABCDEF+NeoSansIntel", FontSize: 10, X: 51, Y: 100, W: 0, S: "D"},
		{Font: "ABCDEF+NeoSansIntel", FontSize: 10, X: 56, Y: 100, W: 3, S: " "},
	})

	if len(frags) != 2 {
		t.Fatalf("got %d fragments, want 2", len(frags))
	}
	a := frags[0]
	if a.X != 45 || a.Y != 98 || a.Width != 6 || a.Height != 10 {
		t.Errorf("fragment A = %+v", a)
	}
	if a.FontName != "ABCDEF+NeoSansIntel" || a.FontSize != 10 {
		t.Errorf("fragment A font = %q %v", a.FontName, a.FontSize)
	}
	if d := frags[1]; d.Width != 5 {
		t.Errorf("fallback width = %v, want 5", d.Width)
	}
}

func TestPageErrorUnwrap(t *testing.T) {
	inner := errors.New("boom")
	err := error(PageError{Page: 3, Err: inner})
	if !errors.Is(err, inner) {
		t.Error("PageError does not unwrap")
	}
	if err.Error() != "page 3: boom" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestOpenNonExistent(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "missing.pdf"), DefaultOptions()); err == nil {
		t.Error("expected error for missing file")
	}
}

// TestWithRealPDF reads a copy of the instruction reference when one is
// provided through ISAREF_TEST_PDF.
func TestWithRealPDF(t *testing.T) {
	path := os.Getenv("ISAREF_TEST_PDF")
	if path == "" {
		t.Skip("ISAREF_TEST_PDF not set")
	}

	r, err := Open(path, DefaultOptions())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	if r.PageCount() == 0 {
		t.Fatal("no pages")
	}
	doc, skipped, err := r.Document(context.Background(), []int{1})
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	if len(skipped) == 0 && len(doc.Elements()) == 0 {
		t.Error("page 1 produced no elements")
	}
	if w, h := r.PageSize(1); w <= 0 || h <= 0 {
		t.Errorf("PageSize = %v x %v", w, h)
	}
}
