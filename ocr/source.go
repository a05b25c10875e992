package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tsawler/isaref/model"
	"github.com/tsawler/isaref/text"
)

var imageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".tif": true, ".tiff": true, ".bmp": true,
}

// IsImage reports whether path has a page image extension.
func IsImage(path string) bool {
	return imageExts[strings.ToLower(filepath.Ext(path))]
}

// ListImages returns the page images of dir in name order.
func ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if !e.IsDir() && IsImage(e.Name()) {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// ReadImages recognizes one page per image, numbered in argument order.
// The context is checked between pages.
func ReadImages(ctx context.Context, paths []string, opts Options) (*model.Document, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	client, err := New()
	if err != nil {
		return nil, err
	}
	defer client.Close()
	if err := client.Configure(opts); err != nil {
		return nil, err
	}

	assembler := text.NewAssemblerWithConfig(opts.Assembler)
	pages := make([]*model.Page, 0, len(paths))
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page, err := readPage(client, assembler, path, i+1, opts)
		if err != nil {
			return nil, fmt.Errorf("page %d (%s): %w", i+1, filepath.Base(path), err)
		}
		log.Debug("recognized page", "page", page.Number, "elements", len(page.Elements))
		pages = append(pages, page)
	}
	return model.NewDocument(pages), nil
}

// ReadDir recognizes every page image in dir.
func ReadDir(ctx context.Context, dir string, opts Options) (*model.Document, error) {
	paths, err := ListImages(dir)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no page images in %s", dir)
	}
	return ReadImages(ctx, paths, opts)
}

func readPage(client *Client, assembler *text.Assembler, path string, number int, opts Options) (*model.Page, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	prepared, err := Prepare(f, opts)
	if err != nil {
		return nil, err
	}
	data, err := prepared.PNG()
	if err != nil {
		return nil, err
	}
	words, err := client.RecognizeWords(data)
	if err != nil {
		return nil, err
	}

	w, h := prepared.Size()
	return &model.Page{
		Number:   number,
		Width:    w,
		Height:   h,
		Elements: assembler.Assemble(prepared.Fragments(words, opts)),
	}, nil
}
