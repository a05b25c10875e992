package isaref

import (
	"context"
	"log/slog"

	"github.com/tsawler/isaref/docai"
	"github.com/tsawler/isaref/format"
	"github.com/tsawler/isaref/profile"
)

// ExtractOptions holds configuration for an extraction run.
type ExtractOptions struct {
	// Page selection (1-indexed)
	pages []int

	// Source
	format format.Format
	docai  *docai.Config // process PDFs online instead of reading them locally

	profile *profile.Profile
	lenient bool // skip entries whose tables cannot be reconstructed

	ctx    context.Context
	logger *slog.Logger
}

// defaultOptions returns the default extraction options.
func defaultOptions() ExtractOptions {
	return ExtractOptions{
		format:  format.Unknown, // detect
		profile: profile.Default(),
		ctx:     context.Background(),
	}
}

// clone creates a deep copy of ExtractOptions. The profile and DocAI
// config are shared; configuration methods replace them, never mutate them.
func (o ExtractOptions) clone() ExtractOptions {
	newOpts := o
	if o.pages != nil {
		newOpts.pages = make([]int, len(o.pages))
		copy(newOpts.pages, o.pages)
	}
	return newOpts
}

func (o ExtractOptions) log() *slog.Logger {
	if o.logger == nil {
		return slog.Default()
	}
	return o.logger
}
