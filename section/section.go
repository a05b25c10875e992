// Package section extracts the variant and operand encoding tables of an
// instruction entry.
package section

import (
	"fmt"
	"log/slog"

	"github.com/tsawler/isaref/layout"
	"github.com/tsawler/isaref/model"
	"github.com/tsawler/isaref/tables"
)

// Config holds section extraction configuration
type Config struct {
	// EncodingHeading identifies the operand encoding section heading
	// Default: "Instruction Operand Encoding"
	EncodingHeading string
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{EncodingHeading: "Instruction Operand Encoding"}
}

// Result is the outcome of extracting one entry.
type Result struct {
	Entry model.InstructionEntry

	// Layout is the role assignment the tables were cut from
	Layout *layout.SpanLayout

	// VariantTable is the raw variant table, header row first
	VariantTable *model.Table

	// Warnings lists recoverable problems, in the order they were found
	Warnings []string
}

// Extractor turns entry spans into instruction entries
type Extractor struct {
	locator *layout.Locator
	recon   *tables.Reconstructor
	config  Config
	log     *slog.Logger
}

// NewExtractor creates an extractor. A nil logger uses slog.Default().
func NewExtractor(locator *layout.Locator, recon *tables.Reconstructor, config Config, log *slog.Logger) *Extractor {
	if log == nil {
		log = slog.Default()
	}
	return &Extractor{locator: locator, recon: recon, config: config, log: log}
}

// Extract reconstructs the tables of one entry. Only a table whose first row
// cannot be repaired is an error; everything else degrades to a warning.
func (x *Extractor) Extract(span layout.Span) (*Result, error) {
	sl := x.locator.Locate(span.Elements)
	res := &Result{Layout: sl}
	res.Entry.Name = span.Marker.Text
	if first, ok := span.Elements.First(); ok {
		res.Entry.Name = first.Text
	}
	name := res.Entry.Name
	log := x.log.With("entry", name)

	heading, ok := sl.InstructionHeading()
	if !ok {
		heading = span.Marker
	}
	candidates := sl.TableCandidates()

	variantElems := candidates.After(heading, false)
	if end, ok := sl.FollowingHeading(heading); ok {
		variantElems = variantElems.Before(end, false)
	} else {
		res.Warnings = append(res.Warnings, "no section heading after the instruction heading; variant table runs to the end of the entry")
	}

	variants, err := x.recon.Reconstruct(variantElems)
	if err != nil {
		return nil, fmt.Errorf("section %q: variant table: %w", name, err)
	}
	res.VariantTable = variants
	if variants.RowCount() < 2 {
		res.Warnings = append(res.Warnings, "variant table has no data rows")
	}
	header := variants.Header()
	for _, row := range variants.DataRows() {
		res.Entry.Variants = append(res.Entry.Variants, model.NewVariant(header, row))
	}

	if enc, ok := sl.SectionHeading(x.config.EncodingHeading); ok && x.config.EncodingHeading != "" {
		encElems := candidates.After(enc, false)
		if next, ok := sl.FollowingHeading(enc); ok {
			encElems = encElems.Before(next, false)
		}
		table, err := x.recon.Reconstruct(encElems)
		if err != nil {
			return nil, fmt.Errorf("section %q: encoding table: %w", name, err)
		}
		res.Entry.EncodingTable = table
	}

	log.Debug("entry extracted",
		"variants", len(res.Entry.Variants),
		"encoding_table", res.Entry.EncodingTable != nil,
		"warnings", len(res.Warnings))

	return res, nil
}
