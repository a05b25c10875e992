// Package normalize maps the header labels found in variant tables to one
// canonical spelling each.
//
// Labels are first collapsed (Unicode NFKC, runs of whitespace and line
// breaks to a single space, no spaces around "/"), then looked up in a
// correction table. Normalizing an already canonical label is a no-op, and
// labels without a correction pass through unchanged.
package normalize

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/isaref/model"
)

var (
	// ErrConflict is returned when two spellings collapse to the same label
	// but are corrected to different canonical keys.
	ErrConflict = errors.New("normalize: conflicting corrections")

	// ErrNotIdempotent is returned when a canonical key is itself corrected
	// to something else, so normalizing twice would change the result.
	ErrNotIdempotent = errors.New("normalize: correction target is also corrected")
)

// DefaultCorrections lists the label spellings seen in the instruction set
// reference. Keys may contain line breaks; they are collapsed before use.
var DefaultCorrections = map[string]string{
	"Opcode/\nInstruction":       "Opcode/Instruction",
	"Opcode\nInstruction":        "Opcode/Instruction",
	"Opcode Instruction":         "Opcode/Instruction",
	"Opcode*/\nInstruction":      "Opcode/Instruction",
	"Opcode*/Instruction":        "Opcode/Instruction",
	"Opcode*":                    "Opcode",
	"Opcode1":                    "Opcode",
	"Op/ \nEn":                   "Op/En",
	"Op/E\nn":                    "Op/En",
	"Op \nEn":                    "Op/En",
	"Op En":                      "Op/En",
	"Op/E n":                     "Op/En",
	"Compat/\nLeg Mode1":         "Compat/Leg Mode",
	"Compat/Leg Mode1":           "Compat/Leg Mode",
	"64-Bit \nMode":              "64-bit Mode",
	"64-Bit Mode":                "64-bit Mode",
	"64/32bit \nMode \nSupport":  "64/32-bit Mode Support",
	"32/64 \nbit Mode \nSupport": "64/32-bit Mode Support",
	"32/64 bit Mode Support":     "64/32-bit Mode Support",
	"64/32bit Mode Support":      "64/32-bit Mode Support",
	"64/32 bit Mode Support":     "64/32-bit Mode Support",
	"64/32-\nbit \nMode":         "64/32-bit Mode",
	"64/3\n2-bit \nMode":         "64/32-bit Mode",
	"64/32\n-bit \nMode":         "64/32-bit Mode",
	"64/32- bit Mode":            "64/32-bit Mode",
	"64/32 -bit Mode":            "64/32-bit Mode",
	"64/3 2-bit Mode":            "64/32-bit Mode",
	"CPUID Fea-\nture Flag":      "CPUID Feature Flag",
	"CPUID Fea- ture Flag":       "CPUID Feature Flag",
}

// Collapse applies the spelling-independent part of normalization.
func Collapse(label string) string {
	s := norm.NFKC.String(label)
	s = strings.Join(strings.Fields(s), " ")
	s = strings.ReplaceAll(s, "/ ", "/")
	s = strings.ReplaceAll(s, " /", "/")
	return s
}

// Normalizer canonicalizes header labels. It is immutable and safe for
// concurrent use.
type Normalizer struct {
	corrections map[string]string
}

// New builds a normalizer from a correction table. Keys and values are
// collapsed first. The table is rejected if two keys collapse together with
// different targets, or if a target is itself a key mapping elsewhere.
func New(corrections map[string]string) (*Normalizer, error) {
	collapsed := make(map[string]string, len(corrections))
	for _, raw := range sortedKeys(corrections) {
		key, target := Collapse(raw), Collapse(corrections[raw])
		if prev, ok := collapsed[key]; ok && prev != target {
			return nil, fmt.Errorf("%w: %q maps to both %q and %q", ErrConflict, key, prev, target)
		}
		collapsed[key] = target
	}

	for _, key := range sortedKeys(collapsed) {
		target := collapsed[key]
		if next, ok := collapsed[target]; ok && next != target {
			return nil, fmt.Errorf("%w: %q -> %q -> %q", ErrNotIdempotent, key, target, next)
		}
	}

	return &Normalizer{corrections: collapsed}, nil
}

// Default returns a normalizer over DefaultCorrections.
func Default() *Normalizer {
	n, err := New(DefaultCorrections)
	if err != nil {
		panic(err)
	}
	return n
}

// Key returns the canonical form of a raw header label.
func (n *Normalizer) Key(raw string) string {
	key := Collapse(raw)
	if target, ok := n.corrections[key]; ok {
		return target
	}
	return key
}

// Corrected reports whether raw is one of the known alternate spellings.
func (n *Normalizer) Corrected(raw string) bool {
	_, ok := n.corrections[Collapse(raw)]
	return ok
}

// Variant returns v with every key canonicalized. When two raw keys become the
// same canonical key the first position is kept and the later value wins.
func (n *Normalizer) Variant(v model.Variant) model.Variant {
	var out model.Variant
	for _, f := range v.Fields() {
		out.Set(n.Key(f.Key), f.Value)
	}
	return out
}

// Entry returns a copy of e with all of its variants canonicalized.
func (n *Normalizer) Entry(e model.InstructionEntry) model.InstructionEntry {
	variants := make([]model.Variant, len(e.Variants))
	for i, v := range e.Variants {
		variants[i] = n.Variant(v)
	}
	e.Variants = variants
	return e
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
