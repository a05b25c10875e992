// Package records flattens normalized instruction entries into output
// records, one per variant.
package records

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tsawler/isaref/model"
)

// Code identifies the kind of a Diagnostic.
type Code string

const (
	CodeUnrecognizedKey Code = "unrecognized-key"
	CodeNoEncodingTable Code = "no-encoding-table"
	CodeNoEncodingMatch Code = "no-encoding-match"
)

// Diagnostic reports a variant value the mapper could not use.
type Diagnostic struct {
	Code  Code
	Entry string
	Key   string
	Value string
}

func (d Diagnostic) String() string {
	switch d.Code {
	case CodeUnrecognizedKey:
		return fmt.Sprintf("%s: unrecognized key %q", d.Entry, d.Key)
	case CodeNoEncodingTable:
		return fmt.Sprintf("%s: %s %q but entry has no operand encoding table", d.Entry, d.Key, d.Value)
	case CodeNoEncodingMatch:
		return fmt.Sprintf("%s: no operand encoding row for %s %q", d.Entry, d.Key, d.Value)
	}
	return fmt.Sprintf("%s: %s %q", d.Entry, d.Code, d.Key)
}

// Map derives one record for every variant of every entry, in order.
func Map(entries []model.InstructionEntry) ([]model.InstructionRecord, []Diagnostic) {
	var (
		out   []model.InstructionRecord
		diags []Diagnostic
	)
	for _, e := range entries {
		recs, d := MapEntry(e)
		out = append(out, recs...)
		diags = append(diags, d...)
	}
	return out, diags
}

// MapEntry derives the records of a single entry.
func MapEntry(e model.InstructionEntry) ([]model.InstructionRecord, []Diagnostic) {
	out := make([]model.InstructionRecord, 0, len(e.Variants))
	var diags []Diagnostic

	for _, v := range e.Variants {
		var rec model.InstructionRecord
		for _, f := range v.Fields() {
			if d, ok := apply(&rec, e, f); !ok {
				diags = append(diags, d)
			}
		}
		out = append(out, rec)
	}
	return out, diags
}

// apply assigns one variant field to rec. It returns false with a diagnostic
// when the field could not be used.
func apply(rec *model.InstructionRecord, e model.InstructionEntry, f model.Field) (Diagnostic, bool) {
	kind := Classify(f.Key)
	val := f.Value

	switch kind {
	case KindInstruction:
		rec.Name = model.Text(lineBreaksTo(val, " "))
	case KindOpcode:
		rec.Opcode = model.Text(lineBreaksTo(val, " "))
	case KindOpcodeInstruction:
		opcode, name, ok := strings.Cut(val, "\n")
		rec.Opcode = model.Text(opcode)
		if !ok {
			name = ""
		}
		rec.Name = model.Text(lineBreaksTo(name, " "))
	case Kind64BitMode, Kind6432BitMode, Kind6432BitModeSupport:
		// "V/V" style cells give the 64-bit mode first.
		left, _, _ := strings.Cut(val, "/")
		rec.Support64Bit = model.Text(left)
	case KindOperandEncoding:
		if e.EncodingTable == nil {
			return Diagnostic{Code: CodeNoEncodingTable, Entry: e.Name, Key: f.Key, Value: val}, false
		}
		enc, ok := OperandEncoding(e.EncodingTable, val)
		if !ok {
			return Diagnostic{Code: CodeNoEncodingMatch, Entry: e.Name, Key: f.Key, Value: val}, false
		}
		rec.OperandEncoding = model.Text(enc)
	case KindCPUIDFeatureFlag, KindCPUID:
		rec.CPUID = model.Text(lineBreaksTo(val, ";"))
	case KindDescription, KindCompatLegMode:
	default:
		return Diagnostic{Code: CodeUnrecognizedKey, Entry: e.Name, Key: f.Key, Value: val}, false
	}
	return Diagnostic{}, true
}

// OperandEncoding renders the data row of table whose first cell equals code
// as "header: value;" pairs in column order. When several rows match, the
// last one wins.
func OperandEncoding(table *model.Table, code string) (string, bool) {
	header := table.Header()
	var match []string
	for _, row := range table.DataRows() {
		if len(row) > 0 && row[0] == code {
			match = row
		}
	}
	if match == nil {
		return "", false
	}
	var sb strings.Builder
	for i, h := range header {
		if i >= len(match) {
			break
		}
		sb.WriteString(lineBreaksTo(h, " "))
		sb.WriteString(": ")
		sb.WriteString(lineBreaksTo(match[i], " "))
		sb.WriteString(";")
	}
	return sb.String(), true
}

// KeyReport groups unrecognized-key diagnostics by key.
type KeyReport struct {
	Key     string
	Entries []string
}

// UnrecognizedKeys reports every distinct unrecognized key once, with the
// entries it appeared in, sorted by key.
func UnrecognizedKeys(diags []Diagnostic) []KeyReport {
	byKey := make(map[string][]string)
	for _, d := range diags {
		if d.Code != CodeUnrecognizedKey {
			continue
		}
		entries := byKey[d.Key]
		if len(entries) == 0 || entries[len(entries)-1] != d.Entry {
			byKey[d.Key] = append(entries, d.Entry)
		}
	}

	out := make([]KeyReport, 0, len(byKey))
	for k, entries := range byKey {
		out = append(out, KeyReport{Key: k, Entries: entries})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func lineBreaksTo(s, sep string) string {
	return strings.ReplaceAll(s, "\n", sep)
}
