package model

import "database/sql"

// InstructionEntry is everything extracted for one instruction reference
// entry: its variants and, when the entry has one, the operand encoding table.
type InstructionEntry struct {
	Name          string
	Variants      []Variant
	EncodingTable *Table // nil when the entry has no encoding section
}

// Field is one key/value pair of a Variant.
type Field struct {
	Key   string
	Value string
}

// Variant is one row of an entry's variant table, keyed by column header.
// Keys are unique; insertion order is preserved.
type Variant struct {
	fields []Field
}

// NewVariant zips a header row with a data row. Surplus cells on either side
// are ignored.
func NewVariant(header, values []string) Variant {
	var v Variant
	for i := 0; i < len(header) && i < len(values); i++ {
		v.Set(header[i], values[i])
	}
	return v
}

// Set assigns value to key. An existing key keeps its position and takes the
// new value.
func (v *Variant) Set(key, value string) {
	for i := range v.fields {
		if v.fields[i].Key == key {
			v.fields[i].Value = value
			return
		}
	}
	v.fields = append(v.fields, Field{Key: key, Value: value})
}

// Get returns the value stored under key.
func (v Variant) Get(key string) (string, bool) {
	for _, f := range v.fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// Fields returns the key/value pairs in insertion order.
func (v Variant) Fields() []Field {
	out := make([]Field, len(v.fields))
	copy(out, v.fields)
	return out
}

// Keys returns the keys in insertion order.
func (v Variant) Keys() []string {
	out := make([]string, len(v.fields))
	for i, f := range v.fields {
		out[i] = f.Key
	}
	return out
}

// Len returns the number of fields.
func (v Variant) Len() int {
	return len(v.fields)
}

// InstructionRecord is the flat output record for one instruction variant.
// Every field is optional; an unset field has Valid == false.
type InstructionRecord struct {
	Name            sql.NullString
	Opcode          sql.NullString
	CPUID           sql.NullString
	Support64Bit    sql.NullString
	OperandEncoding sql.NullString
}

// Text returns a set optional string.
func Text(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}
