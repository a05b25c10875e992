package records

import (
	"reflect"
	"testing"

	"github.com/tsawler/isaref/model"
)

func TestClassifyIsTotal(t *testing.T) {
	tests := []struct {
		key    string
		kind   Kind
		action Action
	}{
		{"Instruction", KindInstruction, ActionAssign},
		{"Opcode/Instruction", KindOpcodeInstruction, ActionAssign},
		{"64/32-bit Mode Support", Kind6432BitModeSupport, ActionAssign},
		{"Op/En", KindOperandEncoding, ActionAssign},
		{"Description", KindDescription, ActionIgnore},
		{"Compat/Leg Mode", KindCompatLegMode, ActionIgnore},
		{"Foo Bar", KindUnrecognized, ActionUnrecognized},
		{"", KindUnrecognized, ActionUnrecognized},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			k := Classify(tt.key)
			if k != tt.kind {
				t.Errorf("Classify(%q) = %v, want %v", tt.key, k, tt.kind)
			}
			if k.Action() != tt.action {
				t.Errorf("Action() = %v, want %v", k.Action(), tt.action)
			}
		})
	}
}

func TestKindStringRoundTrip(t *testing.T) {
	for key, kind := range kindKeys {
		if kind.String() != key {
			t.Errorf("%v.String() = %q, want %q", kind, kind.String(), key)
		}
	}
}

func entry(name string, header []string, rows ...[]string) model.InstructionEntry {
	e := model.InstructionEntry{Name: name}
	for _, row := range rows {
		e.Variants = append(e.Variants, model.NewVariant(header, row))
	}
	return e
}

func TestMapEntry_AddExample(t *testing.T) {
	e := entry("ADD—Add",
		[]string{"Opcode/Instruction", "64-bit Mode", "CPUID Feature Flag"},
		[]string{"00 /r\nADD r/m8, r8", "V/V", "None"},
	)

	recs, diags := MapEntry(e)

	if len(diags) != 0 {
		t.Errorf("unexpected diagnostics: %v", diags)
	}
	want := []model.InstructionRecord{{
		Name:         model.Text("ADD r/m8, r8"),
		Opcode:       model.Text("00 /r"),
		Support64Bit: model.Text("V"),
		CPUID:        model.Text("None"),
	}}
	if !reflect.DeepEqual(recs, want) {
		t.Errorf("records = %+v, want %+v", recs, want)
	}
	if recs[0].OperandEncoding.Valid {
		t.Error("operand encoding should be unset")
	}
}

func TestMapEntry_OpcodeInstructionSplits(t *testing.T) {
	tests := []struct {
		name       string
		value      string
		wantOpcode string
		wantName   model.InstructionRecord
	}{
		{"one break", "00 /r\nADD r/m8, r8", "00 /r", model.InstructionRecord{Name: model.Text("ADD r/m8, r8")}},
		{"two breaks", "REX.W + 01 /r\nADD r/m64,\nr64", "REX.W + 01 /r", model.InstructionRecord{Name: model.Text("ADD r/m64, r64")}},
		{"no break", "0F 0B", "0F 0B", model.InstructionRecord{Name: model.Text("")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs, _ := MapEntry(entry("X", []string{"Opcode/Instruction"}, []string{tt.value}))
			if recs[0].Opcode.String != tt.wantOpcode {
				t.Errorf("opcode = %q, want %q", recs[0].Opcode.String, tt.wantOpcode)
			}
			if recs[0].Name != tt.wantName.Name {
				t.Errorf("name = %+v, want %+v", recs[0].Name, tt.wantName.Name)
			}
		})
	}
}

func TestMapEntry_SupportColumns(t *testing.T) {
	tests := []struct {
		key   string
		value string
		want  string
	}{
		{"64-bit Mode", "Valid", "Valid"},
		{"64/32-bit Mode", "V/V", "V"},
		{"64/32-bit Mode Support", "V/N.E.", "V"},
		{"64/32-bit Mode Support", "V", "V"},
	}

	for _, tt := range tests {
		t.Run(tt.key+" "+tt.value, func(t *testing.T) {
			recs, _ := MapEntry(entry("X", []string{tt.key}, []string{tt.value}))
			if got := recs[0].Support64Bit.String; got != tt.want {
				t.Errorf("support64bit = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMapEntry_CPUIDAndInstruction(t *testing.T) {
	e := entry("X",
		[]string{"Opcode", "Instruction", "CPUID", "Description"},
		[]string{"VEX.128.66.0F38.W0\n13 /r", "VCVTPH2PS xmm1,\nxmm2/m64", "F16C\nAVX", "Convert."},
	)

	recs, diags := MapEntry(e)

	if len(diags) != 0 {
		t.Errorf("unexpected diagnostics: %v", diags)
	}
	r := recs[0]
	if r.Opcode.String != "VEX.128.66.0F38.W0 13 /r" {
		t.Errorf("opcode = %q", r.Opcode.String)
	}
	if r.Name.String != "VCVTPH2PS xmm1, xmm2/m64" {
		t.Errorf("name = %q", r.Name.String)
	}
	if r.CPUID.String != "F16C;AVX" {
		t.Errorf("cpuid = %q", r.CPUID.String)
	}
}

func TestMapEntry_OperandEncoding(t *testing.T) {
	e := entry("ADD—Add", []string{"Op/En"}, []string{"RM"})
	e.EncodingTable = &model.Table{Rows: [][]string{
		{"Op/En", "Operand 1", "Operand 2"},
		{"MR", "ModRM:r/m (r, w)", "ModRM:reg (r)"},
		{"RM", "superseded", "superseded"},
		{"RM", "r/m", "r"},
	}}

	recs, diags := MapEntry(e)

	if len(diags) != 0 {
		t.Errorf("unexpected diagnostics: %v", diags)
	}
	want := "Op/En: RM;Operand 1: r/m;Operand 2: r;"
	if got := recs[0].OperandEncoding.String; got != want {
		t.Errorf("operand encoding = %q, want %q", got, want)
	}
}

func TestMapEntry_OperandEncodingLineBreaks(t *testing.T) {
	table := &model.Table{Rows: [][]string{
		{"Op/En", "Operand\n1"},
		{"A", "ModRM:reg\n(w)"},
	}}

	got, ok := OperandEncoding(table, "A")
	if !ok || got != "Op/En: A;Operand 1: ModRM:reg (w);" {
		t.Errorf("OperandEncoding() = %q, %v", got, ok)
	}
}

func TestMapEntry_OperandEncodingDiagnostics(t *testing.T) {
	noTable := entry("NOP", []string{"Op/En"}, []string{"ZO"})
	_, diags := MapEntry(noTable)
	if len(diags) != 1 || diags[0].Code != CodeNoEncodingTable {
		t.Errorf("expected no-encoding-table diagnostic, got %v", diags)
	}

	noMatch := noTable
	noMatch.EncodingTable = &model.Table{Rows: [][]string{{"Op/En", "Operand 1"}, {"RM", "r"}}}
	recs, diags := MapEntry(noMatch)
	if len(diags) != 1 || diags[0].Code != CodeNoEncodingMatch {
		t.Errorf("expected no-encoding-match diagnostic, got %v", diags)
	}
	if recs[0].OperandEncoding.Valid {
		t.Error("operand encoding should be unset")
	}
}

func TestMapEntry_UnknownKey(t *testing.T) {
	e := entry("X", []string{"Opcode", "Foo Bar"}, []string{"90", "y"})

	recs, diags := MapEntry(e)

	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	if len(diags) != 1 || diags[0].Code != CodeUnrecognizedKey || diags[0].Key != "Foo Bar" {
		t.Errorf("diagnostics = %v", diags)
	}
	want := model.InstructionRecord{Opcode: model.Text("90")}
	if recs[0] != want {
		t.Errorf("record = %+v, want %+v", recs[0], want)
	}
}

func TestMap_PreservesOrder(t *testing.T) {
	entries := []model.InstructionEntry{
		entry("A", []string{"Opcode"}, []string{"01"}, []string{"02"}),
		entry("B", []string{"Opcode"}, []string{"03"}),
	}

	recs, _ := Map(entries)

	var got []string
	for _, r := range recs {
		got = append(got, r.Opcode.String)
	}
	if !reflect.DeepEqual(got, []string{"01", "02", "03"}) {
		t.Errorf("opcodes = %v", got)
	}
}

func TestUnrecognizedKeys(t *testing.T) {
	diags := []Diagnostic{
		{Code: CodeUnrecognizedKey, Entry: "A", Key: "Support"},
		{Code: CodeUnrecognizedKey, Entry: "A", Key: "Support"},
		{Code: CodeUnrecognizedKey, Entry: "B", Key: "Support"},
		{Code: CodeNoEncodingMatch, Entry: "C", Key: "Op/En"},
		{Code: CodeUnrecognizedKey, Entry: "C", Key: "32/64"},
	}

	got := UnrecognizedKeys(diags)

	want := []KeyReport{
		{Key: "32/64", Entries: []string{"C"}},
		{Key: "Support", Entries: []string{"A", "B"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("UnrecognizedKeys() = %+v, want %+v", got, want)
	}
}
