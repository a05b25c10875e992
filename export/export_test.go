package export

import (
	"bytes"
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/tsawler/isaref/model"
	"github.com/tsawler/isaref/records"
)

func sampleReport() *Report {
	return &Report{
		Source: "sdm.pdf",
		Records: []model.InstructionRecord{
			{
				Name:         model.Text("ADD r/m8, r8"),
				Opcode:       model.Text("00 /r"),
				CPUID:        model.Text("None"),
				Support64Bit: model.Text("V"),
			},
			{
				Name:            model.Text(`MOV "quoted"`),
				Opcode:          model.Text("REX.W + 89 /r"),
				Support64Bit:    model.Text("Valid"),
				OperandEncoding: model.Text("Op/En: MR;Operand 1: ModRM:r/m (w);Operand 2: ModRM:reg (r);"),
			},
		},
		Diagnostics: []records.Diagnostic{
			{Code: records.CodeUnrecognizedKey, Entry: "ADD—Add", Key: "Foo Bar", Value: "x"},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleReport().Records); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	want := strings.Join([]string{
		"Name, Opcode, CPU Flags, 64-bit Support, Operand Encoding",
		`"ADD r/m8, r8", "00 /r", "None", "V", None`,
		`"MOV ""quoted""", "REX.W + 89 /r", None, "Valid", "Op/En: MR;Operand 1: ModRM:r/m (w);Operand 2: ModRM:reg (r);"`,
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Errorf("WriteCSV() =\n%s\nwant\n%s", got, want)
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if got := buf.String(); got != CSVHeader+"\n" {
		t.Errorf("WriteCSV(nil) = %q", got)
	}
}

func TestSQLiteRoundTrip(t *testing.T) {
	db, err := OpenDB(":memory:")
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	r := sampleReport()
	if err := WriteSQLite(ctx, db, r.Records, r.Diagnostics); err != nil {
		t.Fatalf("WriteSQLite: %v", err)
	}
	// A second write replaces the first.
	if err := WriteSQLite(ctx, db, r.Records, r.Diagnostics); err != nil {
		t.Fatalf("WriteSQLite again: %v", err)
	}

	got, err := ReadSQLite(ctx, db)
	if err != nil {
		t.Fatalf("ReadSQLite: %v", err)
	}
	if len(got) != len(r.Records) {
		t.Fatalf("got %d records, want %d", len(got), len(r.Records))
	}
	for i := range got {
		if got[i] != r.Records[i] {
			t.Errorf("record %d = %+v, want %+v", i, got[i], r.Records[i])
		}
	}

	var nulls int
	if err := db.QueryRow(`SELECT COUNT(*) FROM instructions WHERE operand_encoding IS NULL`).Scan(&nulls); err != nil {
		t.Fatal(err)
	}
	if nulls != 1 {
		t.Errorf("NULL operand encodings = %d, want 1", nulls)
	}

	var code, key string
	if err := db.QueryRow(`SELECT code, header_key FROM diagnostics`).Scan(&code, &key); err != nil {
		t.Fatal(err)
	}
	if code != "unrecognized-key" || key != "Foo Bar" {
		t.Errorf("diagnostic = %q %q", code, key)
	}
}

func TestWritePDF(t *testing.T) {
	r := sampleReport()
	// enough rows to need a second page
	for i := 0; i < 60; i++ {
		r.Records = append(r.Records, r.Records[1])
	}

	var buf bytes.Buffer
	if err := WritePDF(&buf, r); err != nil {
		t.Fatalf("WritePDF: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatal("output is not a PDF")
	}

	n, err := api.PageCount(bytes.NewReader(buf.Bytes()), nil)
	if err != nil {
		t.Fatalf("PageCount: %v", err)
	}
	// records span at least two pages, plus one diagnostics page
	if n < 3 {
		t.Errorf("PageCount = %d, want at least 3", n)
	}
}

func TestReportExport(t *testing.T) {
	dir := t.TempDir()
	r := sampleReport()

	for _, name := range []string{"out.csv", "out.db", "out.pdf"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := r.Export(path); err != nil {
				t.Fatalf("Export: %v", err)
			}
			info, err := os.Stat(path)
			if err != nil || info.Size() == 0 {
				t.Errorf("missing output: %v", err)
			}
		})
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, "out.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	got, err := ReadSQLite(context.Background(), db)
	if err != nil || len(got) != 2 {
		t.Errorf("ReadSQLite = %d records, %v", len(got), err)
	}

	if err := r.Export(filepath.Join(dir, "out.xlsx")); err == nil {
		t.Error("expected error for unsupported extension")
	}
}
