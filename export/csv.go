package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tsawler/isaref/model"
)

// CSVHeader is the first line of the delimited output.
const CSVHeader = "Name, Opcode, CPU Flags, 64-bit Support, Operand Encoding"

// NullMarker stands in for an absent field.
const NullMarker = "None"

// CSVExporter writes one quoted, comma-space separated line per record.
type CSVExporter struct{}

// Export implements Exporter.
func (e *CSVExporter) Export(r *Report, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("create %s: %w", filename, err)
	}
	if err := WriteCSV(f, r.Records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteCSV writes the header and one line per record. Present fields are
// quoted with embedded quotes doubled; absent fields are the bare NullMarker.
func WriteCSV(w io.Writer, recs []model.InstructionRecord) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(CSVHeader)
	bw.WriteByte('\n')
	for _, rec := range recs {
		fields := []string{
			csvField(rec.Name.String, rec.Name.Valid),
			csvField(rec.Opcode.String, rec.Opcode.Valid),
			csvField(rec.CPUID.String, rec.CPUID.Valid),
			csvField(rec.Support64Bit.String, rec.Support64Bit.Valid),
			csvField(rec.OperandEncoding.String, rec.OperandEncoding.Valid),
		}
		bw.WriteString(strings.Join(fields, ", "))
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

func csvField(s string, valid bool) string {
	if !valid {
		return NullMarker
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
