package export

import (
	"fmt"
	"io"
	"os"
	"strings"

	"codeberg.org/go-pdf/fpdf"
)

// reportColumns are the record columns with their share of the page width.
var reportColumns = []struct {
	title string
	share float64
}{
	{"Name", 0.22},
	{"Opcode", 0.16},
	{"CPU Flags", 0.14},
	{"64-bit", 0.08},
	{"Operand Encoding", 0.40},
}

const (
	reportFont     = "Helvetica"
	reportFontSize = 8
	reportLineHt   = 4
)

// PDFExporter writes a landscape table of the records followed by the
// diagnostics.
type PDFExporter struct{}

// Export implements Exporter.
func (e *PDFExporter) Export(r *Report, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("create %s: %w", filename, err)
	}
	if err := WritePDF(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WritePDF renders the report as an A4 landscape PDF.
func WritePDF(w io.Writer, r *Report) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Instruction records", true)
	pdf.SetMargins(10, 12, 10)
	pdf.SetAutoPageBreak(false, 12)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, pageH := pdf.GetPageSize()
	left, _, right, bottom := pdf.GetMargins()
	usable := pageW - left - right
	widths := make([]float64, len(reportColumns))
	for i, c := range reportColumns {
		widths[i] = usable * c.share
	}

	pdf.SetFooterFunc(func() {
		pdf.SetY(-10)
		pdf.SetFont(reportFont, "I", 7)
		pdf.CellFormat(0, 5, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	header := func() {
		pdf.SetFont(reportFont, "B", reportFontSize)
		pdf.SetFillColor(220, 225, 235)
		for i, c := range reportColumns {
			pdf.CellFormat(widths[i], reportLineHt+2, c.title, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont(reportFont, "", reportFontSize)
	}

	pdf.AddPage()
	pdf.SetFont(reportFont, "B", 12)
	title := "Instruction records"
	if r.Source != "" {
		title += ": " + r.Source
	}
	pdf.CellFormat(0, 8, tr(title), "", 1, "L", false, 0, "")
	pdf.SetFont(reportFont, "", 9)
	pdf.CellFormat(0, 6, fmt.Sprintf("%d records, %d diagnostics", len(r.Records), len(r.Diagnostics)), "", 1, "L", false, 0, "")
	pdf.Ln(2)
	header()

	for _, rec := range r.Records {
		cells := []string{
			reportField(rec.Name.String, rec.Name.Valid),
			reportField(rec.Opcode.String, rec.Opcode.Valid),
			reportField(rec.CPUID.String, rec.CPUID.Valid),
			reportField(rec.Support64Bit.String, rec.Support64Bit.Valid),
			reportField(strings.ReplaceAll(rec.OperandEncoding.String, ";", "; "), rec.OperandEncoding.Valid),
		}
		lines := make([][]string, len(cells))
		rowLines := 1
		for i, c := range cells {
			for _, l := range pdf.SplitLines([]byte(tr(c)), widths[i]-2) {
				lines[i] = append(lines[i], string(l))
			}
			if len(lines[i]) > rowLines {
				rowLines = len(lines[i])
			}
		}
		rowH := float64(rowLines) * reportLineHt

		if pdf.GetY()+rowH > pageH-bottom {
			pdf.AddPage()
			header()
		}
		x, y := pdf.GetXY()
		for i := range cells {
			pdf.Rect(x, y, widths[i], rowH, "D")
			pdf.SetXY(x, y)
			pdf.MultiCell(widths[i], reportLineHt, strings.Join(lines[i], "\n"), "", "L", false)
			x += widths[i]
		}
		pdf.SetXY(left, y+rowH)
	}

	if len(r.Diagnostics) > 0 {
		pdf.AddPage()
		pdf.SetFont(reportFont, "B", 11)
		pdf.CellFormat(0, 8, "Diagnostics", "", 1, "L", false, 0, "")
		pdf.SetFont(reportFont, "", reportFontSize)
		for _, d := range r.Diagnostics {
			if pdf.GetY()+reportLineHt > pageH-bottom {
				pdf.AddPage()
			}
			pdf.MultiCell(usable, reportLineHt, tr(d.String()), "", "L", false)
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func reportField(s string, valid bool) string {
	if !valid {
		return NullMarker
	}
	return strings.ReplaceAll(s, "\n", " ")
}
