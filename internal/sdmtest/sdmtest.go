// Package sdmtest builds small synthetic instruction reference documents for
// tests. Positions and font ids follow the 2023 printing of the manual.
package sdmtest

import "github.com/tsawler/isaref/model"

// Font ids as they appear in the manual.
const (
	BodyFont        = "ABCDEF+NeoSansIntel,9.0"
	ItalicFont      = "ABCDEF+NeoSansIntel,Italic,9.0"
	PageHeadingFont = "ABCDEF+NeoSansIntelMedium,12.0"
	SectionFont     = "ABCDEF+NeoSansIntelMedium,10.0"
	ColumnFont      = "NNLNGJ+NeoSansIntelMedium,9.0"
	ChapterFont     = "ABCDEF+NeoSansIntelMedium,24.0"
)

// PageBuilder accumulates the elements of one page.
type PageBuilder struct {
	page *model.Page
}

// NewPage starts a letter-sized page.
func NewPage(number int) *PageBuilder {
	return &PageBuilder{page: &model.Page{Number: number, Width: 612, Height: 792}}
}

// Text adds an element with corners (x0, y0) and (x1, y1).
func (b *PageBuilder) Text(text, font string, x0, y0, x1, y1 float64) *PageBuilder {
	b.page.Elements = append(b.page.Elements, model.Element{
		Text: text,
		BBox: model.NewBBoxFromCorners(x0, y0, x1, y1),
		Font: font,
	})
	return b
}

// RunningHeader adds the chapter header printed at the top of every page.
func (b *PageBuilder) RunningHeader(text string) *PageBuilder {
	return b.Text(text, BodyFont, 45, 749.076, 220, 757.1)
}

// PageHeading adds an instruction page heading such as "ADD—Add".
func (b *PageBuilder) PageHeading(text string) *PageBuilder {
	return b.Text(text, PageHeadingFont, 45, 711.41, 220, 723.4)
}

// Section adds a left-aligned section heading with its top edge at top.
func (b *PageBuilder) Section(text string, top float64) *PageBuilder {
	return b.Text(text, SectionFont, 45, top-12, 45+6*float64(len(text)), top)
}

// Footer adds the page footer.
func (b *PageBuilder) Footer(text string) *PageBuilder {
	return b.Text(text, BodyFont, 480, 40, 567, 50)
}

// Page returns the built page.
func (b *PageBuilder) Page() *model.Page {
	return b.page
}

// Reference returns a six page document:
//
//	1 chapter title page (before the instruction range)
//	2-3 ADD—Add, with an operand encoding table and notes
//	4-5 NOP—No Operation, variant table continued on page 5, no encoding table
//	6 SAFER MODE EXTENSIONS chapter title page (after the range)
func Reference() *model.Document {
	return model.NewDocument(ReferencePages())
}

// ReferencePages returns the pages of Reference before indexing.
func ReferencePages() []*model.Page {
	title := NewPage(1).
		Text("CHAPTER 3\nINSTRUCTION SET REFERENCE, A-L", ChapterFont, 45, 650, 400, 740).
		Text("Decoy—Heading", PageHeadingFont, 45, 600, 200, 612).
		Footer("Vol. 2A 3-1")

	add := NewPage(2).
		RunningHeader("INSTRUCTION SET REFERENCE, A-L").
		PageHeading("ADD—Add").
		Text("\\", BodyFont, 40, 695, 43, 702).
		// variant table header
		Text("Opcode/\nInstruction", ColumnFont, 45, 668, 130, 690).
		Text("Op/\nEn", ColumnFont, 150, 668, 175, 690).
		Text("64-bit\nMode", ColumnFont, 200, 668, 240, 690).
		Text("CPUID Fea-\nture Flag", ColumnFont, 260, 668, 320, 690).
		Text("Description", ColumnFont, 340, 675, 400, 685).
		// row 1
		Text("04 ib\nADD AL, imm8", BodyFont, 45, 636, 120, 658).
		Text("I", BodyFont, 150, 646, 155, 656).
		Text("Valid", BodyFont, 200, 646, 225, 656).
		Text("None", BodyFont, 260, 646, 285, 656).
		Text("Add imm8 to AL.", BodyFont, 340, 646, 420, 656).
		// row 2, description wraps onto a line of its own
		Text("REX.W + 01 /r\nADD r/m64, r64", ItalicFont, 45, 600, 130, 622).
		Text("MR", BodyFont, 150, 610, 165, 620).
		Text("Valid", BodyFont, 200, 610, 225, 620).
		Text("None", BodyFont, 260, 610, 285, 620).
		Text("Add r64 to", BodyFont, 340, 610, 400, 620).
		Text("r/m64.", BodyFont, 340, 588, 380, 598).
		Section("Instruction Operand Encoding", 572).
		Text("Op/En", ColumnFont, 45, 540, 75, 550).
		Text("Operand 1", ColumnFont, 150, 540, 200, 550).
		Text("Operand 2", ColumnFont, 250, 540, 300, 550).
		Text("I", BodyFont, 45, 520, 50, 530).
		Text("AL/AX/EAX/RAX", BodyFont, 150, 520, 220, 530).
		Text("imm8", BodyFont, 250, 520, 275, 530).
		Text("MR", BodyFont, 45, 500, 60, 510).
		Text("ModRM:r/m (r, w)", BodyFont, 150, 500, 230, 510).
		Text("ModRM:reg (r)", BodyFont, 250, 500, 320, 510).
		Section("Description", 480).
		Text("Adds the destination operand and the source operand and then stores the result.", BodyFont, 45, 450, 560, 460).
		Footer("Vol. 2A 3-31")

	addCont := NewPage(3).
		RunningHeader("INSTRUCTION SET REFERENCE, A-L").
		Section("Operation", 712).
		Text("DEST := DEST + SRC;", BodyFont, 45, 680, 150, 690).
		Text("NOTES:", BodyFont, 45, 650, 80, 660).
		Text("* See the flags section.", BodyFont, 45, 638, 200, 648).
		Text("See Note", ColumnFont, 400, 600, 440, 610).
		Text("Figure 3-2. Carry Out", SectionFont, 45, 580, 160, 590).
		Section("Flags Affected", 560).
		Text("The OF, SF, ZF, AF, CF, and PF flags are set according to the result.", BodyFont, 45, 530, 500, 540).
		Footer("Vol. 2A 3-32")

	nop := NewPage(4).
		RunningHeader("INSTRUCTION SET REFERENCE, M-U").
		PageHeading("NOP—No Operation").
		Text("Opcode", ColumnFont, 45, 675, 80, 685).
		Text("Instruction", ColumnFont, 100, 675, 150, 685).
		Text("Op/\nEn", ColumnFont, 170, 668, 190, 690).
		Text("64-Bit\nMode", ColumnFont, 210, 668, 240, 690).
		Text("Compat/\nLeg Mode", ColumnFont, 260, 668, 300, 690).
		Text("Description", ColumnFont, 320, 675, 380, 685).
		Text("NP 90", BodyFont, 45, 640, 75, 650).
		Text("NOP", BodyFont, 100, 640, 120, 650).
		Text("ZO", BodyFont, 170, 640, 185, 650).
		Text("Valid", BodyFont, 210, 640, 235, 650).
		Text("Valid", BodyFont, 260, 640, 285, 650).
		Text("One byte no-operation instruction.", BodyFont, 320, 640, 500, 650).
		Footer("Vol. 2B 4-165")

	nopCont := NewPage(5).
		RunningHeader("INSTRUCTION SET REFERENCE, M-U").
		Text("Opcode", ColumnFont, 45, 705, 80, 715).
		Text("Instruction", ColumnFont, 100, 705, 150, 715).
		Text("Op/\nEn", ColumnFont, 170, 698, 190, 720).
		Text("64-Bit\nMode", ColumnFont, 210, 698, 240, 720).
		Text("Compat/\nLeg Mode", ColumnFont, 260, 698, 300, 720).
		Text("Description", ColumnFont, 320, 705, 380, 715).
		Text("NP 0F 1F /0", BodyFont, 45, 670, 90, 680).
		Text("NOP r/m16", BodyFont, 100, 670, 150, 680).
		Text("M", BodyFont, 170, 670, 180, 680).
		Text("Valid", BodyFont, 210, 670, 235, 680).
		Text("Valid", BodyFont, 260, 670, 285, 680).
		Text("Multi-byte no-operation instruction.", BodyFont, 320, 670, 510, 680).
		Section("Description", 640).
		Text("This instruction performs no operation.", BodyFont, 45, 610, 250, 620).
		Footer("Vol. 2B 4-166")

	exit := NewPage(6).
		Text("CHAPTER 7\nSAFER MODE EXTENSIONS REFERENCE", ChapterFont, 45, 650, 400, 740).
		Footer("Vol. 2D 7-1")

	return []*model.Page{
		title.Page(), add.Page(), addCont.Page(), nop.Page(), nopCont.Page(), exit.Page(),
	}
}
