package pdf

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"cryptoupi/internal/models"
)

// ReportGenerator renders the directory panel export.
type ReportGenerator struct {
	FontPath string // optional TTF for non-latin names; core Helvetica otherwise
	Title    string
	fontName string
}

func NewReportGenerator(fontPath, title string) *ReportGenerator {
	if title == "" {
		title = "User directory"
	}
	g := &ReportGenerator{FontPath: fontPath, Title: title, fontName: "Helvetica"}
	if fontPath != "" {
		g.fontName = "DejaVu"
	}
	return g
}

// DirectoryReport writes a PDF listing of entries to w.
func (g *ReportGenerator) DirectoryReport(w io.Writer, entries []*models.DirectoryEntry, generatedAt time.Time) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(g.Title, true)
	pdf.SetAuthor("cryptoupi", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	g.addFont(pdf)
	tr := g.translator(pdf)

	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(g.fontName, "", 9)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 16)
	pdf.CellFormat(0, 10, tr(g.Title), "", 1, "C", false, 0, "")
	pdf.SetFont(g.fontName, "", 10)
	pdf.CellFormat(0, 6, "Generated "+generatedAt.UTC().Format("2006-01-02 15:04 MST"), "", 1, "C", false, 0, "")
	g.hr(pdf)

	g.kvLine(pdf, "Entries", fmt.Sprintf("%d", len(entries)))
	pdf.Ln(2)

	g.tableHeader(pdf)
	for i, e := range entries {
		pdf.SetFont(g.fontName, "", 10)
		pdf.CellFormat(12, 7, fmt.Sprintf("%d", i+1), "1", 0, "R", false, 0, "")
		pdf.CellFormat(88, 7, tr(e.Name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(70, 7, e.CreatedAt.UTC().Format("2006-01-02 15:04"), "1", 1, "L", false, 0, "")
	}
	if len(entries) == 0 {
		pdf.SetFont(g.fontName, "", 10)
		pdf.CellFormat(170, 7, "No entries", "1", 1, "C", false, 0, "")
	}

	return pdf.Output(w)
}

// DirectoryReportBytes is DirectoryReport into memory.
func (g *ReportGenerator) DirectoryReportBytes(entries []*models.DirectoryEntry, generatedAt time.Time) ([]byte, error) {
	var buf bytes.Buffer
	if err := g.DirectoryReport(&buf, entries, generatedAt); err != nil {
		return nil, fmt.Errorf("render directory report: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *ReportGenerator) tableHeader(pdf *gofpdf.Fpdf) {
	pdf.SetFont(g.fontName, "B", 10)
	pdf.SetFillColor(235, 235, 235)
	pdf.CellFormat(12, 8, "#", "1", 0, "R", true, 0, "")
	pdf.CellFormat(88, 8, "Name", "1", 0, "L", true, 0, "")
	pdf.CellFormat(70, 8, "Created (UTC)", "1", 1, "L", true, 0, "")
}

func (g *ReportGenerator) kvLine(pdf *gofpdf.Fpdf, key, val string) {
	pdf.SetFont(g.fontName, "B", 11)
	pdf.CellFormat(45, 6, key+":", "", 0, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, val, "", 1, "L", false, 0, "")
}

func (g *ReportGenerator) hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(20, y, 190, y)
	pdf.SetY(y + 2)
}

func (g *ReportGenerator) addFont(pdf *gofpdf.Fpdf) {
	if g.FontPath == "" {
		return
	}
	pdf.AddUTF8Font(g.fontName, "", g.FontPath)
	pdf.AddUTF8Font(g.fontName, "B", g.FontPath)
}

// core fonts are cp1252; a UTF-8 font takes strings as they are
func (g *ReportGenerator) translator(pdf *gofpdf.Fpdf) func(string) string {
	if g.FontPath != "" {
		return func(s string) string { return s }
	}
	return pdf.UnicodeTranslatorFromDescriptor("")
}
