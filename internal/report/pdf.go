package report

import (
	"bufio"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// PDF writes the text report to outPath as a simple PDF. URL lines become
// clickable links; rules become horizontal lines.
func PDF(outPath string, rep Report) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.AddPage()
	// core fonts are cp1252; map UTF-8 text so accents survive
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	scanner := bufio.NewScanner(strings.NewReader(String(rep)))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case first:
			pdf.SetFont("Helvetica", "B", 13)
			pdf.MultiCell(0, 7, tr(line), "", "L", false)
			pdf.SetFont("Helvetica", "", 10)
			first = false
		case line == rule || line == divider:
			y := pdf.GetY() + 1
			left, _, right, _ := pdf.GetMargins()
			w, _ := pdf.GetPageSize()
			pdf.Line(left, y, w-right, y)
			pdf.Ln(3)
		case strings.TrimSpace(line) == "":
			pdf.Ln(3)
		case strings.HasPrefix(line, "URL: "):
			pdf.Write(5, "URL: ")
			link := strings.TrimPrefix(line, "URL: ")
			pdf.WriteLinkString(5, tr(link), link)
			pdf.Ln(5)
		case strings.HasPrefix(line, "[") && strings.Contains(line, "] "):
			pdf.SetFont("Helvetica", "B", 11)
			pdf.MultiCell(0, 6, tr(line), "", "L", false)
			pdf.SetFont("Helvetica", "", 10)
		default:
			pdf.MultiCell(0, 5, tr(line), "", "L", false)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return pdf.OutputFileAndClose(outPath)
}
