package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// PDFReporter renders a document as a paginated PDF.
type PDFReporter struct {
	writer io.Writer
}

func NewPDFReporter(writer io.Writer) *PDFReporter {
	return &PDFReporter{writer: writer}
}

func (r *PDFReporter) Handle(doc *Document) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	// Pin the embedded creation date so identical inputs render
	// byte-identical artifacts.
	pdf.SetCreationDate(doc.GeneratedAt)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	severityColor := map[string][3]int{
		"pass":    {26, 127, 55},
		"fail":    {198, 40, 40},
		"warning": {230, 81, 0},
		"info":    {21, 101, 192},
		"manual":  {97, 97, 97},
	}

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(20, 20, 20)
	pdf.MultiCell(190, 9, tr(doc.Title), "", "L", false)
	pdf.Ln(2)

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(100, 100, 100)
	pdf.MultiCell(190, 5, tr(fmt.Sprintf("Generated: %s", doc.GeneratedAt.Format("2006-01-02 15:04:05 MST"))), "", "L", false)
	pdf.MultiCell(190, 5, tr(fmt.Sprintf("Scope: %s", doc.ScopeText)), "", "L", false)
	pdf.Ln(4)

	for _, section := range doc.Sections {
		pdf.SetFont("Arial", "B", 13)
		pdf.SetTextColor(20, 20, 20)
		pdf.MultiCell(190, 7, tr(section.Title), "", "L", false)

		pdf.SetDrawColor(200, 200, 200)
		pdf.Line(pdf.GetX(), pdf.GetY(), pdf.GetX()+190, pdf.GetY())
		pdf.Ln(2)

		if section.Description != "" {
			pdf.SetFont("Arial", "I", 9)
			pdf.SetTextColor(90, 90, 90)
			pdf.MultiCell(190, 5, tr(section.Description), "", "L", false)
			pdf.Ln(1)
		}

		for _, check := range section.Checks {
			color := severityColor[check.Severity.CSSClass()]
			pdf.SetFont("Arial", "B", 10)
			pdf.SetTextColor(color[0], color[1], color[2])
			pdf.MultiCell(190, 5, tr(fmt.Sprintf("[%s] %s", strings.ToUpper(string(check.Severity)), check.Title)), "", "L", false)

			pdf.SetFont("Arial", "", 9)
			pdf.SetTextColor(50, 50, 50)
			pdf.MultiCell(185, 4.5, tr(check.Narrative), "", "L", false)
			if check.Remediation != "" {
				pdf.SetTextColor(90, 90, 90)
				pdf.MultiCell(185, 4.5, tr("Remediation: "+check.Remediation), "", "L", false)
			}
			pdf.Ln(2)
		}
		pdf.Ln(4)
	}

	if doc.Summary != nil {
		pdf.SetFont("Arial", "B", 13)
		pdf.SetTextColor(20, 20, 20)
		pdf.MultiCell(190, 7, "Summary", "", "L", false)

		pdf.SetFont("Arial", "", 10)
		pdf.SetTextColor(50, 50, 50)
		c := doc.Summary.Counters
		lines := []string{
			fmt.Sprintf("Total checks: %d", c.Total),
			fmt.Sprintf("Passed: %d", c.Passed),
			fmt.Sprintf("Failed: %d", c.Failed),
			fmt.Sprintf("Warnings: %d", c.Warned),
			fmt.Sprintf("Success rate: %d%%", doc.Summary.SuccessPercent),
		}
		for _, line := range lines {
			pdf.MultiCell(190, 5, tr(line), "", "L", false)
		}
	}

	if err := pdf.Output(r.writer); err != nil {
		return fmt.Errorf("failed to render PDF: %w", err)
	}
	return nil
}
