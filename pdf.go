package main

import (
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfPageWidth  = 210 // A4 width in mm
	pdfMargin     = 10
	pdfLineHeight = 6
	pdfFontSize   = 9
)

// writeResultsPDF renders a walk's results as a PDF report: a summary block
// followed by one row per file.
func writeResultsPDF(results []FileResult, model, outputPath string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.AddPage()

	usable := float64(pdfPageWidth - 2*pdfMargin)

	pdf.SetFont("Helvetica", "B", pdfFontSize+3)
	pdf.MultiCell(usable, pdfLineHeight, fmt.Sprintf("Token Count Report (%s)", model), "", "L", false)
	pdf.Ln(pdfLineHeight / 2)

	pdf.SetFont("Helvetica", "", pdfFontSize)
	pdf.MultiCell(usable, pdfLineHeight, renderSummary(results, model), "", "L", false)
	pdf.Ln(pdfLineHeight)

	// Column layout: path takes whatever the numeric columns leave over.
	numW := 25.0
	pathW := usable - 2*numW

	pdf.SetFont("Helvetica", "B", pdfFontSize)
	pdf.CellFormat(pathW, pdfLineHeight, "File", "B", 0, "L", false, 0, "")
	pdf.CellFormat(numW, pdfLineHeight, "Tokens", "B", 0, "R", false, 0, "")
	pdf.CellFormat(numW, pdfLineHeight, "Characters", "B", 1, "R", false, 0, "")

	for _, r := range results {
		if !r.OK() {
			pdf.SetFont("Courier", "", pdfFontSize-1)
			pdf.SetTextColor(200, 0, 0)
			pdf.MultiCell(usable, pdfLineHeight, fmt.Sprintf("%s: %s", r.File, r.Err), "", "L", false)
			pdf.SetTextColor(0, 0, 0)
			continue
		}
		pdf.SetFont("Courier", "", pdfFontSize-1)
		pdf.CellFormat(pathW, pdfLineHeight, r.File, "", 0, "L", false, 0, "")
		pdf.CellFormat(numW, pdfLineHeight, strconv.Itoa(r.Tokens), "", 0, "R", false, 0, "")
		pdf.CellFormat(numW, pdfLineHeight, strconv.Itoa(r.Characters), "", 1, "R", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(outputPath); err != nil {
		return fmt.Errorf("failed to save PDF to %s: %w", outputPath, err)
	}
	return nil
}
