package report

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/bayneri/lossbudget/internal/assess"
	"github.com/jung-kurt/gofpdf"
)

// PDF renders the result as a single A4 report.
func PDF(result assess.Result, opts Options) ([]byte, error) {
	if opts.Timezone == nil {
		opts.Timezone = time.UTC
	}
	bd := result.Breakdown
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 12, "Fiber Link Loss Budget", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(90, 90, 90)
	pdf.CellFormat(0, 6, fmt.Sprintf("Link: %s", result.Link), "", 1, "L", false, 0, "")
	if result.Site != "" {
		pdf.CellFormat(0, 6, fmt.Sprintf("Site: %s", result.Site), "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(0, 6, fmt.Sprintf("Reference fiber: %s", bd.ReferenceFiber), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated: %s", result.GeneratedAt.In(opts.Timezone).Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	section(pdf, "Segments")
	widths := []float64{10, 18, 26, 24, 20, 28, 28, 30}
	tableRow(pdf, widths, true, "#", "Fiber", "Wavelength", "km", "dB/km", "Fiber dB", "Splice dB", "Connector dB")
	for _, seg := range bd.Segments {
		tableRow(pdf, widths, false,
			fmt.Sprintf("%d", seg.Index), string(seg.Fiber), string(seg.Wavelength),
			fmt.Sprintf("%.3f", seg.DistanceKm), fmt.Sprintf("%.3f", seg.AttenuationUsed),
			fmt.Sprintf("%.2f", seg.FiberLossDb), fmt.Sprintf("%.2f", seg.SpliceLossDb), fmt.Sprintf("%.2f", seg.ConnectorLossDb))
	}
	pdf.Ln(4)

	section(pdf, "Totals")
	pdf.SetFont("Arial", "", 10)
	for _, row := range totalRows(bd) {
		pdf.CellFormat(50, 6, row[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, row[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	section(pdf, "Budget verdicts")
	if len(bd.Verdicts) == 0 {
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 6, fmt.Sprintf("No published budgets for %s", bd.ReferenceFiber), "", 1, "L", false, 0, "")
	}
	for _, v := range bd.Verdicts {
		if v.Pass {
			pdf.SetFillColor(212, 237, 218)
		} else {
			pdf.SetFillColor(248, 215, 218)
		}
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(30, 7, string(v.Speed), "1", 0, "L", true, 0, "")
		pdf.CellFormat(40, 7, fmt.Sprintf("%.2f dB budget", v.BudgetDb), "1", 0, "L", true, 0, "")
		pdf.CellFormat(40, 7, fmt.Sprintf("%.2f dB margin", v.MarginDb), "1", 0, "L", true, 0, "")
		pdf.CellFormat(20, 7, verdictLabel(v), "1", 1, "C", true, 0, "")
	}

	for _, sweep := range result.Sweeps {
		pdf.Ln(4)
		section(pdf, fmt.Sprintf("Segment %d wavelength sweep (%s)", sweep.Segment, sweep.Fiber))
		sw := []float64{40, 40, 40}
		tableRow(pdf, sw, true, "Wavelength", "Max dB", "Typical dB")
		for _, wl := range sweep.Wavelengths {
			tableRow(pdf, sw, false, string(wl.Wavelength), fmt.Sprintf("%.2f", wl.MaxLossDb), fmt.Sprintf("%.2f", wl.TypicalLossDb))
		}
	}

	if len(result.Notes) > 0 {
		pdf.Ln(4)
		section(pdf, "Notes")
		pdf.SetFont("Arial", "", 9)
		for _, note := range result.Notes {
			pdf.MultiCell(0, 5, "- "+note, "", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func WritePDF(path string, result assess.Result, opts Options) error {
	data, err := PDF(result, opts)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func section(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
	pdf.SetTextColor(40, 40, 40)
}

func tableRow(pdf *gofpdf.Fpdf, widths []float64, header bool, cells ...string) {
	style := ""
	if header {
		style = "B"
		pdf.SetFillColor(230, 236, 245)
	}
	pdf.SetFont("Arial", style, 9)
	for i, cell := range cells {
		ln := 0
		if i == len(cells)-1 {
			ln = 1
		}
		pdf.CellFormat(widths[i], 6, cell, "1", ln, "L", header, 0, "")
	}
}
