package report

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bayneri/lossbudget/internal/assess"
	"github.com/bayneri/lossbudget/internal/budget"
)

type Options struct {
	Explain  bool
	Timezone *time.Location
}

func WriteMarkdownSummary(path string, result assess.Result, opts Options) error {
	return os.WriteFile(path, []byte(MarkdownSummary(result, opts)), 0644)
}

func MarkdownSummary(result assess.Result, opts Options) string {
	if opts.Timezone == nil {
		opts.Timezone = time.UTC
	}
	bd := result.Breakdown
	var b strings.Builder

	fmt.Fprintf(&b, "# Fiber link loss budget\n\n")
	fmt.Fprintf(&b, "- Link: %s\n", result.Link)
	if result.Site != "" {
		fmt.Fprintf(&b, "- Site: %s\n", result.Site)
	}
	fmt.Fprintf(&b, "- Reference fiber: %s\n", bd.ReferenceFiber)
	fmt.Fprintf(&b, "- Generated: %s\n", result.GeneratedAt.In(opts.Timezone).Format(time.RFC3339))
	fmt.Fprintf(&b, "- Status: %s\n\n", result.Status)

	fmt.Fprintf(&b, "## Segments\n\n")
	fmt.Fprintf(&b, "| # | Fiber | Wavelength | Distance (km) | dB/km | Fiber loss | Splice loss | Connector loss |\n")
	fmt.Fprintf(&b, "| --- | --- | --- | --- | --- | --- | --- | --- |\n")
	for _, seg := range bd.Segments {
		fmt.Fprintf(&b, "| %d | %s | %s | %.3f | %.3f | %.2f dB | %.2f dB | %.2f dB |\n",
			seg.Index, seg.Fiber, seg.Wavelength, seg.DistanceKm, seg.AttenuationUsed,
			seg.FiberLossDb, seg.SpliceLossDb, seg.ConnectorLossDb)
	}

	fmt.Fprintf(&b, "\n## Totals\n\n")
	for _, row := range totalRows(bd) {
		fmt.Fprintf(&b, "- %s: %s\n", row[0], row[1])
	}

	fmt.Fprintf(&b, "\n## Budget verdicts\n\n")
	if len(bd.Verdicts) == 0 {
		fmt.Fprintf(&b, "No published budgets for %s.\n", bd.ReferenceFiber)
	} else {
		fmt.Fprintf(&b, "| Speed | Budget | Margin | Result |\n")
		fmt.Fprintf(&b, "| --- | --- | --- | --- |\n")
		for _, v := range bd.Verdicts {
			fmt.Fprintf(&b, "| %s | %.2f dB | %.2f dB | %s |\n", v.Speed, v.BudgetDb, v.MarginDb, verdictLabel(v))
		}
	}

	if len(result.Sweeps) > 0 {
		fmt.Fprintf(&b, "\n## Wavelength sweep\n")
		for _, sweep := range result.Sweeps {
			fmt.Fprintf(&b, "\n### Segment %d (%s)\n\n", sweep.Segment, sweep.Fiber)
			fmt.Fprintf(&b, "| Wavelength | Max loss | Typical loss |\n")
			fmt.Fprintf(&b, "| --- | --- | --- |\n")
			for _, wl := range sweep.Wavelengths {
				fmt.Fprintf(&b, "| %s | %.2f dB | %.2f dB |\n", wl.Wavelength, wl.MaxLossDb, wl.TypicalLossDb)
			}
		}
	}

	if len(result.Notes) > 0 {
		fmt.Fprintf(&b, "\n## Notes & assumptions\n")
		for _, note := range result.Notes {
			fmt.Fprintf(&b, "- %s\n", note)
		}
	}

	if opts.Explain {
		fmt.Fprintf(&b, "\n## How computed\n")
		fmt.Fprintf(&b, "\nFormula: %s\n", assess.LossFormula())
		if result.Explain != nil && len(result.Explain.Notes) > 0 {
			fmt.Fprintf(&b, "\n")
			for _, note := range result.Explain.Notes {
				fmt.Fprintf(&b, "- %s\n", note)
			}
		}
	}
	return b.String()
}

func totalRows(bd budget.Breakdown) [][2]string {
	rows := [][2]string{
		{"Total distance", fmt.Sprintf("%.3f km", bd.TotalDistanceKm)},
		{"Fiber loss", fmt.Sprintf("%.2f dB", bd.TotalFiberLossDb)},
		{"Splice loss", fmt.Sprintf("%.2f dB", bd.TotalSpliceLossDb)},
		{"Connector loss", fmt.Sprintf("%.2f dB", bd.TotalConnectorLossDb)},
		{"Safety margin", fmt.Sprintf("%.2f dB", bd.SafetyMarginDb)},
		{"Total loss", fmt.Sprintf("%.2f dB", bd.TotalLossDb)},
	}
	if bd.OverrideApplied {
		rows = append(rows, [2]string{"Loss values", "custom override"})
	}
	return rows
}

func verdictLabel(v budget.Verdict) string {
	if v.Pass {
		return "PASS"
	}
	return "FAIL"
}
