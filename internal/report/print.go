package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/bayneri/lossbudget/internal/assess"
	"github.com/bayneri/lossbudget/internal/budget"
	"github.com/bayneri/lossbudget/internal/standards"
)

// Render prints a result for a terminal.
func Render(w io.Writer, result assess.Result) {
	bd := result.Breakdown
	fmt.Fprintf(w, "Link: %s\n", result.Link)
	if result.Site != "" {
		fmt.Fprintf(w, "Site: %s\n", result.Site)
	}
	fmt.Fprintf(w, "Reference fiber: %s\n", bd.ReferenceFiber)
	fmt.Fprintln(w, "")

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "SEG\tFIBER\tWAVELENGTH\tKM\tFIBER dB\tSPLICE dB\tCONNECTOR dB")
	for _, seg := range bd.Segments {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.3f\t%.2f\t%.2f\t%.2f\n",
			seg.Index, seg.Fiber, seg.Wavelength, seg.DistanceKm, seg.FiberLossDb, seg.SpliceLossDb, seg.ConnectorLossDb)
	}
	tw.Flush()

	fmt.Fprintln(w, "")
	for _, row := range totalRows(bd) {
		fmt.Fprintf(w, "%s: %s\n", row[0], row[1])
	}

	fmt.Fprintln(w, "")
	if len(bd.Verdicts) == 0 {
		fmt.Fprintf(w, "No published budgets for %s\n", bd.ReferenceFiber)
	} else {
		renderVerdicts(w, bd.Verdicts)
	}

	for _, sweep := range result.Sweeps {
		fmt.Fprintln(w, "")
		fmt.Fprintf(w, "Segment %d sweep (%s):\n", sweep.Segment, sweep.Fiber)
		RenderSweep(w, sweep.Wavelengths)
	}

	if len(result.Notes) > 0 {
		fmt.Fprintln(w, "")
		fmt.Fprintln(w, "Notes:")
		for _, note := range result.Notes {
			fmt.Fprintf(w, "- %s\n", note)
		}
	}
}

func renderVerdicts(w io.Writer, verdicts []budget.Verdict) {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "SPEED\tBUDGET dB\tMARGIN dB\tRESULT")
	for _, v := range verdicts {
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%s\n", v.Speed, v.BudgetDb, v.MarginDb, verdictLabel(v))
	}
	tw.Flush()
}

func RenderSweep(w io.Writer, losses []budget.WavelengthLoss) {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "WAVELENGTH\tMAX dB\tTYPICAL dB")
	for _, wl := range losses {
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\n", wl.Wavelength, wl.MaxLossDb, wl.TypicalLossDb)
	}
	tw.Flush()
}

// RenderFibers lists the reference table.
func RenderFibers(w io.Writer, table standards.Table) {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "FIBER\tNAME\tMAX m\tWAVELENGTHS\tBUDGETS")
	for _, id := range table.FiberTypes() {
		p := table[id]
		var wls, budgets string
		for i, wl := range p.WavelengthList() {
			if i > 0 {
				wls += ","
			}
			wls += string(wl)
		}
		for i, b := range p.BudgetList() {
			if i > 0 {
				budgets += " "
			}
			budgets += fmt.Sprintf("%s=%g", b.Speed, b.Db)
		}
		fmt.Fprintf(tw, "%s\t%s\t%g\t%s\t%s\n", id, p.Name, p.MaxDistanceMeters, wls, budgets)
	}
	tw.Flush()
}

// RenderProfile prints one fiber type in detail.
func RenderProfile(w io.Writer, id standards.FiberType, p standards.Profile) {
	fmt.Fprintf(w, "%s: %s\n", id, p.Name)
	fmt.Fprintf(w, "Max distance: %g m\n", p.MaxDistanceMeters)
	fmt.Fprintf(w, "Splice loss: %.2f dB max, %.2f dB typical\n", p.SpliceLoss.MaxDb, p.SpliceLoss.TypicalDb)
	fmt.Fprintf(w, "Connector loss: %.2f dB max, %.2f dB typical\n", p.ConnectorLoss.MaxDb, p.ConnectorLoss.TypicalDb)
	fmt.Fprintln(w, "")
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "WAVELENGTH\tMAX dB/km\tTYPICAL dB/km")
	for _, wl := range p.WavelengthList() {
		att := p.Wavelengths[wl]
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\n", wl, att.MaxDbPerKm, att.TypicalDbPerKm)
	}
	tw.Flush()
	fmt.Fprintln(w, "")
	tw = tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "SPEED\tBUDGET dB")
	for _, b := range p.BudgetList() {
		fmt.Fprintf(tw, "%s\t%.2f\n", b.Speed, b.Db)
	}
	tw.Flush()
}
