package assess

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/bayneri/lossbudget/internal/budget"
	"github.com/bayneri/lossbudget/internal/link"
	"github.com/bayneri/lossbudget/internal/standards"
	"github.com/google/uuid"
)

type Options struct {
	// Reference overrides the document's reference fiber.
	Reference string
	Labels    map[string]string
	Sweep     bool
	Explain   bool
	OutDir    string
	Now       func() time.Time
}

var newID = uuid.NewString

// Run validates the document, computes its loss budget and wraps the
// breakdown with identity and notes. The returned directory is where reports
// for this run belong.
func Run(calc *budget.Calculator, doc link.Document, opts Options) (Result, string, error) {
	if opts.Reference != "" {
		doc.Reference = opts.Reference
	}
	if err := doc.Validate(calc.Table()); err != nil {
		return Result{}, "", err
	}
	req, err := doc.Request()
	if err != nil {
		return Result{}, "", err
	}
	breakdown, err := calc.ComputeLossBudget(req)
	if err != nil {
		return Result{}, "", err
	}

	now := time.Now().UTC()
	if opts.Now != nil {
		now = opts.Now()
	}
	outDir := opts.OutDir
	if outDir == "" {
		stamp := now.Format("20060102-150405")
		outDir = filepath.Join("out", "lossbudget", fmt.Sprintf("%s-%s", stamp, sanitizeName(doc.Metadata.Name)))
	}

	result := Result{
		SchemaVersion: SchemaVersion,
		ID:            newID(),
		GeneratedAt:   now,
		Link:          doc.Metadata.Name,
		Site:          doc.Metadata.Site,
		Labels:        link.MergeLabels(doc.Metadata.Labels, opts.Labels),
		Status:        breakdown.Status(),
		Breakdown:     roundBreakdown(breakdown),
		Notes:         notesFor(doc, req, breakdown, calc.Table()),
	}

	if opts.Sweep {
		for i, seg := range req.Segments {
			losses, err := calc.ComputeAllWavelengths(seg)
			if err != nil {
				return Result{}, outDir, fmt.Errorf("sweep segment %d: %w", i+1, err)
			}
			for j := range losses {
				losses[j].MaxLossDb = round4(losses[j].MaxLossDb)
				losses[j].TypicalLossDb = round4(losses[j].TypicalLossDb)
			}
			result.Sweeps = append(result.Sweeps, Sweep{Segment: i + 1, Fiber: seg.Fiber, Wavelengths: losses})
		}
	}
	if opts.Explain {
		result.Explain = &Explain{Formula: LossFormula(), Notes: explainNotes(req, breakdown)}
	}
	return result, outDir, nil
}

func LossFormula() string {
	return "fiber = sum(km * dB/km); splice = sum(splices * dB); connector = sum(connectors * dB); total = fiber + splice + connector + safetyMargin; margin = budget - total"
}

func notesFor(doc link.Document, req budget.Request, b budget.Breakdown, table standards.Table) []string {
	notes := []string{}
	if doc.SafetyMarginDb == nil {
		notes = append(notes, fmt.Sprintf("safety margin not set; using default %.1f dB", budget.DefaultSafetyMarginDb))
	}
	if req.Parameters.Override != nil {
		notes = append(notes, "custom loss values replace the standard typical values for every segment")
	}
	for _, seg := range b.Segments {
		if seg.Fiber != b.ReferenceFiber {
			notes = append(notes, fmt.Sprintf("segment %d is %s but verdicts use %s budgets", seg.Index, seg.Fiber, b.ReferenceFiber))
		}
	}
	profile := table[b.ReferenceFiber]
	var missing []string
	for _, speed := range standards.Speeds {
		if _, ok := profile.Budgets[speed]; !ok {
			missing = append(missing, string(speed))
		}
	}
	if len(missing) > 0 {
		notes = append(notes, fmt.Sprintf("no published %s budget for %s", strings.Join(missing, "/"), b.ReferenceFiber))
	}
	return notes
}

func explainNotes(req budget.Request, b budget.Breakdown) []string {
	var notes []string
	for _, seg := range b.Segments {
		in := req.Segments[seg.Index-1]
		notes = append(notes, fmt.Sprintf("segment %d: %.3f km x %.3f dB/km = %.2f dB; %d splice(s) = %.2f dB; %d connector(s) = %.2f dB",
			seg.Index, seg.DistanceKm, seg.AttenuationUsed, seg.FiberLossDb,
			in.SpliceCount, seg.SpliceLossDb, in.ConnectorCount, seg.ConnectorLossDb))
	}
	for _, v := range b.Verdicts {
		notes = append(notes, fmt.Sprintf("%s: %.2f - %.2f = %.2f dB", v.Speed, v.BudgetDb, b.TotalLossDb, v.MarginDb))
	}
	return notes
}

func roundBreakdown(b budget.Breakdown) budget.Breakdown {
	out := b
	out.TotalDistanceKm = round4(b.TotalDistanceKm)
	out.TotalFiberLossDb = round4(b.TotalFiberLossDb)
	out.TotalSpliceLossDb = round4(b.TotalSpliceLossDb)
	out.TotalConnectorLossDb = round4(b.TotalConnectorLossDb)
	out.SafetyMarginDb = round4(b.SafetyMarginDb)
	out.TotalLossDb = round4(b.TotalLossDb)
	out.Segments = make([]budget.SegmentLoss, len(b.Segments))
	for i, seg := range b.Segments {
		seg.DistanceKm = round4(seg.DistanceKm)
		seg.FiberLossDb = round4(seg.FiberLossDb)
		seg.SpliceLossDb = round4(seg.SpliceLossDb)
		seg.ConnectorLossDb = round4(seg.ConnectorLossDb)
		out.Segments[i] = seg
	}
	out.Verdicts = make([]budget.Verdict, len(b.Verdicts))
	for i, v := range b.Verdicts {
		v.MarginDb = round4(v.MarginDb)
		out.Verdicts[i] = v
	}
	return out
}

// round4 rounds for presentation only; verdicts keep the full-precision
// margin, so a margin that rounds to 0 can still be a fail.
func round4(value float64) float64 {
	rounded := math.Round(value*10000) / 10000
	if rounded == 0 {
		return 0
	}
	return rounded
}

func sanitizeName(input string) string {
	var out []rune
	for _, r := range strings.ToLower(input) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			out = append(out, r)
		} else if r == '.' || r == ' ' {
			out = append(out, '-')
		}
	}
	if len(out) == 0 {
		return "link"
	}
	return string(out)
}
