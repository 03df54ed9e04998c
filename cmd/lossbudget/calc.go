package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bayneri/lossbudget/internal/assess"
	"github.com/bayneri/lossbudget/internal/budget"
	"github.com/bayneri/lossbudget/internal/link"
	"github.com/bayneri/lossbudget/internal/report"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type calcOptions struct {
	link       linkOptions
	reference  string
	labels     string
	out        string
	format     string
	explain    bool
	sweep      bool
	timezone   string
	failOnFail bool
}

func newCalcCommand(global *globalOptions) *cobra.Command {
	o := &calcOptions{}
	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Compute the loss budget of a link",
		Example: `  lossbudget calc -f link.yaml --format text,md,json
  lossbudget calc --fiber OS2 --wavelength 1550nm --distance 5 --unit km --splices 2 --connectors 4`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.Run(cmd, global)
		},
	}
	o.link.Bind(cmd.Flags())
	fs := cmd.Flags()
	fs.StringVar(&o.reference, "reference", "", "fiber type whose budgets decide the verdicts (default: first segment)")
	fs.StringVar(&o.labels, "labels", "", "extra labels in key=value,key=value format")
	fs.StringVar(&o.out, "out", "", "output directory for md, json and pdf reports")
	fs.StringVar(&o.format, "format", "text", "comma-separated outputs: text, md, json, pdf")
	fs.BoolVar(&o.explain, "explain", false, "include the arithmetic behind each figure")
	fs.BoolVar(&o.sweep, "sweep", false, "add max and typical loss at every wavelength of each segment")
	fs.StringVar(&o.timezone, "timezone", "UTC", "IANA timezone for reports")
	fs.BoolVar(&o.failOnFail, "fail-on-fail", false, "exit 2 if the link fails at any speed")
	return cmd
}

func (o *calcOptions) Run(cmd *cobra.Command, global *globalOptions) error {
	loc, err := time.LoadLocation(o.timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone: %w", err)
	}
	labels, err := link.ParseLabels(o.labels)
	if err != nil {
		return err
	}
	doc, err := o.link.Load(cmd)
	if err != nil {
		return err
	}

	result, outDir, err := assess.Run(global.calculator(), doc, assess.Options{
		Reference: o.reference,
		Labels:    labels,
		Sweep:     o.sweep,
		Explain:   o.explain,
		OutDir:    o.out,
	})
	if err != nil {
		return describeCalcError(err)
	}
	global.logger.Debug("link assessed",
		zap.String("link", result.Link),
		zap.String("status", result.Status),
		zap.Float64("total_loss_db", result.Breakdown.TotalLossDb))

	formats, err := parseFormat(o.format)
	if err != nil {
		return err
	}
	if includesFormat(formats, "text") {
		report.Render(cmd.OutOrStdout(), result)
	}
	if err := writeReports(outDir, doc, result, formats, report.Options{Explain: o.explain, Timezone: loc}); err != nil {
		return err
	}
	if includesFormat(formats, "md") || includesFormat(formats, "json") || includesFormat(formats, "pdf") {
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote reports to %s\n", outDir)
	}

	if o.failOnFail && (result.Status == budget.StatusFail || result.Status == budget.StatusPartial) {
		return exitError{code: exitLinkFails, err: fmt.Errorf("link %s fails at one or more speeds", result.Link)}
	}
	return nil
}

// writeReports also saves the input document as link.yaml so the run can be
// repeated with -f.
func writeReports(outDir string, doc link.Document, result assess.Result, formats []string, opts report.Options) error {
	if !includesFormat(formats, "md") && !includesFormat(formats, "json") && !includesFormat(formats, "pdf") {
		return nil
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	data, err := link.Marshal(doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(outDir, "link.yaml"), data, 0644); err != nil {
		return err
	}
	if includesFormat(formats, "md") {
		if err := report.WriteMarkdownSummary(filepath.Join(outDir, "summary.md"), result, opts); err != nil {
			return err
		}
	}
	if includesFormat(formats, "json") {
		if err := report.WriteSummaryJSON(filepath.Join(outDir, "summary.json"), result); err != nil {
			return err
		}
	}
	if includesFormat(formats, "pdf") {
		if err := report.WritePDF(filepath.Join(outDir, "summary.pdf"), result, opts); err != nil {
			return err
		}
	}
	return nil
}

func describeCalcError(err error) error {
	var rangeErr *budget.RangeError
	if errors.As(err, &rangeErr) {
		return fmt.Errorf("%w; shorten segment %d or choose a fiber type with longer reach", err, rangeErr.Segment)
	}
	return err
}

var validFormats = []string{"text", "md", "json", "pdf"}

func parseFormat(input string) ([]string, error) {
	var out []string
	for _, part := range strings.Split(input, ",") {
		trimmed := strings.ToLower(strings.TrimSpace(part))
		if trimmed == "" {
			continue
		}
		if !includesFormat(validFormats, trimmed) {
			return nil, fmt.Errorf("unknown format %q (valid: %s)", trimmed, strings.Join(validFormats, ", "))
		}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return []string{"text"}, nil
	}
	return out, nil
}

func includesFormat(formats []string, value string) bool {
	for _, format := range formats {
		if format == value {
			return true
		}
	}
	return false
}
