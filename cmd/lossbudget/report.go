package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bayneri/lossbudget/internal/report"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type reportOptions struct {
	inputs string
	out    string
}

func newReportCommand(global *globalOptions) *cobra.Command {
	o := &reportOptions{}
	cmd := &cobra.Command{
		Use:     "report",
		Short:   "Aggregate calc summary.json files into one report",
		Example: `  lossbudget report --inputs out/a/summary.json,out/b/summary.json --out out/report`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.Run(cmd, global)
		},
	}
	cmd.Flags().StringVar(&o.inputs, "inputs", "", "comma-separated list of calc summary.json files")
	cmd.Flags().StringVar(&o.out, "out", filepath.Join("out", "report"), "output directory")
	return cmd
}

func (o *reportOptions) Run(cmd *cobra.Command, global *globalOptions) error {
	if strings.TrimSpace(o.inputs) == "" {
		return errors.New("--inputs is required")
	}

	paths := splitCSV(o.inputs)
	results, err := report.ReadResults(paths)
	if err != nil {
		return err
	}
	agg, err := report.Aggregate(results, paths)
	if err != nil {
		return err
	}

	if err := report.WriteAggregateJSON(filepath.Join(o.out, "summary.json"), agg); err != nil {
		return err
	}
	if err := report.WriteAggregateMarkdown(filepath.Join(o.out, "summary.md"), agg); err != nil {
		return err
	}
	if len(agg.Errors) > 0 {
		if err := report.WriteErrorsMarkdown(filepath.Join(o.out, "errors.md"), agg.Errors); err != nil {
			return err
		}
	}
	global.logger.Debug("report written", zap.Int("links", len(agg.Links)), zap.String("status", agg.Status))
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote report to %s\n", o.out)
	if len(agg.Errors) > 0 {
		return exitError{code: exitLinkFails, err: errors.New("partial report")}
	}
	return nil
}
