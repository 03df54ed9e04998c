package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bayneri/lossbudget/internal/assess"
	"github.com/bayneri/lossbudget/internal/monitoring"
	"github.com/bayneri/lossbudget/internal/report"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type publishOptions struct {
	link        linkOptions
	inputs      string
	project     string
	credentials string
	dryRun      bool
	out         string
}

func newPublishCommand(global *globalOptions) *cobra.Command {
	o := &publishOptions{}
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Write link margins to Cloud Monitoring as custom metrics",
		Example: `  lossbudget publish --inputs out/a/summary.json --project my-project
  lossbudget publish -f link.yaml --project my-project --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.Run(cmd, global)
		},
	}
	o.link.Bind(cmd.Flags())
	fs := cmd.Flags()
	fs.StringVar(&o.inputs, "inputs", "", "comma-separated list of calc summary.json files")
	fs.StringVar(&o.project, "project", "", "GCP project id (env LOSSBUDGET_GCP_PROJECT)")
	fs.StringVar(&o.credentials, "credentials", "", "service account key file (env LOSSBUDGET_GCP_CREDENTIALS_FILE)")
	fs.BoolVar(&o.dryRun, "dry-run", false, "write monitoring.json instead of calling the API")
	fs.StringVar(&o.out, "out", "", "output directory for --dry-run")
	return cmd
}

func (o *publishOptions) Run(cmd *cobra.Command, global *globalOptions) error {
	project := o.project
	if project == "" {
		project = global.cfg.GCPProject
	}
	if project == "" {
		return errors.New("--project is required")
	}
	credentials := o.credentials
	if credentials == "" {
		credentials = global.cfg.GCPCredentialsFile
	}

	results, err := o.results(cmd, global)
	if err != nil {
		return err
	}
	now := time.Now().UTC()

	if o.dryRun {
		path, err := monitoring.WriteJSON(o.out, project, results, now)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote Monitoring JSON to %s\n", path)
		return nil
	}

	ctx := cmd.Context()
	client, err := monitoring.NewGCPClient(ctx, credentials)
	if err != nil {
		return err
	}
	defer client.Close()

	written, err := monitoring.PublishResults(ctx, client, project, results, now)
	if err != nil {
		return err
	}
	global.logger.Info("published link metrics",
		zap.String("project", project),
		zap.Int("links", len(results)),
		zap.Int("series", written))
	fmt.Fprintf(cmd.OutOrStdout(), "Published %d time series for %d links to %s\n", written, len(results), project)
	return nil
}

func (o *publishOptions) results(cmd *cobra.Command, global *globalOptions) ([]assess.Result, error) {
	if strings.TrimSpace(o.inputs) != "" {
		return report.ReadResults(splitCSV(o.inputs))
	}
	doc, err := o.link.Load(cmd)
	if err != nil {
		return nil, err
	}
	result, _, err := assess.Run(global.calculator(), doc, assess.Options{})
	if err != nil {
		return nil, describeCalcError(err)
	}
	return []assess.Result{result}, nil
}
