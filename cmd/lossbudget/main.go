package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bayneri/lossbudget/internal/budget"
	"github.com/bayneri/lossbudget/internal/config"
	applog "github.com/bayneri/lossbudget/internal/log"
	"github.com/bayneri/lossbudget/internal/standards"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const version = "0.1.0"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fail(err)
	}
}

// globalOptions are shared by every subcommand. Environment variables fill
// the defaults; flags override them.
type globalOptions struct {
	standardsFile string
	logLevel      string
	verbose       bool

	cfg    *config.Config
	logger *zap.Logger
	table  standards.Table
}

func (o *globalOptions) Bind(fs *pflag.FlagSet) {
	fs.StringVar(&o.standardsFile, "standards", "", "YAML overlay for the fiber reference table (env LOSSBUDGET_STANDARDS_FILE)")
	fs.StringVar(&o.logLevel, "log-level", "", "log level: debug, info, warn, error (env LOSSBUDGET_LOG_LEVEL)")
	fs.BoolVar(&o.verbose, "verbose", false, "verbose output")
}

func (o *globalOptions) Complete(cmd *cobra.Command) error {
	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("read environment: %w", err)
	}
	if o.standardsFile != "" {
		cfg.StandardsFile = o.standardsFile
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	o.cfg = cfg

	level := applog.ParseLevel(cfg.LogLevel)
	if o.verbose {
		level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	o.logger = applog.InitLog(level)

	o.table = standards.Default()
	if cfg.StandardsFile != "" {
		table, err := standards.LoadFile(cfg.StandardsFile)
		if err != nil {
			return err
		}
		o.table = table
		o.logger.Debug("loaded standards overlay", zap.String("path", cfg.StandardsFile), zap.Int("fiber_types", len(table)))
	}
	return nil
}

func (o *globalOptions) calculator() *budget.Calculator {
	return budget.New(o.table)
}

func newRootCommand() *cobra.Command {
	global := &globalOptions{}
	cmd := &cobra.Command{
		Use:           "lossbudget",
		Short:         "lossbudget computes optical loss budgets for fiber links",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return global.Complete(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if global.logger != nil {
				_ = global.logger.Sync()
			}
		},
	}
	global.Bind(cmd.PersistentFlags())

	cmd.AddCommand(newCalcCommand(global))
	cmd.AddCommand(newSweepCommand(global))
	cmd.AddCommand(newValidateCommand(global))
	cmd.AddCommand(newFibersCommand(global))
	cmd.AddCommand(newReportCommand(global))
	cmd.AddCommand(newPublishCommand(global))
	cmd.AddCommand(newServeCommand(global))
	cmd.AddCommand(newExplainCommand())
	cmd.AddCommand(newVersionCommand())
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the lossbudget version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), version)
			return nil
		},
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	var coded exitError
	if errors.As(err, &coded) {
		os.Exit(coded.ExitCode())
	}
	os.Exit(exitFailure)
}

func splitCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
