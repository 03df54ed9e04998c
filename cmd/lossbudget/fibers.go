package main

import (
	"github.com/bayneri/lossbudget/internal/report"
	"github.com/bayneri/lossbudget/internal/standards"
	"github.com/spf13/cobra"
)

func newFibersCommand(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "fibers [fiber]",
		Short: "List fiber types or show one reference profile",
		Example: `  lossbudget fibers
  lossbudget fibers om4`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				report.RenderFibers(cmd.OutOrStdout(), global.table)
				return nil
			}
			id := standards.ParseFiberType(args[0])
			profile, err := global.table.Profile(id)
			if err != nil {
				return err
			}
			report.RenderProfile(cmd.OutOrStdout(), id, profile)
			return nil
		},
	}
}
