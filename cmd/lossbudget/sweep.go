package main

import (
	"fmt"

	"github.com/bayneri/lossbudget/internal/report"
	"github.com/spf13/cobra"
)

type sweepOptions struct {
	link linkOptions
}

func newSweepCommand(global *globalOptions) *cobra.Command {
	o := &sweepOptions{}
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Show max and typical loss at every wavelength a fiber supports",
		Example: `  lossbudget sweep --fiber OM4 --distance 100 --connectors 2
  lossbudget sweep -f link.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.Run(cmd, global)
		},
	}
	o.link.Bind(cmd.Flags())
	return cmd
}

func (o *sweepOptions) Run(cmd *cobra.Command, global *globalOptions) error {
	doc, err := o.link.Load(cmd)
	if err != nil {
		return err
	}
	calc := global.calculator()
	out := cmd.OutOrStdout()
	for i, seg := range doc.Segments {
		converted, err := seg.ToBudget(i + 1)
		if err != nil {
			return err
		}
		losses, err := calc.ComputeAllWavelengths(converted)
		if err != nil {
			return fmt.Errorf("sweep segment %d: %w", i+1, describeCalcError(err))
		}
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "Segment %d: %s, %.3f km, %d splices, %d connectors\n",
			i+1, converted.Fiber, converted.DistanceKm(), converted.SpliceCount, converted.ConnectorCount)
		report.RenderSweep(out, losses)
	}
	return nil
}
