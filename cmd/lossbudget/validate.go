package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

type validateOptions struct {
	link linkOptions
}

func newValidateCommand(global *globalOptions) *cobra.Command {
	o := &validateOptions{}
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a link document against the fiber reference table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.Run(cmd, global)
		},
	}
	o.link.Bind(cmd.Flags())
	return cmd
}

func (o *validateOptions) Run(cmd *cobra.Command, global *globalOptions) error {
	doc, err := o.link.Load(cmd)
	if err != nil {
		return err
	}
	calc := global.calculator()
	if err := doc.Validate(calc.Table()); err != nil {
		return err
	}
	req, err := doc.Request()
	if err != nil {
		return err
	}
	if _, err := calc.ComputeLossBudget(req); err != nil {
		return describeCalcError(err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Link is valid.")
	return nil
}
