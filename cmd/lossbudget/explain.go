package main

import (
	"fmt"
	"strings"

	"github.com/bayneri/lossbudget/internal/explain"
	"github.com/spf13/cobra"
)

func newExplainCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "explain [topic]",
		Short: "Print background on wavelengths, OTDR testing, or the standards used",
		Args:  cobra.MaximumNArgs(1),
		// Pure reference text; no config or logger needed.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				fmt.Fprintf(out, "Topics: %s\n", strings.Join(explain.Topics(), ", "))
				return nil
			}
			text, err := explain.Text(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(out, text)
			return nil
		},
	}
}
