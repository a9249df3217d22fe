package cli

import (
	"github.com/spf13/cobra"
)

func newTraceCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "trace <source>",
		Short: "Print one line per component schema",
		Long: `Print a line per component schema in declaration order. Object schemas
list their properties; array schemas name their item type.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.generate(cmd.Context(), args[0], "")
			if err != nil {
				return err
			}
			return a.printTrace(result.Trace)
		},
	}
}
