package cli

import (
	"github.com/spf13/cobra"
)

func newRenderCommand(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <source>",
		Short: "Render a template against the document",
		Long: `Render a template against the document. Templates read allow-listed
fields such as Info.Title or Components.Schemas; with --schema the template is
rooted at that schema instead.`,
		Example: `  oasgen render store.yaml --text "{{ Info.Title }}"
  oasgen render store.yaml --schema Pet --template struct.tmpl -o pet.go`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			template, err := a.template()
			if err != nil {
				return err
			}
			result, err := a.generate(cmd.Context(), args[0], template)
			if err != nil {
				return err
			}
			return a.writeOutput(cmd.Context(), result.Output)
		},
	}
	addRenderFlags(cmd)
	return cmd
}
