package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newClientCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "client",
		Short: "Inspect clients",
	}

	cmd.AddCommand(
		newClientListCmd(app),
	)

	return cmd
}

func newClientListCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List clients with their balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			clients := app.service.ListClients()
			if asJSON {
				return writeJSON(cmd, clients)
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), app.renderer.RenderClients(clients))
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}
