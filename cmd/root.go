package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pl",
		Short:         "Practice ledger (pl): clients, sessions and payments over chat",
		Long:          "pl keeps a single practitioner's ledger of clients, sessions and payments. Chat with it in the terminal, serve it as a webhook for a bot gateway, or print reports directly.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newChatCmd(app),
		newServeCmd(app),
		newClientCmd(app),
		newReportCmd(app),
	)

	return rootCmd
}
