package cmd

import (
	"github.com/bnema/practice-ledger/internal/adapters/transport/console"
	"github.com/spf13/cobra"
)

func newChatCmd(app *app) *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the ledger in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if user == "" {
				user = app.cfg.GetString(keyChatUser)
			}

			stop, err := app.engine.StartSweeper(app.cfg.GetString(keySweepSchedule))
			if err != nil {
				return err
			}
			defer stop()

			app.log.WithField("user", user).Debug("chat started")
			return console.Run(cmd.Context(), app.engine, app.renderer, user, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Conversation user ID (default: chat.user)")

	return cmd
}
