package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/bnema/practice-ledger/internal/adapters/transport/httpapi"
	"github.com/spf13/cobra"
)

func newServeCmd(app *app) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve chat events over HTTP for a bot gateway",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if listen == "" {
				listen = app.cfg.GetString(keyHTTPListen)
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			stop, err := app.engine.StartSweeper(app.cfg.GetString(keySweepSchedule))
			if err != nil {
				return err
			}
			defer stop()

			log := app.log.WithField("component", "http")
			return httpapi.Serve(ctx, listen, httpapi.NewRouter(app.engine, log), log)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "Listen address (default: http.listen)")

	return cmd
}
