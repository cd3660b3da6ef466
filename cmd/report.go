package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/practice-ledger/internal/application"
	"github.com/bnema/practice-ledger/internal/dialogue"
	"github.com/bnema/practice-ledger/internal/domain"
	"github.com/spf13/cobra"
)

func newReportCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print client, financial and schedule reports",
	}

	cmd.AddCommand(
		newReportClientCmd(app),
		newReportFinancialCmd(app),
		newReportScheduleCmd(app),
	)

	return cmd
}

func newReportClientCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "client NAME",
		Short: "Show a client's sessions, payments and balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := app.service.ComputeClientReport(args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, report)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), app.renderer.RenderClientReport(report))
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func newReportFinancialCmd(app *app) *cobra.Command {
	var period string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "financial",
		Short: "Summarise payments received in the current period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := application.Period(strings.ToLower(period))
			if !p.Valid() {
				return fmt.Errorf("%w: unsupported period %q (use daily, weekly, monthly or yearly)", domain.ErrValidation, period)
			}

			report, err := app.service.ComputeFinancialReportForPeriod(p)
			if errors.Is(err, domain.ErrNoData) {
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "No payments found for the %s report.\n", p)
				return err
			}
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, report)
			}

			chart, err := app.renderer.RenderChart(fmt.Sprintf("Revenue (%s)", p), report.Series)
			if err != nil {
				return fmt.Errorf("render chart: %w", err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n\n%s\n", app.renderer.RenderFinancialReport(report), chart)
			return err
		},
	}

	cmd.Flags().StringVar(&period, "period", string(application.PeriodMonthly), "Report period: daily, weekly, monthly or yearly")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func newReportScheduleCmd(app *app) *cobra.Command {
	var day string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Show booked sessions and free slots for a day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			target, err := dialogue.ResolveDay(app.calendar, app.clock.Now(), day)
			if err != nil {
				return err
			}

			schedule := app.service.ComputeScheduleForDay(target)
			if asJSON {
				return writeJSON(cmd, schedule)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), app.renderer.RenderSchedule(schedule))
			return err
		},
	}

	cmd.Flags().StringVar(&day, "day", "tomorrow", "today, tomorrow or a calendar date")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}
