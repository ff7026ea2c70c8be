package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/chronos/internal/cli/formatter"
	"github.com/alexanderramin/chronos/internal/contract"
	"github.com/alexanderramin/chronos/internal/devops"
	"github.com/alexanderramin/chronos/internal/domain"
	"github.com/spf13/cobra"
)

func newReportCmd(app *App, conn *connectionFlags) *cobra.Command {
	var (
		from, to    domain.Date
		workItems   []string
		concurrency int
		format      string
		details     bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show hours logged per day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.Config
			if err := conn.apply(&cfg); err != nil {
				return err
			}
			if concurrency > 0 {
				cfg.Concurrency = concurrency
			}

			window := domain.CurrentWeek(app.Now())
			if !from.IsZero() {
				window.From = from
			}
			if !to.IsZero() {
				window.To = to
			}
			if err := window.Validate(); err != nil {
				return err
			}

			outFormat, err := formatter.ParseFormat(format)
			if err != nil {
				return err
			}
			ids, err := parseWorkItemIDs(workItems)
			if err != nil {
				return err
			}

			if (cfg.User == "" || cfg.Token == "") && app.IsInteractive() {
				if err := promptCredentials(&cfg); err != nil {
					return err
				}
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "From %s to %s\n", window.From, window.To)

			req := contract.NewReportRequest(cfg.User, window)
			req.Concurrency = cfg.Concurrency
			req.WorkItems = ids

			resp, genErr := generateReport(cmd.Context(), app, cfg, req, outFormat)
			if resp != nil {
				if err := writeReport(cmd, resp, outFormat, details); err != nil {
					return err
				}
			}
			return genErr
		},
	}

	cmd.Flags().Var(dateFlag{&from}, "from", "First day of the window, YYYY-MM-DD (default: Monday of this week)")
	cmd.Flags().Var(dateFlag{&to}, "to", "Last day of the window, YYYY-MM-DD (default: Sunday of this week)")
	cmd.Flags().StringSliceVar(&workItems, "work-item", nil, "Report on these work item ids instead of querying (repeatable)")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", 0, "Work items fetched in parallel (env CHRONOS_CONCURRENCY)")
	cmd.Flags().StringVarP(&format, "format", "f", string(formatter.FormatText), "Output format: text, json, or yaml")
	cmd.Flags().BoolVar(&details, "details", false, "List every attributed change per work item")

	return cmd
}

func generateReport(ctx context.Context, app *App, cfg devops.Config, req contract.ReportRequest, format formatter.Format) (*contract.ReportResponse, error) {
	svc := app.NewReport(cfg)
	if format == formatter.FormatText && app.IsOutputTerminal() && !cfg.LogCalls {
		return runWithProgress(ctx, svc, req)
	}
	return svc.Generate(ctx, req)
}

func writeReport(cmd *cobra.Command, resp *contract.ReportResponse, format formatter.Format, details bool) error {
	out := cmd.OutOrStdout()
	if format == formatter.FormatText {
		_, err := fmt.Fprintln(out, formatter.FormatReport(resp, formatter.ReportOptions{Details: details}))
		return err
	}
	return formatter.EncodeReport(out, resp, format, details)
}
