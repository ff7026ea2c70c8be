package cli

import (
	"fmt"
	"strconv"

	"github.com/alexanderramin/chronos/internal/cli/formatter"
	"github.com/alexanderramin/chronos/internal/devops"
	"github.com/spf13/cobra"
)

func newConfigCmd(app *App, conn *connectionFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the resolved configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.Config
			if err := conn.apply(&cfg); err != nil {
				return err
			}

			out := formatConfig(cfg)
			if err := cfg.Validate(); err != nil {
				out += "\n" + formatter.StyleYellow.Render(fmt.Sprintf("  WARNING: %v", err)) + "\n"
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.RenderBox("Configuration", out))
			return nil
		},
	}
}

func formatConfig(cfg devops.Config) string {
	orDash := func(s string) string {
		if s == "" {
			return formatter.Dim("--")
		}
		return s
	}
	rows := [][]string{
		{"Organization", orDash(cfg.Organization)},
		{"Project", orDash(cfg.Project)},
		{"User", orDash(cfg.User)},
		{"Token", orDash(cfg.MaskedToken())},
		{"Auth", string(cfg.Auth)},
		{"Base URL", cfg.BaseURL},
		{"Timeout", cfg.Timeout().String()},
		{"Page size", strconv.Itoa(cfg.PageSize)},
		{"Concurrency", strconv.Itoa(cfg.Concurrency)},
		{"Log calls", strconv.FormatBool(cfg.LogCalls)},
	}
	return formatter.RenderTable([]string{"SETTING", "VALUE"}, rows)
}
