package cli

import (
	"io"
	"os"
	"time"

	"github.com/alexanderramin/chronos/internal/app"
	"github.com/alexanderramin/chronos/internal/devops"
	"github.com/alexanderramin/chronos/internal/service"
	"github.com/spf13/cobra"
)

// App holds the resolved configuration and the factories CLI commands use.
type App struct {
	// Config is the environment-derived configuration; flags override it
	// per invocation.
	Config devops.Config

	// NewReport builds the report use case for the final configuration.
	NewReport func(cfg devops.Config) app.ReportUseCase

	// IsInteractive reports whether stdin is a terminal, enabling prompts.
	IsInteractive func() bool

	// IsOutputTerminal reports whether stdout is a terminal, enabling the
	// live progress view.
	IsOutputTerminal func() bool

	Now func() time.Time
}

// NewReportFactory returns the production report wiring. Call and use-case
// logs go to logs when cfg.LogCalls is set.
func NewReportFactory(logs io.Writer) func(cfg devops.Config) app.ReportUseCase {
	return func(cfg devops.Config) app.ReportUseCase {
		var callObserver devops.Observer = devops.NoopObserver{}
		var useCaseObserver service.UseCaseObserver = service.NoopUseCaseObserver{}
		if cfg.LogCalls && logs != nil {
			callObserver = devops.NewLogObserver(logs)
			useCaseObserver = service.NewLogUseCaseObserver(logs)
		}
		return service.NewReportService(devops.NewClient(cfg, callObserver), useCaseObserver)
	}
}

// NewRootCmd creates the top-level "chronos" command. Running it without a
// subcommand produces the time report, same as "chronos report".
func NewRootCmd(app *App) *cobra.Command {
	if app.NewReport == nil {
		app.NewReport = NewReportFactory(os.Stderr)
	}
	if app.IsInteractive == nil {
		app.IsInteractive = func() bool { return false }
	}
	if app.IsOutputTerminal == nil {
		app.IsOutputTerminal = func() bool { return false }
	}
	if app.Now == nil {
		app.Now = func() time.Time { return time.Now().UTC() }
	}

	conn := &connectionFlags{}
	root := newReportCmd(app, conn)
	root.Use = "chronos"
	root.Short = "Reconstruct a daily time log from Azure DevOps work item history"
	root.SilenceUsage = true
	root.SilenceErrors = true
	conn.register(root)

	root.AddCommand(
		newReportCmd(app, conn),
		newConfigCmd(app, conn),
	)

	return root
}
