package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/chronos/internal/devops"
	"github.com/alexanderramin/chronos/internal/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// connectionFlags are shared by every command that talks to Azure DevOps.
// Empty values leave the environment configuration untouched.
type connectionFlags struct {
	org     string
	project string
	user    string
	token   string
	auth    string
	baseURL string
	verbose bool
}

func (f *connectionFlags) register(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVarP(&f.org, "org", "o", "", "Azure DevOps organization (env CHRONOS_ORG)")
	pf.StringVarP(&f.project, "project", "p", "", "Azure DevOps project (env CHRONOS_PROJECT)")
	pf.StringVarP(&f.user, "user", "u", "", "Contact handle to report on, e.g. name@example.com (env CHRONOS_USER)")
	pf.StringVar(&f.token, "token", "", "Personal access token (env CHRONOS_TOKEN)")
	pf.StringVar(&f.auth, "auth", "", "Authentication mode: pat or bearer (env CHRONOS_AUTH)")
	pf.StringVar(&f.baseURL, "base-url", "", "Service base URL (env CHRONOS_BASE_URL)")
	pf.BoolVar(&f.verbose, "verbose", false, "Log API calls and timings to stderr")
}

// apply layers the flag values over cfg.
func (f *connectionFlags) apply(cfg *devops.Config) error {
	if f.org != "" {
		cfg.Organization = f.org
	}
	if f.project != "" {
		cfg.Project = f.project
	}
	if f.user != "" {
		cfg.User = f.user
	}
	if f.token != "" {
		cfg.Token = f.token
	}
	if f.baseURL != "" {
		cfg.BaseURL = strings.TrimRight(f.baseURL, "/")
	}
	if f.auth != "" {
		mode, err := devops.ParseAuthMode(f.auth)
		if err != nil {
			return err
		}
		cfg.Auth = mode
	}
	if f.verbose {
		cfg.LogCalls = true
	}
	return nil
}

// dateFlag is a pflag.Value holding a YYYY-MM-DD calendar date.
type dateFlag struct {
	date *domain.Date
}

var _ pflag.Value = dateFlag{}

func (f dateFlag) String() string {
	if f.date == nil || f.date.IsZero() {
		return ""
	}
	return f.date.String()
}

func (f dateFlag) Set(s string) error {
	d, err := domain.ParseDate(s)
	if err != nil {
		return fmt.Errorf("want YYYY-MM-DD: %w", err)
	}
	*f.date = d
	return nil
}

func (dateFlag) Type() string { return "date" }

// parseWorkItemIDs parses --work-item values.
func parseWorkItemIDs(raw []string) ([]domain.WorkItemID, error) {
	ids := make([]domain.WorkItemID, 0, len(raw))
	for _, s := range raw {
		id, err := domain.ParseWorkItemID(strings.TrimPrefix(strings.TrimSpace(s), "#"))
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
