package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/chronos/internal/cli/formatter"
	"github.com/alexanderramin/chronos/internal/devops"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// chronosHuhTheme returns the huh theme matching the report palette.
func chronosHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)
	t.Focused.ErrorIndicator = lipgloss.NewStyle().Foreground(formatter.ColorRed)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// credentialsForm asks for whichever of user and token is missing.
func credentialsForm(cfg *devops.Config) *huh.Form {
	var fields []huh.Field
	if cfg.User == "" {
		fields = append(fields, huh.NewInput().
			Title("Azure DevOps user").
			Description("Contact handle whose time is reported, e.g. name@example.com").
			Value(&cfg.User).
			Validate(requireNonBlank("user")))
	}
	if cfg.Token == "" {
		fields = append(fields, huh.NewInput().
			Title("Personal access token").
			Description("Needs Work Items (read) scope").
			EchoMode(huh.EchoModePassword).
			Value(&cfg.Token).
			Validate(requireNonBlank("token")))
	}
	if len(fields) == 0 {
		return nil
	}
	return huh.NewForm(huh.NewGroup(fields...)).WithTheme(chronosHuhTheme()).WithShowHelp(false)
}

// promptCredentials fills a missing user or token interactively.
func promptCredentials(cfg *devops.Config) error {
	form := credentialsForm(cfg)
	if form == nil {
		return nil
	}
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return fmt.Errorf("cancelled")
		}
		return fmt.Errorf("reading credentials: %w", err)
	}
	cfg.User = strings.TrimSpace(cfg.User)
	cfg.Token = strings.TrimSpace(cfg.Token)
	return nil
}

func requireNonBlank(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}
