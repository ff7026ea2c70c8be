package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/chronos/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		inner := titleRendered + "\n\n" + content
		return boxStyle.Render(inner)
	}

	return boxStyle.Render(content)
}

// FormatHours renders an hour amount with up to two decimals and no
// trailing zeros, e.g. "1.5h", "-0.25h", "0h".
func FormatHours(hours float64) string {
	s := strconv.FormatFloat(hours, 'f', 2, 64)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	if s == "-0" {
		s = "0"
	}
	return s + "h"
}

// FormatDelta renders a signed hour change such as "+1.5h" or "-0.5h".
func FormatDelta(hours float64) string {
	if hours > 0 {
		return "+" + FormatHours(hours)
	}
	return FormatHours(hours)
}

// ShortWeekday returns the three-letter weekday of d, e.g. "Mon".
func ShortWeekday(d domain.Date) string {
	return d.Weekday().String()[:3]
}

// HumanTimestamp formats a generation time for report footers.
func HumanTimestamp(t time.Time) string {
	if t.IsZero() {
		return "--"
	}
	return t.UTC().Format("Jan 2, 2006 15:04 UTC")
}

// TruncateText shortens s to at most n visible runes, adding an ellipsis.
func TruncateText(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

// WorkItemRef renders "#123" in the accent color.
func WorkItemRef(id domain.WorkItemID) string {
	return StylePurple.Render(fmt.Sprintf("#%d", id))
}
