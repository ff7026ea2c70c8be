package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/chronos/internal/contract"
	"github.com/alexanderramin/chronos/internal/domain"
	"github.com/alexanderramin/chronos/internal/worklog"
)

const (
	reportBarWidth   = 16
	detailTitleWidth = 60
)

// ReportOptions tweaks the text report.
type ReportOptions struct {
	// Details adds a section per work item listing every attributed change.
	Details bool
}

// FormatReport formats a ReportResponse as a styled CLI report.
func FormatReport(resp *contract.ReportResponse, opts ReportOptions) string {
	var b strings.Builder

	b.WriteString(Dim(fmt.Sprintf("%s  ·  %s", resp.User, resp.Window)) + "\n\n")

	if len(resp.Totals) == 0 {
		b.WriteString(Dim("No completed work logged in this window.") + "\n")
	} else {
		b.WriteString(formatDailyTable(resp))
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("%s  %s\n", Bold("Total"), HoursColor(resp.TotalHours).Bold(true).Render(FormatHours(resp.TotalHours))))
	}

	if opts.Details && len(resp.Items) > 0 {
		b.WriteString("\n")
		b.WriteString(Header("Work items") + "\n")
		for _, item := range resp.Items {
			b.WriteString(FormatItemLog(item))
		}
	}

	if len(resp.Failures) > 0 {
		b.WriteString("\n")
		b.WriteString(Header("Failures") + "\n")
		for _, f := range resp.Failures {
			b.WriteString(fmt.Sprintf("%s  %s  %s\n", WorkItemRef(f.WorkItem), FailureIndicator(f.Kind), StyleYellow.Render(f.Err.Error())))
		}
	}

	b.WriteString("\n")
	b.WriteString(Dim(fmt.Sprintf("Scanned %d work items · %s", resp.Scanned, HumanTimestamp(resp.GeneratedAt))))

	return RenderBox("Time log", b.String())
}

func formatDailyTable(resp *contract.ReportResponse) string {
	var peak float64
	for _, t := range resp.Totals {
		peak = max(peak, t.Hours)
	}

	rows := make([][]string, 0, len(resp.Totals))
	for _, t := range resp.Totals {
		var pct float64
		if peak > 0 {
			pct = t.Hours / peak
		}
		rows = append(rows, []string{
			t.Date.String(),
			ShortWeekday(t.Date),
			HoursColor(t.Hours).Render(FormatHours(t.Hours)),
			RenderBar(pct, reportBarWidth),
		})
	}
	return RenderAlignedTable(
		[]string{"DATE", "DAY", "HOURS", ""},
		rows,
		[]Align{AlignLeft, AlignLeft, AlignRight, AlignLeft},
	)
}

// FormatItemLog renders one work item's header followed by its attributed
// changes, one line per revision.
func FormatItemLog(item worklog.ItemLog) string {
	var b strings.Builder

	title := domain.CoalesceStr(item.Title, "(untitled)")
	b.WriteString(fmt.Sprintf("\n%s %s  %s\n",
		WorkItemRef(item.WorkItem),
		Bold(TruncateText(title, detailTitleWidth)),
		Dim(FormatHours(item.Totals.Sum())),
	))

	rows := make([][]string, 0, len(item.Entries))
	for _, e := range item.Entries {
		rows = append(rows, []string{
			e.Date.String(),
			e.Author.String(),
			Dim(fmt.Sprintf("rev %d", e.Rev)),
			FormatHours(e.CompletedWork),
			HoursColor(e.Hours).Render(FormatDelta(e.Hours)),
		})
	}
	b.WriteString(RenderAlignedTable(
		[]string{"DATE", "AUTHOR", "REV", "COMPLETED", "DELTA"},
		rows,
		[]Align{AlignLeft, AlignLeft, AlignLeft, AlignRight, AlignRight},
	))
	return b.String()
}
