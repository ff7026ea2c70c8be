package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/alexanderramin/chronos/internal/app"
	"github.com/alexanderramin/chronos/internal/cli/formatter"
	"github.com/alexanderramin/chronos/internal/contract"
	"github.com/alexanderramin/chronos/internal/domain"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const progressBarWidth = 30

type scanStartedMsg struct{ total int }

type itemDoneMsg struct {
	id  domain.WorkItemID
	err error
}

type reportDoneMsg struct{}

// progressModel shows a spinner and a bar while work items are fetched.
type progressModel struct {
	spinner spinner.Model
	bar     progress.Model

	total  int
	done   int
	failed int
	last   domain.WorkItemID

	finished    bool
	interrupted bool
}

func newProgressModel() progressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(formatter.ColorPurple)

	bar := progress.New(
		progress.WithGradient(string(formatter.ColorBlue), string(formatter.ColorGreen)),
		progress.WithWidth(progressBarWidth),
		progress.WithoutPercentage(),
	)
	return progressModel{spinner: s, bar: bar}
}

func (m progressModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
			m.interrupted = true
			return m, tea.Quit
		}
		return m, nil

	case scanStartedMsg:
		m.total = msg.total
		return m, nil

	case itemDoneMsg:
		m.done++
		m.last = msg.id
		if msg.err != nil {
			m.failed++
		}
		return m, m.bar.SetPercent(m.fraction())

	case reportDoneMsg:
		m.finished = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progress.FrameMsg:
		updated, cmd := m.bar.Update(msg)
		if bar, ok := updated.(progress.Model); ok {
			m.bar = bar
		}
		return m, cmd
	}
	return m, nil
}

func (m progressModel) fraction() float64 {
	if m.total == 0 {
		return 0
	}
	return float64(m.done) / float64(m.total)
}

func (m progressModel) View() string {
	if m.finished || m.interrupted {
		return ""
	}
	if m.total == 0 {
		return fmt.Sprintf("%s %s\n", m.spinner.View(), formatter.Dim("Finding work items..."))
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %s  %s  %d/%d",
		m.spinner.View(),
		formatter.Dim("Reading revisions"),
		m.bar.View(),
		m.done, m.total,
	))
	if m.failed > 0 {
		b.WriteString(formatter.StyleYellow.Render(fmt.Sprintf("  %d failed", m.failed)))
	}
	if m.last.Valid() {
		b.WriteString("  " + formatter.WorkItemRef(m.last))
	}
	b.WriteString("\n")
	return b.String()
}

// programReporter forwards service progress into a running tea.Program.
type programReporter struct {
	program *tea.Program
}

func (r programReporter) OnScanStarted(total int) {
	r.program.Send(scanStartedMsg{total: total})
}

func (r programReporter) OnItemDone(id domain.WorkItemID, err error) {
	r.program.Send(itemDoneMsg{id: id, err: err})
}

// runWithProgress generates the report while drawing progress on stderr.
// Ctrl+C in the view cancels the fetch.
func runWithProgress(ctx context.Context, svc app.ReportUseCase, req contract.ReportRequest) (*contract.ReportResponse, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := tea.NewProgram(newProgressModel(), tea.WithOutput(os.Stderr), tea.WithContext(ctx))
	req.Progress = programReporter{program: program}

	var (
		resp   *contract.ReportResponse
		genErr error
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		resp, genErr = svc.Generate(ctx, req)
		program.Send(reportDoneMsg{})
	}()

	final, err := program.Run()
	if m, ok := final.(progressModel); ok && m.interrupted {
		cancel()
	}
	if err != nil && ctx.Err() == nil {
		cancel()
		<-done
		return nil, fmt.Errorf("progress view: %w", err)
	}
	<-done
	return resp, genErr
}
