package formatter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/alexanderramin/chronos/internal/contract"
	"github.com/alexanderramin/chronos/internal/domain"
	"gopkg.in/yaml.v3"
)

// Format names an output encoding for reports.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts text, json, or yaml, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (want text, json, or yaml)", s)
	}
}

// ReportView is the machine-readable shape of a report.
type ReportView struct {
	User        string        `json:"user" yaml:"user"`
	From        domain.Date   `json:"from" yaml:"from"`
	To          domain.Date   `json:"to" yaml:"to"`
	TotalHours  float64       `json:"total_hours" yaml:"total_hours"`
	Days        []DayView     `json:"days" yaml:"days"`
	Items       []ItemView    `json:"items,omitempty" yaml:"items,omitempty"`
	Failures    []FailureView `json:"failures,omitempty" yaml:"failures,omitempty"`
	Scanned     int           `json:"scanned" yaml:"scanned"`
	GeneratedAt time.Time     `json:"generated_at" yaml:"generated_at"`
}

type DayView struct {
	Date    domain.Date `json:"date" yaml:"date"`
	Weekday string      `json:"weekday" yaml:"weekday"`
	Hours   float64     `json:"hours" yaml:"hours"`
}

type ItemView struct {
	ID      int64       `json:"id" yaml:"id"`
	Title   string      `json:"title,omitempty" yaml:"title,omitempty"`
	Hours   float64     `json:"hours" yaml:"hours"`
	Entries []EntryView `json:"entries" yaml:"entries"`
}

type EntryView struct {
	Rev           int         `json:"rev" yaml:"rev"`
	Date          domain.Date `json:"date" yaml:"date"`
	Author        string      `json:"author" yaml:"author"`
	Handle        string      `json:"handle" yaml:"handle"`
	CompletedWork float64     `json:"completed_work" yaml:"completed_work"`
	Hours         float64     `json:"hours" yaml:"hours"`
}

type FailureView struct {
	ID    int64  `json:"id" yaml:"id"`
	Kind  string `json:"kind" yaml:"kind"`
	Error string `json:"error" yaml:"error"`
}

// NewReportView flattens a response for encoding. Per-item entries are
// included only when details is set.
func NewReportView(resp *contract.ReportResponse, details bool) ReportView {
	v := ReportView{
		User:        resp.User,
		From:        resp.Window.From,
		To:          resp.Window.To,
		TotalHours:  resp.TotalHours,
		Days:        make([]DayView, 0, len(resp.Totals)),
		Scanned:     resp.Scanned,
		GeneratedAt: resp.GeneratedAt.UTC(),
	}
	for _, t := range resp.Totals {
		v.Days = append(v.Days, DayView{Date: t.Date, Weekday: t.Date.Weekday().String(), Hours: t.Hours})
	}
	if details {
		for _, item := range resp.Items {
			iv := ItemView{
				ID:      int64(item.WorkItem),
				Title:   item.Title,
				Hours:   item.Totals.Sum(),
				Entries: make([]EntryView, 0, len(item.Entries)),
			}
			for _, e := range item.Entries {
				iv.Entries = append(iv.Entries, EntryView{
					Rev:           e.Rev,
					Date:          e.Date,
					Author:        e.Author.DisplayName,
					Handle:        e.Author.UniqueName,
					CompletedWork: e.CompletedWork,
					Hours:         e.Hours,
				})
			}
			v.Items = append(v.Items, iv)
		}
	}
	for _, f := range resp.Failures {
		v.Failures = append(v.Failures, FailureView{
			ID:    int64(f.WorkItem),
			Kind:  string(f.Kind),
			Error: f.Err.Error(),
		})
	}
	return v
}

// EncodeReport writes resp to w in the given machine-readable format.
func EncodeReport(w io.Writer, resp *contract.ReportResponse, format Format, details bool) error {
	view := NewReportView(resp, details)
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(view); err != nil {
			return fmt.Errorf("encoding json report: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(view); err != nil {
			return fmt.Errorf("encoding yaml report: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("format %q is not machine-readable", format)
	}
}
