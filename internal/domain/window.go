package domain

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar date without time of day or location.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate normalizes the given components, so NewDate(2025, 1, 32) is Feb 1.
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf truncates t to its calendar date in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return DateOf(t), nil
}

func (d Date) String() string {
	return d.Time().Format(dateLayout)
}

// Time returns midnight UTC of d.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) Before(o Date) bool {
	return d.compare(o) < 0
}

func (d Date) After(o Date) bool {
	return d.compare(o) > 0
}

func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

func (d Date) compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return d.Year - o.Year
	case d.Month != o.Month:
		return int(d.Month) - int(o.Month)
	default:
		return d.Day - o.Day
	}
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DateWindow is an inclusive range of calendar dates.
type DateWindow struct {
	From Date `json:"from" yaml:"from"`
	To   Date `json:"to" yaml:"to"`
}

// CurrentWeek returns the Monday to Sunday window containing now.
func CurrentWeek(now time.Time) DateWindow {
	today := DateOf(now)
	offset := (int(today.Weekday()) + 6) % 7 // days since Monday
	monday := today.AddDays(-offset)
	return DateWindow{From: monday, To: monday.AddDays(6)}
}

// Validate rejects windows whose upper bound precedes the lower bound.
func (w DateWindow) Validate() error {
	if w.From.IsZero() || w.To.IsZero() {
		return fmt.Errorf("%w: both bounds are required", ErrInvalidWindow)
	}
	if w.To.Before(w.From) {
		return fmt.Errorf("%w: %s is before %s", ErrInvalidWindow, w.To, w.From)
	}
	return nil
}

// Contains reports whether d lies within the window, bounds included.
func (w DateWindow) Contains(d Date) bool {
	return !d.Before(w.From) && !d.After(w.To)
}

func (w DateWindow) String() string {
	return w.From.String() + " to " + w.To.String()
}
