package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateOf_DropsTimeOfDay(t *testing.T) {
	ts := time.Date(2025, 6, 15, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, Date{2025, time.June, 15}, DateOf(ts))
}

func TestDateOf_UsesTimestampLocation(t *testing.T) {
	tz := time.FixedZone("UTC+10", 10*3600)
	ts := time.Date(2025, 6, 15, 22, 0, 0, 0, time.UTC)
	assert.Equal(t, Date{2025, time.June, 15}, DateOf(ts))
	assert.Equal(t, Date{2025, time.June, 16}, DateOf(ts.In(tz)))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2024, time.February, 29), d)
	assert.Equal(t, "2024-02-29", d.String())

	_, err = ParseDate("2024/02/29")
	assert.Error(t, err)
}

func TestDate_Ordering(t *testing.T) {
	a := NewDate(2025, time.January, 31)
	b := NewDate(2025, time.February, 1)
	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.False(t, a.Before(a))
	assert.False(t, a.After(a))
	assert.Equal(t, b, a.AddDays(1))
}

func TestDate_JSONRoundTrip(t *testing.T) {
	d := NewDate(2025, time.March, 3)
	data, err := json.Marshal(struct {
		D Date `json:"d"`
	}{d})
	require.NoError(t, err)
	assert.JSONEq(t, `{"d":"2025-03-03"}`, string(data))

	var back struct {
		D Date `json:"d"`
	}
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, d, back.D)
}

func TestCurrentWeek(t *testing.T) {
	cases := []struct {
		name string
		now  time.Time
		from Date
		to   Date
	}{
		{"monday", time.Date(2025, 6, 9, 8, 0, 0, 0, time.UTC), NewDate(2025, 6, 9), NewDate(2025, 6, 15)},
		{"wednesday", time.Date(2025, 6, 11, 8, 0, 0, 0, time.UTC), NewDate(2025, 6, 9), NewDate(2025, 6, 15)},
		{"sunday", time.Date(2025, 6, 15, 23, 0, 0, 0, time.UTC), NewDate(2025, 6, 9), NewDate(2025, 6, 15)},
		{"across month", time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC), NewDate(2025, 6, 30), NewDate(2025, 7, 6)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := CurrentWeek(tc.now)
			assert.Equal(t, tc.from, w.From)
			assert.Equal(t, tc.to, w.To)
			assert.Equal(t, time.Monday, w.From.Weekday())
		})
	}
}

func TestDateWindow_ContainsIsInclusive(t *testing.T) {
	w := DateWindow{From: NewDate(2025, 6, 9), To: NewDate(2025, 6, 15)}
	assert.True(t, w.Contains(NewDate(2025, 6, 9)))
	assert.True(t, w.Contains(NewDate(2025, 6, 15)))
	assert.True(t, w.Contains(NewDate(2025, 6, 12)))
	assert.False(t, w.Contains(NewDate(2025, 6, 8)))
	assert.False(t, w.Contains(NewDate(2025, 6, 16)))
}

func TestDateWindow_Validate(t *testing.T) {
	single := DateWindow{From: NewDate(2025, 6, 9), To: NewDate(2025, 6, 9)}
	assert.NoError(t, single.Validate())

	inverted := DateWindow{From: NewDate(2025, 6, 10), To: NewDate(2025, 6, 9)}
	err := inverted.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidWindow)

	assert.ErrorIs(t, DateWindow{}.Validate(), ErrInvalidWindow)
}
