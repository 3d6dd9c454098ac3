package command_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vasiliy-maslov/lunch-order/internal/command"
)

func at(hour, minute int) time.Time {
	return time.Date(2025, 4, 16, hour, minute, 0, 0, time.UTC)
}

func TestParseWindow_Invalid(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
	}{
		{name: "bad_start", start: "8:00", end: "11:00"},
		{name: "bad_end", start: "08:00", end: "11h"},
		{name: "empty", start: "", end: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := command.ParseWindow(tt.start, tt.end)
			require.ErrorIs(t, err, command.ErrInvalidWindow)
		})
	}
}

func TestWindow_Contains(t *testing.T) {
	w, err := command.ParseWindow("08:00", "11:00")
	require.NoError(t, err)

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{name: "one_minute_before_start", now: at(7, 59), want: false},
		{name: "exactly_start", now: at(8, 0), want: true},
		{name: "inside", now: at(9, 30), want: true},
		{name: "exactly_end", now: at(11, 0), want: true},
		{name: "seconds_after_end", now: at(11, 0).Add(30 * time.Second), want: false},
		{name: "one_minute_after_end", now: at(11, 1), want: false},
		{name: "midnight", now: at(0, 0), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.Contains(tt.now))
		})
	}

	assert.Equal(t, "08:00", w.Start())
	assert.Equal(t, "11:00", w.End())
}

func TestWindow_ContainsUsesLocalDay(t *testing.T) {
	w, err := command.ParseWindow("08:00", "11:00")
	require.NoError(t, err)

	paris := time.FixedZone("CEST", 2*60*60)
	// 09:00 in Paris is 07:00 UTC, the window is read on the wall clock of now.
	assert.True(t, w.Contains(time.Date(2025, 4, 16, 9, 0, 0, 0, paris)))
}

func TestWindow_NoOvernight(t *testing.T) {
	w, err := command.ParseWindow("22:00", "02:00")
	require.NoError(t, err)

	assert.False(t, w.Contains(at(23, 0)))
	assert.False(t, w.Contains(at(1, 0)))
}
