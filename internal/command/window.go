package command

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

var ErrInvalidWindow = errors.New("invalid ordering window")

// Window is the daily time-of-day interval during which order and cancel are accepted.
type Window struct {
	start, end clockTime
	raw        [2]string
}

type clockTime struct {
	hour, minute int
}

// ParseWindow validates both bounds. A malformed bound is a configuration error.
func ParseWindow(startHour, endHour string) (Window, error) {
	start, err := parseClock(startHour)
	if err != nil {
		return Window{}, fmt.Errorf("%w: start hour: %w", ErrInvalidWindow, err)
	}
	end, err := parseClock(endHour)
	if err != nil {
		return Window{}, fmt.Errorf("%w: end hour: %w", ErrInvalidWindow, err)
	}

	return Window{start: start, end: end, raw: [2]string{startHour, endHour}}, nil
}

func parseClock(s string) (clockTime, error) {
	if !IsValidClockString(s) {
		return clockTime{}, fmt.Errorf("%q does not match HH:MM, use a value like 08:00", s)
	}
	// формат уже проверен регуляркой
	h, _ := strconv.Atoi(s[:2])
	m, _ := strconv.Atoi(s[3:])
	return clockTime{hour: h, minute: m}, nil
}

// Contains reports whether now lies between today's start and end, both inclusive.
// Bounds are taken on now's calendar day in now's location.
func (w Window) Contains(now time.Time) bool {
	y, mo, d := now.Date()
	start := time.Date(y, mo, d, w.start.hour, w.start.minute, 0, 0, now.Location())
	end := time.Date(y, mo, d, w.end.hour, w.end.minute, 0, 0, now.Location())

	return !now.Before(start) && !now.After(end)
}

func (w Window) Start() string { return w.raw[0] }

func (w Window) End() string { return w.raw[1] }
