package core

import (
	"fmt"
	"strconv"
	"strings"
)

const minutesPerDay = 24 * 60

// ParseClock converts an "HH:MM" string to minutes since midnight.
func ParseClock(s string) (int, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, ErrInvalidClock
	}
	hour, err := strconv.Atoi(h)
	if err != nil {
		return 0, ErrInvalidClock
	}
	minute, err := strconv.Atoi(m)
	if err != nil {
		return 0, ErrInvalidClock
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, ErrInvalidClock
	}
	return hour*60 + minute, nil
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(minutes int) string {
	minutes = ((minutes % minutesPerDay) + minutesPerDay) % minutesPerDay
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// AddClock adds delta minutes to an "HH:MM" clock, rolling past midnight
// the way the native date arithmetic of the previous system did
// (23:45 + 30 -> 00:15). Whether late-night appointments should instead be
// clamped to 23:59 is an open product question; the rollover is preserved
// until that is settled.
func AddClock(s string, delta int) (string, error) {
	minutes, err := ParseClock(s)
	if err != nil {
		return "", err
	}
	return FormatClock(minutes + delta), nil
}
