package core

import (
	"errors"
	"time"
)

// Date is a day-granular calendar date. The embedded time.Time is always at
// midnight UTC.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format(dateLayout)
}

// DateRange is an inclusive [Start, End] pair of instants used for
// month and day filtering.
type DateRange struct {
	Start time.Time
	End   time.Time
}

var ErrInvalidMonth = errors.New("invalid month")

// MonthRange resolves a year/month pair to the first instant of the month
// and the last instant of its final day. Day zero of the following month
// resolves to the last calendar day, so leap years fall out of time.Date.
func MonthRange(year, month int) (DateRange, error) {
	if year <= 0 {
		return DateRange{}, ErrInvalidDate
	}
	if month < 1 || month > 12 {
		return DateRange{}, ErrInvalidMonth
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	lastDay := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)
	end := lastDay.Add(24*time.Hour - time.Nanosecond)
	return DateRange{Start: start, End: end}, nil
}

// DayRange resolves a single date to [00:00:00, 23:59:59.999...] of that day.
func DayRange(d Date) (DateRange, error) {
	if d.IsZero() {
		return DateRange{}, ErrInvalidDate
	}
	start := time.Date(d.Year(), d.Time.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(24*time.Hour - time.Nanosecond)
	return DateRange{Start: start, End: end}, nil
}

// Contains reports whether t falls inside the inclusive range.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}
