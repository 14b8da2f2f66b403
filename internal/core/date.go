package core

import (
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// NewDate creates a Date at midnight UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// Today returns the current calendar day in loc.
func Today(now time.Time, loc *time.Location) Date {
	if loc == nil {
		loc = time.Local
	}
	return DateOf(now.In(loc))
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, ErrInvalidDate
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return DateOf(t), nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

// MonthStart returns the first day of d's month.
func (d Date) MonthStart() Date {
	return NewDate(d.Year(), d.Month(), 1)
}

// AddMonths moves a month-start date by n calendar months.
func (d Date) AddMonths(n int) Date {
	return Date{Time: d.MonthStart().Time.AddDate(0, n, 0)}
}

// WithinEntryWindow reports whether d lies in [today-MaxDaysBack, today+MaxDaysAhead].
func (d Date) WithinEntryWindow(today Date) bool {
	lo := today.AddDays(-MaxDaysBack)
	hi := today.AddDays(MaxDaysAhead)
	return !d.Before(lo.Time) && !d.After(hi.Time)
}

// EntryWindow returns the first and last accepted entry dates.
func EntryWindow(today Date) (Date, Date) {
	return today.AddDays(-MaxDaysBack), today.AddDays(MaxDaysAhead)
}
