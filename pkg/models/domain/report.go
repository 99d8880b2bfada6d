package domain

import (
	"errors"
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

type Mode int

const (
	ModeStandard Mode = iota
	ModeRealtime
)

func (m Mode) String() string {
	if m == ModeRealtime {
		return "realtime"
	}
	return "standard"
}

// DateRange is an inclusive range of calendar days
type DateRange struct {
	Start time.Time
	End   time.Time
}

func NewDateRange(start, end time.Time) DateRange {
	return DateRange{Start: TruncateDay(start), End: TruncateDay(end)}
}

// ParseDate parses a calendar day in YYYY-MM-DD form.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

func (d DateRange) StartString() string {
	return d.Start.Format(DateLayout)
}

func (d DateRange) EndString() string {
	return d.End.Format(DateLayout)
}

// Days returns the number of calendar days covered, both ends included.
func (d DateRange) Days() int {
	return int(d.End.Sub(d.Start).Hours()/24) + 1
}

func (d DateRange) String() string {
	return fmt.Sprintf("%s..%s", d.StartString(), d.EndString())
}

// TruncateDay drops the clock part while keeping the calendar day of t.
func TruncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ReportRequest describes one report run against the analytics property.
type ReportRequest struct {
	Metrics    []string
	Dimensions []string
	Period     *DateRange // nil in realtime mode
	Limit      int64
}

func (r ReportRequest) Validate(mode Mode) error {
	if len(r.Metrics) == 0 {
		return errors.New("at least one metric is required")
	}
	if r.Limit <= 0 {
		return fmt.Errorf("row limit must be positive, got %d", r.Limit)
	}
	if mode == ModeStandard {
		if r.Period == nil {
			return errors.New("a date range is required for standard reports")
		}
		if r.Period.Start.After(r.Period.End) {
			return fmt.Errorf("invalid date range: start (%s) is after end (%s)",
				r.Period.StartString(), r.Period.EndString())
		}
	}
	return nil
}
