package domain

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date format used in API parameters and imagery
// service queries.
const DateLayout = "2006-01-02"

// DefaultWindowDays is the span of the date range shown when the user has
// not picked one.
const DefaultWindowDays = 365

// DateRange is an inclusive pair of calendar dates. Construct through
// NewDateRange so the invariants (start ≤ end, end ≤ today) hold before any
// remote query is built from it.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange builds a normalized range: the end date is capped at today
// (UTC), and a start after the capped end is rejected.
func NewDateRange(start, end time.Time) (DateRange, error) {
	start = truncateToDay(start)
	end = truncateToDay(end)

	today := Today()
	if end.After(today) {
		end = today
	}
	if start.After(end) {
		return DateRange{}, fmt.Errorf("date range start %s is after end %s",
			start.Format(DateLayout), end.Format(DateLayout))
	}
	return DateRange{Start: start, End: end}, nil
}

// ParseDateRange parses two YYYY-MM-DD strings and normalizes them.
func ParseDateRange(start, end string) (DateRange, error) {
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return DateRange{}, fmt.Errorf("parse start date %q: %w", start, err)
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return DateRange{}, fmt.Errorf("parse end date %q: %w", end, err)
	}
	return NewDateRange(s, e)
}

// DefaultRange returns the last DefaultWindowDays days ending today.
func DefaultRange() DateRange {
	today := Today()
	return DateRange{Start: today.AddDate(0, 0, -DefaultWindowDays), End: today}
}

// Today returns the current UTC calendar date at midnight.
func Today() time.Time {
	return truncateToDay(clock.Now().UTC())
}

// Validate re-checks the range ordering. Aggregator operations call this
// before issuing any remote query so a malformed range can never reach the
// imagery service.
func (d DateRange) Validate() error {
	if d.Start.After(d.End) {
		return fmt.Errorf("date range start %s is after end %s",
			d.Start.Format(DateLayout), d.End.Format(DateLayout))
	}
	return nil
}

// StartString and EndString render the bounds in query format.
func (d DateRange) StartString() string { return d.Start.Format(DateLayout) }

func (d DateRange) EndString() string { return d.End.Format(DateLayout) }

func (d DateRange) String() string {
	return d.StartString() + ".." + d.EndString()
}

func truncateToDay(t time.Time) time.Time {
	y, m, day := t.UTC().Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}
