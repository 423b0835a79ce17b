package date

import (
	"fmt"
	"iter"
	"strings"
	"time"
)

// Interval is a calendar unit used to slice a date range into buckets.
type Interval int

const (
	Daily Interval = iota
	Weekly
	Monthly
	Yearly
)

func (iv Interval) String() string {
	switch iv {
	case Daily:
		return "daily"
	case Weekly:
		return "weekly"
	case Monthly:
		return "monthly"
	case Yearly:
		return "yearly"
	default:
		panic(fmt.Sprintf("unknown interval %d", iv))
	}
}

// ParseInterval parses an interval name, accepting both the unit and its
// adjective form ("month" and "monthly").
func ParseInterval(s string) (Interval, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily", "day":
		return Daily, nil
	case "weekly", "week":
		return Weekly, nil
	case "monthly", "month":
		return Monthly, nil
	case "yearly", "year":
		return Yearly, nil
	default:
		return Daily, fmt.Errorf("unknown interval %q", s)
	}
}

// Start returns the first date of the interval unit containing d.
// Weeks follow ISO-8601 numbering and start on Monday.
func (iv Interval) Start(d Date) Date {
	switch iv {
	case Daily:
		return d
	case Weekly:
		offset := int(d.Weekday() - time.Monday)
		for offset < 0 {
			offset += 7
		}
		return d.Add(-offset)
	case Monthly:
		return New(d.Year(), d.Month(), 1)
	case Yearly:
		return New(d.Year(), time.January, 1)
	default:
		panic("unknown interval")
	}
}

// End returns the last date of the interval unit containing d.
func (iv Interval) End(d Date) Date {
	switch iv {
	case Daily:
		return d
	case Weekly:
		return iv.Start(d).Add(6)
	case Monthly:
		// day 0 of the next month is the last day of this month,
		// whatever its length.
		return New(d.Year(), d.Month()+1, 0)
	case Yearly:
		return New(d.Year(), time.December, 31)
	default:
		panic("unknown interval")
	}
}

// Span normalizes a pair of dates to the natural boundaries of the interval,
// returning the range [Start(from), End(till)]. From and till are swapped
// when given in reverse order.
func (iv Interval) Span(from, till Date) Range {
	if from.After(till) {
		from, till = till, from
	}
	return Range{From: iv.Start(from), Till: iv.End(till)}
}

// next returns the first date of the interval unit following the one
// containing d. Month and year increments go through New so that variable
// month lengths and leap years normalize instead of drifting.
func (iv Interval) next(d Date) Date {
	switch iv {
	case Daily:
		return d.Add(1)
	case Weekly:
		return iv.Start(d).Add(7)
	case Monthly:
		return New(d.Year(), d.Month()+1, 1)
	case Yearly:
		return New(d.Year()+1, time.January, 1)
	default:
		panic("unknown interval")
	}
}

// Steps returns an iterator over the successive interval-start dates between
// from and till, both normalized to the interval first. The iterator is
// restartable and yields nothing when the normalized range is empty.
func Steps(from, till Date, iv Interval) iter.Seq[Date] {
	span := iv.Span(from, till)
	return func(yield func(Date) bool) {
		for d := span.From; d.Before(span.Till); d = iv.next(d) {
			if !yield(d) {
				return
			}
		}
	}
}

// Label renders a human-readable tag for the interval unit containing d.
func (iv Interval) Label(d Date) string {
	switch iv {
	case Daily:
		return d.String()
	case Weekly:
		_, week := d.ISOWeek()
		return fmt.Sprintf("wk%02d %s", week, d.Formatted("06"))
	case Monthly:
		return d.Formatted("Jan 06")
	case Yearly:
		return d.Formatted("2006")
	default:
		panic("unknown interval")
	}
}
