package date

import "fmt"

// Range represents an inclusive range of dates. It is a plain value type:
// ranges normalized from the same date and interval compare equal, which
// makes Range usable as a grouping key.
type Range struct{ From, Till Date }

// NewRange creates a new date range. If 'from' is after 'till', they are swapped.
func NewRange(from, till Date) Range {
	if from.After(till) {
		from, till = till, from
	}
	return Range{From: from, Till: till}
}

// Contains returns true when the date is included in the range (boundaries included).
func (r Range) Contains(d Date) bool { return !d.Before(r.From) && !d.After(r.Till) }

// Before orders ranges by their starting date.
func (r Range) Before(x Range) bool { return r.From.Before(x.From) }

// String renders the raw boundaries of the range.
func (r Range) String() string { return fmt.Sprintf("%s...%s", r.From, r.Till) }

// Label renders a human-readable tag for the range, assuming it was
// normalized from the given interval.
func (r Range) Label(iv Interval) string { return iv.Label(r.From) }
