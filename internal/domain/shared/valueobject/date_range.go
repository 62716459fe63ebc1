package valueobject

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the calendar-day layout used for parsing and rendering dates
const DateLayout = "2006-01-02"

// FarFuture is the sentinel end date stored for open-ended ranges
var FarFuture = time.Date(2048, time.October, 24, 0, 0, 0, 0, time.UTC)

const secondsPerDay = 24 * 60 * 60

// DateRange is an inclusive range of calendar days.
// Both ends are truncated to midnight UTC. It is immutable.
type DateRange struct {
	start time.Time
	end   time.Time
}

// NewDateRange creates a DateRange covering start..end inclusive
func NewDateRange(start, end time.Time) (DateRange, error) {
	s, e := Day(start), Day(end)
	if e.Before(s) {
		return DateRange{}, fmt.Errorf("invalid date range: end %s is before start %s",
			e.Format(DateLayout), s.Format(DateLayout))
	}
	return DateRange{start: s, end: e}, nil
}

// MustNewDateRange creates a DateRange and panics on error
func MustNewDateRange(start, end time.Time) DateRange {
	r, err := NewDateRange(start, end)
	if err != nil {
		panic(err)
	}
	return r
}

// OpenDateRange creates a range from start up to FarFuture
func OpenDateRange(start time.Time) DateRange {
	s := Day(start)
	if s.After(FarFuture) {
		return DateRange{start: s, end: s}
	}
	return DateRange{start: s, end: FarFuture}
}

// SingleDay creates a range covering exactly one day
func SingleDay(day time.Time) DateRange {
	d := Day(day)
	return DateRange{start: d, end: d}
}

// ParseDateRange parses two YYYY-MM-DD strings into a DateRange
func ParseDateRange(start, end string) (DateRange, error) {
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return DateRange{}, fmt.Errorf("invalid start date %q: %w", start, err)
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return DateRange{}, fmt.Errorf("invalid end date %q: %w", end, err)
	}
	return NewDateRange(s, e)
}

// Day truncates t to midnight UTC of its calendar day
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Start returns the first day of the range
func (r DateRange) Start() time.Time {
	return r.start
}

// End returns the last day of the range
func (r DateRange) End() time.Time {
	return r.end
}

// IsZero reports whether the range was never initialised
func (r DateRange) IsZero() bool {
	return r.start.IsZero() && r.end.IsZero()
}

// IsOpen reports whether the range ends at the FarFuture sentinel
func (r DateRange) IsOpen() bool {
	return r.end.Equal(FarFuture)
}

// Days returns the number of days in the range
func (r DateRange) Days() int {
	if r.IsZero() {
		return 0
	}
	return int(ordinal(r.end)-ordinal(r.start)) + 1
}

// Contains reports whether day falls within the range
func (r DateRange) Contains(day time.Time) bool {
	d := Day(day)
	return !d.Before(r.start) && !d.After(r.end)
}

// Overlaps reports whether the two ranges share at least one day
func (r DateRange) Overlaps(other DateRange) bool {
	return r.OverlapDays(other) > 0
}

// OverlapDays returns the number of days shared by both ranges, 0 when disjoint
func (r DateRange) OverlapDays(other DateRange) int {
	if r.IsZero() || other.IsZero() {
		return 0
	}
	lo := max(ordinal(r.start), ordinal(other.start))
	hi := min(ordinal(r.end), ordinal(other.end))
	if hi < lo {
		return 0
	}
	return int(hi-lo) + 1
}

// Intersect returns the common sub-range. ok is false when the ranges are disjoint.
func (r DateRange) Intersect(other DateRange) (DateRange, bool) {
	if r.OverlapDays(other) == 0 {
		return DateRange{}, false
	}
	s := r.start
	if other.start.After(s) {
		s = other.start
	}
	e := r.end
	if other.end.Before(e) {
		e = other.end
	}
	return DateRange{start: s, end: e}, true
}

// Subtract removes other from r and returns what is left, in order.
// The result holds zero, one or two ranges.
func (r DateRange) Subtract(other DateRange) []DateRange {
	common, ok := r.Intersect(other)
	if !ok {
		return []DateRange{r}
	}
	var out []DateRange
	if common.start.After(r.start) {
		out = append(out, DateRange{start: r.start, end: common.start.AddDate(0, 0, -1)})
	}
	if common.end.Before(r.end) {
		out = append(out, DateRange{start: common.end.AddDate(0, 0, 1), end: r.end})
	}
	return out
}

// EachDay calls fn for every day of the range in ascending order.
// Iteration stops early when fn returns an error.
func (r DateRange) EachDay(fn func(day time.Time) error) error {
	if r.IsOpen() {
		return errors.New("cannot iterate an open-ended date range")
	}
	for d := r.start; !d.After(r.end); d = d.AddDate(0, 0, 1) {
		if err := fn(d); err != nil {
			return err
		}
	}
	return nil
}

// Equal reports whether both ranges cover the same days
func (r DateRange) Equal(other DateRange) bool {
	return r.start.Equal(other.start) && r.end.Equal(other.end)
}

// String returns "start..end"
func (r DateRange) String() string {
	return r.start.Format(DateLayout) + ".." + r.end.Format(DateLayout)
}

func ordinal(t time.Time) int64 {
	return t.Unix() / secondsPerDay
}
