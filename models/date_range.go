package models

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidDateRange is returned when a range would start after it ends
var ErrInvalidDateRange = errors.New("date range start must not be after end")

// DateRange represents a validity interval. Construct it with NewDateRange
// and treat it as immutable afterwards; both bounds are stored in UTC.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewDateRange creates a validity interval. Start must not be after End.
func NewDateRange(start, end time.Time) (*DateRange, error) {
	start = start.UTC()
	end = end.UTC()
	if start.After(end) {
		return nil, fmt.Errorf("%w: %s > %s", ErrInvalidDateRange, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return &DateRange{Start: start, End: end}, nil
}

// Equals reports exact value equality: both bounds must match.
// Overlapping but non-identical ranges are not equal.
func (d *DateRange) Equals(other *DateRange) bool {
	if other == nil {
		return false
	}
	return d.Start.Equal(other.Start) && d.End.Equal(other.End)
}

// Contains reports whether t falls inside the range (bounds inclusive).
func (d *DateRange) Contains(t time.Time) bool {
	t = t.UTC()
	return !t.Before(d.Start) && !t.After(d.End)
}

// Overlaps reports whether the two ranges share at least one instant.
func (d *DateRange) Overlaps(other *DateRange) bool {
	if other == nil {
		return false
	}
	return !d.Start.After(other.End) && !other.Start.After(d.End)
}

// DateRangesEqual compares two optional ranges; two nil ranges are equal.
func DateRangesEqual(a, b *DateRange) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equals(b)
}
