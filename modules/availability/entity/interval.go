package entity

import (
	"sort"
	"time"
)

// Interval is an absolute time range. A valid interval has Start strictly
// before End; zero-length and inverted intervals are dropped at ingestion.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// IsValid reports whether the interval has positive length.
func (iv Interval) IsValid() bool {
	return iv.Start.Before(iv.End)
}

// Duration returns the interval length.
func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// Overlaps reports whether the two intervals share interior points.
// Touching endpoints do not count as overlap; touching policy is decided
// by the slot generator, not here.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && iv.End.After(other.Start)
}

// Touches reports whether the two intervals share exactly one boundary
// point with no interior overlap.
func (iv Interval) Touches(other Interval) bool {
	return iv.Start.Equal(other.End) || iv.End.Equal(other.Start)
}

// Contains reports whether t lies in [Start, End).
func (iv Interval) Contains(t time.Time) bool {
	return !t.Before(iv.Start) && t.Before(iv.End)
}

// Clip returns the part of iv inside bounds. The second return value is
// false when nothing remains.
func (iv Interval) Clip(bounds Interval) (Interval, bool) {
	out := iv
	if out.Start.Before(bounds.Start) {
		out.Start = bounds.Start
	}
	if out.End.After(bounds.End) {
		out.End = bounds.End
	}
	if !out.IsValid() {
		return Interval{}, false
	}
	return out, true
}

// MergeIntervals sorts the given intervals by start time and fuses every
// overlapping or touching pair into one. Invalid intervals are discarded.
// The result is strictly ordered: each entry starts strictly after the
// previous entry ends. The input slice is not modified.
func MergeIntervals(intervals []Interval) []Interval {
	valid := make([]Interval, 0, len(intervals))
	for _, iv := range intervals {
		if iv.IsValid() {
			valid = append(valid, iv)
		}
	}
	if len(valid) == 0 {
		return nil
	}

	sort.Slice(valid, func(i, j int) bool {
		return valid[i].Start.Before(valid[j].Start)
	})

	merged := []Interval{valid[0]}
	for _, curr := range valid[1:] {
		last := &merged[len(merged)-1]
		// Touching intervals fuse as well: a timeline entry never abuts
		// its neighbour.
		if !curr.Start.After(last.End) {
			if curr.End.After(last.End) {
				last.End = curr.End
			}
		} else {
			merged = append(merged, curr)
		}
	}

	return merged
}
