package analytics

import (
	"sort"
	"time"

	"abastece/internal/core"
)

// AvailableYears returns the distinct UTC years present, most recent first.
func AvailableYears(entries []core.ProcessedFuelEntry) []int {
	seen := make(map[int]struct{})
	years := make([]int, 0)
	for _, e := range entries {
		y := e.Date.UTC().Year()
		if _, ok := seen[y]; ok {
			continue
		}
		seen[y] = struct{}{}
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}

// DefaultYear is the most recent year with data, or now's year when empty.
func DefaultYear(entries []core.ProcessedFuelEntry, now time.Time) int {
	if years := AvailableYears(entries); len(years) > 0 {
		return years[0]
	}
	return now.Year()
}

// SelectYear keeps requested when it is non-zero, otherwise picks the
// default year.
func SelectYear(entries []core.ProcessedFuelEntry, requested int, now time.Time) int {
	if requested != 0 {
		return requested
	}
	return DefaultYear(entries, now)
}

// CurrentMileage is the highest odometer reading recorded, 0 without entries.
func CurrentMileage(entries []core.RawFuelEntry) int64 {
	var km int64
	for _, e := range entries {
		if e.KmEnd > km {
			km = e.KmEnd
		}
	}
	return km
}
