package analytics

import (
	"sort"

	"abastece/internal/core"
)

// SortEntries orders entries chronologically in place. Same-day fill-ups
// fall back to odometer then ID so the order is total and repeatable.
func SortEntries(entries []core.RawFuelEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.Date.Equal(b.Date.Time) {
			return a.Date.Before(b.Date.Time)
		}
		if a.KmEnd != b.KmEnd {
			return a.KmEnd < b.KmEnd
		}
		return a.ID < b.ID
	})
}

// ProcessEntries sorts a copy of raw and annotates each entry with liters,
// the odometer at the previous fill-up, distance driven and km/L.
//
// The first entry uses its own reading as start, so its distance is 0. A
// reading lower than the previous one produces a non-positive distance and
// still becomes the baseline for the next entry.
func ProcessEntries(raw []core.RawFuelEntry) []core.ProcessedFuelEntry {
	out := make([]core.ProcessedFuelEntry, 0, len(raw))
	if len(raw) == 0 {
		return out
	}

	sorted := make([]core.RawFuelEntry, len(raw))
	copy(sorted, raw)
	SortEntries(sorted)

	prev := sorted[0].KmEnd
	for _, e := range sorted {
		liters := Liters(e.TotalValue, e.PricePerLiter)
		distance := e.KmEnd - prev
		out = append(out, core.ProcessedFuelEntry{
			RawFuelEntry: e,
			Liters:       liters,
			KmStart:      prev,
			Distance:     distance,
			AvgKmpl:      Kmpl(distance, liters),
		})
		prev = e.KmEnd
	}
	return out
}

// Liters is total/price, or 0 for a non-positive or non-finite result.
func Liters(total, pricePerLiter float64) float64 {
	return core.SanitizeAmount(core.SafeDiv(total, pricePerLiter))
}

// Kmpl is defined only when both distance and liters are positive.
func Kmpl(distance int64, liters float64) float64 {
	if distance <= 0 || liters <= 0 {
		return 0
	}
	return core.SafeDiv(float64(distance), liters)
}
