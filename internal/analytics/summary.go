package analytics

import "abastece/internal/core"

// YearTotals sums a year of processed entries. Distance, overall km/L and
// cost per km only count entries with both a positive distance and liters,
// so a first fill-up or an odometer correction does not skew them.
func YearTotals(entries []core.ProcessedFuelEntry, year int) core.YearSummary {
	s := core.YearSummary{Year: year}
	var (
		priceSum   float64
		qualLiters float64
		qualSpent  float64
	)
	for _, e := range entries {
		if e.Date.UTC().Year() != year {
			continue
		}
		s.Entries++
		s.TotalSpent += e.TotalValue
		s.TotalLiters += e.Liters
		priceSum += e.PricePerLiter
		if e.Distance > 0 && e.Liters > 0 {
			s.TotalDistance += e.Distance
			qualLiters += e.Liters
			qualSpent += e.TotalValue
		}
	}
	s.AvgPrice = core.SafeDiv(priceSum, float64(s.Entries))
	s.AvgKmpl = core.SafeDiv(float64(s.TotalDistance), qualLiters)
	s.CostPerKm = core.SafeDiv(qualSpent, float64(s.TotalDistance))
	return s
}
