package analytics

import (
	"time"

	"abastece/internal/core"
)

type monthAcc struct {
	spent      float64
	priceSum   float64
	priceCount int
	kmplSum    float64
	kmplCount  int
}

// MonthlyAggregates buckets entries of the given UTC year into twelve rows,
// January first. Months without entries are present with zeroed figures.
// AvgKmpl only averages entries that have a km/L value.
func MonthlyAggregates(entries []core.ProcessedFuelEntry, year int, l Locale) [12]core.MonthlyRow {
	var acc [12]monthAcc
	for _, e := range entries {
		t := e.Date.UTC()
		if t.Year() != year {
			continue
		}
		a := &acc[t.Month()-1]
		a.spent += e.TotalValue
		a.priceSum += e.PricePerLiter
		a.priceCount++
		if e.AvgKmpl > 0 {
			a.kmplSum += e.AvgKmpl
			a.kmplCount++
		}
	}

	var rows [12]core.MonthlyRow
	for i := range rows {
		a := acc[i]
		rows[i] = core.MonthlyRow{
			Name:       MonthLabel(time.Month(i+1), l),
			TotalSpent: a.spent,
			AvgPrice:   core.SafeDiv(a.priceSum, float64(a.priceCount)),
			AvgKmpl:    core.SafeDiv(a.kmplSum, float64(a.kmplCount)),
		}
	}
	return rows
}
