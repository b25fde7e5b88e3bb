// Package export renders a year of the ledger as XLSX or PDF.
package export

import (
	"abastece/internal/analytics"
	"abastece/internal/core"
	"abastece/internal/maintenance"
)

// Report is one year of the derived ledger.
type Report struct {
	Year        int
	Entries     []core.ProcessedFuelEntry
	Monthly     [12]core.MonthlyRow
	Summary     core.YearSummary
	Maintenance []core.MaintenanceEvent
}

// BuildReport selects the year from the full processed ledger, so the
// first fill-up of the year keeps the distance from the year before.
func BuildReport(entries []core.ProcessedFuelEntry, events []core.MaintenanceEvent, year int, l analytics.Locale) Report {
	r := Report{
		Year:    year,
		Monthly: analytics.MonthlyAggregates(entries, year, l),
		Summary: analytics.YearTotals(entries, year),
	}
	for _, e := range entries {
		if e.Date.Year() == year {
			r.Entries = append(r.Entries, e)
		}
	}
	for _, m := range maintenance.SortLog(events) {
		if m.Date.Year() == year {
			r.Maintenance = append(r.Maintenance, m)
		}
	}
	return r
}
