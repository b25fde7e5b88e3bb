package google

import (
	"strconv"
	"strings"

	"abastece/internal/core"
)

var (
	fuelHeader = []interface{}{
		"ID", "Data", "Valor Total", "Preço/L", "Km Final", "Combustível", "Observações",
		"Litros", "Km Inicial", "Distância", "Km/L",
	}
	maintenanceHeader = []interface{}{"ID", "Data", "Serviço", "Quilometragem", "Custo", "Observações"}
	summaryHeader     = []interface{}{"Mês", "Total Gasto", "Preço Médio", "Km/L Médio"}
)

func headerFor(fuel bool) []interface{} {
	if fuel {
		return fuelHeader[:7]
	}
	return maintenanceHeader
}

// parseFuelRow reads columns A-G. Numeric cells fall back to 0; a row
// without an ID, a readable date or a known fuel type is rejected.
func parseFuelRow(cols []string) (core.RawFuelEntry, bool) {
	id := strings.TrimSpace(safeGet(cols, 0))
	if id == "" {
		return core.RawFuelEntry{}, false
	}
	date, err := core.ParseDate(safeGet(cols, 1))
	if err != nil {
		return core.RawFuelEntry{}, false
	}
	ft, err := core.ParseFuelType(safeGet(cols, 5))
	if err != nil {
		return core.RawFuelEntry{}, false
	}
	return core.RawFuelEntry{
		ID:            id,
		Date:          date,
		TotalValue:    core.ParseAmountOrZero(safeGet(cols, 2)),
		PricePerLiter: core.ParseAmountOrZero(safeGet(cols, 3)),
		KmEnd:         parseKm(safeGet(cols, 4)),
		FuelType:      ft,
		Notes:         safeGet(cols, 6),
	}, true
}

func parseMaintenanceRow(cols []string) (core.MaintenanceEvent, bool) {
	id := strings.TrimSpace(safeGet(cols, 0))
	if id == "" {
		return core.MaintenanceEvent{}, false
	}
	date, err := core.ParseDate(safeGet(cols, 1))
	if err != nil {
		return core.MaintenanceEvent{}, false
	}
	st, err := core.ParseServiceType(safeGet(cols, 2))
	if err != nil {
		return core.MaintenanceEvent{}, false
	}
	return core.MaintenanceEvent{
		ID:          id,
		Date:        date,
		ServiceType: st,
		Mileage:     parseKm(safeGet(cols, 3)),
		Cost:        core.ParseAmountOrZero(safeGet(cols, 4)),
		Notes:       safeGet(cols, 5),
	}, true
}

// parseKm drops thousands separators and a trailing unit before reading
// the odometer, so "12.345 km" and "12,345" both give 12345.
func parseKm(s string) int64 {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "km"))
	if i := strings.LastIndexAny(s, ".,"); i >= 0 && len(s)-i-1 == 3 {
		s = strings.NewReplacer(".", "", ",", "").Replace(s)
	}
	return core.ParseIntOrZero(s)
}

func fuelRawRow(e core.RawFuelEntry) []interface{} {
	return []interface{}{
		e.ID, e.Date.String(), e.TotalValue, e.PricePerLiter, e.KmEnd, string(e.FuelType), e.Notes,
	}
}

func fuelRow(e core.ProcessedFuelEntry) []interface{} {
	return append(fuelRawRow(e.RawFuelEntry), round(e.Liters, 3), e.KmStart, e.Distance, round(e.AvgKmpl, 2))
}

func maintenanceRow(m core.MaintenanceEvent) []interface{} {
	return []interface{}{m.ID, m.Date.String(), string(m.ServiceType), m.Mileage, m.Cost, m.Notes}
}

// summaryValues lays out the header, one row per month and a totals row.
func summaryValues(rows [12]core.MonthlyRow, totals core.YearSummary) [][]interface{} {
	values := make([][]interface{}, 0, len(rows)+2)
	values = append(values, summaryHeader)
	for _, r := range rows {
		values = append(values, []interface{}{r.Name, round(r.TotalSpent, 2), round(r.AvgPrice, 3), round(r.AvgKmpl, 2)})
	}
	values = append(values, []interface{}{
		"Total " + strconv.Itoa(totals.Year),
		round(totals.TotalSpent, 2),
		round(totals.AvgPrice, 3),
		round(totals.AvgKmpl, 2),
	})
	return values
}

// rowIndex returns the 0-based index of the row whose first cell is id.
func rowIndex(values [][]interface{}, id string) int {
	id = strings.TrimSpace(id)
	for i, row := range values {
		if len(row) == 0 {
			continue
		}
		if toStrings(row[:1])[0] == id {
			return i
		}
	}
	return -1
}

func isBlank(row []interface{}) bool {
	for _, s := range toStrings(row) {
		if s != "" {
			return false
		}
	}
	return true
}

func round(v float64, places int) float64 {
	f, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
	if err != nil {
		return 0
	}
	return f
}
