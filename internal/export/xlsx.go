package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	entriesSheet     = "Abastecimentos"
	monthlySheet     = "Mensal"
	maintenanceSheet = "Manutenções"
)

var (
	entryHeaders = []string{
		"Data", "Combustível", "Valor Total", "Preço/L", "Litros",
		"Km Inicial", "Km Final", "Distância", "Km/L", "Observações",
	}
	monthlyHeaders     = []string{"Mês", "Total Gasto", "Preço Médio", "Km/L Médio"}
	maintenanceHeaders = []string{"Data", "Serviço", "Quilometragem", "Custo", "Observações"}
)

// BuildXLSX renders the entries, the twelve monthly rows with a totals line,
// and the maintenance log as three sheets.
func BuildXLSX(r Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", entriesSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{monthlySheet, maintenanceSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("new sheet %s: %w", name, err)
		}
	}

	writeRow(f, entriesSheet, 1, toAny(entryHeaders))
	for i, e := range r.Entries {
		writeRow(f, entriesSheet, i+2, []any{
			e.Date.String(), e.FuelType.Label(), e.TotalValue, e.PricePerLiter, e.Liters,
			e.KmStart, e.KmEnd, e.Distance, e.AvgKmpl, e.Notes,
		})
	}

	writeRow(f, monthlySheet, 1, toAny(monthlyHeaders))
	for i, m := range r.Monthly {
		writeRow(f, monthlySheet, i+2, []any{m.Name, m.TotalSpent, m.AvgPrice, m.AvgKmpl})
	}
	writeRow(f, monthlySheet, len(r.Monthly)+2, []any{
		fmt.Sprintf("Total %d", r.Year), r.Summary.TotalSpent, r.Summary.AvgPrice, r.Summary.AvgKmpl,
	})

	writeRow(f, maintenanceSheet, 1, toAny(maintenanceHeaders))
	for i, m := range r.Maintenance {
		writeRow(f, maintenanceSheet, i+2, []any{
			m.Date.String(), m.ServiceType.Label(), m.Mileage, m.Cost, m.Notes,
		})
	}

	if idx, err := f.GetSheetIndex(entriesSheet); err == nil {
		f.SetActiveSheet(idx)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
}

func toAny(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}
