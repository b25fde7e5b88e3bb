package report

import (
	"fmt"
	"strconv"
	"strings"

	"abastece/internal/core"
	"abastece/internal/maintenance"
)

// Monthly renders the twelve month rows of a year followed by its totals.
func Monthly(year int, rows [12]core.MonthlyRow, s core.YearSummary) string {
	table := make([][]string, 0, len(rows)+1)
	for _, r := range rows {
		table = append(table, []string{
			r.Name,
			core.FormatCurrency(r.TotalSpent),
			core.FormatPricePerLiter(r.AvgPrice),
			kmpl(r.AvgKmpl),
		})
	}
	table = append(table, []string{
		StyleBold.Render(fmt.Sprintf("Total %d", year)),
		StyleBold.Render(core.FormatCurrency(s.TotalSpent)),
		core.FormatPricePerLiter(s.AvgPrice),
		kmpl(s.AvgKmpl),
	})

	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("Consumo %d", year)))
	b.WriteString(RenderTable(
		[]string{"Mês", "Gasto", "Preço médio", "Média"},
		table,
		AlignLeft, AlignRight, AlignRight, AlignRight,
	))
	fmt.Fprintf(&b, "\n%d abastecimentos, %s, %s rodados\n",
		s.Entries, core.FormatLiters(s.TotalLiters), core.FormatMileage(s.TotalDistance))
	return b.String()
}

// Entries renders processed fill-ups in ledger order. A non-positive
// distance is highlighted since it marks an odometer reset or typo.
func Entries(entries []core.ProcessedFuelEntry) string {
	if len(entries) == 0 {
		return StyleDim.Render("Nenhum abastecimento registrado.") + "\n"
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		distance := strconv.FormatInt(e.Distance, 10)
		if e.Distance <= 0 {
			distance = StyleRed.Render(distance)
		}
		rows = append(rows, []string{
			core.FormatDisplayDate(e.Date),
			e.FuelType.Label(),
			core.FormatCurrency(e.TotalValue),
			core.FormatPricePerLiter(e.PricePerLiter),
			core.FormatLiters(e.Liters),
			core.FormatMileage(e.KmEnd),
			distance,
			kmpl(e.AvgKmpl),
		})
	}
	return RenderTable(
		[]string{"Data", "Combustível", "Total", "Preço/L", "Litros", "Odômetro", "Distância", "Média"},
		rows,
		AlignLeft, AlignLeft, AlignRight, AlignRight, AlignRight, AlignRight, AlignRight, AlignRight,
	)
}

func Maintenance(rows []maintenance.Row) string {
	if len(rows) == 0 {
		return StyleDim.Render("Nenhuma manutenção registrada.") + "\n"
	}
	table := make([][]string, 0, len(rows))
	for _, r := range rows {
		table = append(table, []string{r.DisplayDate, r.ServiceLabel, r.MileageText, r.CostText, r.Notes})
	}
	return RenderTable(
		[]string{"Data", "Serviço", "Quilometragem", "Custo", "Observações"},
		table,
		AlignLeft, AlignLeft, AlignRight, AlignRight, AlignLeft,
	)
}

// Years lists the available years, marking the default one.
func Years(years []int, def int) string {
	if len(years) == 0 {
		return StyleDim.Render(fmt.Sprintf("Sem dados; ano padrão %d.", def)) + "\n"
	}
	var b strings.Builder
	for _, y := range years {
		if y == def {
			fmt.Fprintf(&b, "%s %s\n", StyleGreen.Render("●"), StyleBold.Render(strconv.Itoa(y)))
			continue
		}
		fmt.Fprintf(&b, "  %d\n", y)
	}
	return b.String()
}

// kmpl shows "-" for months without a valid consumption figure.
func kmpl(v float64) string {
	if v <= 0 {
		return StyleDim.Render("-")
	}
	return core.FormatKmpl(v)
}
