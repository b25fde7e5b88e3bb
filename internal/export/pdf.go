package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"abastece/internal/core"
)

// BuildPDF renders a one-year report: totals, the monthly table and the
// maintenance log.
func BuildPDF(r Report) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	// Core fonts are cp1252; translate accented labels.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 8, tr(fmt.Sprintf("Relatório de Consumo %d", r.Year)))
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 10)
	lines := []string{
		fmt.Sprintf("Abastecimentos: %d", r.Summary.Entries),
		"Total gasto: " + core.FormatCurrency(r.Summary.TotalSpent),
		"Litros: " + core.FormatLiters(r.Summary.TotalLiters),
		"Distância: " + core.FormatMileage(r.Summary.TotalDistance),
		"Consumo médio: " + core.FormatKmpl(r.Summary.AvgKmpl),
		"Preço médio: " + core.FormatPricePerLiter(r.Summary.AvgPrice),
	}
	for _, l := range lines {
		pdf.Cell(0, 6, tr(l))
		pdf.Ln(5)
	}
	pdf.Ln(4)

	widths := []float64{30, 45, 45, 40}
	header(pdf, tr, widths, []string{"Mês", "Total Gasto", "Preço Médio", "Km/L Médio"})
	for _, m := range r.Monthly {
		pdf.CellFormat(widths[0], 6, tr(m.Name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, core.FormatCurrency(m.TotalSpent), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 6, core.FormatPricePerLiter(m.AvgPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 6, core.FormatKmpl(m.AvgKmpl), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	if len(r.Maintenance) > 0 {
		pdf.Ln(8)
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(0, 8, tr("Manutenções"))
		pdf.Ln(10)
		widths = []float64{25, 50, 35, 35, 45}
		header(pdf, tr, widths, []string{"Data", "Serviço", "Km", "Custo", "Observações"})
		for _, m := range r.Maintenance {
			pdf.CellFormat(widths[0], 6, core.FormatDisplayDate(m.Date), "1", 0, "C", false, 0, "")
			pdf.CellFormat(widths[1], 6, tr(m.ServiceType.Label()), "1", 0, "L", false, 0, "")
			pdf.CellFormat(widths[2], 6, core.FormatMileage(m.Mileage), "1", 0, "R", false, 0, "")
			pdf.CellFormat(widths[3], 6, core.FormatCurrency(m.Cost), "1", 0, "R", false, 0, "")
			pdf.CellFormat(widths[4], 6, tr(truncate(m.Notes, 28)), "1", 0, "L", false, 0, "")
			pdf.Ln(-1)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func header(pdf *gofpdf.Fpdf, tr func(string) string, widths []float64, titles []string) {
	pdf.SetFont("Arial", "B", 10)
	for i, t := range titles {
		pdf.CellFormat(widths[i], 6, tr(t), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
