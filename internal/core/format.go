package core

import (
	"strconv"
	"strings"
)

// FormatCurrency renders an amount as "R$ 123.45".
func FormatCurrency(v float64) string {
	return "R$ " + strconv.FormatFloat(v, 'f', 2, 64)
}

// FormatPricePerLiter renders a price with three decimals, "R$ 5.899".
func FormatPricePerLiter(v float64) string {
	return "R$ " + strconv.FormatFloat(v, 'f', 3, 64)
}

// FormatKmpl renders consumption with one decimal, "12.3 km/L".
func FormatKmpl(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + " km/L"
}

func FormatLiters(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64) + " L"
}

// FormatMileage groups thousands with dots, "12.345 km".
func FormatMileage(km int64) string {
	return GroupThousands(km) + " km"
}

func GroupThousands(n int64) string {
	neg := n < 0
	if neg {
		n = -n
	}
	digits := strconv.FormatInt(n, 10)
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte('.')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// FormatDisplayDate renders the UTC calendar day as dd/mm/yyyy.
func FormatDisplayDate(d Date) string {
	if d.IsZero() {
		return ""
	}
	return d.UTC().Format("02/01/2006")
}
