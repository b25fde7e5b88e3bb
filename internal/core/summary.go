package core

// MonthlyRow is one month of the yearly consumption chart.
type MonthlyRow struct {
	Name       string  `json:"name"`
	TotalSpent float64 `json:"totalSpent"`
	AvgPrice   float64 `json:"avgPrice"`
	AvgKmpl    float64 `json:"avgKmpl"`
}

// YearSummary aggregates a whole year of processed entries.
type YearSummary struct {
	Year          int     `json:"year"`
	Entries       int     `json:"entries"`
	TotalSpent    float64 `json:"totalSpent"`
	TotalLiters   float64 `json:"totalLiters"`
	TotalDistance int64   `json:"totalDistance"`
	AvgKmpl       float64 `json:"avgKmpl"`
	AvgPrice      float64 `json:"avgPrice"`
	CostPerKm     float64 `json:"costPerKm"`
}
