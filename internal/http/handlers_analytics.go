package http

import (
	"net/http"

	"abastece/internal/core"
	applog "abastece/internal/log"
)

type yearsResponse struct {
	Years   []int `json:"years"`
	Default int   `json:"default"`
}

type monthlyResponse struct {
	Year   int                 `json:"year"`
	Locale string              `json:"locale"`
	Months [12]core.MonthlyRow `json:"months"`
}

func (s *Server) handleYears(w http.ResponseWriter, r *http.Request) {
	years, def, err := s.reader.Years(r.Context(), 0)
	if err != nil {
		writeDomainError(w, r, applog.OpRead, err)
		return
	}
	writeJSON(w, http.StatusOK, yearsResponse{Years: years, Default: def})
}

func (s *Server) handleMonthly(w http.ResponseWriter, r *http.Request) {
	year, ok := s.resolveYear(w, r)
	if !ok {
		return
	}
	rows, err := s.reader.Monthly(r.Context(), year)
	if err != nil {
		writeDomainError(w, r, applog.OpRead, err)
		return
	}
	writeJSON(w, http.StatusOK, monthlyResponse{
		Year:   year,
		Locale: string(s.reader.Locale()),
		Months: rows,
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	year, ok := s.resolveYear(w, r)
	if !ok {
		return
	}
	summary, err := s.reader.Summary(r.Context(), year)
	if err != nil {
		writeDomainError(w, r, applog.OpRead, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// resolveYear returns ?year= when given, else the most recent year with data.
func (s *Server) resolveYear(w http.ResponseWriter, r *http.Request) (int, bool) {
	_, year, err := s.reader.Years(r.Context(), yearParam(r))
	if err != nil {
		writeDomainError(w, r, applog.OpRead, err)
		return 0, false
	}
	return year, true
}
