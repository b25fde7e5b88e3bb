package http

import (
	"net/http"

	"abastece/internal/core"
	applog "abastece/internal/log"
)

// handleListFuelEntries returns the processed ledger, optionally limited to
// one year with ?year=.
func (s *Server) handleListFuelEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := s.reader.ProcessedEntries(r.Context())
	if err != nil {
		writeDomainError(w, r, applog.OpList, err)
		return
	}
	if year := yearParam(r); year > 0 {
		filtered := make([]core.ProcessedFuelEntry, 0, len(entries))
		for _, e := range entries {
			if e.Date.Year() == year {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleCreateFuelEntry(w http.ResponseWriter, r *http.Request) {
	e, ok := s.parseFuelEntry(w, r)
	if !ok {
		return
	}
	saved, err := s.writer.CreateFuelEntry(r.Context(), e)
	if err != nil {
		writeDomainError(w, r, applog.OpCreate, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleUpdateFuelEntry(w http.ResponseWriter, r *http.Request) {
	e, ok := s.parseFuelEntry(w, r)
	if !ok {
		return
	}
	e.ID = r.PathValue("id")
	saved, err := s.writer.UpdateFuelEntry(r.Context(), e)
	if err != nil {
		writeDomainError(w, r, applog.OpUpdate, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleDeleteFuelEntry(w http.ResponseWriter, r *http.Request) {
	if err := s.writer.DeleteFuelEntry(r.Context(), r.PathValue("id")); err != nil {
		writeDomainError(w, r, applog.OpDelete, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) parseFuelEntry(w http.ResponseWriter, r *http.Request) (core.RawFuelEntry, bool) {
	p := NewRequestBodyParser(w, r)
	if err := p.Parse(); err != nil {
		writeError(w, r, http.StatusBadRequest, "malformed request body")
		return core.RawFuelEntry{}, false
	}
	e, err := p.FuelEntry()
	if err != nil {
		writeDomainError(w, r, applog.OpCreate, err)
		return core.RawFuelEntry{}, false
	}
	return e, true
}
