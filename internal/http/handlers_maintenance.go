package http

import (
	"net/http"

	applog "abastece/internal/log"
	"abastece/internal/maintenance"
)

func (s *Server) handleListMaintenance(w http.ResponseWriter, r *http.Request) {
	rows, err := s.reader.MaintenanceLog(r.Context())
	if err != nil {
		writeDomainError(w, r, applog.OpList, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleMaintenanceDefaults(w http.ResponseWriter, r *http.Request) {
	form, err := s.reader.MaintenanceDefaults(r.Context())
	if err != nil {
		writeDomainError(w, r, applog.OpRead, err)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

func (s *Server) handleCreateMaintenance(w http.ResponseWriter, r *http.Request) {
	s.saveMaintenance(w, r, "", http.StatusCreated)
}

func (s *Server) handleUpdateMaintenance(w http.ResponseWriter, r *http.Request) {
	s.saveMaintenance(w, r, r.PathValue("id"), http.StatusOK)
}

// saveMaintenance creates when id is empty and updates otherwise. The
// response is the formatted log row.
func (s *Server) saveMaintenance(w http.ResponseWriter, r *http.Request, id string, status int) {
	p := NewRequestBodyParser(w, r)
	if err := p.Parse(); err != nil {
		writeError(w, r, http.StatusBadRequest, "malformed request body")
		return
	}
	form := p.MaintenanceForm()
	form.ID = id

	event, err := maintenance.ParsePayload(form)
	if err != nil {
		writeDomainError(w, r, applog.OpCreate, err)
		return
	}
	saved, err := s.writer.SaveMaintenance(r.Context(), event)
	if err != nil {
		writeDomainError(w, r, applog.OpUpdate, err)
		return
	}
	writeJSON(w, status, maintenance.FormatEvent(saved))
}

func (s *Server) handleDeleteMaintenance(w http.ResponseWriter, r *http.Request) {
	if err := s.writer.DeleteMaintenance(r.Context(), r.PathValue("id")); err != nil {
		writeDomainError(w, r, applog.OpDelete, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
