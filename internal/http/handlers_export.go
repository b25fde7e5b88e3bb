package http

import (
	"fmt"
	"net/http"
	"strconv"

	"abastece/internal/core"
	"abastece/internal/export"
	applog "abastece/internal/log"

	"golang.org/x/sync/errgroup"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
)

func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	s.export(w, r, "xlsx", contentTypeXLSX, export.BuildXLSX)
}

func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	s.export(w, r, "pdf", contentTypePDF, export.BuildPDF)
}

func (s *Server) export(w http.ResponseWriter, r *http.Request, ext, contentType string, build func(export.Report) ([]byte, error)) {
	report, err := s.buildReport(r)
	if err != nil {
		writeDomainError(w, r, applog.OpExport, err)
		return
	}
	body, err := build(report)
	if err != nil {
		writeDomainError(w, r, applog.OpExport, fmt.Errorf("render %s: %w", ext, err))
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="abastece-%d.%s"`, report.Year, ext))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// buildReport gathers the full ledger and maintenance log concurrently.
// Both reads hit the same cached view after the first.
func (s *Server) buildReport(r *http.Request) (export.Report, error) {
	_, year, err := s.reader.Years(r.Context(), yearParam(r))
	if err != nil {
		return export.Report{}, err
	}

	var (
		entries []core.ProcessedFuelEntry
		events  []core.MaintenanceEvent
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		entries, err = s.reader.ProcessedEntries(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		events, err = s.reader.RawMaintenance(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return export.Report{}, err
	}
	return export.BuildReport(entries, events, year, s.reader.Locale()), nil
}
