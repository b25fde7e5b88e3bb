// Package maintenance holds the view model of the service log: ordering,
// form defaults, form parsing and display rows.
package maintenance

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"abastece/internal/core"
)

// FormData is the editable form state. Numeric fields are kept as text so
// an empty mileage stays empty instead of showing 0.
type FormData struct {
	ID          string           `json:"id,omitempty"`
	Date        string           `json:"date"`
	ServiceType core.ServiceType `json:"serviceType"`
	Mileage     string           `json:"mileage"`
	Cost        string           `json:"cost"`
	Notes       string           `json:"notes"`
}

// Row is one formatted line of the log.
type Row struct {
	ID           string           `json:"id"`
	Date         string           `json:"date"`
	DisplayDate  string           `json:"displayDate"`
	ServiceType  core.ServiceType `json:"serviceType"`
	ServiceLabel string           `json:"serviceLabel"`
	Mileage      int64            `json:"mileage"`
	MileageText  string           `json:"mileageText"`
	Cost         float64          `json:"cost"`
	CostText     string           `json:"costText"`
	Notes        string           `json:"notes"`
}

// SortLog returns a copy ordered most recent first. Events on the same day
// are ordered by ID.
func SortLog(events []core.MaintenanceEvent) []core.MaintenanceEvent {
	out := make([]core.MaintenanceEvent, len(events))
	copy(out, events)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.After(out[j].Date.Time)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// FormDefaults prepares a new-event form: today's UTC date, an oil change,
// and the current mileage when one is known.
func FormDefaults(currentMileage int64, now time.Time) FormData {
	f := FormData{
		Date:        core.DateOf(now).String(),
		ServiceType: core.OilChange,
	}
	if currentMileage > 0 {
		f.Mileage = strconv.FormatInt(currentMileage, 10)
	}
	return f
}

// ToForm fills the form for editing an existing event.
func ToForm(e core.MaintenanceEvent) FormData {
	return FormData{
		ID:          e.ID,
		Date:        e.Date.String(),
		ServiceType: e.ServiceType,
		Mileage:     strconv.FormatInt(e.Mileage, 10),
		Cost:        strconv.FormatFloat(e.Cost, 'f', -1, 64),
		Notes:       e.Notes,
	}
}

// ParsePayload converts submitted form values into an event. Mileage and
// cost never fail: malformed or negative values become 0. The date and
// service type are required.
func ParsePayload(f FormData) (core.MaintenanceEvent, error) {
	d, err := core.ParseDate(f.Date)
	if err != nil {
		return core.MaintenanceEvent{}, err
	}
	st, err := core.ParseServiceType(string(f.ServiceType))
	if err != nil {
		return core.MaintenanceEvent{}, err
	}
	notes := strings.TrimSpace(f.Notes)
	if len(notes) > 500 {
		return core.MaintenanceEvent{}, core.ErrNotesTooLong
	}
	return core.MaintenanceEvent{
		ID:          strings.TrimSpace(f.ID),
		Date:        d,
		ServiceType: st,
		Mileage:     core.ParseIntOrZero(f.Mileage),
		Cost:        core.ParseAmountOrZero(f.Cost),
		Notes:       notes,
	}, nil
}

func FormatEvent(e core.MaintenanceEvent) Row {
	return Row{
		ID:           e.ID,
		Date:         e.Date.String(),
		DisplayDate:  core.FormatDisplayDate(e.Date),
		ServiceType:  e.ServiceType,
		ServiceLabel: e.ServiceType.Label(),
		Mileage:      e.Mileage,
		MileageText:  core.FormatMileage(e.Mileage),
		Cost:         e.Cost,
		CostText:     core.FormatCurrency(e.Cost),
		Notes:        e.Notes,
	}
}

// BuildLog sorts and formats the whole log.
func BuildLog(events []core.MaintenanceEvent) []Row {
	sorted := SortLog(events)
	rows := make([]Row, 0, len(sorted))
	for _, e := range sorted {
		rows = append(rows, FormatEvent(e))
	}
	return rows
}
