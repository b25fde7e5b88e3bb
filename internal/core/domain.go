package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

const (
	Ethanol  FuelType = "ETANOL"
	Gasoline FuelType = "GASOLINA"
)

const (
	OilChange     ServiceType = "oil_change"
	TireChange    ServiceType = "tire_change"
	EngineReview  ServiceType = "engine_review"
	GeneralReview ServiceType = "general"
	OtherService  ServiceType = "other"
)

type (
	FuelType    string
	ServiceType string

	// Date is a calendar date stored as UTC midnight.
	Date struct {
		time.Time
	}

	RawFuelEntry struct {
		ID            string   `json:"id"`
		Date          Date     `json:"date"`
		TotalValue    float64  `json:"totalValue"`
		PricePerLiter float64  `json:"pricePerLiter"`
		KmEnd         int64    `json:"kmEnd"`
		FuelType      FuelType `json:"fuelType"`
		Notes         string   `json:"notes"`
	}

	// ProcessedFuelEntry is a raw entry enriched with the metrics derived
	// from its position in the chronological ledger.
	ProcessedFuelEntry struct {
		RawFuelEntry
		Liters   float64 `json:"liters"`
		KmStart  int64   `json:"kmStart"`
		Distance int64   `json:"distance"`
		AvgKmpl  float64 `json:"avgKmpl"`
	}

	MaintenanceEvent struct {
		ID          string      `json:"id"`
		Date        Date        `json:"date"`
		ServiceType ServiceType `json:"serviceType"`
		Mileage     int64       `json:"mileage"`
		Cost        float64     `json:"cost"`
		Notes       string      `json:"notes"`
	}
)

var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidFuelType    = errors.New("invalid fuel type")
	ErrInvalidServiceType = errors.New("invalid service type")
	ErrEmptyID            = errors.New("empty id")
	ErrNotesTooLong       = errors.New("notes too long (max 500 characters)")
)

// FuelTypes lists every fuel type in display order.
func FuelTypes() []FuelType {
	return []FuelType{Ethanol, Gasoline}
}

func (f FuelType) IsValid() bool {
	switch f {
	case Ethanol, Gasoline:
		return true
	}
	return false
}

// Label returns the pt-BR display name.
func (f FuelType) Label() string {
	switch f {
	case Ethanol:
		return "Etanol"
	case Gasoline:
		return "Gasolina"
	}
	return string(f)
}

// ParseFuelType accepts the stored tag or the display name in any case.
func ParseFuelType(s string) (FuelType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ETANOL", "ETHANOL":
		return Ethanol, nil
	case "GASOLINA", "GASOLINE":
		return Gasoline, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidFuelType, s)
}

// ServiceTypes lists every service type in display order.
func ServiceTypes() []ServiceType {
	return []ServiceType{OilChange, TireChange, EngineReview, GeneralReview, OtherService}
}

func (s ServiceType) IsValid() bool {
	switch s {
	case OilChange, TireChange, EngineReview, GeneralReview, OtherService:
		return true
	}
	return false
}

func (s ServiceType) Label() string {
	switch s {
	case OilChange:
		return "Troca de Óleo"
	case TireChange:
		return "Troca de Pneus"
	case EngineReview:
		return "Revisão do Motor"
	case GeneralReview:
		return "Revisão Geral"
	case OtherService:
		return "Outro"
	}
	return string(s)
}

// ParseServiceType accepts a stored tag or a display label.
func ParseServiceType(s string) (ServiceType, error) {
	v := strings.TrimSpace(s)
	for _, st := range ServiceTypes() {
		if strings.EqualFold(v, string(st)) || strings.EqualFold(v, st.Label()) {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidServiceType, s)
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its UTC calendar day.
func DateOf(t time.Time) Date {
	u := t.UTC()
	return NewDate(u.Year(), int(u.Month()), u.Day())
}

// ParseDate parses a YYYY-MM-DD string as UTC midnight. An RFC 3339
// timestamp is accepted too and truncated to its UTC day.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return Date{Time: t}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return DateOf(t), nil
	}
	return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.UTC().Day()
}

// Month returns the month (1-12)
func (d Date) Month() int {
	return int(d.Time.UTC().Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.UTC().Year()
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.UTC().Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDate, string(b))
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Validate checks the fields a fill-up form must carry. Numeric fields are
// sanitised on input and never rejected.
func (e RawFuelEntry) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if !e.FuelType.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidFuelType, e.FuelType)
	}
	if len(e.Notes) > 500 {
		return ErrNotesTooLong
	}
	return nil
}

func (m MaintenanceEvent) Validate() error {
	if err := m.Date.Validate(); err != nil {
		return err
	}
	if !m.ServiceType.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidServiceType, m.ServiceType)
	}
	if len(m.Notes) > 500 {
		return ErrNotesTooLong
	}
	return nil
}
