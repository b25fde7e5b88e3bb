package core

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("case %d expected ErrInvalidDate, got %v", i, err)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Year() != 2024 || d.Month() != 3 || d.Day() != 15 {
		t.Fatalf("got %v", d)
	}
	if d.Location() != time.UTC || d.Hour() != 0 {
		t.Fatalf("expected UTC midnight, got %v", d.Time)
	}

	// Late evening west of UTC lands on the next UTC day.
	d, err = ParseDate("2024-03-15T22:30:00-03:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.String() != "2024-03-16" {
		t.Fatalf("expected 2024-03-16, got %s", d)
	}

	for _, bad := range []string{"", "15/03/2024", "2024-13-01", "nope"} {
		if _, err := ParseDate(bad); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("ParseDate(%q) expected ErrInvalidDate, got %v", bad, err)
		}
	}
}

func TestDateJSON(t *testing.T) {
	in := RawFuelEntry{ID: "a", Date: NewDate(2024, 1, 5), TotalValue: 100, PricePerLiter: 5, KmEnd: 1000, FuelType: Gasoline}
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out RawFuelEntry
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !out.Date.Equal(in.Date.Time) || out.KmEnd != 1000 || out.FuelType != Gasoline {
		t.Fatalf("round trip mismatch: %+v", out)
	}

	var bad RawFuelEntry
	if err := json.Unmarshal([]byte(`{"date":"05/01/2024"}`), &bad); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestParseFuelType(t *testing.T) {
	cases := map[string]FuelType{
		"ETANOL":   Ethanol,
		"etanol":   Ethanol,
		"Ethanol":  Ethanol,
		"GASOLINA": Gasoline,
		"Gasoline": Gasoline,
	}
	for in, want := range cases {
		got, err := ParseFuelType(in)
		if err != nil || got != want {
			t.Fatalf("ParseFuelType(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFuelType("diesel"); !errors.Is(err, ErrInvalidFuelType) {
		t.Fatalf("expected ErrInvalidFuelType, got %v", err)
	}
}

func TestServiceTypeLabels(t *testing.T) {
	for _, st := range ServiceTypes() {
		if !st.IsValid() {
			t.Fatalf("%q should be valid", st)
		}
		got, err := ParseServiceType(st.Label())
		if err != nil || got != st {
			t.Fatalf("label %q did not parse back to %q: %v", st.Label(), st, err)
		}
	}
	if OilChange.Label() != "Troca de Óleo" {
		t.Fatalf("unexpected label %q", OilChange.Label())
	}
	if _, err := ParseServiceType("car_wash"); !errors.Is(err, ErrInvalidServiceType) {
		t.Fatalf("expected ErrInvalidServiceType, got %v", err)
	}
}

func TestRawFuelEntryValidate(t *testing.T) {
	good := RawFuelEntry{Date: NewDate(2025, 1, 1), FuelType: Ethanol}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (RawFuelEntry{FuelType: Ethanol}).Validate(); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
	if err := (RawFuelEntry{Date: NewDate(2025, 1, 1), FuelType: "DIESEL"}).Validate(); !errors.Is(err, ErrInvalidFuelType) {
		t.Fatalf("expected ErrInvalidFuelType, got %v", err)
	}
}

func TestMaintenanceEventValidate(t *testing.T) {
	good := MaintenanceEvent{Date: NewDate(2025, 1, 1), ServiceType: TireChange}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (MaintenanceEvent{Date: NewDate(2025, 1, 1)}).Validate(); !errors.Is(err, ErrInvalidServiceType) {
		t.Fatalf("expected ErrInvalidServiceType, got %v", err)
	}
}
