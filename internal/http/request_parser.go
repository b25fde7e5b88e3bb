// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing request bodies. Clients may
// send JSON or form-encoded data; every field is read back as text so the
// lenient number parsing of core applies to both.

package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"abastece/internal/core"
	"abastece/internal/maintenance"
)

const maxBodyBytes = 64 << 10

// RequestBodyParser handles different content types for request body parsing.
// It supports both JSON and form-encoded data.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]interface{}
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser creates a parser for the given request.
// It reads the body once and stores it for subsequent parsing.
func NewRequestBodyParser(w http.ResponseWriter, r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}

	p.body, p.err = io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	body := strings.TrimSpace(string(p.body))
	if body == "" {
		p.formData = url.Values{}
		return nil
	}

	if body[0] == '{' || strings.HasPrefix(p.contentType, "application/json") {
		p.jsonData = make(map[string]interface{})
		if err := json.Unmarshal([]byte(body), &p.jsonData); err != nil {
			p.err = err
			return err
		}
		return nil
	}

	// Fall back to form parsing
	p.formData, p.err = url.ParseQuery(body)
	return p.err
}

// Get returns a string value from the parsed data (JSON or form).
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return strings.TrimSpace(sanitizeInput(stringValue(val)))
		}
		return ""
	}
	if p.formData != nil {
		return strings.TrimSpace(sanitizeInput(p.formData.Get(key)))
	}
	return ""
}

// IsJSON returns true if the parsed content was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

// stringValue converts an interface{} to string.
func stringValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// FuelEntry builds a raw fill-up from the body. Date and fuel type are
// required; numbers never fail and fall back to 0.
func (p *RequestBodyParser) FuelEntry() (core.RawFuelEntry, error) {
	d, err := core.ParseDate(p.Get("date"))
	if err != nil {
		return core.RawFuelEntry{}, err
	}
	ft, err := core.ParseFuelType(p.Get("fuelType"))
	if err != nil {
		return core.RawFuelEntry{}, err
	}
	return core.RawFuelEntry{
		ID:            p.Get("id"),
		Date:          d,
		TotalValue:    core.ParseAmountOrZero(p.Get("totalValue")),
		PricePerLiter: core.ParseAmountOrZero(p.Get("pricePerLiter")),
		KmEnd:         core.ParseIntOrZero(p.Get("kmEnd")),
		FuelType:      ft,
		Notes:         p.Get("notes"),
	}, nil
}

// MaintenanceForm reads the body into the maintenance form shape.
func (p *RequestBodyParser) MaintenanceForm() maintenance.FormData {
	return maintenance.FormData{
		ID:          p.Get("id"),
		Date:        p.Get("date"),
		ServiceType: core.ServiceType(p.Get("serviceType")),
		Mileage:     p.Get("mileage"),
		Cost:        p.Get("cost"),
		Notes:       p.Get("notes"),
	}
}
