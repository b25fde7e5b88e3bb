package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"abastece/internal/core"
	"abastece/internal/store"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

const (
	fuelColumns        = "A:K"
	fuelRawColumns     = "A:G"
	maintenanceColumns = "A:F"
	summaryBase        = "Resumo"
)

type Client struct {
	svc              *gsheet.Service
	spreadsheetID    string
	fuelSheet        string
	maintenanceSheet string
	// Base name without year (e.g. "Resumo"); code prefixes year.
	summaryBase string
}

type Options struct {
	SpreadsheetID      string
	FuelSheet          string
	MaintenanceSheet   string
	SummarySheet       string
	ServiceAccountJSON string
	ServiceAccountFile string
}

// Ensure interface conformance
var _ store.LedgerStore = (*Client)(nil)

// New creates a Sheets client authenticated with a service account.
func New(ctx context.Context, opts Options) (*Client, error) {
	if strings.TrimSpace(opts.SpreadsheetID) == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	svc, err := newSheetsService(ctx, opts.ServiceAccountJSON, opts.ServiceAccountFile)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return newWithService(svc, opts), nil
}

// NewWithClientOptions builds a client over caller supplied API options,
// e.g. a custom endpoint and HTTP client.
func NewWithClientOptions(ctx context.Context, opts Options, clientOpts ...goption.ClientOption) (*Client, error) {
	if strings.TrimSpace(opts.SpreadsheetID) == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	svc, err := gsheet.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return newWithService(svc, opts), nil
}

func newWithService(svc *gsheet.Service, opts Options) *Client {
	fuel := strings.TrimSpace(opts.FuelSheet)
	if fuel == "" {
		fuel = "Abastecimentos"
	}
	maint := strings.TrimSpace(opts.MaintenanceSheet)
	if maint == "" {
		maint = "Manutencoes"
	}
	summary := strings.TrimSpace(opts.SummarySheet)
	if summary == "" {
		summary = summaryBase
	}
	return &Client{
		svc:              svc,
		spreadsheetID:    strings.TrimSpace(opts.SpreadsheetID),
		fuelSheet:        fuel,
		maintenanceSheet: maint,
		summaryBase:      summary,
	}
}

// newSheetsService initializes a Sheets Service using Service Account credentials,
// either inline JSON or a key file.
func newSheetsService(ctx context.Context, serviceAccountJSON, serviceAccountFile string) (*gsheet.Service, error) {
	serviceAccountJSON = strings.TrimSpace(serviceAccountJSON)
	serviceAccountFile = strings.TrimSpace(serviceAccountFile)

	var credentialsJSON []byte
	var err error

	switch {
	case serviceAccountJSON != "":
		slog.InfoContext(ctx, "Using inline JSON credentials")
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		slog.InfoContext(ctx, "Reading credentials from file", "path", serviceAccountFile)
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	slog.InfoContext(ctx, "Google Sheets service created successfully")
	return service, nil
}

func (c *Client) readRange(ctx context.Context, rng string) ([][]interface{}, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("FORMATTED_STRING").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	return resp.Values, nil
}

func (c *Client) writeRange(ctx context.Context, rng string, values [][]interface{}) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	vr := &gsheet.ValueRange{Values: values}
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write %s: %w", rng, err)
	}
	return nil
}

func (c *Client) clearRange(ctx context.Context, rng string) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	_, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, rng, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear %s: %w", rng, err)
	}
	return nil
}

// ListFuelEntries implements store.FuelEntryReader
func (c *Client) ListFuelEntries(ctx context.Context) ([]core.RawFuelEntry, error) {
	values, err := c.readRange(ctx, fmt.Sprintf("%s!%s", c.fuelSheet, fuelColumns))
	if err != nil {
		return nil, err
	}
	out := make([]core.RawFuelEntry, 0, len(values))
	for i, row := range values {
		e, ok := parseFuelRow(toStrings(row))
		if !ok {
			if i > 0 && !isBlank(row) {
				slog.WarnContext(ctx, "Skipping unreadable fuel row", "sheet", c.fuelSheet, "row", i+1)
			}
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// ListMaintenance implements store.MaintenanceReader
func (c *Client) ListMaintenance(ctx context.Context) ([]core.MaintenanceEvent, error) {
	values, err := c.readRange(ctx, fmt.Sprintf("%s!%s", c.maintenanceSheet, maintenanceColumns))
	if err != nil {
		return nil, err
	}
	out := make([]core.MaintenanceEvent, 0, len(values))
	for i, row := range values {
		m, ok := parseMaintenanceRow(toStrings(row))
		if !ok {
			if i > 0 && !isBlank(row) {
				slog.WarnContext(ctx, "Skipping unreadable maintenance row", "sheet", c.maintenanceSheet, "row", i+1)
			}
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (c *Client) CreateFuelEntry(ctx context.Context, e core.RawFuelEntry) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return c.appendRow(ctx, c.fuelSheet, "G", fuelRawRow(e))
}

func (c *Client) UpdateFuelEntry(ctx context.Context, e core.RawFuelEntry) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	row, err := c.findRow(ctx, c.fuelSheet, e.ID)
	if err != nil {
		return err
	}
	return c.writeRange(ctx, fmt.Sprintf("%s!A%d:G%d", c.fuelSheet, row, row), [][]interface{}{fuelRawRow(e)})
}

// DeleteFuelEntry clears the row; blank rows are skipped on read.
func (c *Client) DeleteFuelEntry(ctx context.Context, id string) error {
	row, err := c.findRow(ctx, c.fuelSheet, id)
	if err != nil {
		return err
	}
	return c.clearRange(ctx, fmt.Sprintf("%s!A%d:K%d", c.fuelSheet, row, row))
}

func (c *Client) CreateMaintenance(ctx context.Context, m core.MaintenanceEvent) error {
	if err := m.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return c.appendRow(ctx, c.maintenanceSheet, "F", maintenanceRow(m))
}

func (c *Client) UpdateMaintenance(ctx context.Context, m core.MaintenanceEvent) error {
	if err := m.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	row, err := c.findRow(ctx, c.maintenanceSheet, m.ID)
	if err != nil {
		return err
	}
	return c.writeRange(ctx, fmt.Sprintf("%s!A%d:F%d", c.maintenanceSheet, row, row), [][]interface{}{maintenanceRow(m)})
}

func (c *Client) DeleteMaintenance(ctx context.Context, id string) error {
	row, err := c.findRow(ctx, c.maintenanceSheet, id)
	if err != nil {
		return err
	}
	return c.clearRange(ctx, fmt.Sprintf("%s!A%d:F%d", c.maintenanceSheet, row, row))
}

// appendRow writes values into the first row after the last used one.
func (c *Client) appendRow(ctx context.Context, sheet, lastCol string, values []interface{}) error {
	ids, err := c.readRange(ctx, fmt.Sprintf("%s!A:A", sheet))
	if err != nil {
		return fmt.Errorf("failed to get sheet dimensions for %s: %w", sheet, err)
	}
	next := len(ids) + 1
	if next < 2 {
		// Row 1 holds the header.
		if err := c.writeRange(ctx, fmt.Sprintf("%s!A1:%s1", sheet, lastCol), [][]interface{}{headerFor(sheet == c.fuelSheet)}); err != nil {
			return err
		}
		next = 2
	}
	rng := fmt.Sprintf("%s!A%d:%s%d", sheet, next, lastCol, next)
	return c.writeRange(ctx, rng, [][]interface{}{values})
}

// findRow returns the 1-based sheet row holding id.
func (c *Client) findRow(ctx context.Context, sheet, id string) (int, error) {
	if strings.TrimSpace(id) == "" {
		return 0, core.ErrEmptyID
	}
	values, err := c.readRange(ctx, fmt.Sprintf("%s!A:A", sheet))
	if err != nil {
		return 0, err
	}
	idx := rowIndex(values, id)
	if idx < 0 {
		return 0, fmt.Errorf("%s row %s: %w", sheet, id, core.ErrNotFound)
	}
	return idx + 1, nil
}

// MirrorFuelLedger rewrites the fuel sheet with the full processed ledger,
// raw columns followed by the derived ones.
func (c *Client) MirrorFuelLedger(ctx context.Context, entries []core.ProcessedFuelEntry) error {
	values := make([][]interface{}, 0, len(entries)+1)
	values = append(values, fuelHeader)
	for _, e := range entries {
		values = append(values, fuelRow(e))
	}
	if err := c.clearRange(ctx, fmt.Sprintf("%s!%s", c.fuelSheet, fuelColumns)); err != nil {
		return err
	}
	rng := fmt.Sprintf("%s!A1:K%d", c.fuelSheet, len(values))
	if err := c.writeRange(ctx, rng, values); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Mirrored fuel ledger", "sheet", c.fuelSheet, "entries", len(entries))
	return nil
}

func (c *Client) MirrorMaintenance(ctx context.Context, events []core.MaintenanceEvent) error {
	values := make([][]interface{}, 0, len(events)+1)
	values = append(values, maintenanceHeader)
	for _, m := range events {
		values = append(values, maintenanceRow(m))
	}
	if err := c.clearRange(ctx, fmt.Sprintf("%s!%s", c.maintenanceSheet, maintenanceColumns)); err != nil {
		return err
	}
	rng := fmt.Sprintf("%s!A1:F%d", c.maintenanceSheet, len(values))
	if err := c.writeRange(ctx, rng, values); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Mirrored maintenance log", "sheet", c.maintenanceSheet, "events", len(events))
	return nil
}

// MirrorMonthlySummary writes the twelve monthly rows and the year totals
// into "<year> <summary>", creating the sheet when missing.
func (c *Client) MirrorMonthlySummary(ctx context.Context, year int, rows [12]core.MonthlyRow, totals core.YearSummary) error {
	sheet := yearPrefixedName(c.summaryBase, year)
	if err := c.ensureSheet(ctx, sheet); err != nil {
		return err
	}
	values := summaryValues(rows, totals)
	if err := c.clearRange(ctx, fmt.Sprintf("%s!A:D", sheet)); err != nil {
		return err
	}
	return c.writeRange(ctx, fmt.Sprintf("%s!A1:D%d", sheet, len(values)), values)
}

func (c *Client) ensureSheet(ctx context.Context, title string) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	ss, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("get spreadsheet: %w", err)
	}
	for _, s := range ss.Sheets {
		if s.Properties != nil && s.Properties.Title == title {
			return nil
		}
	}
	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			AddSheet: &gsheet.AddSheetRequest{Properties: &gsheet.SheetProperties{Title: title}},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("add sheet %s: %w", title, err)
	}
	slog.InfoContext(ctx, "Created summary sheet", "sheet", title)
	return nil
}

// Ping reads the spreadsheet title.
func (c *Client) Ping(ctx context.Context) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	_, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("spreadsheetId").Context(ctx).Do()
	return err
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		switch n := v.(type) {
		case float64:
			out[i] = strconv.FormatFloat(n, 'f', -1, 64)
		default:
			out[i] = strings.TrimSpace(fmt.Sprint(v))
		}
	}
	return out
}

// yearPrefixedName returns "<year> <base>" unless base already starts with a 4-digit year.
func yearPrefixedName(base string, year int) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return base
	}
	if len(base) >= 5 {
		if y, err := strconv.Atoi(base[0:4]); err == nil && base[4] == ' ' && y > 1900 && y < 3000 {
			return base
		}
	}
	return fmt.Sprintf("%d %s", year, base)
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}
