package maintenance

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"abastece/internal/core"
)

func TestSortLogMostRecentFirst(t *testing.T) {
	events := []core.MaintenanceEvent{
		{ID: "a", Date: core.NewDate(2024, 1, 1)},
		{ID: "c", Date: core.NewDate(2024, 6, 1)},
		{ID: "b", Date: core.NewDate(2024, 6, 1)},
		{ID: "d", Date: core.NewDate(2023, 12, 31)},
	}
	got := SortLog(events)
	ids := make([]string, len(got))
	for i, e := range got {
		ids[i] = e.ID
	}
	assert.Equal(t, []string{"b", "c", "a", "d"}, ids)
	assert.Equal(t, "a", events[0].ID, "input must not be reordered")
	assert.Empty(t, SortLog(nil))
}

func TestFormDefaults(t *testing.T) {
	now := time.Date(2024, 7, 9, 23, 30, 0, 0, time.FixedZone("BRT", -3*3600))

	f := FormDefaults(45210, now)
	assert.Equal(t, "2024-07-10", f.Date, "date is the UTC calendar day")
	assert.Equal(t, core.OilChange, f.ServiceType)
	assert.Equal(t, "45210", f.Mileage)
	assert.Empty(t, f.Cost)
	assert.Empty(t, f.Notes)

	assert.Empty(t, FormDefaults(0, now).Mileage)
}

func TestParsePayload(t *testing.T) {
	ev, err := ParsePayload(FormData{
		ID:          "m1",
		Date:        "2024-05-10",
		ServiceType: core.TireChange,
		Mileage:     "30500",
		Cost:        "1.200,50",
		Notes:       "  four tyres ",
	})
	require.NoError(t, err)
	assert.Equal(t, "m1", ev.ID)
	assert.Equal(t, core.NewDate(2024, 5, 10), ev.Date)
	assert.Equal(t, core.TireChange, ev.ServiceType)
	assert.Equal(t, int64(30500), ev.Mileage)
	assert.InDelta(t, 1200.5, ev.Cost, 1e-9)
	assert.Equal(t, "four tyres", ev.Notes)
}

func TestParsePayloadFallbacks(t *testing.T) {
	ev, err := ParsePayload(FormData{Date: "2024-05-10", ServiceType: "Revisão Geral", Mileage: "abc", Cost: "-5"})
	require.NoError(t, err)
	assert.Equal(t, core.GeneralReview, ev.ServiceType)
	assert.Zero(t, ev.Mileage)
	assert.Zero(t, ev.Cost)
	assert.Empty(t, ev.ID)
}

func TestParsePayloadErrors(t *testing.T) {
	_, err := ParsePayload(FormData{Date: "10/05/2024", ServiceType: core.OilChange})
	assert.True(t, errors.Is(err, core.ErrInvalidDate))

	_, err = ParsePayload(FormData{Date: "2024-05-10", ServiceType: "wash"})
	assert.True(t, errors.Is(err, core.ErrInvalidServiceType))
}

func TestFormatEventAndRoundTrip(t *testing.T) {
	ev := core.MaintenanceEvent{ID: "x", Date: core.NewDate(2024, 3, 5), ServiceType: core.OilChange, Mileage: 12345, Cost: 250}
	row := FormatEvent(ev)
	assert.Equal(t, "05/03/2024", row.DisplayDate)
	assert.Equal(t, "12.345 km", row.MileageText)
	assert.Equal(t, "R$ 250.00", row.CostText)
	assert.Equal(t, "Troca de Óleo", row.ServiceLabel)

	back, err := ParsePayload(ToForm(ev))
	require.NoError(t, err)
	assert.Equal(t, ev, back)
}

func TestBuildLog(t *testing.T) {
	rows := BuildLog([]core.MaintenanceEvent{
		{ID: "old", Date: core.NewDate(2023, 1, 1), ServiceType: core.OtherService},
		{ID: "new", Date: core.NewDate(2024, 1, 1), ServiceType: core.OtherService},
	})
	require.Len(t, rows, 2)
	assert.Equal(t, "new", rows[0].ID)
	assert.Equal(t, "Outro", rows[1].ServiceLabel)
}
