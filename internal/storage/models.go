package storage

type FuelEntry struct {
	ID            string
	EntryDate     string
	TotalValue    float64
	PricePerLiter float64
	KmEnd         int64
	FuelType      string
	Notes         string
	Version       int64
	SyncStatus    string
}

type MaintenanceEvent struct {
	ID          string
	EventDate   string
	ServiceType string
	Mileage     int64
	Cost        float64
	Notes       string
	Version     int64
	SyncStatus  string
}

const (
	SyncPending = "pending"
	SyncSynced  = "synced"
	SyncError   = "error"
)

const (
	KindFuel        = "fuel"
	KindMaintenance = "maintenance"
)

// PendingSync identifies one row version the mirror has not seen yet.
type PendingSync struct {
	Kind    string
	ID      string
	Version int64
}
