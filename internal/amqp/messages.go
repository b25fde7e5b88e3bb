package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	KindFuel        = "fuel"
	KindMaintenance = "maintenance"

	OpCreated = "created"
	OpUpdated = "updated"
	OpDeleted = "deleted"
)

// LedgerChangedMessage announces that a raw ledger row changed. It carries
// no row data: consumers recompute the derived ledger from the store.
type LedgerChangedMessage struct {
	Kind      string    `json:"kind"`
	ID        string    `json:"id"`
	Op        string    `json:"op"`
	Timestamp time.Time `json:"timestamp"`
}

func NewLedgerChangedMessage(kind, id, op string) *LedgerChangedMessage {
	return &LedgerChangedMessage{
		Kind:      kind,
		ID:        id,
		Op:        op,
		Timestamp: time.Now().UTC(),
	}
}

func (m *LedgerChangedMessage) Validate() error {
	switch m.Kind {
	case KindFuel, KindMaintenance:
	default:
		return fmt.Errorf("unknown kind %q", m.Kind)
	}
	switch m.Op {
	case OpCreated, OpUpdated, OpDeleted:
	default:
		return fmt.Errorf("unknown op %q", m.Op)
	}
	if m.ID == "" {
		return fmt.Errorf("empty id")
	}
	return nil
}

func (m *LedgerChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerChangedMessageFromJSON decodes and validates a message body.
func LedgerChangedMessageFromJSON(data []byte) (*LedgerChangedMessage, error) {
	var msg LedgerChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return &msg, nil
}
