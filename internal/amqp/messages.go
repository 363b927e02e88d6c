package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"cashflow/internal/core"
)

// ChangeOp names the mutation that produced a LedgerChangeMessage.
type ChangeOp string

const (
	OpLedgerCreated ChangeOp = "ledger_created"
	OpEntryAdded    ChangeOp = "entry_added"
	OpEntryRemoved  ChangeOp = "entry_removed"
)

// LedgerChangeMessage announces that a ledger record was persisted.
// It carries no entry data; consumers read the record from storage.
type LedgerChangeMessage struct {
	EventID   string    `json:"event_id"`
	Op        ChangeOp  `json:"op"`
	Location  string    `json:"location"`
	Month     string    `json:"month"`
	Year      int       `json:"year"`
	EntryID   string    `json:"entry_id,omitempty"`
	NextID    int       `json:"next_id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewLedgerChangeMessage creates a message with a fresh event id.
func NewLedgerChangeMessage(op ChangeOp, p core.Period, location, entryID string, nextID int) *LedgerChangeMessage {
	return &LedgerChangeMessage{
		EventID:   uuid.NewString(),
		Op:        op,
		Location:  location,
		Month:     p.Month,
		Year:      p.Year,
		EntryID:   entryID,
		NextID:    nextID,
		Timestamp: time.Now().UTC(),
	}
}

// Period returns the validated period the message refers to.
func (m *LedgerChangeMessage) Period() (core.Period, error) {
	return core.NewPeriod(m.Month, m.Year)
}

// ToJSON converts the message to JSON bytes
func (m *LedgerChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerChangeMessageFromJSON decodes a message and checks required fields.
func LedgerChangeMessageFromJSON(data []byte) (*LedgerChangeMessage, error) {
	var msg LedgerChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	switch msg.Op {
	case OpLedgerCreated, OpEntryAdded, OpEntryRemoved:
	default:
		return nil, fmt.Errorf("unknown change op %q", msg.Op)
	}
	if _, err := msg.Period(); err != nil {
		return nil, err
	}
	return &msg, nil
}
