// Package ledger implements one month's cash-flow ledger.
//
// A Ledger owns identifier assignment and aggregation for a single period and
// writes its full record through to a storage.Store after every mutation.
// The in-memory mutation is applied before the write, so a failed write leaves
// memory ahead of storage; callers should discard the Ledger in that case.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"cashflow/internal/core"
	"cashflow/internal/storage"
)

// ErrClosed is returned by mutations on a Ledger after Close.
var ErrClosed = errors.New("ledger closed")

// Ledger is safe for concurrent use; each operation runs as one unit.
type Ledger struct {
	mu       sync.Mutex
	store    storage.Store
	location string
	rec      core.Record
	index    map[string]int // entry id -> position in rec.Entries
	closed   bool
}

// Create returns the ledger for p. An existing record is loaded as is and
// never overwritten; otherwise an empty record is persisted immediately.
func Create(ctx context.Context, store storage.Store, p core.Period) (*Ledger, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	location := store.PathFor(p)

	exists, err := store.Exists(ctx, location)
	if err != nil {
		return nil, err
	}
	if exists {
		return Load(ctx, store, location)
	}

	l := newLedger(store, location, core.NewRecord(p))
	if err := store.Save(ctx, location, l.rec); err != nil {
		return nil, err
	}
	return l, nil
}

// Load materializes the ledger stored at location. Store errors are returned unchanged.
func Load(ctx context.Context, store storage.Store, location string) (*Ledger, error) {
	rec, err := store.Load(ctx, location)
	if err != nil {
		return nil, err
	}
	return newLedger(store, location, rec), nil
}

func newLedger(store storage.Store, location string, rec core.Record) *Ledger {
	if rec.Entries == nil {
		rec.Entries = []core.Entry{}
	}
	l := &Ledger{store: store, location: location, rec: rec}
	l.reindex()
	return l
}

func (l *Ledger) reindex() {
	l.index = make(map[string]int, len(l.rec.Entries))
	for i, e := range l.rec.Entries {
		l.index[e.ID] = i
	}
}

// AddEntry records amount under label and returns the new identifier.
// A non-finite amount fails with core.ErrInvalidEntry before anything changes.
func (l *Ledger) AddEntry(ctx context.Context, label string, amount float64) (string, error) {
	d, err := core.AmountFromFloat(amount)
	if err != nil {
		return "", err
	}
	return l.AddAmount(ctx, label, d)
}

// AddEntryText is AddEntry for raw user input such as "-12,50".
func (l *Ledger) AddEntryText(ctx context.Context, label, amount string) (string, error) {
	d, err := core.ParseAmount(amount)
	if err != nil {
		return "", err
	}
	return l.AddAmount(ctx, label, d)
}

// AddAmount appends an entry and persists the record.
// On a persist error the identifier is still returned: the entry exists in
// memory but not in storage.
func (l *Ledger) AddAmount(ctx context.Context, label string, amount decimal.Decimal) (string, error) {
	if err := core.ValidateAmount(amount); err != nil {
		return "", err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return "", fmt.Errorf("add entry to %s: %w", l.location, ErrClosed)
	}

	l.rec.NextID++
	id := core.FormatID(l.rec.NextID)
	l.rec.Entries = append(l.rec.Entries, core.Entry{
		ID:     id,
		Label:  core.NormalizeLabel(label),
		Amount: amount,
	})
	l.index[id] = len(l.rec.Entries) - 1

	if err := l.store.Save(ctx, l.location, l.rec); err != nil {
		return id, err
	}
	return id, nil
}

// RemoveEntry deletes the entry with id and persists the record.
// An unknown id is not an error: it returns false without writing.
func (l *Ledger) RemoveEntry(ctx context.Context, id string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return false, fmt.Errorf("remove entry from %s: %w", l.location, ErrClosed)
	}

	i, ok := l.index[id]
	if !ok {
		return false, nil
	}
	l.rec.Entries = append(l.rec.Entries[:i], l.rec.Entries[i+1:]...)
	l.reindex()

	if err := l.store.Save(ctx, l.location, l.rec); err != nil {
		return true, err
	}
	return true, nil
}

// Close releases ownership of the location. Later AddEntry and RemoveEntry
// calls fail with ErrClosed and never write; reads keep working.
// Close waits for an in-flight mutation to finish.
func (l *Ledger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
}

// Closed reports whether Close was called.
func (l *Ledger) Closed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}

// Entries returns a copy of the entries in insertion order.
func (l *Ledger) Entries() []core.Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]core.Entry(nil), l.rec.Entries...)
}

func (l *Ledger) Entry(id string) (core.Entry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i, ok := l.index[id]
	if !ok {
		return core.Entry{}, false
	}
	return l.rec.Entries[i], true
}

func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.rec.Entries)
}

// NextID returns the last identifier number issued.
func (l *Ledger) NextID() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rec.NextID
}

func (l *Ledger) Period() core.Period {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rec.Period
}

func (l *Ledger) Location() string {
	return l.location
}

// Record returns a deep copy of the current record.
func (l *Ledger) Record() core.Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rec.Clone()
}

// TotalBalance is the sum of all amounts.
func (l *Ledger) TotalBalance() decimal.Decimal {
	return l.Summary().Balance
}

// PositiveTotal is the sum of amounts >= 0.
func (l *Ledger) PositiveTotal() decimal.Decimal {
	return l.Summary().Income
}

// NegativeMagnitude is the absolute sum of amounts < 0.
func (l *Ledger) NegativeMagnitude() decimal.Decimal {
	return l.Summary().Expenses
}

// Ratio is the share of income consumed by expenses, saturated at 1.
func (l *Ledger) Ratio() float64 {
	return l.Summary().Ratio
}

func (l *Ledger) Summary() core.Summary {
	l.mu.Lock()
	defer l.mu.Unlock()
	return core.Summarize(l.rec.Period, l.rec.Entries)
}

func (l *Ledger) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return fmt.Sprintf("ledger %s (%d entries)", l.rec.Period.Key(), len(l.rec.Entries))
}
