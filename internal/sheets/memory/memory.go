// Package memory is an in-process LedgerWriter keeping the last rows written per tab.
package memory

import (
	"context"
	"sort"
	"sync"

	"cashflow/internal/core"
	"cashflow/internal/sheets"
)

type Store struct {
	mu   sync.Mutex
	tabs map[string][][]any
}

var _ sheets.LedgerWriter = (*Store)(nil)

func New() *Store {
	return &Store{tabs: make(map[string][][]any)}
}

// WriteLedger replaces the tab for the record's period.
func (s *Store) WriteLedger(_ context.Context, rec core.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	rows := sheets.LedgerRows(rec)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tabs[sheets.TabName(rec.Period)] = rows
	return nil
}

// Rows returns the rows last written to tab.
func (s *Store) Rows(tab string) ([][]any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, ok := s.tabs[tab]
	return rows, ok
}

// Tabs returns the tab names, sorted.
func (s *Store) Tabs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.tabs))
	for name := range s.tabs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
