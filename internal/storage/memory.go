package storage

import (
	"context"
	"sync"

	"cashflow/internal/core"
)

// MemoryStore keeps encoded records in process memory.
// Records go through the wire codec so round-trips match the file store.
type MemoryStore struct {
	mu      sync.Mutex
	items   map[string][]byte
	saveErr error
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string][]byte)}
}

func (s *MemoryStore) PathFor(p core.Period) string {
	return "mem:" + p.FileName()
}

func (s *MemoryStore) Exists(_ context.Context, location string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.items[location]
	return ok, nil
}

func (s *MemoryStore) Save(_ context.Context, location string, rec core.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return core.Persistence("save", location, s.saveErr)
	}
	data, err := Encode(rec)
	if err != nil {
		return core.Persistence("save", location, err)
	}
	s.items[location] = data
	return nil
}

func (s *MemoryStore) Load(_ context.Context, location string) (core.Record, error) {
	s.mu.Lock()
	data, ok := s.items[location]
	s.mu.Unlock()
	if !ok {
		return core.Record{}, core.NotFound("load", location, nil)
	}
	rec, err := Decode(data)
	if err != nil {
		return core.Record{}, core.Corrupt("load", location, err)
	}
	return rec, nil
}

// FailSaves makes every following Save fail with err. A nil err restores normal saves.
func (s *MemoryStore) FailSaves(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveErr = err
}

// Raw returns the stored bytes for location.
func (s *MemoryStore) Raw(location string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.items[location]
	return append([]byte(nil), data...), ok
}

// Put stores raw bytes at location, bypassing the codec.
func (s *MemoryStore) Put(location string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[location] = append([]byte(nil), data...)
}
