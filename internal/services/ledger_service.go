// Package services provides business logic and orchestration services.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"cashflow/internal/amqp"
	"cashflow/internal/cache"
	"cashflow/internal/core"
	"cashflow/internal/ledger"
	"cashflow/internal/log"
	"cashflow/internal/storage"
)

// DefaultRegistrySize bounds the number of ledgers kept open.
const DefaultRegistrySize = 12

// Publisher announces persisted ledger changes.
type Publisher interface {
	PublishLedgerChange(ctx context.Context, msg *amqp.LedgerChangeMessage) error
}

// LedgerService opens ledgers by period and keeps a single in-memory owner per location.
// A ledger leaving the registry is closed, so a stale handle can no longer write.
// Storage is authoritative; change messages are published best-effort after each write.
type LedgerService struct {
	store     storage.Store
	publisher Publisher
	logger    *log.Logger

	openMu   sync.Mutex
	registry *cache.LRUCache[*ledger.Ledger]
}

// NewLedgerService builds the service. publisher may be nil.
func NewLedgerService(store storage.Store, publisher Publisher, registrySize int, logger *log.Logger) *LedgerService {
	if registrySize <= 0 {
		registrySize = DefaultRegistrySize
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentLedger)

	return &LedgerService{
		store:     store,
		publisher: publisher,
		logger:    logger,
		registry: cache.NewLRUCache[*ledger.Ledger](registrySize, func(location string, l *ledger.Ledger) {
			l.Close()
			logger.Debug("Ledger evicted from registry", log.FieldLocation, location)
		}),
	}
}

// Open returns the ledger for p, loading it or creating it when nothing is stored yet.
func (s *LedgerService) Open(ctx context.Context, p core.Period) (*ledger.Ledger, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	location := s.store.PathFor(p)

	s.openMu.Lock()
	defer s.openMu.Unlock()

	if l, ok := s.registry.Get(location); ok {
		return l, nil
	}

	l, err := ledger.Load(ctx, s.store, location)
	switch {
	case err == nil:
		s.logger.DebugContext(ctx, "Ledger loaded", log.NewFields().
			WithOperation(log.OpOpen).
			WithPeriod(p).
			WithLocation(location).
			ToSlice()...)
	case errors.Is(err, core.ErrNotFound):
		l, err = ledger.Create(ctx, s.store, p)
		if err != nil {
			return nil, fmt.Errorf("create ledger %s: %w", p.Key(), err)
		}
		s.logger.InfoContext(ctx, "Ledger created", log.NewFields().
			WithOperation(log.OpCreate).
			WithPeriod(p).
			WithLocation(location).
			ToSlice()...)
		s.publish(ctx, amqp.NewLedgerChangeMessage(amqp.OpLedgerCreated, p, location, "", l.NextID()))
	default:
		return nil, fmt.Errorf("open ledger %s: %w", p.Key(), err)
	}

	s.registry.Set(location, l)
	return l, nil
}

// AddEntry parses amount from user text and appends an entry to the ledger for p.
func (s *LedgerService) AddEntry(ctx context.Context, p core.Period, label, amount string) (core.Entry, error) {
	l, err := s.Open(ctx, p)
	if err != nil {
		return core.Entry{}, err
	}

	id, err := l.AddEntryText(ctx, label, amount)
	if err != nil {
		if errors.Is(err, core.ErrPersistence) {
			s.discard(ctx, l, err)
		}
		return core.Entry{}, fmt.Errorf("add entry to %s: %w", p.Key(), err)
	}

	entry, _ := l.Entry(id)
	s.logger.InfoContext(ctx, "Entry added", log.NewFields().
		WithOperation(log.OpAdd).
		WithPeriod(p).
		WithEntry(entry).
		ToSlice()...)
	s.publish(ctx, amqp.NewLedgerChangeMessage(amqp.OpEntryAdded, p, l.Location(), id, l.NextID()))
	return entry, nil
}

// RemoveEntries removes every listed id and returns those actually removed.
// Unknown ids are skipped. It stops at the first persist failure.
func (s *LedgerService) RemoveEntries(ctx context.Context, p core.Period, ids ...string) ([]string, error) {
	l, err := s.Open(ctx, p)
	if err != nil {
		return nil, err
	}

	removed := make([]string, 0, len(ids))
	for _, id := range ids {
		ok, err := l.RemoveEntry(ctx, id)
		if err != nil {
			s.discard(ctx, l, err)
			return removed, fmt.Errorf("remove entry %s from %s: %w", id, p.Key(), err)
		}
		if !ok {
			s.logger.DebugContext(ctx, "Entry not found", log.FieldEntryID, id, log.FieldLocation, l.Location())
			continue
		}
		removed = append(removed, id)
		s.logger.InfoContext(ctx, "Entry removed", log.NewFields().
			WithOperation(log.OpRemove).
			WithPeriod(p).
			WithLocation(l.Location()).
			ToSlice()...)
		s.publish(ctx, amqp.NewLedgerChangeMessage(amqp.OpEntryRemoved, p, l.Location(), id, l.NextID()))
	}
	return removed, nil
}

func (s *LedgerService) Summary(ctx context.Context, p core.Period) (core.Summary, error) {
	l, err := s.Open(ctx, p)
	if err != nil {
		return core.Summary{}, err
	}
	return l.Summary(), nil
}

func (s *LedgerService) Entries(ctx context.Context, p core.Period) ([]core.Entry, error) {
	l, err := s.Open(ctx, p)
	if err != nil {
		return nil, err
	}
	return l.Entries(), nil
}

// discard drops a ledger whose memory diverged from storage; the next Open reloads it.
func (s *LedgerService) discard(ctx context.Context, l *ledger.Ledger, cause error) {
	s.openMu.Lock()
	if cur, ok := s.registry.Get(l.Location()); ok && cur == l {
		s.registry.Delete(l.Location())
	}
	s.openMu.Unlock()
	l.Close()

	s.logger.ErrorContext(ctx, "Ledger discarded after persist failure", log.NewFields().
		WithLocation(l.Location()).
		WithError(cause).
		ToSlice()...)
}

func (s *LedgerService) publish(ctx context.Context, msg *amqp.LedgerChangeMessage) {
	if s.publisher == nil {
		s.logger.DebugContext(ctx, "No publisher configured, skipping change message", log.FieldEventID, msg.EventID)
		return
	}
	if err := s.publisher.PublishLedgerChange(ctx, msg); err != nil {
		// Don't fail the operation - the ledger is saved
		s.logger.ErrorContext(ctx, "Failed to publish change message",
			log.FieldEventID, msg.EventID,
			log.FieldLocation, msg.Location,
			log.FieldError, err)
	}
}
