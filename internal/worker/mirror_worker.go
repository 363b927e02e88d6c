package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"cashflow/internal/amqp"
	"cashflow/internal/core"
	"cashflow/internal/sheets"
	"cashflow/internal/storage"
)

// Sink receives a full copy of a ledger record.
type Sink interface {
	Name() string
	Mirror(ctx context.Context, rec core.Record) error
}

// StoreSink copies records into another Store, e.g. the SQLite archive.
type StoreSink struct {
	name  string
	store storage.Store
}

func NewStoreSink(name string, store storage.Store) *StoreSink {
	return &StoreSink{name: name, store: store}
}

func (s *StoreSink) Name() string { return s.name }

func (s *StoreSink) Mirror(ctx context.Context, rec core.Record) error {
	return s.store.Save(ctx, s.store.PathFor(rec.Period), rec)
}

// SheetsSink writes records through a sheets.LedgerWriter.
type SheetsSink struct {
	writer sheets.LedgerWriter
}

func NewSheetsSink(writer sheets.LedgerWriter) *SheetsSink {
	return &SheetsSink{writer: writer}
}

func (s *SheetsSink) Name() string { return "sheets" }

func (s *SheetsSink) Mirror(ctx context.Context, rec core.Record) error {
	return s.writer.WriteLedger(ctx, rec)
}

// MirrorWorker copies the current state of changed ledgers from the primary store to every sink.
type MirrorWorker struct {
	source storage.Store
	sinks  []Sink
}

func NewMirrorWorker(source storage.Store, sinks ...Sink) *MirrorWorker {
	return &MirrorWorker{source: source, sinks: sinks}
}

// HandleChange processes a single ledger change message from AMQP.
// A returned error makes the consumer requeue the message.
func (w *MirrorWorker) HandleChange(ctx context.Context, msg *amqp.LedgerChangeMessage) error {
	p, err := msg.Period()
	if err != nil {
		return fmt.Errorf("message period: %w", err)
	}

	slog.InfoContext(ctx, "Processing change message",
		"event_id", msg.EventID,
		"op", msg.Op,
		"period", p.Key())

	return w.MirrorPeriod(ctx, p)
}

// MirrorPeriod loads the record for p and writes it to all sinks concurrently.
// A record that no longer exists is skipped.
func (w *MirrorWorker) MirrorPeriod(ctx context.Context, p core.Period) error {
	location := w.source.PathFor(p)
	rec, err := w.source.Load(ctx, location)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			slog.WarnContext(ctx, "Ledger no longer stored, skipping mirror", "location", location)
			return nil
		}
		return fmt.Errorf("load ledger: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, sink := range w.sinks {
		g.Go(func() error {
			if err := sink.Mirror(gctx, rec.Clone()); err != nil {
				slog.ErrorContext(gctx, "Failed to mirror ledger",
					"sink", sink.Name(),
					"location", location,
					"error", err)
				return fmt.Errorf("mirror to %s: %w", sink.Name(), err)
			}
			slog.DebugContext(gctx, "Ledger mirrored",
				"sink", sink.Name(),
				"location", location,
				"entries", len(rec.Entries))
			return nil
		})
	}
	return g.Wait()
}

// MirrorAll mirrors each period in turn, continuing past failures.
// It is used at startup to catch up on changes missed while the worker was down.
func (w *MirrorWorker) MirrorAll(ctx context.Context, periods []core.Period) error {
	var errs []error
	for _, p := range periods {
		if err := w.MirrorPeriod(ctx, p); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p.Key(), err))
		}
	}
	return errors.Join(errs...)
}
