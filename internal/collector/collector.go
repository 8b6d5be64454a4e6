package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/abeelha/btc-tracker/internal/dataset"
	"github.com/abeelha/btc-tracker/internal/external"
	"github.com/abeelha/btc-tracker/internal/models"
	"github.com/abeelha/btc-tracker/internal/snapshot"
)

// requestSpacing keeps the two API calls apart to stay inside the public
// rate limit.
const requestSpacing = 1 * time.Second

// Notifier posts human-readable run results (see notifications.Sender).
type Notifier interface {
	Send(msg string)
}

// Archiver mirrors merged rows into an external store. Optional.
type Archiver interface {
	UpsertRecords(ctx context.Context, records []models.PriceRecord) error
}

type Service struct {
	gecko   *external.Client
	snaps   *snapshot.Store
	csvPath string
	notify  Notifier
	archive Archiver

	now func() time.Time
}

type Options struct {
	Client      *external.Client
	Snapshots   *snapshot.Store
	DatasetPath string
	Notifier    Notifier
	Archiver    Archiver

	// Now overrides the clock; tests use it for stable snapshot names.
	Now func() time.Time
}

func NewService(opts Options) *Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		gecko:   opts.Client,
		snaps:   opts.Snapshots,
		csvPath: opts.DatasetPath,
		notify:  opts.Notifier,
		archive: opts.Archiver,
		now:     opts.Now,
	}
}

// Run performs one full collection cycle: fetch current quote, fetch the
// historical window, persist both raw responses, normalize, merge into the
// dataset and rewrite it. Any failure before the final write leaves the
// dataset untouched.
func (s *Service) Run(ctx context.Context) error {
	runID := uuid.NewString()[:8]
	collectedAt := s.now().UTC()

	if err := s.run(ctx, runID, collectedAt); err != nil {
		s.report(fmt.Sprintf("run %s failed: %v", runID, err))
		return err
	}
	return nil
}

func (s *Service) run(ctx context.Context, runID string, collectedAt time.Time) error {
	fmt.Printf("[COLLECT] run %s: fetching current price...\n", runID)
	quote, rawCurrent, err := s.gecko.CurrentPrice(ctx)
	if err != nil {
		return fmt.Errorf("current price: %w", err)
	}
	fmt.Printf("[COLLECT] run %s: current price $%.2f (24h %+.2f%%)\n", runID, quote.Price, quote.Change24h)

	curPath, err := s.snaps.WriteCurrent(rawCurrent, collectedAt)
	if err != nil {
		return fmt.Errorf("snapshot current: %w", err)
	}
	fmt.Printf("[COLLECT] run %s: raw snapshot %s\n", runID, curPath)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(requestSpacing):
	}

	fmt.Printf("[COLLECT] run %s: fetching historical window...\n", runID)
	chart, rawHistorical, err := s.gecko.MarketChart(ctx)
	if err != nil {
		return fmt.Errorf("historical range: %w", err)
	}

	histPath, err := s.snaps.WriteHistorical(rawHistorical, collectedAt)
	if err != nil {
		return fmt.Errorf("snapshot historical: %w", err)
	}
	fmt.Printf("[COLLECT] run %s: raw snapshot %s\n", runID, histPath)

	incoming, err := Normalize(chart)
	if err != nil {
		return err
	}

	existing, err := dataset.Load(s.csvPath)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	merged := dataset.Merge(existing, incoming)
	if err := dataset.Write(s.csvPath, merged); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}

	if s.archive != nil {
		if err := s.archive.UpsertRecords(ctx, merged); err != nil {
			// archive is an audit mirror; the CSV write already succeeded
			fmt.Printf("[COLLECT] run %s: archive mirror failed: %v\n", runID, err)
		}
	}

	first, last := merged[0].Date, merged[len(merged)-1].Date
	fmt.Printf("[COLLECT] run %s: dataset now %d rows (%s .. %s)\n", runID, len(merged), first, last)
	s.report(fmt.Sprintf("run %s collected %d rows, dataset %d rows (%s .. %s), price $%.2f",
		runID, len(incoming), len(merged), first, last, quote.Price))
	return nil
}

func (s *Service) report(msg string) {
	if s.notify != nil {
		s.notify.Send(msg)
	}
}
