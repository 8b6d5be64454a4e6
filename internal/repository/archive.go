package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/abeelha/btc-tracker/internal/models"
)

// ArchiveRepo mirrors merged dataset rows into Postgres as an audit copy.
// The CSV dataset remains the source of truth; the archive is upsert-only
// and keyed by date like the dataset itself.
type ArchiveRepo struct {
	pool *pgxpool.Pool
}

func NewArchiveRepo(pool *pgxpool.Pool) *ArchiveRepo {
	return &ArchiveRepo{pool: pool}
}

func (r *ArchiveRepo) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS bitcoin_prices (
			date        date PRIMARY KEY,
			datetime    timestamptz NOT NULL,
			price       double precision NOT NULL,
			market_cap  bigint NOT NULL,
			volume      bigint NOT NULL,
			updated_at  timestamptz NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// UpsertRecords writes the batch in one round trip; conflicting dates take
// the incoming values (same last-write-wins rule as the dataset merge).
func (r *ArchiveRepo) UpsertRecords(ctx context.Context, records []models.PriceRecord) error {
	if len(records) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, rec := range records {
		batch.Queue(`
			INSERT INTO bitcoin_prices (date, datetime, price, market_cap, volume, updated_at)
			VALUES ($1, $2, $3, $4, $5, NOW())
			ON CONFLICT (date) DO UPDATE SET
				datetime   = EXCLUDED.datetime,
				price      = EXCLUDED.price,
				market_cap = EXCLUDED.market_cap,
				volume     = EXCLUDED.volume,
				updated_at = NOW()`,
			rec.Date, rec.Datetime, rec.Price, rec.MarketCap, rec.Volume,
		)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := range records {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("upsert %s: %w", records[i].Date, err)
		}
	}
	return nil
}

func (r *ArchiveRepo) GetLatest(ctx context.Context) (*models.PriceRecord, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT date, datetime, price, market_cap, volume
		 FROM bitcoin_prices ORDER BY date DESC LIMIT 1`)

	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

func (r *ArchiveRepo) GetRange(ctx context.Context, from, to string) ([]models.PriceRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT date, datetime, price, market_cap, volume
		 FROM bitcoin_prices WHERE date >= $1 AND date <= $2 ORDER BY date ASC`,
		from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.PriceRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

func (r *ArchiveRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM bitcoin_prices`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// --- scan helpers ---

type scannable interface {
	Scan(dest ...any) error
}

func scanRecord(row scannable) (*models.PriceRecord, error) {
	var rec models.PriceRecord
	var date time.Time
	if err := row.Scan(&date, &rec.Datetime, &rec.Price, &rec.MarketCap, &rec.Volume); err != nil {
		return nil, err
	}
	rec.Date = date.Format(models.DateLayout)
	return &rec, nil
}
