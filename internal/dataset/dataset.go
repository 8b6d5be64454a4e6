package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/abeelha/btc-tracker/internal/models"
)

// FileName is the canonical dataset file under <data>/processed.
const FileName = "bitcoin_prices.csv"

var header = []string{"date", "datetime", "price", "market_cap", "volume"}

// Path returns the dataset location for a given data directory.
func Path(dataDir string) string {
	return filepath.Join(dataDir, "processed", FileName)
}

// Load reads the full dataset. A missing file yields an empty slice, not an
// error — the first collector run starts from nothing.
func Load(path string) ([]models.PriceRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	records := make([]models.PriceRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rec, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("dataset row %d: %w", i+2, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Merge unions existing and incoming rows keyed by date. Incoming values win
// on conflict; the result is sorted ascending by date. Merging the same batch
// twice is a no-op.
func Merge(existing, incoming []models.PriceRecord) []models.PriceRecord {
	byDate := make(map[string]models.PriceRecord, len(existing)+len(incoming))
	for _, r := range existing {
		byDate[r.Date] = r
	}
	for _, r := range incoming {
		byDate[r.Date] = r
	}

	merged := make([]models.PriceRecord, 0, len(byDate))
	for _, r := range byDate {
		merged = append(merged, r)
	}
	// YYYY-MM-DD sorts correctly as a string
	sort.Slice(merged, func(i, j int) bool { return merged[i].Date < merged[j].Date })
	return merged
}

// Write rewrites the dataset in full. The write goes to a temp file in the
// same directory and is renamed into place, so a failure mid-write never
// leaves a truncated dataset behind.
func Write(path string, records []models.PriceRecord) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dataset dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, FileName+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp dataset: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		tmp.Close()
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.Date,
			r.Datetime.Format(models.DatetimeLayout),
			strconv.FormatFloat(r.Price, 'f', 2, 64),
			strconv.FormatInt(r.MarketCap, 10),
			strconv.FormatInt(r.Volume, 10),
		}
		if err := w.Write(row); err != nil {
			tmp.Close()
			return fmt.Errorf("write row %s: %w", r.Date, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush dataset: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp dataset: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace dataset: %w", err)
	}
	return nil
}

func parseRow(row []string) (models.PriceRecord, error) {
	var rec models.PriceRecord
	if len(row) != len(header) {
		return rec, fmt.Errorf("expected %d columns, got %d", len(header), len(row))
	}

	if _, err := time.Parse(models.DateLayout, row[0]); err != nil {
		return rec, fmt.Errorf("date %q: %w", row[0], err)
	}
	rec.Date = row[0]

	dt, err := time.Parse(models.DatetimeLayout, row[1])
	if err != nil {
		return rec, fmt.Errorf("datetime %q: %w", row[1], err)
	}
	rec.Datetime = dt

	if rec.Price, err = strconv.ParseFloat(row[2], 64); err != nil {
		return rec, fmt.Errorf("price %q: %w", row[2], err)
	}
	if rec.MarketCap, err = strconv.ParseInt(row[3], 10, 64); err != nil {
		return rec, fmt.Errorf("market_cap %q: %w", row[3], err)
	}
	if rec.Volume, err = strconv.ParseInt(row[4], 10, 64); err != nil {
		return rec, fmt.Errorf("volume %q: %w", row[4], err)
	}
	return rec, nil
}
