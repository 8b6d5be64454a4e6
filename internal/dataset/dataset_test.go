package dataset

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/abeelha/btc-tracker/internal/models"
)

func rec(date string, price float64, cap, vol int64) models.PriceRecord {
	dt, _ := time.Parse(models.DateLayout, date)
	return models.PriceRecord{Date: date, Datetime: dt, Price: price, MarketCap: cap, Volume: vol}
}

func TestMerge_LastWriteWins(t *testing.T) {
	first := []models.PriceRecord{
		rec("2024-01-01", 40000, 780000000000, 25000000000),
		rec("2024-01-02", 41000, 800000000000, 26000000000),
	}
	second := []models.PriceRecord{
		rec("2024-01-02", 41500, 810000000000, 27000000000),
		rec("2024-01-03", 42000, 830000000000, 28000000000),
	}

	merged := Merge(Merge(nil, first), second)

	if len(merged) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(merged))
	}
	if merged[0].Date != "2024-01-01" || merged[1].Date != "2024-01-02" || merged[2].Date != "2024-01-03" {
		t.Fatalf("unexpected dates: %s %s %s", merged[0].Date, merged[1].Date, merged[2].Date)
	}
	if merged[1].Price != 41500 {
		t.Fatalf("overlapping date should take the later run's price, got %f", merged[1].Price)
	}
	if merged[1].MarketCap != 810000000000 || merged[1].Volume != 27000000000 {
		t.Fatalf("overlapping date should take the later run's cap/volume: %+v", merged[1])
	}
}

func TestMerge_Idempotent(t *testing.T) {
	batch := []models.PriceRecord{
		rec("2024-01-02", 41000, 800000000000, 26000000000),
		rec("2024-01-01", 40000, 780000000000, 25000000000),
	}

	once := Merge(nil, batch)
	twice := Merge(once, batch)

	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("merging the same batch twice changed the dataset:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestMerge_SortedAscending(t *testing.T) {
	batch := []models.PriceRecord{
		rec("2024-03-05", 68000, 0, 0),
		rec("2024-01-20", 41000, 0, 0),
		rec("2024-02-11", 48000, 0, 0),
	}

	merged := Merge(nil, batch)
	for i := 1; i < len(merged); i++ {
		if merged[i].Date <= merged[i-1].Date {
			t.Fatalf("not sorted ascending at index %d: %s <= %s", i, merged[i].Date, merged[i-1].Date)
		}
	}
}

func TestLoad_MissingFile(t *testing.T) {
	records, err := Load(filepath.Join(t.TempDir(), "does-not-exist.csv"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if records != nil {
		t.Fatalf("expected empty dataset, got %d rows", len(records))
	}
}

func TestLoad_MalformedRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	content := "date,datetime,price,market_cap,volume\n2024-01-01,2024-01-01 00:00:00,notaprice,1,1\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed price column")
	}
}

func TestWriteLoadRoundTrip(t *testing.T) {
	path := Path(t.TempDir())
	in := []models.PriceRecord{
		{
			Date:      "2024-01-01",
			Datetime:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Price:     40000.12,
			MarketCap: 780000000000,
			Volume:    25000000000,
		},
		{
			Date:      "2024-01-02",
			Datetime:  time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			Price:     41000.99,
			MarketCap: 800000000000,
			Volume:    26000000000,
		},
	}

	if err := Write(path, in); err != nil {
		t.Fatalf("Write: %v", err)
	}

	out, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("round trip mismatch:\nin:  %+v\nout: %+v", in, out)
	}
}

func TestWrite_Deterministic(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.csv")
	b := filepath.Join(dir, "b.csv")
	records := []models.PriceRecord{rec("2024-01-01", 40000, 1, 2)}

	if err := Write(a, records); err != nil {
		t.Fatal(err)
	}
	if err := Write(b, records); err != nil {
		t.Fatal(err)
	}

	da, _ := os.ReadFile(a)
	db, _ := os.ReadFile(b)
	if !bytes.Equal(da, db) {
		t.Fatal("identical datasets should serialize to identical bytes")
	}
}

func TestWrite_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := Path(dir)
	if err := Write(path, []models.PriceRecord{rec("2024-01-01", 40000, 1, 2)}); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != FileName {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("expected only %s, found %v", FileName, names)
	}
}
