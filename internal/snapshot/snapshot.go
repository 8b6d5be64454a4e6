package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// stampLayout matches the collection-time suffix embedded in snapshot names.
const stampLayout = "20060102_150405"

// Store persists verbatim API responses as write-once files under <dir>/raw.
// Snapshots are immutable audit artifacts and are never pruned.
type Store struct {
	dir string
}

func NewStore(dataDir string) *Store {
	return &Store{dir: filepath.Join(dataDir, "raw")}
}

// WriteCurrent saves a raw current-price response. Returns the file path.
func (s *Store) WriteCurrent(raw []byte, collectedAt time.Time) (string, error) {
	return s.write("current_price", raw, collectedAt)
}

// WriteHistorical saves a raw historical-range response. Returns the file path.
func (s *Store) WriteHistorical(raw []byte, collectedAt time.Time) (string, error) {
	return s.write("historical_data", raw, collectedAt)
}

func (s *Store) write(kind string, raw []byte, collectedAt time.Time) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("%s_%s.json", kind, collectedAt.Format(stampLayout))
	path := filepath.Join(s.dir, name)

	// O_EXCL: snapshots are write-once, an existing file is never overwritten
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create snapshot %s: %w", name, err)
	}

	if _, err := f.Write(raw); err != nil {
		f.Close()
		return "", fmt.Errorf("write snapshot %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close snapshot %s: %w", name, err)
	}
	return path, nil
}
