// Package store persists composition snapshots as a flat file tree:
//
//	<dir>/<provider>/<country>/<ticker>/<YYYY-MM-DD>.csv
//
// Snapshots are written once and never mutated in place. The store is the
// only point of contact between the loader (writes) and the mapper (reads).
package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/lwestrich/etfcompo/pkg/models"
)

// DateLayout is the on-disk date format for snapshot file names and rows.
const DateLayout = "2006-01-02"

// snapshotHeader is the canonical on-disk column set.
var snapshotHeader = []string{
	"ticker", "date", "name", "symbol", "isin", "weight", "country", "sector", "asset_class",
}

// ErrSnapshotNotFound is returned when no snapshot exists for a ticker at
// or before the requested date. Running the loader first is a precondition.
type ErrSnapshotNotFound struct {
	Ticker string
	Date   time.Time
}

func (e *ErrSnapshotNotFound) Error() string {
	return fmt.Sprintf("no snapshot stored for %q at or before %s", e.Ticker, e.Date.Format(DateLayout))
}

// Store reads and writes snapshot files under a base directory.
type Store struct {
	dir string
}

// New creates a store rooted at dir. The directory is created lazily on
// the first write.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the store's base directory.
func (s *Store) Dir() string { return s.dir }

// path returns the snapshot file path for one (provider, country, ticker, date).
func (s *Store) path(provider, country, ticker string, date time.Time) string {
	return filepath.Join(s.dir,
		strings.ToLower(provider),
		strings.ToLower(country),
		strings.ToUpper(ticker),
		date.Format(DateLayout)+".csv")
}

// Exists reports whether a snapshot for (ticker, date) is already stored,
// under any provider/country.
func (s *Store) Exists(ticker string, date time.Time) bool {
	matches := s.glob(ticker)
	want := date.Format(DateLayout) + ".csv"
	for _, m := range matches {
		if filepath.Base(m) == want {
			return true
		}
	}
	return false
}

// Write persists a snapshot. If a file for the snapshot's (ticker, date)
// already exists the write is a no-op and created is false: the first
// stored snapshot for a date wins, re-downloads never rewrite it. The file
// is written to a temp path and renamed so a failure never leaves a
// partial snapshot behind.
func (s *Store) Write(snap *models.CompositionSnapshot) (created bool, err error) {
	if snap.Ticker == "" {
		return false, fmt.Errorf("store: snapshot has no ticker")
	}
	if snap.Date.IsZero() {
		return false, fmt.Errorf("store: snapshot has no date")
	}

	path := s.path(snap.Provider, snap.Country, snap.Ticker, snap.Date)
	if _, statErr := os.Stat(path); statErr == nil {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("store: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*")
	if err != nil {
		return false, fmt.Errorf("store: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(snapshotHeader); err != nil {
		tmp.Close()
		return false, fmt.Errorf("store: %w", err)
	}
	date := snap.Date.Format(DateLayout)
	for _, h := range snap.Holdings {
		row := []string{
			strings.ToUpper(snap.Ticker),
			date,
			h.Name,
			h.Symbol,
			h.ISIN,
			strconv.FormatFloat(h.Weight, 'f', -1, 64),
			h.Country,
			h.Sector,
			h.AssetClass,
		}
		if err := w.Write(row); err != nil {
			tmp.Close()
			return false, fmt.Errorf("store: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return false, fmt.Errorf("store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return false, fmt.Errorf("store: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return false, fmt.Errorf("store: %w", err)
	}
	return true, nil
}

// Load returns the snapshot for ticker exactly at or closest before date.
func (s *Store) Load(ticker string, date time.Time) (*models.CompositionSnapshot, error) {
	var (
		bestPath string
		bestDate time.Time
	)
	for _, path := range s.glob(ticker) {
		name := strings.TrimSuffix(filepath.Base(path), ".csv")
		d, err := time.Parse(DateLayout, name)
		if err != nil {
			continue // stray file, not a snapshot
		}
		if d.After(date) {
			continue
		}
		if bestPath == "" || d.After(bestDate) {
			bestPath = path
			bestDate = d
		}
	}
	if bestPath == "" {
		return nil, &ErrSnapshotNotFound{Ticker: ticker, Date: date}
	}
	return s.read(bestPath)
}

// Dates returns all stored snapshot dates for a ticker, ascending.
func (s *Store) Dates(ticker string) []time.Time {
	var dates []time.Time
	for _, path := range s.glob(ticker) {
		name := strings.TrimSuffix(filepath.Base(path), ".csv")
		if d, err := time.Parse(DateLayout, name); err == nil {
			dates = append(dates, d)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// glob lists snapshot files for a ticker across all providers and countries.
func (s *Store) glob(ticker string) []string {
	pattern := filepath.Join(s.dir, "*", "*", strings.ToUpper(ticker), "*.csv")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil
	}
	return matches
}

// read parses one snapshot file back into a CompositionSnapshot. Provider
// and country are recovered from the path.
func (s *Store) read(path string) (*models.CompositionSnapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("store: reading %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("store: %s is empty", path)
	}
	if !equalHeader(records[0], snapshotHeader) {
		return nil, fmt.Errorf("store: %s has unexpected header %v", path, records[0])
	}

	// <dir>/<provider>/<country>/<ticker>/<date>.csv
	tickerDir := filepath.Dir(path)
	countryDir := filepath.Dir(tickerDir)
	providerDir := filepath.Dir(countryDir)

	snap := &models.CompositionSnapshot{
		Ticker:   filepath.Base(tickerDir),
		Country:  filepath.Base(countryDir),
		Provider: filepath.Base(providerDir),
	}
	name := strings.TrimSuffix(filepath.Base(path), ".csv")
	snap.Date, err = time.Parse(DateLayout, name)
	if err != nil {
		return nil, fmt.Errorf("store: %s has invalid date name: %w", path, err)
	}

	for i, row := range records[1:] {
		if len(row) != len(snapshotHeader) {
			return nil, fmt.Errorf("store: %s row %d has %d columns, want %d", path, i+1, len(row), len(snapshotHeader))
		}
		weight, err := strconv.ParseFloat(row[5], 64)
		if err != nil {
			return nil, fmt.Errorf("store: %s row %d weight: %w", path, i+1, err)
		}
		snap.Holdings = append(snap.Holdings, models.Holding{
			Name:       row[2],
			Symbol:     row[3],
			ISIN:       row[4],
			Weight:     weight,
			Country:    row[6],
			Sector:     row[7],
			AssetClass: row[8],
		})
	}
	return snap, nil
}

func equalHeader(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if !strings.EqualFold(strings.TrimSpace(got[i]), want[i]) {
			return false
		}
	}
	return true
}
