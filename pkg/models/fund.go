// Package models defines the canonical data model shared by providers,
// the loader and the mapper: funds, holdings and composition snapshots.
package models

import "time"

// Fund identifies a single ETF as listed by a provider.
type Fund struct {
	Ticker     string `json:"ticker"`
	ProductID  string `json:"product_id,omitempty"`  // provider-assigned identifier
	Name       string `json:"name"`
	Country    string `json:"country"`                // listing country, ISO 3166-1 alpha-2
	ProductURL string `json:"product_url,omitempty"` // provider page the holdings file hangs off
}

// Holding is a single line item within a fund's composition.
type Holding struct {
	Name       string  `json:"name"`
	Symbol     string  `json:"symbol,omitempty"`
	ISIN       string  `json:"isin,omitempty"`
	Weight     float64 `json:"weight"`            // fraction of fund NAV, 0..~1
	Country    string  `json:"country,omitempty"` // ISO 3166-1 alpha-2 of domicile
	Sector     string  `json:"sector,omitempty"`
	AssetClass string  `json:"asset_class,omitempty"` // "Equity", "Bond", "Cash", ...
}

// CompositionSnapshot is the full set of holdings for one fund as of one
// date. Snapshots are immutable once stored: a re-download for the same
// (ticker, date) pair is a no-op, never an in-place mutation.
type CompositionSnapshot struct {
	Ticker   string    `json:"ticker"`
	Provider string    `json:"provider"`
	Country  string    `json:"country"` // listing country of the fund
	Date     time.Time `json:"date"`    // day precision, UTC
	Holdings []Holding `json:"holdings"`
}

// TotalWeight sums the weights of all holdings in the snapshot.
// Due to cash and derivative positions the total may not be exactly 1.
func (s *CompositionSnapshot) TotalWeight() float64 {
	var total float64
	for _, h := range s.Holdings {
		total += h.Weight
	}
	return total
}

// RegionWeight is a derived (region, total weight) pair. It is computed on
// demand by the mapper and never stored.
type RegionWeight struct {
	Region string  `json:"region"`
	Weight float64 `json:"weight"`
}

// TickerFailure records a per-fund failure during a batch download.
type TickerFailure struct {
	Ticker string `json:"ticker"`
	Reason string `json:"reason"`
}

// DownloadReport summarizes a batch country download: how many snapshots
// were written plus the tickers that failed and why. Per-fund failures do
// not abort the batch.
type DownloadReport struct {
	Country  string          `json:"country"`
	Written  int             `json:"written"`
	Skipped  int             `json:"skipped"` // already-present (ticker, date) snapshots
	Failures []TickerFailure `json:"failures,omitempty"`
}

// Failed reports whether any fund in the batch failed.
func (r *DownloadReport) Failed() bool { return len(r.Failures) > 0 }

// NewsItem is a single provider press/insights feed entry.
type NewsItem struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	Summary     string    `json:"summary,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}
