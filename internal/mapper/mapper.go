// Package mapper implements the composition mapper: it reads stored
// snapshots, aggregates holdings by country or coarse region and renders
// the distribution as a chart. The mapper never writes — running the
// loader first is a precondition.
package mapper

import (
	"time"

	"github.com/lwestrich/etfcompo/internal/report"
	"github.com/lwestrich/etfcompo/internal/store"
	"github.com/lwestrich/etfcompo/pkg/isocodes"
	"github.com/lwestrich/etfcompo/pkg/models"
)

// UnknownBucket collects holdings whose country cannot be resolved.
// Keeping them in an explicit bucket preserves total-weight conservation.
const UnknownBucket = "Unknown"

// Style selects the chart rendering for Plot.
type Style string

const (
	StyleBar   Style = "bar"
	StyleDonut Style = "donut"
)

// Mapper reads snapshots from a store and derives regional aggregates.
type Mapper struct {
	store      *store.Store
	chart      report.ChartConfig
	style      Style
	equityOnly bool
	byRegion   bool // aggregate into coarse regions instead of countries
}

// New creates a mapper over the given store.
func New(st *store.Store) *Mapper {
	return &Mapper{store: st, style: StyleBar}
}

// WithChartConfig overrides the chart rendering parameters.
func (m *Mapper) WithChartConfig(cfg report.ChartConfig) *Mapper {
	m.chart = cfg
	return m
}

// WithStyle selects the chart style used by Plot.
func (m *Mapper) WithStyle(s Style) *Mapper {
	m.style = s
	return m
}

// EquityOnly restricts aggregation to holdings with asset class Equity,
// matching how geographic exposure is usually quoted.
func (m *Mapper) EquityOnly() *Mapper {
	m.equityOnly = true
	return m
}

// ByRegion aggregates into coarse geographic regions (Europe,
// Asia-Pacific, ...) instead of individual countries.
func (m *Mapper) ByRegion() *Mapper {
	m.byRegion = true
	return m
}

// LoadSnapshot reads the snapshot for ticker exactly at or closest before
// date. A ticker with nothing stored at or before date fails with
// store.ErrSnapshotNotFound.
func (m *Mapper) LoadSnapshot(ticker string, date time.Time) (*models.CompositionSnapshot, error) {
	return m.store.Load(ticker, date)
}

// AggregateByRegion groups a snapshot's holdings by country bucket and
// sums their weights. Holdings whose country is missing or unrecognized
// land in the Unknown bucket, so the aggregate conserves the snapshot's
// total weight.
func AggregateByRegion(snap *models.CompositionSnapshot) map[string]float64 {
	return aggregate(snap, false, false)
}

func (m *Mapper) aggregate(snap *models.CompositionSnapshot) map[string]float64 {
	return aggregate(snap, m.equityOnly, m.byRegion)
}

func aggregate(snap *models.CompositionSnapshot, equityOnly, byRegion bool) map[string]float64 {
	out := make(map[string]float64)
	for _, h := range snap.Holdings {
		if equityOnly && h.AssetClass != "Equity" {
			continue
		}
		bucket := UnknownBucket
		if code, ok := isocodes.Normalize(h.Country); ok {
			bucket = code
			if byRegion {
				// Normalize succeeded, so the region lookup cannot miss.
				bucket, _ = isocodes.RegionOf(code)
			}
		}
		out[bucket] += h.Weight
	}
	return out
}

// RegionWeights converts an aggregate map into a slice for rendering.
func RegionWeights(agg map[string]float64) []models.RegionWeight {
	out := make([]models.RegionWeight, 0, len(agg))
	for region, weight := range agg {
		out = append(out, models.RegionWeight{Region: region, Weight: weight})
	}
	return out
}

// Plot loads the snapshot for (ticker, date), aggregates it and renders
// the regional distribution as an SVG chart. Presentation-only: the
// returned string is the rendered artifact.
func (m *Mapper) Plot(date time.Time, ticker string) (string, error) {
	snap, err := m.LoadSnapshot(ticker, date)
	if err != nil {
		return "", err
	}

	weights := RegionWeights(m.aggregate(snap))

	cfg := m.chart
	if cfg.Width == 0 {
		cfg = report.DefaultChartConfig()
	}
	if cfg.Title == "" {
		cfg.Title = snap.Ticker + " regional exposure, " + snap.Date.Format(store.DateLayout)
	}

	if m.style == StyleDonut {
		return report.DonutChart(weights, cfg), nil
	}
	return report.RegionBarChart(weights, cfg), nil
}
