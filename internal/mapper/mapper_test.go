package mapper

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/lwestrich/etfcompo/internal/report"
	"github.com/lwestrich/etfcompo/internal/store"
	"github.com/lwestrich/etfcompo/pkg/models"
)

func timberSnapshot() *models.CompositionSnapshot {
	return &models.CompositionSnapshot{
		Ticker:   "WOOD",
		Provider: "ishares",
		Country:  "us",
		Date:     time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		Holdings: []models.Holding{
			{Name: "WEYERHAEUSER", Weight: 0.35, Country: "US", AssetClass: "Equity"},
			{Name: "RAYONIER", Weight: 0.25, Country: "US", AssetClass: "Equity"},
			{Name: "WEST FRASER TIMBER", Weight: 0.3, Country: "CA", AssetClass: "Equity"},
			{Name: "USD CASH", Weight: 0.1, Country: "", AssetClass: "Cash"},
		},
	}
}

func TestAggregateByRegion(t *testing.T) {
	agg := AggregateByRegion(timberSnapshot())

	want := map[string]float64{"US": 0.6, "CA": 0.3, UnknownBucket: 0.1}
	if len(agg) != len(want) {
		t.Fatalf("got %d buckets (%v), want %d", len(agg), agg, len(want))
	}
	for bucket, w := range want {
		if math.Abs(agg[bucket]-w) > 1e-9 {
			t.Errorf("agg[%s] = %v, want %v", bucket, agg[bucket], w)
		}
	}
}

func TestAggregateConservesTotalWeight(t *testing.T) {
	snap := timberSnapshot()
	snap.Holdings = append(snap.Holdings,
		models.Holding{Name: "MYSTERY CO", Weight: 0.04, Country: "ZZ"},
		models.Holding{Name: "EUROBOND", Weight: 0.01, ISIN: "XS0123456789"},
	)

	var total float64
	for _, w := range AggregateByRegion(snap) {
		total += w
	}
	if math.Abs(total-snap.TotalWeight()) > 1e-9 {
		t.Errorf("aggregate total %v, snapshot total %v", total, snap.TotalWeight())
	}
}

func TestAggregateNormalizesCountrySpellings(t *testing.T) {
	snap := &models.CompositionSnapshot{
		Ticker: "X",
		Date:   time.Now(),
		Holdings: []models.Holding{
			{Weight: 0.2, Country: "US"},
			{Weight: 0.2, Country: "USA"},
			{Weight: 0.2, Country: "United States"},
		},
	}
	agg := AggregateByRegion(snap)
	if math.Abs(agg["US"]-0.6) > 1e-9 {
		t.Errorf("agg[US] = %v, want 0.6 (all spellings folded)", agg["US"])
	}
	if len(agg) != 1 {
		t.Errorf("expected a single bucket, got %v", agg)
	}
}

func TestAggregateEquityOnly(t *testing.T) {
	m := New(nil).EquityOnly()
	agg := m.aggregate(timberSnapshot())

	if _, ok := agg[UnknownBucket]; ok {
		t.Errorf("cash holding survived the equity filter: %v", agg)
	}
	if math.Abs(agg["US"]-0.6) > 1e-9 || math.Abs(agg["CA"]-0.3) > 1e-9 {
		t.Errorf("equity buckets = %v", agg)
	}
}

func TestAggregateByCoarseRegion(t *testing.T) {
	m := New(nil).ByRegion()
	snap := timberSnapshot()
	snap.Holdings = append(snap.Holdings,
		models.Holding{Name: "NESTLE", Weight: 0.05, Country: "CH", AssetClass: "Equity"},
		models.Holding{Name: "SUMITOMO FORESTRY", Weight: 0.05, Country: "JP", AssetClass: "Equity"},
	)
	agg := m.aggregate(snap)

	want := map[string]float64{
		"North America": 0.9,
		"Europe":        0.05,
		"Asia-Pacific":  0.05,
		UnknownBucket:   0.1,
	}
	for bucket, w := range want {
		if math.Abs(agg[bucket]-w) > 1e-9 {
			t.Errorf("agg[%s] = %v, want %v", bucket, agg[bucket], w)
		}
	}
}

func TestRegionWeights(t *testing.T) {
	weights := RegionWeights(map[string]float64{"US": 0.6, "CA": 0.4})
	if len(weights) != 2 {
		t.Fatalf("got %d entries", len(weights))
	}
	seen := map[string]float64{}
	for _, rw := range weights {
		seen[rw.Region] = rw.Weight
	}
	if seen["US"] != 0.6 || seen["CA"] != 0.4 {
		t.Errorf("weights = %v", weights)
	}
}

func TestPlotFromStore(t *testing.T) {
	st := store.New(t.TempDir())
	snap := timberSnapshot()
	if _, err := st.Write(snap); err != nil {
		t.Fatal(err)
	}

	m := New(st)
	svg, err := m.Plot(snap.Date, "WOOD")
	if err != nil {
		t.Fatalf("Plot: %v", err)
	}
	if !strings.HasPrefix(svg, "<svg") || !strings.HasSuffix(svg, "</svg>") {
		t.Error("output is not a complete SVG document")
	}
	for _, label := range []string{"US", "CA", UnknownBucket, "WOOD"} {
		if !strings.Contains(svg, label) {
			t.Errorf("chart missing label %q", label)
		}
	}

	// A later query date resolves to the same stored snapshot.
	later, err := m.Plot(snap.Date.AddDate(0, 0, 10), "WOOD")
	if err != nil {
		t.Fatalf("Plot later: %v", err)
	}
	if later != svg {
		t.Error("chart differs when loading via closest-before date")
	}
}

func TestPlotStyles(t *testing.T) {
	st := store.New(t.TempDir())
	snap := timberSnapshot()
	if _, err := st.Write(snap); err != nil {
		t.Fatal(err)
	}

	bar, err := New(st).WithStyle(StyleBar).Plot(snap.Date, "WOOD")
	if err != nil {
		t.Fatal(err)
	}
	donut, err := New(st).WithStyle(StyleDonut).Plot(snap.Date, "WOOD")
	if err != nil {
		t.Fatal(err)
	}
	if bar == donut {
		t.Error("bar and donut styles rendered identically")
	}
	if !strings.Contains(donut, "<path") {
		t.Error("donut chart has no arc paths")
	}
}

func TestPlotCustomChartConfig(t *testing.T) {
	st := store.New(t.TempDir())
	snap := timberSnapshot()
	if _, err := st.Write(snap); err != nil {
		t.Fatal(err)
	}

	cfg := report.DefaultChartConfig()
	cfg.Width = 640
	cfg.Height = 320
	svg, err := New(st).WithChartConfig(cfg).Plot(snap.Date, "WOOD")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(svg, `width="640"`) || !strings.Contains(svg, `height="320"`) {
		t.Error("custom dimensions not applied")
	}
}

func TestPlotMissingSnapshot(t *testing.T) {
	m := New(store.New(t.TempDir()))

	_, err := m.Plot(time.Now(), "WOOD")
	var notFound *store.ErrSnapshotNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ErrSnapshotNotFound, got %v", err)
	}
}
