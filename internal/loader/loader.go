// Package loader implements the composition loader: it pulls fund lists
// and holdings files from a provider and persists normalized composition
// snapshots to the store. Downloads are sequential, blocking and
// best-effort — one attempt per fund, no retries.
package loader

import (
	"context"
	"fmt"
	"log"

	"github.com/lwestrich/etfcompo/internal/provider"
	"github.com/lwestrich/etfcompo/internal/store"
	"github.com/lwestrich/etfcompo/pkg/models"
)

// Loader orchestrates provider fetches and snapshot writes. It holds its
// collaborators explicitly; there is no package-level state.
type Loader struct {
	reg          *provider.Registry
	store        *store.Store
	providerName string // empty selects the registry default per model
	country      string // default listing country for single-ticker downloads
}

// New creates a loader backed by the given registry and store.
func New(reg *provider.Registry, st *store.Store) *Loader {
	return &Loader{reg: reg, store: st, country: "us"}
}

// WithProvider pins the loader to a named provider instead of the
// registry default.
func (l *Loader) WithProvider(name string) *Loader {
	l.providerName = name
	return l
}

// WithCountry sets the default listing country used when downloading a
// single ticker without an explicit country.
func (l *Loader) WithCountry(country string) *Loader {
	l.country = country
	return l
}

// ListFunds queries the provider for all funds listed in country.
func (l *Loader) ListFunds(ctx context.Context, country string) ([]models.Fund, error) {
	result, err := l.reg.Fetch(ctx, provider.ModelFundList, provider.QueryParams{
		provider.ParamCountry:  country,
		provider.ParamProvider: l.providerName,
	})
	if err != nil {
		return nil, err
	}
	funds, ok := result.Data.([]models.Fund)
	if !ok {
		return nil, fmt.Errorf("loader: unexpected fund list payload %T", result.Data)
	}
	return funds, nil
}

// DownloadComposition fetches, normalizes and persists the holdings of a
// single fund in the loader's default country. Errors propagate directly.
func (l *Loader) DownloadComposition(ctx context.Context, ticker string) (*models.CompositionSnapshot, error) {
	return l.downloadOne(ctx, l.country, ticker)
}

// DownloadCompositionIn is DownloadComposition with an explicit listing
// country.
func (l *Loader) DownloadCompositionIn(ctx context.Context, country, ticker string) (*models.CompositionSnapshot, error) {
	return l.downloadOne(ctx, country, ticker)
}

func (l *Loader) downloadOne(ctx context.Context, country, ticker string) (*models.CompositionSnapshot, error) {
	result, err := l.reg.Fetch(ctx, provider.ModelFundHoldings, provider.QueryParams{
		provider.ParamTicker:   ticker,
		provider.ParamCountry:  country,
		provider.ParamProvider: l.providerName,
	})
	if err != nil {
		return nil, err
	}
	snap, ok := result.Data.(*models.CompositionSnapshot)
	if !ok {
		return nil, fmt.Errorf("loader: unexpected holdings payload %T", result.Data)
	}

	created, err := l.store.Write(snap)
	if err != nil {
		return nil, err
	}
	if !created {
		log.Printf("loader: snapshot %s/%s already stored, skipping write",
			snap.Ticker, snap.Date.Format(store.DateLayout))
	}
	return snap, nil
}

// DownloadCompositionsOfCountry fetches holdings for every fund listed in
// country, one at a time. A failure on one fund is recorded and does not
// abort the rest of the batch; the report carries the count of snapshots
// written and the per-ticker failures. Only a fund-list failure aborts.
func (l *Loader) DownloadCompositionsOfCountry(ctx context.Context, country string) (*models.DownloadReport, error) {
	funds, err := l.ListFunds(ctx, country)
	if err != nil {
		return nil, err
	}

	report := &models.DownloadReport{Country: country}
	for _, f := range funds {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		result, err := l.reg.Fetch(ctx, provider.ModelFundHoldings, provider.QueryParams{
			provider.ParamTicker:   f.Ticker,
			provider.ParamCountry:  country,
			provider.ParamProvider: l.providerName,
		})
		if err != nil {
			log.Printf("loader: %s: %v", f.Ticker, err)
			report.Failures = append(report.Failures, models.TickerFailure{
				Ticker: f.Ticker,
				Reason: err.Error(),
			})
			continue
		}
		snap, ok := result.Data.(*models.CompositionSnapshot)
		if !ok {
			report.Failures = append(report.Failures, models.TickerFailure{
				Ticker: f.Ticker,
				Reason: fmt.Sprintf("unexpected holdings payload %T", result.Data),
			})
			continue
		}

		created, err := l.store.Write(snap)
		if err != nil {
			log.Printf("loader: %s: %v", f.Ticker, err)
			report.Failures = append(report.Failures, models.TickerFailure{
				Ticker: f.Ticker,
				Reason: err.Error(),
			})
			continue
		}
		if created {
			report.Written++
		} else {
			report.Skipped++
		}
	}
	return report, nil
}
