package ishares

import (
	"context"
	"strings"
	"time"

	"github.com/lwestrich/etfcompo/internal/provider"
)

// ---------------------------------------------------------------------------
// FundHoldings — current composition of a single fund as a CSV download.
// URL: <product page>/1467271812596.ajax?fileType=csv&fileName=<TICKER>_holdings&dataType=fund
// ---------------------------------------------------------------------------

type fundHoldingsFetcher struct {
	provider.BaseFetcher
	prov *Provider
}

func newFundHoldingsFetcher(p *Provider) *fundHoldingsFetcher {
	return &fundHoldingsFetcher{
		BaseFetcher: provider.NewBaseFetcher(
			provider.ModelFundHoldings,
			"Download and normalize the current holdings file of one fund",
			[]string{provider.ParamTicker},
			[]string{provider.ParamCountry},
		),
		prov: p,
	}
}

func (f *fundHoldingsFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	if err := f.RateLimit(ctx); err != nil {
		return nil, err
	}

	ticker := strings.ToUpper(strings.TrimSpace(params[provider.ParamTicker]))
	if ticker == "" {
		return nil, &provider.ErrMissingParam{Param: provider.ParamTicker}
	}
	country := strings.ToLower(params[provider.ParamCountry])
	if country == "" {
		country = "us"
	}
	if _, err := f.prov.screenerURL(country); err != nil {
		return nil, err
	}

	fund, err := f.prov.findFund(ctx, country, ticker)
	if err != nil {
		return nil, err
	}

	raw, err := f.prov.fetchRaw(ctx, f.prov.holdingsURL(fund), csvHeaders)
	if err != nil {
		return nil, err
	}

	snap, err := parseHoldingsCSV(raw, fund)
	if err != nil {
		return nil, err
	}
	if snap.Date.IsZero() {
		// No as-of line in the preamble: fall back to the download day.
		snap.Date = time.Now().UTC().Truncate(24 * time.Hour)
	}

	return newResult(snap), nil
}
