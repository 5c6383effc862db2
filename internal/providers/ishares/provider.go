// Package ishares implements the iShares (BlackRock) ETF data provider.
// iShares publishes per-country product listings as HTML and per-fund
// holdings files as CSV downloads — no API key required.
package ishares

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/lwestrich/etfcompo/internal/infra"
	"github.com/lwestrich/etfcompo/internal/provider"
	"github.com/lwestrich/etfcompo/pkg/models"
)

const (
	providerName   = "ishares"
	defaultBaseURL = "https://www.ishares.com"

	// Magic path segment of the holdings CSV download endpoint. It is a
	// fixed resource id on every iShares product page.
	holdingsAjaxPath = "1467271812596.ajax"

	// BlackRock corporate press feed, consumed by the news fetcher.
	defaultNewsFeedURL = "https://www.blackrock.com/corporate/newsroom/rss.xml"
)

// countrySites maps ISO 3166-1 alpha-2 listing countries to the product
// screener path on the iShares site for that country. A country outside
// this table is not recognized by the provider.
var countrySites = map[string]string{
	"us": "/us/products/etf-investments",
	"gb": "/uk/individual/en/products/etf-investments",
	"de": "/de/privatanleger/produkte/etf-investments",
	"fr": "/fr/particuliers/produits/etf-investments",
	"nl": "/nl/particuliere-belegger/producten/etf-investments",
	"it": "/it/investitori-privati/prodotti/etf-investments",
	"ch": "/ch/privatkunden/de/produkte/etf-investments",
	"ca": "/ca/investors/en/products/etf-investments",
}

// Provider is the iShares data provider.
type Provider struct {
	provider.BaseProvider

	http    *infra.Client
	baseURL string
	newsURL string

	// fundDir caches the per-country fund directory (refreshed daily).
	fundDirMu   sync.RWMutex
	fundDir     map[string][]models.Fund
	fundDirTime map[string]time.Time
}

// New creates a new iShares provider and registers all fetchers.
func New() *Provider {
	p := &Provider{
		BaseProvider: provider.NewBaseProvider(
			providerName,
			"iShares by BlackRock — ETF listings and daily holdings files",
			"https://www.ishares.com",
			nil, // no credentials required
		),
		http:        infra.NewClient(30 * time.Second),
		baseURL:     defaultBaseURL,
		newsURL:     defaultNewsFeedURL,
		fundDir:     make(map[string][]models.Fund),
		fundDirTime: make(map[string]time.Time),
	}

	p.RegisterFetcher(newFundListFetcher(p))
	p.RegisterFetcher(newFundHoldingsFetcher(p))
	p.RegisterFetcher(newProviderNewsFetcher(p))

	return p
}

// SetBaseURL overrides the iShares site base URL. Used by tests to point
// the provider at a mock server.
func (p *Provider) SetBaseURL(url string) {
	p.baseURL = strings.TrimRight(url, "/")
}

// SetNewsFeedURL overrides the press feed URL.
func (p *Provider) SetNewsFeedURL(url string) { p.newsURL = url }

// Countries returns the listing countries this provider recognizes.
func (p *Provider) Countries() []string {
	out := make([]string, 0, len(countrySites))
	for c := range countrySites {
		out = append(out, c)
	}
	return out
}

// screenerURL returns the product screener URL for a country, or an
// ErrInvalidCountry if the country is not configured.
func (p *Provider) screenerURL(country string) (string, error) {
	path, ok := countrySites[strings.ToLower(strings.TrimSpace(country))]
	if !ok {
		return "", &provider.ErrInvalidCountry{Provider: providerName, Country: country}
	}
	return p.baseURL + path, nil
}

// holdingsURL returns the holdings CSV download URL for a fund.
func (p *Provider) holdingsURL(f models.Fund) string {
	return fmt.Sprintf("%s%s/%s?fileType=csv&fileName=%s_holdings&dataType=fund",
		p.baseURL, f.ProductURL, holdingsAjaxPath, f.Ticker)
}

// Ping verifies connectivity by fetching the US product screener page.
func (p *Provider) Ping(ctx context.Context) error {
	url, err := p.screenerURL("us")
	if err != nil {
		return err
	}
	body, status, err := p.http.DoGet(ctx, url, htmlHeaders)
	if err != nil {
		return &provider.ErrProviderUnavailable{Provider: providerName, Err: err}
	}
	defer body.Close()
	if status >= 400 {
		return &provider.ErrProviderUnavailable{
			Provider: providerName,
			Err:      fmt.Errorf("HTTP %d from %s", status, url),
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Fund directory — cached per country for 24 hours.
// ---------------------------------------------------------------------------

const fundDirTTL = 24 * time.Hour

// fundDirectory returns the cached fund list for a country, refreshing if
// stale.
func (p *Provider) fundDirectory(ctx context.Context, country string) ([]models.Fund, error) {
	country = strings.ToLower(strings.TrimSpace(country))

	p.fundDirMu.RLock()
	funds, ok := p.fundDir[country]
	fresh := ok && time.Since(p.fundDirTime[country]) < fundDirTTL
	p.fundDirMu.RUnlock()
	if fresh {
		return funds, nil
	}

	p.fundDirMu.Lock()
	defer p.fundDirMu.Unlock()

	// Double-check after acquiring the write lock.
	if funds, ok := p.fundDir[country]; ok && time.Since(p.fundDirTime[country]) < fundDirTTL {
		return funds, nil
	}

	funds, err := p.fetchFundList(ctx, country)
	if err != nil {
		return nil, err
	}
	p.fundDir[country] = funds
	p.fundDirTime[country] = time.Now()
	return funds, nil
}

// findFund looks a ticker up in a country's fund directory.
func (p *Provider) findFund(ctx context.Context, country, ticker string) (models.Fund, error) {
	funds, err := p.fundDirectory(ctx, country)
	if err != nil {
		return models.Fund{}, err
	}
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	for _, f := range funds {
		if strings.ToUpper(f.Ticker) == ticker {
			return f, nil
		}
	}
	return models.Fund{}, &provider.ErrFundNotFound{Provider: providerName, Ticker: ticker}
}

// ---------------------------------------------------------------------------
// HTTP helpers.
// ---------------------------------------------------------------------------

var htmlHeaders = map[string]string{
	"Accept":          "text/html,application/xhtml+xml",
	"Accept-Language": "en-US,en;q=0.9",
}

var csvHeaders = map[string]string{
	"Accept": "text/csv,application/octet-stream",
}

// fetchRaw fetches a URL and returns the raw bytes. Network errors and
// HTTP failures surface as ErrProviderUnavailable.
func (p *Provider) fetchRaw(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	body, status, err := p.http.DoGet(ctx, url, headers)
	if err != nil {
		return nil, &provider.ErrProviderUnavailable{Provider: providerName, Err: err}
	}
	defer body.Close()
	if status >= 400 {
		b, _ := io.ReadAll(body)
		return nil, &provider.ErrProviderUnavailable{
			Provider: providerName,
			Err:      fmt.Errorf("HTTP %d: %s", status, firstLine(string(b))),
		}
	}
	return io.ReadAll(body)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 200 {
		s = s[:200]
	}
	return strings.TrimSpace(s)
}

// newResult creates a FetchResult with the current timestamp.
func newResult(data any) *provider.FetchResult {
	return &provider.FetchResult{
		Data:      data,
		FetchedAt: time.Now(),
	}
}
