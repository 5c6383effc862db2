package ishares

import (
	"bytes"
	"context"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/lwestrich/etfcompo/internal/provider"
	"github.com/lwestrich/etfcompo/pkg/models"
)

// ---------------------------------------------------------------------------
// FundList — all iShares funds listed for one country.
// URL: https://www.ishares.com/<country site>/products/etf-investments
// ---------------------------------------------------------------------------

type fundListFetcher struct {
	provider.BaseFetcher
	prov *Provider
}

func newFundListFetcher(p *Provider) *fundListFetcher {
	return &fundListFetcher{
		BaseFetcher: provider.NewBaseFetcher(
			provider.ModelFundList,
			"List all iShares funds for a listing country",
			[]string{provider.ParamCountry},
			nil,
		),
		prov: p,
	}
}

func (f *fundListFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	if err := f.RateLimit(ctx); err != nil {
		return nil, err
	}

	country := strings.ToLower(params[provider.ParamCountry])
	if _, err := f.prov.screenerURL(country); err != nil {
		return nil, err
	}

	cacheKey := provider.CacheKey(provider.ModelFundList, params)
	if cached, ok := f.CacheGet(cacheKey); ok {
		return cached.(*provider.FetchResult), nil
	}

	funds, err := f.prov.fundDirectory(ctx, country)
	if err != nil {
		return nil, err
	}

	result := newResult(funds)
	f.CacheSet(cacheKey, result)
	return result, nil
}

// productIDRe extracts the numeric product id from a product page path,
// e.g. /us/products/239726/ishares-core-sp-500-etf → 239726.
var productIDRe = regexp.MustCompile(`/products/(\d+)(?:/|$)`)

// fetchFundList downloads and parses the product screener page for one
// country. Callers go through fundDirectory for caching.
func (p *Provider) fetchFundList(ctx context.Context, country string) ([]models.Fund, error) {
	url, err := p.screenerURL(country)
	if err != nil {
		return nil, err
	}

	raw, err := p.fetchRaw(ctx, url, htmlHeaders)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, &provider.ErrParse{Provider: providerName, Detail: "screener page is not HTML: " + err.Error()}
	}

	var funds []models.Fund
	seen := make(map[string]bool)

	doc.Find("table tbody tr").Each(func(_ int, row *goquery.Selection) {
		link := row.Find(`a[href*="/products/"]`).First()
		href, ok := link.Attr("href")
		if !ok {
			return
		}
		href = strings.TrimSpace(href)
		if i := strings.IndexAny(href, "?#"); i >= 0 {
			href = href[:i]
		}

		ticker := strings.TrimSpace(row.AttrOr("data-ticker", ""))
		if ticker == "" {
			ticker = strings.TrimSpace(row.Find("td").First().Text())
		}
		ticker = strings.ToUpper(ticker)
		if ticker == "" || seen[ticker] {
			return
		}

		name := strings.TrimSpace(link.Text())
		if name == "" {
			name = strings.TrimSpace(row.Find("td").Eq(1).Text())
		}

		var productID string
		if m := productIDRe.FindStringSubmatch(href); m != nil {
			productID = m[1]
		}

		seen[ticker] = true
		funds = append(funds, models.Fund{
			Ticker:     ticker,
			ProductID:  productID,
			Name:       name,
			Country:    country,
			ProductURL: href,
		})
	})

	if len(funds) == 0 {
		return nil, &provider.ErrParse{
			Provider: providerName,
			Detail:   "no product rows found in screener page for " + country,
		}
	}
	return funds, nil
}
