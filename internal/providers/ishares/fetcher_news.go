package ishares

import (
	"context"
	"strconv"

	"github.com/mmcdole/gofeed"

	"github.com/lwestrich/etfcompo/internal/provider"
	"github.com/lwestrich/etfcompo/pkg/models"
)

// ---------------------------------------------------------------------------
// ProviderNews — BlackRock press releases via RSS.
// ---------------------------------------------------------------------------

type providerNewsFetcher struct {
	provider.BaseFetcher
	prov   *Provider
	parser *gofeed.Parser
}

func newProviderNewsFetcher(p *Provider) *providerNewsFetcher {
	return &providerNewsFetcher{
		BaseFetcher: provider.NewBaseFetcher(
			provider.ModelProviderNews,
			"BlackRock/iShares press releases",
			nil,
			[]string{provider.ParamLimit},
		),
		prov:   p,
		parser: gofeed.NewParser(),
	}
}

func (f *providerNewsFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	if err := f.RateLimit(ctx); err != nil {
		return nil, err
	}

	cacheKey := provider.CacheKey(provider.ModelProviderNews, params)
	if cached, ok := f.CacheGet(cacheKey); ok {
		return cached.(*provider.FetchResult), nil
	}

	limit := 20
	if v := params[provider.ParamLimit]; v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	feed, err := f.parser.ParseURLWithContext(f.prov.newsURL, ctx)
	if err != nil {
		return nil, &provider.ErrProviderUnavailable{Provider: providerName, Err: err}
	}

	var items []models.NewsItem
	for _, it := range feed.Items {
		if len(items) >= limit {
			break
		}
		item := models.NewsItem{
			Title:   it.Title,
			URL:     it.Link,
			Source:  feed.Title,
			Summary: it.Description,
		}
		if it.PublishedParsed != nil {
			item.PublishedAt = *it.PublishedParsed
		}
		items = append(items, item)
	}

	result := newResult(items)
	f.CacheSet(cacheKey, result)
	return result, nil
}
