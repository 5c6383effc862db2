package ishares

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lwestrich/etfcompo/internal/provider"
	"github.com/lwestrich/etfcompo/pkg/models"
)

const pressFeedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>BlackRock Newsroom</title>
<link>https://www.blackrock.com/corporate/newsroom</link>
<item>
  <title>Quarterly ETF flows update</title>
  <link>https://www.blackrock.com/news/flows</link>
  <description>Flows into fixed income ETFs accelerated.</description>
  <pubDate>Mon, 05 Aug 2024 09:00:00 GMT</pubDate>
</item>
<item>
  <title>New sustainable fund launches</title>
  <link>https://www.blackrock.com/news/launch</link>
  <description>Three new funds listed in Europe.</description>
  <pubDate>Fri, 02 Aug 2024 09:00:00 GMT</pubDate>
</item>
<item>
  <title>Market outlook</title>
  <link>https://www.blackrock.com/news/outlook</link>
  <pubDate>Thu, 01 Aug 2024 09:00:00 GMT</pubDate>
</item>
</channel>
</rss>`

func TestFetchProviderNews(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(pressFeedXML))
	}))
	defer srv.Close()

	p := New()
	p.SetNewsFeedURL(srv.URL)

	result, err := p.Fetcher(provider.ModelProviderNews).Fetch(context.Background(), provider.QueryParams{})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	items, ok := result.Data.([]models.NewsItem)
	if !ok {
		t.Fatalf("payload type %T", result.Data)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	first := items[0]
	if first.Title != "Quarterly ETF flows update" {
		t.Errorf("title = %q", first.Title)
	}
	if first.URL != "https://www.blackrock.com/news/flows" {
		t.Errorf("url = %q", first.URL)
	}
	if first.Source != "BlackRock Newsroom" {
		t.Errorf("source = %q", first.Source)
	}
	if first.PublishedAt.IsZero() {
		t.Error("published date not parsed")
	}
}

func TestFetchProviderNewsLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(pressFeedXML))
	}))
	defer srv.Close()

	p := New()
	p.SetNewsFeedURL(srv.URL)

	result, err := p.Fetcher(provider.ModelProviderNews).Fetch(context.Background(), provider.QueryParams{
		provider.ParamLimit: "1",
	})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	items := result.Data.([]models.NewsItem)
	if len(items) != 1 {
		t.Errorf("expected 1 item, got %d", len(items))
	}
}

func TestFetchProviderNewsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := New()
	p.SetNewsFeedURL(srv.URL)

	_, err := p.Fetcher(provider.ModelProviderNews).Fetch(context.Background(), provider.QueryParams{})
	var unavailable *provider.ErrProviderUnavailable
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}
