package provider

import (
	"context"
	"errors"
	"testing"
)

// stubFetcher returns a canned payload or error.
type stubFetcher struct {
	BaseFetcher
	data any
	err  error
}

func (f *stubFetcher) Fetch(ctx context.Context, params QueryParams) (*FetchResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &FetchResult{Data: f.data}, nil
}

type stubProvider struct {
	BaseProvider
}

func newStubProvider(name string, fetchers ...Fetcher) *stubProvider {
	p := &stubProvider{
		BaseProvider: NewBaseProvider(name, "stub provider", "", nil),
	}
	for _, f := range fetchers {
		p.RegisterFetcher(f)
	}
	return p
}

func fundListStub(name string, data any, err error) *stubProvider {
	return newStubProvider(name, &stubFetcher{
		BaseFetcher: NewBaseFetcher(ModelFundList, "stub fund list", []string{ParamCountry}, nil),
		data:        data,
		err:         err,
	})
}

func TestRegisterAndGet(t *testing.T) {
	reg := NewRegistry()
	p := fundListStub("alpha", "funds", nil)
	if err := reg.Register(p); err != nil {
		t.Fatalf("Register: %v", err)
	}

	got, err := reg.Get("alpha")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Info().Name != "alpha" {
		t.Errorf("Info().Name = %q", got.Info().Name)
	}

	_, err = reg.Get("missing")
	var notFound *ErrProviderNotFound
	if !errors.As(err, &notFound) {
		t.Errorf("expected ErrProviderNotFound, got %v", err)
	}
}

func TestRegisterRejectsEmptyName(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(fundListStub("", nil, nil)); err == nil {
		t.Error("expected error for empty provider name")
	}
}

func TestDefaultProvider(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(fundListStub("alpha", nil, nil)); err != nil {
		t.Fatal(err)
	}
	if err := reg.Register(fundListStub("beta", nil, nil)); err != nil {
		t.Fatal(err)
	}

	// First registration wins the default.
	name, ok := reg.DefaultProvider(ModelFundList)
	if !ok || name != "alpha" {
		t.Errorf("DefaultProvider = %q, %v", name, ok)
	}

	if err := reg.SetDefault(ModelFundList, "beta"); err != nil {
		t.Fatalf("SetDefault: %v", err)
	}
	if name, _ := reg.DefaultProvider(ModelFundList); name != "beta" {
		t.Errorf("after SetDefault, default = %q", name)
	}

	if err := reg.SetDefault(ModelFundList, "missing"); err == nil {
		t.Error("expected error for unknown provider")
	}
	var notSupported *ErrModelNotSupported
	if err := reg.SetDefault(ModelFundHoldings, "alpha"); !errors.As(err, &notSupported) {
		t.Errorf("expected ErrModelNotSupported, got %v", err)
	}
}

func TestProvidersFor(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(fundListStub("alpha", nil, nil)); err != nil {
		t.Fatal(err)
	}
	if err := reg.Register(fundListStub("beta", nil, nil)); err != nil {
		t.Fatal(err)
	}

	names := reg.ProvidersFor(ModelFundList)
	if len(names) != 2 || names[0] != "alpha" || names[1] != "beta" {
		t.Errorf("ProvidersFor = %v", names)
	}
	if got := reg.ProvidersFor(ModelProviderNews); len(got) != 0 {
		t.Errorf("ProvidersFor(unsupported) = %v", got)
	}
}

func TestUnregister(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(fundListStub("alpha", nil, nil)); err != nil {
		t.Fatal(err)
	}
	if err := reg.Register(fundListStub("beta", nil, nil)); err != nil {
		t.Fatal(err)
	}

	reg.Unregister("alpha")

	if _, err := reg.Get("alpha"); err == nil {
		t.Error("provider still resolvable after Unregister")
	}
	// Default falls over to the remaining provider.
	if name, ok := reg.DefaultProvider(ModelFundList); !ok || name != "beta" {
		t.Errorf("default after Unregister = %q, %v", name, ok)
	}

	reg.Unregister("beta")
	if _, ok := reg.DefaultProvider(ModelFundList); ok {
		t.Error("default survived removing the last provider")
	}
}

func TestFetchRoutesToDefault(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(fundListStub("alpha", "payload", nil)); err != nil {
		t.Fatal(err)
	}

	result, err := reg.Fetch(context.Background(), ModelFundList, QueryParams{
		ParamCountry: "us",
	})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if result.Provider != "alpha" || result.Model != ModelFundList {
		t.Errorf("result metadata = %s/%s", result.Provider, result.Model)
	}
	if result.Data != "payload" {
		t.Errorf("result data = %v", result.Data)
	}
	if result.FetchedAt.IsZero() {
		t.Error("FetchedAt not stamped")
	}
}

func TestFetchExplicitProvider(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(fundListStub("alpha", "a", nil)); err != nil {
		t.Fatal(err)
	}
	if err := reg.Register(fundListStub("beta", "b", nil)); err != nil {
		t.Fatal(err)
	}

	result, err := reg.Fetch(context.Background(), ModelFundList, QueryParams{
		ParamCountry:  "us",
		ParamProvider: "beta",
	})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if result.Data != "b" {
		t.Errorf("routed to %v, want beta payload", result.Data)
	}
}

func TestFetchErrors(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(fundListStub("alpha", nil, nil)); err != nil {
		t.Fatal(err)
	}

	var notFound *ErrProviderNotFound
	if _, err := reg.Fetch(context.Background(), ModelFundHoldings, QueryParams{}); !errors.As(err, &notFound) {
		t.Errorf("unsupported model: got %v", err)
	}
	if _, err := reg.Fetch(context.Background(), ModelFundList, QueryParams{
		ParamProvider: "missing", ParamCountry: "us",
	}); !errors.As(err, &notFound) {
		t.Errorf("unknown provider: got %v", err)
	}

	var missing *ErrMissingParam
	_, err := reg.Fetch(context.Background(), ModelFundList, QueryParams{})
	if !errors.As(err, &missing) {
		t.Fatalf("expected ErrMissingParam, got %v", err)
	}
	if missing.Param != ParamCountry {
		t.Errorf("missing param = %q", missing.Param)
	}
}

func TestFetchPropagatesTypedErrors(t *testing.T) {
	fundErr := &ErrFundNotFound{Provider: "alpha", Ticker: "WOOD"}
	reg := NewRegistry()
	if err := reg.Register(fundListStub("alpha", nil, fundErr)); err != nil {
		t.Fatal(err)
	}

	_, err := reg.Fetch(context.Background(), ModelFundList, QueryParams{ParamCountry: "us"})
	var notFound *ErrFundNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ErrFundNotFound, got %v", err)
	}
	if notFound.Ticker != "WOOD" {
		t.Errorf("error ticker = %q", notFound.Ticker)
	}
}

func TestValidateParams(t *testing.T) {
	required := []string{ParamTicker, ParamCountry}

	if err := ValidateParams(QueryParams{ParamTicker: "WOOD", ParamCountry: "us"}, required); err != nil {
		t.Errorf("complete params: %v", err)
	}
	if err := ValidateParams(QueryParams{ParamTicker: "WOOD"}, required); err == nil {
		t.Error("missing key accepted")
	}
	if err := ValidateParams(QueryParams{ParamTicker: "WOOD", ParamCountry: ""}, required); err == nil {
		t.Error("empty value accepted")
	}
}

func TestCacheKey(t *testing.T) {
	a := CacheKey(ModelFundHoldings, QueryParams{ParamTicker: "WOOD", ParamCountry: "us"})
	b := CacheKey(ModelFundHoldings, QueryParams{ParamCountry: "us", ParamTicker: "WOOD"})
	if a != b {
		t.Errorf("key order-dependent: %q vs %q", a, b)
	}

	// The provider selector is routing metadata, not part of the query.
	c := CacheKey(ModelFundHoldings, QueryParams{ParamTicker: "WOOD", ParamCountry: "us", ParamProvider: "ishares"})
	if a != c {
		t.Errorf("provider param leaked into key: %q vs %q", a, c)
	}

	d := CacheKey(ModelFundHoldings, QueryParams{ParamTicker: "IVV", ParamCountry: "us"})
	if a == d {
		t.Error("distinct queries share a key")
	}
}

func TestBaseProviderInit(t *testing.T) {
	creds := []ProviderCredential{
		{Name: "api_key", Required: true, EnvVar: "STUB_API_KEY"},
	}
	p := &stubProvider{BaseProvider: NewBaseProvider("stub", "", "", creds)}

	var invalid *ErrInvalidCredentials
	if err := p.Init(nil); !errors.As(err, &invalid) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	if err := p.Init(map[string]string{"api_key": "secret"}); err != nil {
		t.Errorf("Init with credential: %v", err)
	}
	if p.Credential("api_key") != "secret" {
		t.Error("credential not stored")
	}
}
