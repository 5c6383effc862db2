// Package provider defines the capability-set abstraction between the
// loader and concrete data providers. A Provider registers one Fetcher per
// model type (fund list, fund holdings, ...) and a central registry routes
// requests to the right provider, so additional providers can be added
// without touching the loader's orchestration.
package provider

import (
	"context"
	"fmt"
	"time"
)

// ProviderCredential describes a required credential for a provider.
type ProviderCredential struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
	EnvVar      string `json:"env_var"`
}

// ProviderInfo holds metadata about a registered provider.
type ProviderInfo struct {
	Name        string               `json:"name"` // e.g. "ishares"
	Description string               `json:"description"`
	Website     string               `json:"website"`
	Credentials []ProviderCredential `json:"credentials"`
	Models      []ModelType          `json:"models"`
}

// Provider is the interface all data providers implement.
type Provider interface {
	// Info returns metadata about this provider.
	Info() ProviderInfo

	// Init initializes the provider with credentials and configuration.
	// Called once during registration.
	Init(credentials map[string]string) error

	// Fetcher returns the fetcher for the given model type, or nil if
	// unsupported.
	Fetcher(model ModelType) Fetcher

	// SupportedModels returns all model types this provider can fetch.
	SupportedModels() []ModelType

	// Ping verifies the provider's connectivity.
	Ping(ctx context.Context) error
}

// QueryParams is the generic query parameter map passed to fetchers.
// Each fetcher declares which keys it requires and supports.
type QueryParams map[string]string

// Common query parameter keys.
const (
	ParamTicker   = "ticker"
	ParamCountry  = "country"
	ParamDate     = "date"
	ParamLimit    = "limit"
	ParamProvider = "provider"
)

// FetchResult wraps a fetcher result with metadata.
type FetchResult struct {
	Provider  string    `json:"provider"`
	Model     ModelType `json:"model"`
	Data      any       `json:"data"` // typed per model, see ModelType docs
	FetchedAt time.Time `json:"fetched_at"`
	Cached    bool      `json:"cached"`
}

// Fetcher fetches a single standard model type.
type Fetcher interface {
	// ModelType returns the model type this fetcher handles.
	ModelType() ModelType

	// Description returns a human-readable description of the fetcher.
	Description() string

	// RequiredParams returns the parameter keys this fetcher requires.
	RequiredParams() []string

	// OptionalParams returns the parameter keys this fetcher accepts.
	OptionalParams() []string

	// Fetch retrieves data for the given query parameters. The concrete
	// data type depends on the model:
	//   - FundList     → []models.Fund
	//   - FundHoldings → *models.CompositionSnapshot
	//   - ProviderNews → []models.NewsItem
	Fetch(ctx context.Context, params QueryParams) (*FetchResult, error)
}

// ValidateParams checks that all required parameters are present.
func ValidateParams(params QueryParams, required []string) error {
	for _, key := range required {
		if v, ok := params[key]; !ok || v == "" {
			return &ErrMissingParam{Param: key}
		}
	}
	return nil
}

// --- Error kinds ---

// ErrProviderUnavailable is returned when the provider endpoint cannot be
// reached or answers with a server failure.
type ErrProviderUnavailable struct {
	Provider string
	Err      error
}

func (e *ErrProviderUnavailable) Error() string {
	return fmt.Sprintf("provider %q unavailable: %v", e.Provider, e.Err)
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrInvalidCountry is returned when a country code is not recognized by
// the provider.
type ErrInvalidCountry struct {
	Provider string
	Country  string
}

func (e *ErrInvalidCountry) Error() string {
	return fmt.Sprintf("provider %q does not recognize country %q", e.Provider, e.Country)
}

// ErrFundNotFound is returned when a ticker is unknown to the provider.
type ErrFundNotFound struct {
	Provider string
	Ticker   string
}

func (e *ErrFundNotFound) Error() string {
	return fmt.Sprintf("fund %q not found at provider %q", e.Ticker, e.Provider)
}

// ErrParse is returned when a downloaded payload does not match the
// expected tabular schema.
type ErrParse struct {
	Provider string
	Detail   string
}

func (e *ErrParse) Error() string {
	return fmt.Sprintf("provider %q payload parse error: %s", e.Provider, e.Detail)
}

// ErrProviderNotFound is returned when a requested provider is not registered.
type ErrProviderNotFound struct {
	Name string
}

func (e *ErrProviderNotFound) Error() string {
	return fmt.Sprintf("provider %q not found", e.Name)
}

// ErrModelNotSupported is returned when a provider doesn't support a model type.
type ErrModelNotSupported struct {
	Provider string
	Model    ModelType
}

func (e *ErrModelNotSupported) Error() string {
	return fmt.Sprintf("provider %q does not support model %q", e.Provider, e.Model)
}

// ErrMissingParam is returned when a required query parameter is missing.
type ErrMissingParam struct {
	Param string
}

func (e *ErrMissingParam) Error() string {
	return fmt.Sprintf("missing required parameter %q", e.Param)
}

// ErrInvalidCredentials is returned when provider credentials are invalid.
type ErrInvalidCredentials struct {
	Provider string
	Detail   string
}

func (e *ErrInvalidCredentials) Error() string {
	return fmt.Sprintf("invalid credentials for provider %q: %s", e.Provider, e.Detail)
}
