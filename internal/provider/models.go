package provider

// ModelType identifies a standard data model a fetcher can produce.
// Each ModelType maps to a data structure in pkg/models.
type ModelType string

const (
	// ModelFundList is the list of funds a provider offers for one listing
	// country. Data type: []models.Fund.
	ModelFundList ModelType = "FundList"

	// ModelFundHoldings is the current composition of a single fund.
	// Data type: *models.CompositionSnapshot.
	ModelFundHoldings ModelType = "FundHoldings"

	// ModelProviderNews is the provider's press/insights feed.
	// Data type: []models.NewsItem.
	ModelProviderNews ModelType = "ProviderNews"
)
