// Package isocodes maps ISO 3166-1 country codes and names. The table covers
// the countries that appear in practice in ETF holdings files; lookups for
// anything else return ok=false and callers bucket those as unknown.
package isocodes

import "strings"

// Country holds the ISO 3166-1 identifiers and coarse region of one country.
type Country struct {
	Alpha2 string
	Alpha3 string
	Name   string
	Region string
}

// Coarse geographic regions used by RegionOf.
const (
	RegionNorthAmerica = "North America"
	RegionLatinAmerica = "Latin America"
	RegionEurope       = "Europe"
	RegionAsiaPacific  = "Asia-Pacific"
	RegionMiddleEast   = "Middle East"
	RegionAfrica       = "Africa"
)

var countries = []Country{
	{"US", "USA", "United States", RegionNorthAmerica},
	{"CA", "CAN", "Canada", RegionNorthAmerica},
	{"MX", "MEX", "Mexico", RegionLatinAmerica},
	{"BR", "BRA", "Brazil", RegionLatinAmerica},
	{"AR", "ARG", "Argentina", RegionLatinAmerica},
	{"CL", "CHL", "Chile", RegionLatinAmerica},
	{"CO", "COL", "Colombia", RegionLatinAmerica},
	{"PE", "PER", "Peru", RegionLatinAmerica},
	{"KY", "CYM", "Cayman Islands", RegionLatinAmerica},
	{"BM", "BMU", "Bermuda", RegionLatinAmerica},
	{"GB", "GBR", "United Kingdom", RegionEurope},
	{"IE", "IRL", "Ireland", RegionEurope},
	{"FR", "FRA", "France", RegionEurope},
	{"DE", "DEU", "Germany", RegionEurope},
	{"NL", "NLD", "Netherlands", RegionEurope},
	{"BE", "BEL", "Belgium", RegionEurope},
	{"LU", "LUX", "Luxembourg", RegionEurope},
	{"CH", "CHE", "Switzerland", RegionEurope},
	{"AT", "AUT", "Austria", RegionEurope},
	{"ES", "ESP", "Spain", RegionEurope},
	{"PT", "PRT", "Portugal", RegionEurope},
	{"IT", "ITA", "Italy", RegionEurope},
	{"GR", "GRC", "Greece", RegionEurope},
	{"SE", "SWE", "Sweden", RegionEurope},
	{"NO", "NOR", "Norway", RegionEurope},
	{"DK", "DNK", "Denmark", RegionEurope},
	{"FI", "FIN", "Finland", RegionEurope},
	{"IS", "ISL", "Iceland", RegionEurope},
	{"PL", "POL", "Poland", RegionEurope},
	{"CZ", "CZE", "Czechia", RegionEurope},
	{"HU", "HUN", "Hungary", RegionEurope},
	{"RO", "ROU", "Romania", RegionEurope},
	{"TR", "TUR", "Turkey", RegionEurope},
	{"RU", "RUS", "Russia", RegionEurope},
	{"JE", "JEY", "Jersey", RegionEurope},
	{"GG", "GGY", "Guernsey", RegionEurope},
	{"GI", "GIB", "Gibraltar", RegionEurope},
	{"LI", "LIE", "Liechtenstein", RegionEurope},
	{"MT", "MLT", "Malta", RegionEurope},
	{"CY", "CYP", "Cyprus", RegionEurope},
	{"JP", "JPN", "Japan", RegionAsiaPacific},
	{"CN", "CHN", "China", RegionAsiaPacific},
	{"HK", "HKG", "Hong Kong", RegionAsiaPacific},
	{"TW", "TWN", "Taiwan", RegionAsiaPacific},
	{"KR", "KOR", "South Korea", RegionAsiaPacific},
	{"IN", "IND", "India", RegionAsiaPacific},
	{"SG", "SGP", "Singapore", RegionAsiaPacific},
	{"MY", "MYS", "Malaysia", RegionAsiaPacific},
	{"TH", "THA", "Thailand", RegionAsiaPacific},
	{"ID", "IDN", "Indonesia", RegionAsiaPacific},
	{"PH", "PHL", "Philippines", RegionAsiaPacific},
	{"VN", "VNM", "Vietnam", RegionAsiaPacific},
	{"AU", "AUS", "Australia", RegionAsiaPacific},
	{"NZ", "NZL", "New Zealand", RegionAsiaPacific},
	{"IL", "ISR", "Israel", RegionMiddleEast},
	{"SA", "SAU", "Saudi Arabia", RegionMiddleEast},
	{"AE", "ARE", "United Arab Emirates", RegionMiddleEast},
	{"QA", "QAT", "Qatar", RegionMiddleEast},
	{"KW", "KWT", "Kuwait", RegionMiddleEast},
	{"ZA", "ZAF", "South Africa", RegionAfrica},
	{"EG", "EGY", "Egypt", RegionAfrica},
	{"NG", "NGA", "Nigeria", RegionAfrica},
	{"MA", "MAR", "Morocco", RegionAfrica},
	{"KE", "KEN", "Kenya", RegionAfrica},
}

var (
	byAlpha2 = map[string]Country{}
	byAlpha3 = map[string]Country{}
	byName   = map[string]Country{}
)

func init() {
	for _, c := range countries {
		byAlpha2[c.Alpha2] = c
		byAlpha3[c.Alpha3] = c
		byName[strings.ToLower(c.Name)] = c
	}
}

// FromAlpha2 looks up a country by its ISO 3166-1 alpha-2 code.
func FromAlpha2(code string) (Country, bool) {
	c, ok := byAlpha2[strings.ToUpper(strings.TrimSpace(code))]
	return c, ok
}

// FromAlpha3 looks up a country by its ISO 3166-1 alpha-3 code.
func FromAlpha3(code string) (Country, bool) {
	c, ok := byAlpha3[strings.ToUpper(strings.TrimSpace(code))]
	return c, ok
}

// FromISIN derives the country from an ISIN's two-letter prefix.
// XS, EU and other non-country prefixes return ok=false.
func FromISIN(isin string) (Country, bool) {
	isin = strings.TrimSpace(isin)
	if len(isin) < 2 {
		return Country{}, false
	}
	return FromAlpha2(isin[:2])
}

// Normalize resolves an alpha-2 code, alpha-3 code or English country name
// to the canonical alpha-2 code.
func Normalize(s string) (string, bool) {
	s = strings.TrimSpace(s)
	switch len(s) {
	case 0:
		return "", false
	case 2:
		if c, ok := FromAlpha2(s); ok {
			return c.Alpha2, true
		}
	case 3:
		if c, ok := FromAlpha3(s); ok {
			return c.Alpha2, true
		}
	}
	if c, ok := byName[strings.ToLower(s)]; ok {
		return c.Alpha2, true
	}
	return "", false
}

// RegionOf returns the coarse geographic region for an alpha-2 code.
func RegionOf(alpha2 string) (string, bool) {
	c, ok := FromAlpha2(alpha2)
	if !ok {
		return "", false
	}
	return c.Region, true
}
