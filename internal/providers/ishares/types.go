package ishares

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lwestrich/etfcompo/internal/provider"
	"github.com/lwestrich/etfcompo/pkg/isocodes"
	"github.com/lwestrich/etfcompo/pkg/models"
)

// Holdings CSV column names as iShares publishes them.
const (
	colTicker     = "Ticker"
	colName       = "Name"
	colSector     = "Sector"
	colAssetClass = "Asset Class"
	colWeight     = "Weight (%)"
	colISIN       = "ISIN"
	colLocation   = "Location"
)

// requiredColumns is the minimum column set a holdings file must carry.
var requiredColumns = []string{colName, colWeight, colSector, colAssetClass, colISIN}

// asOfLayout is the date format of the "Fund Holdings as of" preamble line,
// e.g. "Aug 29, 2026".
const asOfLayout = "Jan 2, 2006"

// parseHoldingsCSV normalizes an iShares holdings CSV payload into a
// composition snapshot. The payload starts with a preamble (fund name,
// as-of date, inception date, ...), followed by a blank line, the header
// row and the holdings table, optionally trailed by disclaimer text.
func parseHoldingsCSV(raw []byte, fund models.Fund) (*models.CompositionSnapshot, error) {
	r := csv.NewReader(bytes.NewReader(raw))
	r.FieldsPerRecord = -1 // preamble and disclaimer rows vary in width
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, &provider.ErrParse{Provider: providerName, Detail: "holdings payload is not CSV: " + err.Error()}
	}

	snap := &models.CompositionSnapshot{
		Ticker:   strings.ToUpper(fund.Ticker),
		Provider: providerName,
		Country:  fund.Country,
	}

	cols := map[string]int{}
	headerAt := -1
	for i, rec := range records {
		// Preamble: pick up the as-of date before the table starts.
		if len(rec) >= 2 && strings.EqualFold(strings.TrimSpace(rec[0]), "Fund Holdings as of") {
			if d, err := time.Parse(asOfLayout, strings.TrimSpace(rec[1])); err == nil {
				snap.Date = d.UTC()
			}
			continue
		}
		if isHoldingsHeader(rec) {
			for j, c := range rec {
				cols[strings.TrimSpace(c)] = j
			}
			headerAt = i
			break
		}
	}
	if headerAt < 0 {
		return nil, &provider.ErrParse{Provider: providerName, Detail: "no holdings header row found"}
	}
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return nil, &provider.ErrParse{
				Provider: providerName,
				Detail:   fmt.Sprintf("missing required column %q", c),
			}
		}
	}

	width := cols[colISIN]
	for _, c := range cols {
		if c > width {
			width = c
		}
	}

	for _, rec := range records[headerAt+1:] {
		if len(rec) <= width {
			continue // disclaimer/footer rows are narrower than the table
		}
		weight, ok := parsePercent(rec[cols[colWeight]])
		if !ok {
			continue
		}
		if weight < 0 {
			weight = 0
		}
		h := models.Holding{
			Name:       strings.TrimSpace(rec[cols[colName]]),
			ISIN:       strings.TrimSpace(rec[cols[colISIN]]),
			Weight:     weight,
			Sector:     strings.TrimSpace(rec[cols[colSector]]),
			AssetClass: strings.TrimSpace(rec[cols[colAssetClass]]),
		}
		if j, ok := cols[colTicker]; ok && j < len(rec) {
			h.Symbol = strings.TrimSpace(rec[j])
		}
		h.Country = holdingCountry(rec, cols, h.ISIN)
		snap.Holdings = append(snap.Holdings, h)
	}

	if len(snap.Holdings) == 0 {
		return nil, &provider.ErrParse{Provider: providerName, Detail: "holdings table has no rows"}
	}
	return snap, nil
}

// isHoldingsHeader reports whether a record is the holdings table header.
func isHoldingsHeader(rec []string) bool {
	var hasName, hasWeight bool
	for _, c := range rec {
		switch strings.TrimSpace(c) {
		case colName:
			hasName = true
		case colWeight:
			hasWeight = true
		}
	}
	return hasName && hasWeight
}

// parsePercent converts a percentage cell ("7.12", "1,234.56") to a
// fractional weight. Placeholder cells ("--", "") report ok=false.
func parsePercent(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" || s == "-" || s == "--" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v / 100, true
}

// holdingCountry resolves a holding's country of domicile: the Location
// column when present, otherwise the ISIN prefix. Unresolvable values
// stay empty and the mapper buckets them as Unknown.
func holdingCountry(rec []string, cols map[string]int, isin string) string {
	if j, ok := cols[colLocation]; ok && j < len(rec) {
		if code, ok := isocodes.Normalize(rec[j]); ok {
			return code
		}
	}
	if c, ok := isocodes.FromISIN(isin); ok {
		return c.Alpha2
	}
	return ""
}
