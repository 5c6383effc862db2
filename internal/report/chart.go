// Package report renders regional exposure charts as SVG. Pure Go, no
// external rendering dependencies: callers get an SVG string they can
// write to a file or embed.
package report

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/lwestrich/etfcompo/pkg/models"
)

// ChartConfig holds rendering parameters for SVG charts.
type ChartConfig struct {
	Width        int    // SVG width in pixels (default: 800)
	Height       int    // SVG height in pixels (default: 400)
	MarginTop    int
	MarginRight  int
	MarginBottom int
	MarginLeft   int
	BgColor      string
	GridColor    string
	TextColor    string
	FontSize     int
	Title        string
}

// DefaultChartConfig returns sensible defaults for chart rendering.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Width:        800,
		Height:       400,
		MarginTop:    40,
		MarginRight:  60,
		MarginBottom: 30,
		MarginLeft:   130,
		BgColor:      "#ffffff",
		GridColor:    "#e8e8e8",
		TextColor:    "#333333",
		FontSize:     11,
	}
}

// plotArea returns the usable drawing area dimensions.
func (c ChartConfig) plotArea() (x, y, w, h int) {
	return c.MarginLeft, c.MarginTop,
		c.Width - c.MarginLeft - c.MarginRight,
		c.Height - c.MarginTop - c.MarginBottom
}

var defaultColors = []string{
	"#2196f3", "#4caf50", "#ff9800", "#e91e63", "#9c27b0",
	"#00bcd4", "#8bc34a", "#ffc107", "#795548", "#607d8b",
}

// ════════════════════════════════════════════════════════════════════
// Regional Weight Bar Chart (Horizontal)
// ════════════════════════════════════════════════════════════════════

// RegionBarChart generates an SVG horizontal bar chart of regional weights,
// sorted by weight descending. Weights are fractions and rendered as
// percentages.
func RegionBarChart(weights []models.RegionWeight, cfg ChartConfig) string {
	if len(weights) == 0 {
		return emptySVG(cfg, "No holdings data")
	}

	if cfg.Width == 0 {
		cfg = DefaultChartConfig()
	}
	if cfg.Title == "" {
		cfg.Title = "Regional Exposure"
	}

	sorted := make([]models.RegionWeight, len(weights))
	copy(sorted, weights)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Weight != sorted[j].Weight {
			return sorted[i].Weight > sorted[j].Weight
		}
		return sorted[i].Region < sorted[j].Region
	})

	px, py, pw, ph := cfg.plotArea()

	maxVal := sorted[0].Weight
	if maxVal <= 0 {
		maxVal = 1
	}

	barH := float64(ph) / float64(len(sorted)) * 0.7
	if barH > 28 {
		barH = 28
	}
	gap := (float64(ph) - barH*float64(len(sorted))) / float64(len(sorted)+1)

	var sb strings.Builder
	sb.WriteString(svgHeader(cfg))
	sb.WriteString(fmt.Sprintf(`<rect x="0" y="0" width="%d" height="%d" fill="%s"/>`,
		cfg.Width, cfg.Height, cfg.BgColor))
	sb.WriteString(fmt.Sprintf(`<text x="%d" y="20" font-size="14" font-weight="bold" fill="%s" text-anchor="middle">%s</text>`,
		cfg.Width/2, cfg.TextColor, escapeXML(cfg.Title)))

	// Vertical grid at 25/50/75/100% of the max weight.
	for i := 1; i <= 4; i++ {
		gx := float64(px) + float64(pw)*float64(i)/4
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%d" x2="%.1f" y2="%d" stroke="%s" stroke-dasharray="3,3"/>`,
			gx, py, gx, py+ph, cfg.GridColor))
	}

	for i, rw := range sorted {
		by := float64(py) + gap + float64(i)*(barH+gap)
		bw := (rw.Weight / maxVal) * float64(pw)
		color := defaultColors[i%len(defaultColors)]
		if rw.Region == "Unknown" {
			color = "#9e9e9e"
		}

		sb.WriteString(fmt.Sprintf(`<rect x="%d" y="%.1f" width="%.1f" height="%.1f" fill="%s" rx="2"/>`,
			px, by, bw, barH, color))
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%.1f" font-size="%d" fill="%s" text-anchor="end">%s</text>`,
			px-8, by+barH/2+4, cfg.FontSize, cfg.TextColor, escapeXML(rw.Region)))
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-size="%d" fill="%s">%.2f%%</text>`,
			float64(px)+bw+6, by+barH/2+4, cfg.FontSize, cfg.TextColor, rw.Weight*100))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// ════════════════════════════════════════════════════════════════════
// Regional Share Donut Chart
// ════════════════════════════════════════════════════════════════════

// DonutChart generates an SVG donut chart of regional shares with a legend.
func DonutChart(weights []models.RegionWeight, cfg ChartConfig) string {
	if len(weights) == 0 {
		return emptySVG(cfg, "No holdings data")
	}

	if cfg.Width == 0 {
		cfg = DefaultChartConfig()
		cfg.Height = 420
	}
	if cfg.Title == "" {
		cfg.Title = "Regional Share"
	}

	sorted := make([]models.RegionWeight, len(weights))
	copy(sorted, weights)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Weight != sorted[j].Weight {
			return sorted[i].Weight > sorted[j].Weight
		}
		return sorted[i].Region < sorted[j].Region
	})

	var total float64
	for _, rw := range sorted {
		total += rw.Weight
	}
	if total <= 0 {
		return emptySVG(cfg, "Zero total weight")
	}

	cx := float64(cfg.Width) / 3
	cy := float64(cfg.Height)/2 + 10
	outer := math.Min(cx, cy) - 30
	inner := outer * 0.55

	var sb strings.Builder
	sb.WriteString(svgHeader(cfg))
	sb.WriteString(fmt.Sprintf(`<rect x="0" y="0" width="%d" height="%d" fill="%s"/>`,
		cfg.Width, cfg.Height, cfg.BgColor))
	sb.WriteString(fmt.Sprintf(`<text x="%d" y="20" font-size="14" font-weight="bold" fill="%s" text-anchor="middle">%s</text>`,
		cfg.Width/2, cfg.TextColor, escapeXML(cfg.Title)))

	angle := -math.Pi / 2 // start at 12 o'clock
	for i, rw := range sorted {
		frac := rw.Weight / total
		if frac <= 0 {
			continue
		}
		end := angle + frac*2*math.Pi
		color := defaultColors[i%len(defaultColors)]
		if rw.Region == "Unknown" {
			color = "#9e9e9e"
		}

		// A single slice covering (almost) the full circle cannot be
		// expressed as one arc; nudge the end angle back a hair.
		sweep := end
		if frac > 0.99999 {
			sweep = angle + 2*math.Pi - 1e-4
		}
		largeArc := 0
		if sweep-angle > math.Pi {
			largeArc = 1
		}

		x0, y0 := cx+outer*math.Cos(angle), cy+outer*math.Sin(angle)
		x1, y1 := cx+outer*math.Cos(sweep), cy+outer*math.Sin(sweep)
		x2, y2 := cx+inner*math.Cos(sweep), cy+inner*math.Sin(sweep)
		x3, y3 := cx+inner*math.Cos(angle), cy+inner*math.Sin(angle)

		sb.WriteString(fmt.Sprintf(
			`<path d="M%.2f,%.2f A%.2f,%.2f 0 %d,1 %.2f,%.2f L%.2f,%.2f A%.2f,%.2f 0 %d,0 %.2f,%.2f Z" fill="%s" stroke="%s" stroke-width="1"/>`,
			x0, y0, outer, outer, largeArc, x1, y1,
			x2, y2, inner, inner, largeArc, x3, y3,
			color, cfg.BgColor))

		angle = end
	}

	// Legend on the right.
	lx := cfg.Width/2 + 60
	ly := cfg.MarginTop + 10
	for i, rw := range sorted {
		color := defaultColors[i%len(defaultColors)]
		if rw.Region == "Unknown" {
			color = "#9e9e9e"
		}
		y := ly + i*18
		if y > cfg.Height-10 {
			break
		}
		sb.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="12" height="12" fill="%s" rx="2"/>`,
			lx, y-10, color))
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-size="%d" fill="%s">%s %.2f%%</text>`,
			lx+18, y, cfg.FontSize, cfg.TextColor, escapeXML(rw.Region), rw.Weight*100))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// ════════════════════════════════════════════════════════════════════
// SVG Helpers
// ════════════════════════════════════════════════════════════════════

func svgHeader(cfg ChartConfig) string {
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="sans-serif">`,
		cfg.Width, cfg.Height, cfg.Width, cfg.Height)
}

func emptySVG(cfg ChartConfig, msg string) string {
	if cfg.Width == 0 {
		cfg.Width = 400
	}
	if cfg.Height == 0 {
		cfg.Height = 200
	}
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d"><rect width="%d" height="%d" fill="#f5f5f5"/><text x="%d" y="%d" text-anchor="middle" fill="#999" font-size="14">%s</text></svg>`,
		cfg.Width, cfg.Height, cfg.Width, cfg.Height, cfg.Width/2, cfg.Height/2, escapeXML(msg))
}

func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	return s
}
