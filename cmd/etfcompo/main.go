// etfcompo — download ETF composition files and map regional exposure.
//
// Main CLI entrypoint using the cobra command framework. The CLI is a thin
// wrapper: the library surface lives in internal/loader and internal/mapper.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/lwestrich/etfcompo/internal/config"
	"github.com/lwestrich/etfcompo/internal/loader"
	"github.com/lwestrich/etfcompo/internal/mapper"
	"github.com/lwestrich/etfcompo/internal/provider"
	"github.com/lwestrich/etfcompo/internal/providers"
	"github.com/lwestrich/etfcompo/internal/providers/ishares"
	"github.com/lwestrich/etfcompo/internal/report"
	"github.com/lwestrich/etfcompo/internal/store"
	"github.com/lwestrich/etfcompo/pkg/models"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config, loaded by the root command.
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "etfcompo",
	Short: "etfcompo — ETF composition downloads and regional exposure maps",
	Long: `etfcompo pulls ETF holdings files from iShares, stores them as dated
composition snapshots and renders the geographic distribution of a
fund's holdings as a chart.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "", "snapshot directory override")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(fundsCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(downloadCountryCmd)
	rootCmd.AddCommand(mapCmd)
	rootCmd.AddCommand(newsCmd)
	rootCmd.AddCommand(statusCmd)
}

// newRegistry builds the provider registry from the loaded config.
func newRegistry() (*provider.Registry, error) {
	reg, err := providers.NewRegistry()
	if err != nil {
		return nil, err
	}
	if cfg.Provider.BaseURL != "" {
		if p, err := reg.Get("ishares"); err == nil {
			if ish, ok := p.(*ishares.Provider); ok {
				ish.SetBaseURL(cfg.Provider.BaseURL)
			}
		}
	}
	return reg, nil
}

// dataDir resolves the snapshot directory from flag or config.
func dataDir(cmd *cobra.Command) string {
	if dir, _ := cmd.Flags().GetString("data-dir"); dir != "" {
		return dir
	}
	return cfg.DataDir
}

// newLoader builds a loader over the configured registry and store.
func newLoader(cmd *cobra.Command) (*loader.Loader, error) {
	reg, err := newRegistry()
	if err != nil {
		return nil, err
	}
	st := store.New(dataDir(cmd))
	l := loader.New(reg, st).
		WithProvider(cfg.Provider.Name).
		WithCountry(cfg.Provider.Country)
	return l, nil
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("etfcompo %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Funds Command ---

var fundsCmd = &cobra.Command{
	Use:   "funds [country]",
	Short: "List all funds the provider offers for a listing country",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLoader(cmd)
		if err != nil {
			return err
		}
		funds, err := l.ListFunds(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		for _, f := range funds {
			fmt.Printf("%-8s %s\n", f.Ticker, f.Name)
		}
		fmt.Printf("\n%d funds listed in %s\n", len(funds), args[0])
		return nil
	},
}

// --- Download Command ---

var downloadCmd = &cobra.Command{
	Use:   "download [ticker]",
	Short: "Download and store the current composition of one fund",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLoader(cmd)
		if err != nil {
			return err
		}
		country, _ := cmd.Flags().GetString("country")

		var snap *models.CompositionSnapshot
		if country != "" {
			snap, err = l.DownloadCompositionIn(cmd.Context(), country, args[0])
		} else {
			snap, err = l.DownloadComposition(cmd.Context(), args[0])
		}
		if err != nil {
			return err
		}
		fmt.Printf("%s: %d holdings as of %s (total weight %.2f%%)\n",
			snap.Ticker, len(snap.Holdings),
			snap.Date.Format(store.DateLayout), snap.TotalWeight()*100)
		return nil
	},
}

func init() {
	downloadCmd.Flags().String("country", "", "listing country (default from config)")
}

// --- Download-Country Command ---

var downloadCountryCmd = &cobra.Command{
	Use:   "download-country [country]",
	Short: "Download compositions of every fund listed in a country",
	Long: `Fetches the provider's fund list for a country, then downloads each
fund's holdings one at a time. Per-fund failures are reported and do not
abort the batch.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLoader(cmd)
		if err != nil {
			return err
		}
		rep, err := l.DownloadCompositionsOfCountry(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s: %d snapshots written, %d already present, %d failed\n",
			rep.Country, rep.Written, rep.Skipped, len(rep.Failures))
		for _, f := range rep.Failures {
			fmt.Printf("  %-8s %s\n", f.Ticker, f.Reason)
		}
		return nil
	},
}

// --- Map Command ---

var mapCmd = &cobra.Command{
	Use:   "map [ticker]",
	Short: "Render the regional exposure of a stored composition snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dateStr, _ := cmd.Flags().GetString("date")
		plotDate := time.Now().UTC()
		if dateStr != "" {
			var err error
			plotDate, err = time.Parse(store.DateLayout, dateStr)
			if err != nil {
				return fmt.Errorf("invalid --date %q, want YYYY-MM-DD: %w", dateStr, err)
			}
		}

		m := mapper.New(store.New(dataDir(cmd)))
		m.WithChartConfig(chartConfig())
		if style, _ := cmd.Flags().GetString("style"); style != "" {
			m.WithStyle(mapper.Style(style))
		} else if cfg.Charts.Style != "" {
			m.WithStyle(mapper.Style(cfg.Charts.Style))
		}
		if byRegion, _ := cmd.Flags().GetBool("by-region"); byRegion {
			m.ByRegion()
		}
		if equity, _ := cmd.Flags().GetBool("equity-only"); equity {
			m.EquityOnly()
		}

		svg, err := m.Plot(plotDate, args[0])
		if err != nil {
			return err
		}

		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			out = fmt.Sprintf("%s_exposure_%s.svg", args[0], plotDate.Format(store.DateLayout))
		}
		if err := os.WriteFile(out, []byte(svg), 0o644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", out)
		return nil
	},
}

func chartConfig() report.ChartConfig {
	c := report.DefaultChartConfig()
	if cfg.Charts.Width > 0 {
		c.Width = cfg.Charts.Width
	}
	if cfg.Charts.Height > 0 {
		c.Height = cfg.Charts.Height
	}
	return c
}

func init() {
	mapCmd.Flags().String("date", "", "snapshot date YYYY-MM-DD (default: today)")
	mapCmd.Flags().String("out", "", "output SVG path")
	mapCmd.Flags().String("style", "", "chart style: bar or donut")
	mapCmd.Flags().Bool("by-region", false, "aggregate into coarse regions instead of countries")
	mapCmd.Flags().Bool("equity-only", false, "only count equity holdings")
}

// --- News Command ---

var newsCmd = &cobra.Command{
	Use:   "news",
	Short: "Show the provider's latest press releases",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := newRegistry()
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetString("limit")
		result, err := reg.Fetch(cmd.Context(), provider.ModelProviderNews, provider.QueryParams{
			provider.ParamLimit: limit,
		})
		if err != nil {
			return err
		}
		items, _ := result.Data.([]models.NewsItem)
		for _, it := range items {
			fmt.Printf("%s  %s\n    %s\n", it.PublishedAt.Format(store.DateLayout), it.Title, it.URL)
		}
		return nil
	},
}

func init() {
	newsCmd.Flags().String("limit", "", "max items to show")
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show registered providers and check their connectivity",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := newRegistry()
		if err != nil {
			return err
		}
		for _, info := range reg.List() {
			fmt.Printf("%-10s %s\n", info.Name, info.Description)
			for _, m := range info.Models {
				fmt.Printf("    %s\n", m)
			}
		}
		if err := providers.PingAll(cmd.Context(), reg); err != nil {
			fmt.Printf("\nconnectivity: FAILED (%v)\n", err)
			return nil
		}
		fmt.Println("\nconnectivity: OK")
		return nil
	},
}
