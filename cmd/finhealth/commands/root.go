// Package commands implements the finhealth CLI.
package commands

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"finhealth/pkg/config"
	"finhealth/pkg/core/portfolio"
	"finhealth/pkg/core/yahoo"
	"finhealth/pkg/logger"
)

var (
	configFile string
	logLevel   string
	tickers    string
)

var rootCmd = &cobra.Command{
	Use:   "finhealth",
	Short: "Financial statement analysis from the command line",
	Long: `finhealth fetches annual financial statements, derives comparison
ratios and trends across companies, and scores financial health.

Examples:
  finhealth score AAPL
  finhealth ratios whole --tickers AAPL,MSFT
  finhealth ranking --metric "Current Ratio" --tickers AAPL,MSFT,GOOG
  finhealth export --tickers AAPL,MSFT --dir ./out`,
	SilenceUsage: true,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (YAML)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level")
	rootCmd.PersistentFlags().StringVar(&tickers, "tickers", "", "comma-separated ticker symbols")
}

// newService builds the provider and portfolio service from config and flags.
func newService() (*portfolio.Service, error) {
	godotenv.Load()

	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}

	log := logger.New(logLevel, "console", cfg.Env)
	provider := yahoo.New(yahoo.Options{
		BaseURL:           cfg.Provider.BaseURL,
		QuoteURL:          cfg.Provider.QuoteURL,
		Timeout:           cfg.ProviderTimeout(),
		RequestsPerSecond: cfg.Provider.RequestsPerSecond,
		Logger:            log,
	})
	return portfolio.NewService(provider, portfolio.Config{
		CacheTTL: cfg.CacheTTL(),
		Workers:  cfg.FetchWorkers,
		Logger:   log,
	}), nil
}

func tickerList() []string {
	parts := strings.Split(tickers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.ToUpper(strings.TrimSpace(p)); p != "" {
			out = append(out, p)
		}
	}
	return out
}
