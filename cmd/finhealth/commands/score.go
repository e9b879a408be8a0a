package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"finhealth/pkg/core/health"
)

var scoreMarkdown bool

var scoreCmd = &cobra.Command{
	Use:   "score TICKER",
	Short: "Score a company's financial health",
	Args:  cobra.ExactArgs(1),
	RunE:  runScore,
}

func init() {
	rootCmd.AddCommand(scoreCmd)
	scoreCmd.Flags().BoolVar(&scoreMarkdown, "markdown", false, "emit the full markdown report")
}

func runScore(cmd *cobra.Command, args []string) error {
	service, err := newService()
	if err != nil {
		return err
	}

	ticker := strings.ToUpper(args[0])
	ds, err := service.Dataset(cmd.Context(), ticker)
	if err != nil {
		return err
	}
	a := health.Score(ticker, ds.BalanceSheet, ds.Income, ds.CashFlow)

	if scoreMarkdown {
		fmt.Print(a.Markdown())
		return nil
	}

	fmt.Printf("%s: %d/100 (%s)\n", a.Ticker, a.Score, a.Rating)

	metrics := make([]string, 0, len(a.MetricScores))
	for m := range a.MetricScores {
		metrics = append(metrics, m)
	}
	sort.Strings(metrics)
	for _, m := range metrics {
		fmt.Printf("  %-36s %2d/10\n", m, a.MetricScores[m])
	}
	if len(a.Flags) > 0 {
		fmt.Println("Flags:")
		for _, f := range a.Flags {
			fmt.Printf("  - %s\n", f)
		}
	}
	return nil
}
