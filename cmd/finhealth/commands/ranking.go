package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"finhealth/pkg/core/ratio"
	"finhealth/pkg/core/trend"
)

var rankingMetric string

// rankableMetrics maps each metric onto the sheet that carries it.
var rankableMetrics = map[string]string{
	ratio.GrossProfitMargin + trend.YoYSuffix:     "profitability",
	ratio.OperatingProfitMargin + trend.YoYSuffix: "profitability",
	ratio.CurrentRatio:                            "liquidity",
	ratio.OperatingCashFlowRatio:                  "liquidity",
	ratio.CashFlowToIncomeRatio:                   "efficiency",
	ratio.CashFlowToIncomeRatio + trend.YoYSuffix: "efficiency",
}

var rankingCmd = &cobra.Command{
	Use:   "ranking",
	Short: "Rank companies by the recent mean of a metric",
	RunE:  runRanking,
}

func init() {
	rootCmd.AddCommand(rankingCmd)
	rankingCmd.Flags().StringVar(&rankingMetric, "metric", ratio.CurrentRatio, "metric to rank by")
}

func runRanking(cmd *cobra.Command, args []string) error {
	list := tickerList()
	if len(list) == 0 {
		return fmt.Errorf("--tickers is required")
	}
	sheetName, ok := rankableMetrics[rankingMetric]
	if !ok {
		return fmt.Errorf("metric %q is not rankable", rankingMetric)
	}

	service, err := newService()
	if err != nil {
		return err
	}
	batch, err := service.Datasets(cmd.Context(), list)
	if err != nil {
		return err
	}

	sheet, err := sheetByName(batch, sheetName)
	if err != nil {
		return err
	}

	fmt.Printf("Ranking by %s:\n", rankingMetric)
	for i, e := range trend.Ranking(sheet, rankingMetric) {
		fmt.Printf("%2d. %-8s %.4f\n", i+1, e.Company, e.Value)
	}
	return nil
}
