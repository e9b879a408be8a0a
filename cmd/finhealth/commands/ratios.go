package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"finhealth/pkg/core/portfolio"
	"finhealth/pkg/core/table"
)

var ratiosCmd = &cobra.Command{
	Use:   "ratios SHEET",
	Short: "Print a ratio comparison sheet as CSV",
	Long: `Print a multi-company ratio sheet as CSV on stdout.

SHEET is one of: whole, profitability, liquidity, efficiency.`,
	Args: cobra.ExactArgs(1),
	RunE: runRatios,
}

func init() {
	rootCmd.AddCommand(ratiosCmd)
}

func sheetByName(b *portfolio.Batch, name string) (*table.Table, error) {
	switch name {
	case "whole":
		return b.WholeRatioSheet(), nil
	case "profitability":
		return b.ProfitabilitySheet(), nil
	case "liquidity":
		return b.LiquiditySheet(), nil
	case "efficiency":
		return b.EfficiencySheet(), nil
	default:
		return nil, fmt.Errorf("unknown sheet %q", name)
	}
}

func runRatios(cmd *cobra.Command, args []string) error {
	list := tickerList()
	if len(list) == 0 {
		return fmt.Errorf("--tickers is required")
	}

	service, err := newService()
	if err != nil {
		return err
	}
	batch, err := service.Datasets(cmd.Context(), list)
	if err != nil {
		return err
	}

	sheet, err := sheetByName(batch, args[0])
	if err != nil {
		return err
	}
	return sheet.WriteCSV(os.Stdout)
}
