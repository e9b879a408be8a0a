package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"finhealth/pkg/core/table"
)

var exportDir string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export statements and ratio sheets as CSV files",
	RunE:  runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportDir, "dir", ".", "output directory")
}

func runExport(cmd *cobra.Command, args []string) error {
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

	if err := os.MkdirAll(exportDir, 0o755); err != nil {
		return err
	}

	files := map[string]*table.Table{
		"balance-sheets.csv":       batch.CombinedBalanceSheets(),
		"income-statements.csv":    batch.CombinedIncome(),
		"cash-flows.csv":           batch.CombinedCashFlows(),
		"whole-ratios.csv":         batch.WholeRatioSheet(),
		"profitability-ratios.csv": batch.ProfitabilitySheet(),
		"liquidity-ratios.csv":     batch.LiquiditySheet(),
		"efficiency-ratios.csv":    batch.EfficiencySheet(),
	}
	for name, sheet := range batch.RelativeDifferences() {
		files[slug(name)+"-relative-difference.csv"] = sheet
	}

	for name, t := range files {
		path := filepath.Join(exportDir, name)
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		err = t.WriteCSV(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		fmt.Printf("wrote %s\n", path)
	}
	return nil
}

func slug(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		case r == ' ':
			out = append(out, '-')
		default:
			out = append(out, r)
		}
	}
	return string(out)
}
