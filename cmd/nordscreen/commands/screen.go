package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nordvik/nordscreen/internal/contracts"
)

// screenCmd represents the screen command
var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "Run a screening cycle and print the ranked results",
	Long: `Runs the full screening pipeline: builds the universe across
the configured exchanges, fetches fundamentals, applies every criterion
and prints the ranked outcome. Results are stored when a database is
configured and a PDF report is written to the report directory.

Example:
  go run ./cmd/nordscreen screen
  go run ./cmd/nordscreen screen --refresh --top 20`,
	RunE: runScreen,
}

var (
	screenRefresh bool
	screenTop     int
)

func init() {
	rootCmd.AddCommand(screenCmd)

	screenCmd.Flags().BoolVar(&screenRefresh, "refresh", false, "bypass the cache and refetch everything")
	screenCmd.Flags().IntVar(&screenTop, "top", 0, "number of rows to print (default from config)")
}

func runScreen(cmd *cobra.Command, args []string) error {
	application, cleanup, err := newApp(screenRefresh, false)
	if err != nil {
		return err
	}
	defer cleanup()

	record, err := application.pipeline.Execute(context.Background())
	if err != nil {
		return err
	}

	top := screenTop
	if top <= 0 {
		top = application.cfg.TopN
	}
	if top > len(record.Results) {
		top = len(record.Results)
	}

	fmt.Printf("\nScreened %d companies, %d passed all criteria\n\n", record.CompanyCount, record.PassedCount)
	printResults(record.Results[:top])

	if record.ID != 0 {
		fmt.Printf("\nStored as run %d\n", record.ID)
	}
	return nil
}

func printResults(results []contracts.ScreeningResult) {
	fmt.Printf("%-4s %-12s %-28s %-7s %-8s %-9s %-7s %-8s\n",
		"#", "Ticker", "Name", "Score", "PE", "ROIC min", "D/E", "CF Yield")

	for _, r := range results {
		fmt.Printf("%-4d %-12s %-28s %d/%-5d %-8s %-9s %-7s %-8s\n",
			r.Rank, r.Company.Ticker, clip(r.Company.Name, 28),
			r.PassedCount, len(r.Filters),
			metricString(r.Metrics.PE, "%.1f"),
			roicString(r.Metrics.ROIC),
			metricString(r.Metrics.DebtToEquity, "%.2f"),
			percentString(r.Metrics.CFYield),
		)
	}
}

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func metricString(m contracts.Metric, layout string) string {
	if !m.Valid {
		return "n/a"
	}
	return fmt.Sprintf(layout, m.Value)
}

func percentString(m contracts.Metric) string {
	if !m.Valid {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", m.Value*100)
}

func roicString(h contracts.ROICHistory) string {
	if !h.Valid || len(h.Years) == 0 {
		return "n/a"
	}
	worst := h.Years[0]
	for _, y := range h.Years[1:] {
		if y < worst {
			worst = y
		}
	}
	return fmt.Sprintf("%.1f%%", worst*100)
}
