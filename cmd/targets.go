package cmd

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/orangedata/dashtools/internal/dataset"
	"github.com/orangedata/dashtools/internal/export"
	"github.com/orangedata/dashtools/internal/targets"
	"github.com/orangedata/dashtools/pkg/utils"
)

var (
	targetsMonth  string
	targetsFile   string
	targetsOutput string
)

// targetsCmd prepares the target-setting workbook for one month.
var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "Prepare store targets from the same month last year",
	Long: `Sums last year's sales, targets and visitors per store for the same
calendar month, compares them with the proposed new targets and writes the
target-setting workbook.

New targets are read from --targets-file: either a YAML mapping of store id
to amount, or a filled-in targets workbook (.xlsx).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		month := targetsMonth
		if month == "" {
			month = targets.DefaultMonth(time.Now())
		}

		data, err := dataset.LoadManagement(appConfig.ManagementFile)
		if err != nil {
			return err
		}

		var newTargets map[string]float64
		if targetsFile != "" {
			if newTargets, err = targets.LoadNewTargets(targetsFile); err != nil {
				return err
			}
		}

		report, err := targets.Build(data, month, newTargets, appConfig.Targets.ExcludedStores)
		if err != nil {
			return err
		}

		f, err := targets.Workbook(report)
		if err != nil {
			return err
		}
		defer f.Close()

		path := targetsOutput
		if path == "" {
			path = utils.GenerateOutputFileName("Targets_{month}", map[string]string{"month": month}, ".xlsx")
		}
		if err := export.Save(f, path); err != nil {
			return err
		}

		logger.Info("target report written",
			zap.String("path", path),
			zap.String("month", month),
			zap.String("last_year", report.LYPrefix),
			zap.Int("stores", len(report.Rows)),
		)

		if !report.HasNewTargets() {
			logger.Warn("no new targets entered", zap.String("month", month))
			fmt.Fprintln(cmd.OutOrStdout(), "Warning: no new targets entered, the NEW TARGET column is empty.")
		}

		printTargets(cmd.OutOrStdout(), report)
		fmt.Fprintf(cmd.OutOrStdout(), "Target report saved to %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(targetsCmd)

	targetsCmd.Flags().StringVar(&targetsMonth, "month", "", "Target month YYYY-MM (default: next month)")
	targetsCmd.Flags().StringVar(&targetsFile, "targets-file", "", "New targets, YAML or .xlsx")
	targetsCmd.Flags().StringVar(&targetsOutput, "output", "", "Output workbook (default: Targets_<month>.xlsx)")
}

func printTargets(out io.Writer, report *targets.Report) {
	rows := make([][]string, 0, len(report.Rows)+1)
	for _, r := range report.Rows {
		rows = append(rows, []string{
			r.StoreID,
			r.StoreName,
			formatNumber(r.LYSales),
			formatNumber(r.LYVisitors),
			formatNumber(math.Round(r.CustomerValue())),
			formatNumber(r.NewTarget),
			r.GrowthText(),
		})
	}
	t := report.Totals()
	rows = append(rows, []string{"", "Total", formatNumber(t.LYSales), formatNumber(t.LYVisitors), "-", formatNumber(t.NewTarget), "-"})

	fmt.Fprintf(out, "Targets for %s (last year: %s)\n", report.Month, report.LYPrefix)
	fmt.Fprintln(out, renderTable(
		[]string{"Store ID", "Store Name", "LY Sales", "LY Visitors", "LY Cust Val", "New Target", "Growth %"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight},
	))
}
