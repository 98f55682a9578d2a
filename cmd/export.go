// =============================================================================
// Dashboard Tools - Export Command
// =============================================================================
//
// This file defines the 'export' command group, which writes the dashboard's
// Excel reports for a date range.
//
// COMMAND USAGE:
//   dashtools export stores    --start 2024-01-01 --end 2024-01-31 [filters]
//   dashtools export employees --start 2024-01-01 --end 2024-01-31 [filters]
//
// FILTERS:
//   --manager, --city, --type, --branch
//   An empty value or "all" disables a filter.
//
// OUTPUT:
//   <export.output_dir>/Store_Sales_<start>_<end>.xlsx
//   <export.output_dir>/Employee_Sales_<start>_<end>.xlsx
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/orangedata/dashtools/internal/dataset"
	"github.com/orangedata/dashtools/internal/export"
	"github.com/orangedata/dashtools/pkg/utils"
)

var (
	exportStart  string
	exportEnd    string
	exportOutput string
	exportFilter export.Filter
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export sales reports as Excel workbooks",
}

var exportStoresCmd = &cobra.Command{
	Use:   "stores",
	Short: "Export daily store sales with visitors and conversion",
	RunE: func(cmd *cobra.Command, args []string) error {
		period := export.Period{Start: exportStart, End: exportEnd}

		data, err := dataset.LoadManagement(appConfig.ManagementFile)
		if err != nil {
			return err
		}

		logFilter(period)
		rows, err := export.StoreSales(data, period, exportFilter)
		if err != nil {
			return noDataOrError(cmd.OutOrStdout(), err)
		}

		f, err := export.StoreSalesWorkbook(rows)
		if err != nil {
			return err
		}
		return saveReport(cmd.OutOrStdout(), f, "Store_Sales", period, len(rows))
	},
}

var exportEmployeesCmd = &cobra.Command{
	Use:   "employees",
	Short: "Export employee sales from the history",
	RunE: func(cmd *cobra.Command, args []string) error {
		period := export.Period{Start: exportStart, End: exportEnd}

		emp, err := dataset.LoadEmployees(appConfig.EmployeesFile)
		if err != nil {
			return err
		}

		var mgmt *dataset.ManagementData
		if utils.FileExists(appConfig.ManagementFile) {
			mgmt, err = dataset.LoadManagement(appConfig.ManagementFile)
			if err != nil {
				return err
			}
		} else {
			logger.Warn("management data not found, store filters are ignored",
				zap.String("path", appConfig.ManagementFile))
		}

		logFilter(period)
		rows, err := export.EmployeeSales(emp, mgmt, period, exportFilter)
		if err != nil {
			return noDataOrError(cmd.OutOrStdout(), err)
		}

		f, err := export.EmployeeSalesWorkbook(rows)
		if err != nil {
			return err
		}
		return saveReport(cmd.OutOrStdout(), f, "Employee_Sales", period, len(rows))
	},
}

// logFilter records which store filter a report was built with.
func logFilter(period export.Period) {
	if exportFilter.IsZero() {
		logger.Info("exporting all stores", zap.String("start", period.Start), zap.String("end", period.End))
		return
	}
	logger.Info("exporting filtered stores",
		zap.String("start", period.Start),
		zap.String("end", period.End),
		zap.String("manager", exportFilter.Manager),
		zap.String("city", exportFilter.City),
		zap.String("type", exportFilter.Type),
		zap.String("branch", exportFilter.Branch),
	)
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.AddCommand(exportStoresCmd, exportEmployeesCmd)

	flags := exportCmd.PersistentFlags()
	flags.StringVar(&exportStart, "start", "", "First day of the period (YYYY-MM-DD)")
	flags.StringVar(&exportEnd, "end", "", "Last day of the period (YYYY-MM-DD)")
	flags.StringVar(&exportOutput, "output", "", "Output file (default from export.file_name_format)")
	flags.StringVar(&exportFilter.Manager, "manager", "", "Only stores of this area manager")
	flags.StringVar(&exportFilter.City, "city", "", "Only stores in this city")
	flags.StringVar(&exportFilter.Type, "type", "", "Only stores of this type")
	flags.StringVar(&exportFilter.Branch, "branch", "", "Only this store id")

	_ = exportCmd.MarkPersistentFlagRequired("start")
	_ = exportCmd.MarkPersistentFlagRequired("end")
}

// noDataOrError reports an empty period on out and passes any other error on.
func noDataOrError(out io.Writer, err error) error {
	if errors.Is(err, export.ErrNoData) {
		fmt.Fprintln(out, "No data for the selected period.")
		return nil
	}
	return err
}

func saveReport(out io.Writer, f *excelize.File, report string, period export.Period, rows int) error {
	defer f.Close()

	path := exportOutput
	if path == "" {
		name := utils.GenerateOutputFileName(appConfig.Export.FileNameFormat, map[string]string{
			"report": report,
			"start":  period.Start,
			"end":    period.End,
		}, ".xlsx")
		path = filepath.Join(appConfig.Export.OutputDir, name)
	}

	if err := export.Save(f, path); err != nil {
		return err
	}

	logger.Info("report written", zap.String("path", path), zap.Int("rows", rows))
	fmt.Fprintf(out, "Exported %d row(s) to %s\n", rows, path)
	return nil
}
