// =============================================================================
// Dashboard Tools - Validate Command
// =============================================================================
//
// COMMAND USAGE:
//   dashtools validate [--employees F] [--management F] [--strict]
//                      [--skip-date-format] [--log F]
//
// Each document is checked when its file exists. The command fails when an
// error-severity finding exists, or any finding at all with --strict.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/orangedata/dashtools/internal/dataset"
	"github.com/orangedata/dashtools/internal/validation"
	"github.com/orangedata/dashtools/pkg/utils"
)

var (
	validateEmployees  string
	validateManagement string
	validateStrict     bool
	validateSkipDates  bool
	validateLog        string
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the dashboard documents for malformed entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		empPath := firstNonEmpty(validateEmployees, appConfig.EmployeesFile)
		mgmtPath := firstNonEmpty(validateManagement, appConfig.ManagementFile)

		var (
			emp  *dataset.EmployeeData
			mgmt *dataset.ManagementData
			err  error
		)
		if utils.FileExists(empPath) {
			if emp, err = dataset.LoadEmployees(empPath); err != nil {
				return err
			}
		}
		if utils.FileExists(mgmtPath) {
			if mgmt, err = dataset.LoadManagement(mgmtPath); err != nil {
				return err
			}
		}
		if emp == nil && mgmt == nil {
			return fmt.Errorf("no dataset found: neither %s nor %s exists", empPath, mgmtPath)
		}

		validator := validation.NewValidator(validation.ValidationOptions{
			TreatWarningsAsErrors: validateStrict,
			SkipDateFormat:        validateSkipDates,
		})
		result := validator.Validate(emp, mgmt)

		printFindings(cmd.OutOrStdout(), result)

		if validateLog != "" {
			if err := validation.WriteErrorLog(result.Errors, validateLog); err != nil {
				return err
			}
		}

		logger.Info("validation finished",
			zap.Int("entries", result.EntriesValidated),
			zap.Int("errors", result.ErrorCount),
			zap.Int("warnings", result.WarningCount),
		)

		if !result.IsValid {
			return fmt.Errorf("validation failed with %d error(s) and %d warning(s)", result.ErrorCount, result.WarningCount)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateEmployees, "employees", "", "Path to employees_data.json")
	validateCmd.Flags().StringVar(&validateManagement, "management", "", "Path to management_data.json")
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "Fail on warnings too")
	validateCmd.Flags().BoolVar(&validateSkipDates, "skip-date-format", false, "Do not warn about history dates outside YYYY-MM-DD")
	validateCmd.Flags().StringVar(&validateLog, "log", "", "Also write the findings to this file")
}

func printFindings(out io.Writer, result *validation.ValidationResult) {
	if len(result.Errors) > 0 {
		rows := make([][]string, 0, len(result.Errors))
		for _, e := range result.Errors {
			index := ""
			if e.Index >= 0 {
				index = strconv.Itoa(e.Index)
			}
			rows = append(rows, []string{e.Severity, e.Source, e.Store, index, e.Field, e.Value, e.Message})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"Severity", "Source", "Store", "Index", "Field", "Value", "Message"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
		))
	}

	fmt.Fprintf(out, "Validated %d entries: %d error(s), %d warning(s)\n",
		result.EntriesValidated, result.ErrorCount, result.WarningCount)
}
