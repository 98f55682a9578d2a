// =============================================================================
// Dashboard Tools - Duplicate Check Command
// =============================================================================
//
// COMMAND USAGE:
//   dashtools check-dups [flags]
//
// FLAGS:
//   --file         : employees document (default from config)
//   --name         : target name substring
//   --date         : date substring, repeatable
//   --resolve-ids  : resolve the name through employee_names first
//
// OUTPUT:
//   A table of matching records, then one block per duplicated tuple:
//
//     !!! DUPLICATE FOUND (2 times) !!!
//     ["2024-01-16","بشاير-01",100,2,3,50]
//
//   or a "No duplicates found" line.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/orangedata/dashtools/internal/dataset"
	"github.com/orangedata/dashtools/internal/dupcheck"
)

var (
	dupsFile       string
	dupsName       string
	dupsDates      []string
	dupsResolveIDs bool
)

var checkDupsCmd = &cobra.Command{
	Use:   "check-dups",
	Short: "Find duplicated history records of one employee",
	Long: `Scans the history of employees_data.json for records whose name contains
the target name and whose date contains one of the date substrings, then
reports every record that occurs more than once with identical fields.

With --resolve-ids the target is first looked up in employee_names, and a
record also matches when its name contains one of the resolved ids.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheckDups(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(checkDupsCmd)

	checkDupsCmd.Flags().StringVar(&dupsFile, "file", "", "Path to employees_data.json")
	checkDupsCmd.Flags().StringVar(&dupsName, "name", "", "Target name substring")
	checkDupsCmd.Flags().StringSliceVar(&dupsDates, "date", nil, "Date substring to accept (repeatable)")
	checkDupsCmd.Flags().BoolVar(&dupsResolveIDs, "resolve-ids", false, "Resolve the name through employee_names")
}

func runCheckDups(out io.Writer) error {
	path := firstNonEmpty(dupsFile, appConfig.EmployeesFile)

	opts := dupcheck.Options{
		TargetName:   firstNonEmpty(dupsName, appConfig.Duplicates.TargetName),
		DatePatterns: dupsDates,
		ResolveIDs:   dupsResolveIDs,
	}
	if len(opts.DatePatterns) == 0 {
		opts.DatePatterns = appConfig.Duplicates.DatePatterns
		if opts.ResolveIDs {
			opts.DatePatterns = appConfig.Duplicates.ResolvedDatePatterns
		}
	}

	data, err := dataset.LoadEmployees(path)
	if err != nil {
		return err
	}
	logger.Info("employees loaded",
		zap.String("path", path),
		zap.Int("stores", len(data.History)),
		zap.Int("names", len(data.EmployeeNames)),
	)

	result, err := dupcheck.Check(data, opts)
	if err != nil {
		return err
	}

	if opts.ResolveIDs {
		printResolvedIDs(out, result)
	}

	fmt.Fprintf(out, "Checking for duplicates for: %s on %s\n", opts.TargetName, strings.Join(opts.DatePatterns, ", "))
	printMatches(out, result.Matches)
	printDuplicates(out, result)

	logger.Info("duplicate check finished",
		zap.Int("matches", len(result.Matches)),
		zap.Int("duplicates", len(result.Duplicates)),
	)
	return nil
}

func printResolvedIDs(out io.Writer, result *dupcheck.Result) {
	fmt.Fprintln(out, "Searching for ID...")
	for _, r := range result.ResolvedIDs {
		fmt.Fprintf(out, "Found ID: %s -> %s\n", r.ID, r.Name)
	}
	if len(result.ResolvedIDs) == 0 {
		fmt.Fprintf(out, "No ID found for %s. Matching raw names in history...\n", result.Options.TargetName)
	}
	fmt.Fprintln(out)
}

func printMatches(out io.Writer, matches []dupcheck.Match) {
	if len(matches) == 0 {
		fmt.Fprintln(out, "No matching records.")
		return
	}

	rows := make([][]string, 0, len(matches))
	for _, m := range matches {
		rows = append(rows, []string{
			m.Store,
			m.Record.Date,
			m.Record.Name,
			formatNumber(m.Record.Sales),
			formatNumber(m.Record.Transactions),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Store", "Date", "Name", "Sales", "Trans"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight},
	))
}

func printDuplicates(out io.Writer, result *dupcheck.Result) {
	if !result.HasDuplicates() {
		fmt.Fprintf(out, "No duplicates found for %s.\n", result.Options.TargetName)
		return
	}
	for _, d := range result.Duplicates {
		fmt.Fprintf(out, "!!! DUPLICATE FOUND (%d times) !!!\n", d.Count)
		fmt.Fprintln(out, d.Record.Key())
	}
}
