package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/orangedata/dashtools/internal/dataset"
	"github.com/orangedata/dashtools/internal/managers"
)

var (
	managersInput  string
	managersOutput string
)

// managersCmd writes the distinct area managers of store_meta to a text file.
var managersCmd = &cobra.Command{
	Use:   "managers",
	Short: "Write the list of area managers",
	Long: `Reads store_meta from management_data.json and writes every distinct
manager, sorted, to a plain-text list. The placeholder values "unknown" and
"online" are skipped in any letter case.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		input := firstNonEmpty(managersInput, appConfig.ManagementFile)
		output := firstNonEmpty(managersOutput, appConfig.Managers.OutputPath)

		data, err := dataset.LoadManagement(input)
		if err != nil {
			return err
		}

		names := managers.Extract(data.StoreMeta, appConfig.Managers.Exclude)
		if err := managers.Write(output, names); err != nil {
			return err
		}

		logger.Info("managers list written",
			zap.String("path", output),
			zap.Int("stores", len(data.StoreMeta)),
			zap.Int("managers", len(names)),
		)
		fmt.Fprintf(cmd.OutOrStdout(), "Managers list saved to %s\n", output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(managersCmd)

	managersCmd.Flags().StringVar(&managersInput, "input", "", "Path to management_data.json")
	managersCmd.Flags().StringVar(&managersOutput, "output", "", "Path of the managers list")
}
