package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/orangedata/dashtools/internal/fontfetch"
)

var (
	fontURL     string
	fontOutput  string
	fontTimeout time.Duration
)

// fetchFontCmd embeds the PDF export font as a base64 script fragment.
var fetchFontCmd = &cobra.Command{
	Use:   "fetch-font",
	Short: "Download the Arabic font and embed it as a script fragment",
	Long: `Downloads the font used by the dashboard's PDF export, base64-encodes it
and writes it as a single constant to a script file that the dashboard page
loads. Parent directories of the output are created.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := fontfetch.Options{
			URL:          firstNonEmpty(fontURL, appConfig.Font.URL),
			OutputPath:   firstNonEmpty(fontOutput, appConfig.Font.OutputPath),
			VariableName: appConfig.Font.VariableName,
			Banner:       appConfig.Font.Banner,
			Timeout:      appConfig.Font.Timeout,
		}
		if fontTimeout > 0 {
			opts.Timeout = fontTimeout
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Downloading font from %s...\n", opts.URL)

		result, err := fontfetch.New(opts, nil, logger).Run(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Successfully created %s (Size: %d chars)\n", result.OutputPath, result.Base64Len)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fetchFontCmd)

	fetchFontCmd.Flags().StringVar(&fontURL, "url", "", "Font URL")
	fetchFontCmd.Flags().StringVar(&fontOutput, "output", "", "Path of the script fragment")
	fetchFontCmd.Flags().DurationVar(&fontTimeout, "timeout", 0, "HTTP timeout (default from config)")
}
