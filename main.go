// =============================================================================
// Dashboard Tools - Main Entry Point
// =============================================================================
//
// USAGE:
//   dashtools check-dups   - Report duplicated history records of one employee
//   dashtools managers     - Write the list of area managers
//   dashtools fetch-font   - Embed the PDF export font as a script fragment
//   dashtools export       - Export store or employee sales workbooks
//   dashtools targets      - Prepare the monthly target-setting workbook
//   dashtools validate     - Check the dashboard documents
//   dashtools version      - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : dataset model and one package per tool
//   - pkg/       : shared file utilities
//
// =============================================================================

package main

import (
	"github.com/orangedata/dashtools/cmd"
)

func main() {
	cmd.Execute()
}
