package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/markdave123-py/pagetext/internal/core/ocr"
)

// Version is set at build time with -ldflags "-X .../commands.Version=...".
var Version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "pdftext %s (ocr enabled: %t)\n", Version, ocr.Enabled)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
