// Package commands implements the pdftext command line.
package commands

import (
	"github.com/spf13/cobra"
)

var (
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:           "pdftext",
	Short:         "Extract text from PDF documents",
	Long:          "pdftext extracts text from PDFs, reading the text layer where present and running OCR on scanned pages.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log pipeline progress to stderr")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
