// Package main provides ocrctl, a local front end to the OCR pipeline.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/toricodesthings/ocr-service/internal/config"
)

const version = "1.0.0"

var (
	cfgFile    string
	outputJSON bool
	quiet      bool

	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "ocrctl",
	Short: "Extract text from images and PDFs with the ocrsvc pipeline",
	Long: `ocrctl runs the same recognition pipeline as the ocrsvc HTTP server
against local files: images are recognized directly, PDFs are rasterized
page by page and each page is recognized with the por+eng profile.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		return cfg.Validate()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default: uses env vars)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "no progress output on stderr")

	rootCmd.AddCommand(newExtractCmd())
	rootCmd.AddCommand(newVersionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "✗ %v\n", err)
		os.Exit(1)
	}
}
