package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/toricodesthings/ocr-service/internal/ocr"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print ocrctl and libtesseract versions",
		RunE: func(cmd *cobra.Command, args []string) error {
			tess := ocr.NewTesseract().Version()
			if outputJSON {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
					"version":   version,
					"tesseract": tess,
					"languages": ocr.Languages,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ocrctl %s (tesseract %s, languages %s)\n",
				version, tess, strings.Join(ocr.Languages, "+"))
			return nil
		},
	}
}
