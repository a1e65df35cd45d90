// Package main provides the entry point for the InspireDoc CLI and server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "inspiredoc",
	Short: "InspireDoc document generation pipeline",
	Long:  "InspireDoc generates new documents from heterogeneous sources by mimicking an exemplar's structure and style, then exports the result as HTML, PDF, or DOCX.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
