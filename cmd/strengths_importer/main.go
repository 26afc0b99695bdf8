// Package main provides the entry point for the strengths importer CLI and server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "strengths_importer",
	Short: "Strengths profile importer",
	Long:  "Strengths importer ingests CliftonStrengths reports and team spreadsheet exports, extracts ranked themes, and attaches them to organization members with a mandatory preview mode.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
