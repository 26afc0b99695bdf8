package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jordanm/strengths-importer/internal/catalog"
)

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List the theme catalog",
	Long:  "List all 34 themes grouped by domain, with their stable slugs.",
	RunE:  runThemes,
}

func init() {
	rootCmd.AddCommand(themesCmd)
}

func runThemes(_ *cobra.Command, _ []string) error {
	cat, err := catalog.New()
	if err != nil {
		return fmt.Errorf("failed to load theme catalog: %w", err)
	}
	printThemes(os.Stdout, cat)
	return nil
}

func printThemes(out io.Writer, cat *catalog.Catalog) {
	for _, domain := range cat.Domains() {
		fmt.Fprintf(out, "%s\n", domain.Name)
		for _, theme := range cat.Themes() {
			if theme.DomainSlug == domain.Slug {
				fmt.Fprintf(out, "  %-20s %s\n", theme.Name, theme.Slug)
			}
		}
		fmt.Fprintln(out)
	}
}
