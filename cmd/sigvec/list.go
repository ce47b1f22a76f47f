package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/sigvec/internal/config"
	"github.com/nao1215/sigvec/internal/database"
)

// NewListCmd creates the list command.
// This command browses vectorization results stored in the history database.
func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [source]",
		Short: "List vectorization history from the local database",
		Long: `List displays vectorization results saved in the history database.

Without arguments it lists every image source with saved results. With a
source path it lists that image's result history, newest first. Individual
stored SVG documents can be retrieved by ID.

Examples:
  # List all sources with saved results
  sigvec list

  # List result history for one image
  sigvec list signature.png

  # Print a stored SVG document by result ID
  sigvec list --svg-id 5

  # Output history in JSON format
  sigvec list --json signature.png`,
		Args: cobra.MaximumNArgs(1),
		RunE: runListCmd,
	}

	cmd.Flags().Int64("svg-id", 0,
		"Print the stored SVG document for this result ID (use list to see IDs)")
	cmd.Flags().BoolP("json", "j", false,
		"Output history in JSON format")

	return cmd
}

// runListCmd executes the list command.
func runListCmd(cmd *cobra.Command, args []string) error {
	svgID, err := cmd.Flags().GetInt64("svg-id")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	// Use XDG data directory for the database
	dbDir := config.XDGDataDir()

	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	if svgID > 0 {
		return printStoredSVG(ctx, db, svgID)
	}

	if len(args) == 0 {
		return listSources(ctx, db)
	}
	return listHistory(ctx, db, args[0], jsonOutput)
}

// printStoredSVG prints the SVG document stored for one result.
func printStoredSVG(ctx context.Context, db *database.SigDB, id int64) error {
	svgDoc, err := db.GetSVGByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get SVG for result %d: %w", id, err)
	}
	if svgDoc == "" {
		return fmt.Errorf("result %d has no stored SVG", id)
	}

	fmt.Print(svgDoc)
	if !strings.HasSuffix(svgDoc, "\n") {
		fmt.Println()
	}
	return nil
}

// listSources lists all sources that have results in the database.
func listSources(ctx context.Context, db *database.SigDB) error {
	sources, err := db.ListSources(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sources: %w", err)
	}

	if len(sources) == 0 {
		fmt.Println("No saved results found in the database.")
		fmt.Println("\nUse 'sigvec vectorize <image>' to vectorize an image.")
		return nil
	}

	fmt.Printf("Saved sources (%d):\n\n", len(sources))
	for _, source := range sources {
		fmt.Printf("  • %s\n", source)
	}
	fmt.Println("\nUse 'sigvec list <source>' to see result history for a source.")

	return nil
}

// listHistory lists all result records for a specific source.
func listHistory(ctx context.Context, db *database.SigDB, source string, jsonOutput bool) error {
	results, err := db.GetHistory(ctx, source)
	if err != nil {
		return fmt.Errorf("failed to get history: %w", err)
	}

	if jsonOutput {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(results)
	}

	if len(results) == 0 {
		fmt.Printf("No history found for %s\n", source)
		fmt.Println("\nUse 'sigvec vectorize' to vectorize this image.")
		return nil
	}

	fmt.Printf("History for %s (%d results):\n\n", source, len(results))
	fmt.Printf("  %-6s  %-20s  %-10s  %-8s  %s\n", "ID", "Date", "Canvas", "Strokes", "Points")
	fmt.Println("  " + strings.Repeat("-", 60))

	for _, meta := range results {
		fmt.Printf("  %-6d  %-20s  %-10s  %-8d  %d\n",
			meta.ID,
			meta.Timestamp.Format("2006-01-02 15:04:05"),
			fmt.Sprintf("%dx%d", meta.Width, meta.Height),
			meta.StrokeCount,
			meta.PointCount,
		)
	}

	fmt.Println("\nUse 'sigvec list --svg-id <id>' to print a stored SVG document.")

	return nil
}
