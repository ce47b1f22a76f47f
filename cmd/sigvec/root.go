// Package main provides the entry point for the sigvec CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for sigvec.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sigvec",
		Short: "Vectorize handwritten signatures from raster images",
		Long: `Sigvec converts raster images of handwritten signatures (PNG, JPEG, GIF)
into clean vector stroke paths and renders them as SVG.

The pipeline binarizes the image, isolates the signature region, thins the
ink to a one-pixel skeleton, traces it into strokes, and refines the
strokes into compact smooth polylines.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewVectorizeCmd())
	cmd.AddCommand(NewListCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
