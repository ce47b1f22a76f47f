package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

//go:embed templates/sigvec.yaml
var configTemplate embed.FS

// configFileName is the default profile file name.
const configFileName = ".sigvec"

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new sigvec profile file",
		Long: `Initialize creates a new .sigvec profile file in the current directory.

The generated file includes:
- Commented defaults for every tuning option
- Example named profiles for common scan conditions
- Documentation for all available options

Examples:
  # Create .sigvec in current directory
  sigvec init

  # Create profile file at a specific path
  sigvec init -o myprofiles.yaml

  # Force overwrite existing file
  sigvec init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", configFileName,
		"Output file path for the profile file")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing profile file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	// Check if file already exists
	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("profile file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	// Read template from embedded filesystem
	content, err := configTemplate.ReadFile("templates/sigvec.yaml")
	if err != nil {
		return fmt.Errorf("failed to read profile template: %w", err)
	}

	// Create parent directories if needed
	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// Write profile file
	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write profile file: %w", err)
	}

	fmt.Printf("Created profile file: %s\n", outputPath)
	fmt.Println("\nEdit this file to configure tuning such as:")
	fmt.Println("  - Binarization threshold and ink polarity")
	fmt.Println("  - Noise cleanup and gap closing")
	fmt.Println("  - Simplification and smoothing strength")

	return nil
}
