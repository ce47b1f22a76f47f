package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/sigvec/internal/config"
	"github.com/nao1215/sigvec/internal/database"
	"github.com/nao1215/sigvec/internal/log"
	"github.com/nao1215/sigvec/internal/model"
	"github.com/nao1215/sigvec/internal/pipeline"
	"github.com/nao1215/sigvec/internal/report"
	"github.com/nao1215/sigvec/internal/svg"
)

// NewVectorizeCmd creates the vectorize command.
func NewVectorizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vectorize [image...]",
		Short: "Convert signature images to SVG stroke paths",
		Long: `Vectorize converts raster signature images into SVG stroke paths.

Each image is binarized with an automatically chosen threshold, cleaned of
scan noise, reduced to the signature region, thinned to a one-pixel
skeleton, and traced into smooth vector strokes.

Examples:
  # Vectorize a single image
  sigvec vectorize signature.png

  # Write the SVG to a specific file
  sigvec vectorize -o out.svg signature.png

  # Vectorize a whole directory of scans concurrently
  sigvec vectorize --batch 8 scans/*.png

  # Force an explicit threshold and polarity
  sigvec vectorize --threshold 180 --invert whiteboard.jpg

  # Use a tuning profile from the .sigvec file
  sigvec vectorize --profile whiteboard photo.jpg

  # Output a JSON report
  sigvec vectorize --json signature.png

Profile file (.sigvec) example:
  defaults:
    maxDimension: 1024
  profiles:
    whiteboard:
      threshold: 180
      invert: true
      closeRadius: 2`,
		Args: cobra.ArbitraryArgs,
		RunE: runVectorizeCmd,
	}

	// Binarization flags
	cmd.Flags().IntP("threshold", "t", config.DefaultThreshold,
		"Binarization threshold in [0, 255], or -1 to choose automatically")
	cmd.Flags().BoolP("invert", "i", false,
		"Flip the detected ink polarity")

	// Decoding flags
	cmd.Flags().Int("max-dimension", config.DefaultMaxDimension,
		"Downscale inputs so neither side exceeds this (0 disables)")
	cmd.Flags().Int("rotation", 0,
		"Right-angle pre-rotation in degrees (0, 90, -90, 180); overrides EXIF orientation")

	// Mask cleanup flags
	cmd.Flags().Bool("no-despeckle", false,
		"Disable the isolated-pixel cleanup pass")
	cmd.Flags().Int("min-component", 0,
		"Drop ink components smaller than this many pixels (0 derives it from ink count)")
	cmd.Flags().Int("close-radius", config.DefaultCloseRadius,
		"Morphological closing radius for bridging pen gaps (0 disables)")
	cmd.Flags().Int("skeleton-iterations", 0,
		"Maximum thinning iterations (0 iterates to convergence)")

	// Refinement flags
	cmd.Flags().Float64("epsilon", config.DefaultRDPEpsilon,
		"Polyline simplification tolerance in pixels")
	cmd.Flags().Float64("spacing", config.DefaultResampleSpacing,
		"Arc-length spacing of output points in pixels")
	cmd.Flags().Int("smooth", config.DefaultSmoothIterations,
		"Chaikin smoothing iterations")

	// SVG styling flags
	cmd.Flags().Float64("stroke-width", config.DefaultStrokeWidth,
		"SVG stroke width")
	cmd.Flags().String("stroke-color", config.DefaultStrokeColor,
		"SVG stroke color")

	// Output flags
	cmd.Flags().StringP("output", "o", "",
		"SVG output path (single image only; default derives <source>.svg)")
	cmd.Flags().String("preview", "",
		"Write a PNG preview of the cleaned ink mask to this path")

	// Batch flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent vectorizations")
	cmd.Flags().Bool("keep-going", false,
		"Continue with the remaining images when one fails")

	// Profile file flags
	cmd.Flags().StringP("config", "c", "",
		"Profile file path (default: .sigvec in current or home directory)")
	cmd.Flags().StringP("profile", "p", "",
		"Named tuning profile from the profile file")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().String("report", "",
		"Write the report to this file instead of stdout")

	// Database flags
	cmd.Flags().Bool("no-db", false,
		"Do not save results to the local history database")

	return cmd
}

// runVectorizeCmd executes the vectorize command.
func runVectorizeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runVectorize(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from the profile file and cobra flags.
// Profile values apply first; flags the user set explicitly win over them.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)
	cfg.Targets = args

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg.ProfileName, err = cmd.Flags().GetString("profile")
	if err != nil {
		return nil, err
	}

	// Load tuning profiles from the profile file.
	// If the user explicitly specified a path, a missing file is an error.
	// Otherwise a missing file just means defaults.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.Profiles, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load profile file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("profile file not found: %s", cfg.ConfigFilePath)
	} else {
		cfg.Profiles = &config.File{Profiles: make(map[string]config.Profile)}
	}

	profile, ok := cfg.Profiles.GetProfile(cfg.ProfileName)
	if !ok {
		return nil, fmt.Errorf("%w: %s", config.ErrUnknownProfile, cfg.ProfileName)
	}
	profile.Apply(cfg)

	if err := applyFlagOverrides(cmd, cfg); err != nil {
		return nil, err
	}

	// Save to the history database using the XDG data directory unless
	// the user opted out.
	noDB, err := cmd.Flags().GetBool("no-db")
	if err != nil {
		return nil, err
	}
	if !noDB {
		cfg.SaveToDB = true
		cfg.DBDir = config.XDGDataDir()
	}

	return cfg, nil
}

// applyFlagOverrides copies explicitly set flags onto the config. Checking
// Changed keeps flag defaults from clobbering profile file values.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	var err error

	if flags.Changed("threshold") {
		if cfg.Threshold, err = flags.GetInt("threshold"); err != nil {
			return err
		}
	}
	if flags.Changed("invert") {
		if cfg.Invert, err = flags.GetBool("invert"); err != nil {
			return err
		}
	}
	if flags.Changed("max-dimension") {
		if cfg.MaxDimension, err = flags.GetInt("max-dimension"); err != nil {
			return err
		}
	}
	if flags.Changed("rotation") {
		if cfg.Rotation, err = flags.GetInt("rotation"); err != nil {
			return err
		}
	}
	if flags.Changed("no-despeckle") {
		noDespeckle, err := flags.GetBool("no-despeckle")
		if err != nil {
			return err
		}
		cfg.Despeckle = !noDespeckle
	}
	if flags.Changed("min-component") {
		if cfg.MinComponentSize, err = flags.GetInt("min-component"); err != nil {
			return err
		}
	}
	if flags.Changed("close-radius") {
		if cfg.CloseRadius, err = flags.GetInt("close-radius"); err != nil {
			return err
		}
	}
	if flags.Changed("skeleton-iterations") {
		if cfg.SkeletonMaxIterations, err = flags.GetInt("skeleton-iterations"); err != nil {
			return err
		}
	}
	if flags.Changed("epsilon") {
		if cfg.RDPEpsilon, err = flags.GetFloat64("epsilon"); err != nil {
			return err
		}
	}
	if flags.Changed("spacing") {
		if cfg.ResampleSpacing, err = flags.GetFloat64("spacing"); err != nil {
			return err
		}
	}
	if flags.Changed("smooth") {
		if cfg.SmoothIterations, err = flags.GetInt("smooth"); err != nil {
			return err
		}
	}
	if flags.Changed("stroke-width") {
		if cfg.StrokeWidth, err = flags.GetFloat64("stroke-width"); err != nil {
			return err
		}
	}
	if flags.Changed("stroke-color") {
		if cfg.StrokeColor, err = flags.GetString("stroke-color"); err != nil {
			return err
		}
	}

	if cfg.OutputFile, err = flags.GetString("output"); err != nil {
		return err
	}
	if cfg.PreviewFile, err = flags.GetString("preview"); err != nil {
		return err
	}
	if cfg.BatchSize, err = flags.GetInt("batch"); err != nil {
		return err
	}
	if cfg.KeepGoing, err = flags.GetBool("keep-going"); err != nil {
		return err
	}
	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return err
	}
	if cfg.ReportFile, err = flags.GetString("report"); err != nil {
		return err
	}

	return nil
}

// runVectorize executes the vectorization.
func runVectorize(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if len(cfg.Targets) > 1 && cfg.OutputFile != "" {
		return fmt.Errorf("--output accepts a single image; got %d", len(cfg.Targets))
	}

	logger.Info("starting vectorization",
		"targets", cfg.Targets,
		"batchSize", cfg.BatchSize,
		"saveToDB", cfg.SaveToDB,
	)

	// Open the history database if saving is enabled
	var db *database.SigDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	if len(cfg.Targets) > 1 && cfg.BatchSize > 1 {
		return runBatchVectorize(ctx, cfg, db, logger)
	}
	return runSequentialVectorize(ctx, cfg, db, logger)
}

// runSequentialVectorize vectorizes targets one at a time.
func runSequentialVectorize(ctx context.Context, cfg *config.Config, db *database.SigDB, logger *slog.Logger) error {
	loader := pipeline.NewLoader(cfg)

	for _, target := range cfg.Targets {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		fmt.Printf("Vectorizing %s...\n", target)
		startTime := time.Now()

		buf, err := loader.Load(target)
		if err != nil {
			logger.Error("failed to load image", "target", target, "error", err)
			if !cfg.KeepGoing {
				return fmt.Errorf("failed to load %s: %w", target, err)
			}
			fmt.Fprintf(os.Stderr, "Load error for %s: %v\n", target, err)
			continue
		}

		vecReport, err := pipeline.Vectorize(ctx, target, buf, cfg, pipeline.WithLogger(logger))
		if err != nil {
			logger.Error("vectorization failed", "target", target, "error", err)
			if !cfg.KeepGoing {
				return fmt.Errorf("failed to vectorize %s: %w", target, err)
			}
			fmt.Fprintf(os.Stderr, "Vectorize error for %s: %v\n", target, err)
			continue
		}

		elapsed := time.Since(startTime)
		fmt.Printf("Vectorized in %s\n\n", elapsed.Round(time.Millisecond))

		if err := handleResult(ctx, cfg, db, vecReport, logger); err != nil {
			logger.Error("output failed", "target", target, "error", err)
		}
	}

	return nil
}

// runBatchVectorize vectorizes multiple targets concurrently using
// BatchProcessor.
func runBatchVectorize(ctx context.Context, cfg *config.Config, db *database.SigDB, logger *slog.Logger) error {
	fmt.Printf("Starting batch vectorization of %d images (concurrency: %d)...\n\n",
		len(cfg.Targets), cfg.BatchSize)

	startTime := time.Now()

	bp := pipeline.NewBatchProcessor(cfg,
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
		pipeline.WithFailFast(!cfg.KeepGoing),
	)

	// Process with callback for streaming output
	var mu sync.Mutex
	err := bp.ProcessBatchWithCallback(ctx, cfg.Targets, func(vecReport *model.VectorizeReport, index int) {
		mu.Lock()
		defer mu.Unlock()

		fmt.Printf("[%d/%d] Vectorized: %s\n", index+1, len(cfg.Targets), vecReport.Source)

		if err := handleResult(ctx, cfg, db, vecReport, logger); err != nil {
			logger.Error("output failed", "target", vecReport.Source, "error", err)
		}
	})

	elapsed := time.Since(startTime)
	fmt.Printf("\nBatch vectorization completed in %s\n", elapsed.Round(time.Millisecond))

	return err
}

// handleResult writes the SVG, outputs the report, and saves to the
// database for one completed image.
func handleResult(ctx context.Context, cfg *config.Config, db *database.SigDB, vecReport *model.VectorizeReport, logger *slog.Logger) error {
	svgDoc, err := writeSVG(cfg, vecReport)
	if err != nil {
		return fmt.Errorf("failed to write SVG: %w", err)
	}

	if err := outputReport(cfg, vecReport); err != nil {
		return fmt.Errorf("failed to output report: %w", err)
	}

	if err := saveResult(ctx, db, vecReport, svgDoc, logger); err != nil {
		logger.Error("failed to save result", "target", vecReport.Source, "error", err)
	}
	return nil
}

// writeSVG encodes and writes the SVG for one result, returning the
// document for database storage. A failed run with no path writes nothing.
func writeSVG(cfg *config.Config, vecReport *model.VectorizeReport) (string, error) {
	if vecReport.Path == nil {
		return "", nil
	}

	encoder := svg.NewEncoder(
		svg.WithStrokeWidth(cfg.StrokeWidth),
		svg.WithStrokeColor(cfg.StrokeColor),
	)
	svgDoc := encoder.EncodeString(vecReport.Path)

	dest := cfg.OutputFile
	if dest == "" {
		dest = derivedSVGPath(vecReport.Source)
	}

	dir := filepath.Dir(dest)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return svgDoc, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(dest, []byte(svgDoc), 0600); err != nil {
		return svgDoc, err
	}

	fmt.Printf("Wrote %s (%d strokes, %d points)\n", dest, vecReport.StrokeCount, vecReport.PointCount)
	return svgDoc, nil
}

// derivedSVGPath replaces the source extension with .svg.
func derivedSVGPath(source string) string {
	return strings.TrimSuffix(source, filepath.Ext(source)) + ".svg"
}

// outputReport outputs the vectorization report in the requested format.
func outputReport(cfg *config.Config, vecReport *model.VectorizeReport) error {
	// Determine output destination
	var output *os.File
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create report directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint())
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	default:
		writer = report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}

	_, err := writer.Write(vecReport)
	return err
}

// saveResult saves the result to the database if enabled.
// If db is nil, this function is a no-op.
func saveResult(ctx context.Context, db *database.SigDB, vecReport *model.VectorizeReport, svgDoc string, logger *slog.Logger) error {
	if db == nil {
		return nil
	}

	id, err := db.SaveResult(ctx, vecReport, svgDoc)
	if err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}

	logger.Info("result saved to database", "target", vecReport.Source, "id", id)
	return nil
}
