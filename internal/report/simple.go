package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/sigvec/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// The format is designed for terminal display: plain ASCII that pipes
// cleanly to files and other tools.
type SimpleWriter struct {
	baseWriter

	// verbose enables the per-stage timing section.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with per-stage timings.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.VectorizeReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeBinarization(&sb, report)
	w.writeGeometry(&sb, report)
	if w.verbose {
		w.writeTimings(&sb, report)
	}

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with run information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.VectorizeReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                          SIGVEC REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Source:     %s\n", report.Source)
	fmt.Fprintf(sb, "Date:       %s\n", report.DateScanned.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(sb, "Canvas:     %dx%d\n", report.Width, report.Height)

	if report.ErrorMessage != "" {
		fmt.Fprintf(sb, "Status:     ERROR - %s\n", report.ErrorMessage)
	} else {
		sb.WriteString("Status:     Complete\n")
	}
	sb.WriteString("\n")
}

// writeBinarization writes the threshold decision section.
func (w *SimpleWriter) writeBinarization(sb *strings.Builder, report *model.VectorizeReport) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("BINARIZATION\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	polarity := "light-on-dark"
	if report.DarkInk {
		polarity = "dark-on-light"
	}
	fmt.Fprintf(sb, "  Threshold:   %d\n", report.Threshold)
	fmt.Fprintf(sb, "  Polarity:    %s\n", polarity)
	fmt.Fprintf(sb, "  Ink pixels:  %d\n", report.InkPixels)
	fmt.Fprintf(sb, "  Components:  %d found, %d kept\n", report.ComponentsFound, report.ComponentsKept)
	sb.WriteString("\n")
}

// writeGeometry writes the output path statistics.
func (w *SimpleWriter) writeGeometry(sb *strings.Builder, report *model.VectorizeReport) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("VECTOR OUTPUT\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "  Skeleton pixels:  %d\n", report.SkeletonPixels)
	fmt.Fprintf(sb, "  Strokes:          %d\n", report.StrokeCount)
	fmt.Fprintf(sb, "  Points:           %d\n", report.PointCount)
	if report.StrokeCount > 0 {
		fmt.Fprintf(sb, "  Stroke length:    %.1f mean, %.1f stddev\n",
			report.MeanStrokeLength, report.StdDevStrokeLength)
	}
	sb.WriteString("\n")
}

// writeTimings writes the per-stage duration section.
func (w *SimpleWriter) writeTimings(sb *strings.Builder, report *model.VectorizeReport) {
	if len(report.Timings) == 0 {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("STAGE TIMINGS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, t := range report.Timings {
		fmt.Fprintf(sb, "  %-12s %s\n", t.Stage, t.Duration)
	}
	sb.WriteString("\n")
}
