package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/sigvec/internal/model"
)

// MarkdownWriter outputs reports in Markdown format, designed for
// documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation: type-safe builders, tables, GitHub-flavored alerts, and
// mermaid charts.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.VectorizeReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeBinarization(md, report)
	w.writeGeometry(md, report)
	w.writeTimings(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.VectorizeReport) {
	md.H1("Signature Vectorization Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Source", "`" + report.Source + "`"},
			{"Date", report.DateScanned.Format("2006-01-02 15:04:05 MST")},
			{"Canvas", fmt.Sprintf("%dx%d", report.Width, report.Height)},
			{"Status", w.statusText(report)},
		},
	})
	md.PlainText("")
}

// statusText returns the status cell based on report state.
func (w *MarkdownWriter) statusText(report *model.VectorizeReport) string {
	if report.ErrorMessage != "" {
		return "❌ Error - " + report.ErrorMessage
	}
	return "✅ Complete"
}

// writeBinarization writes the threshold decision section.
func (w *MarkdownWriter) writeBinarization(md *markdown.Markdown, report *model.VectorizeReport) {
	md.H2("Binarization")
	md.PlainText("")

	polarity := "light-on-dark"
	if report.DarkInk {
		polarity = "dark-on-light"
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Threshold", strconv.Itoa(report.Threshold)},
			{"Polarity", polarity},
			{"Ink pixels", strconv.Itoa(report.InkPixels)},
			{"Components found", strconv.Itoa(report.ComponentsFound)},
			{"Components kept", strconv.Itoa(report.ComponentsKept)},
		},
	})
	md.PlainText("")
}

// writeGeometry writes the vector output section with an alert that flags
// empty results.
func (w *MarkdownWriter) writeGeometry(md *markdown.Markdown, report *model.VectorizeReport) {
	md.H2("Vector Output")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Skeleton pixels", strconv.Itoa(report.SkeletonPixels)},
			{"Strokes", strconv.Itoa(report.StrokeCount)},
			{"Points", strconv.Itoa(report.PointCount)},
			{"Mean stroke length", fmt.Sprintf("%.1f", report.MeanStrokeLength)},
			{"Stroke length stddev", fmt.Sprintf("%.1f", report.StdDevStrokeLength)},
		},
	})
	md.PlainText("")

	if report.StrokeCount == 0 {
		md.Warningf("No strokes were extracted. The image may be blank, or the threshold/polarity settings may not match it.")
	} else {
		md.Tip(fmt.Sprintf("Extracted %d stroke(s) with %d points total.", report.StrokeCount, report.PointCount))
	}
	md.PlainText("")
}

// writeTimings writes the per-stage duration table with a pie chart of the
// time distribution.
func (w *MarkdownWriter) writeTimings(md *markdown.Markdown, report *model.VectorizeReport) {
	if len(report.Timings) == 0 {
		return
	}

	md.H2("Stage Timings")
	md.PlainText("")

	rows := make([][]string, len(report.Timings))
	for i, t := range report.Timings {
		rows[i] = []string{t.Stage, t.Duration.String()}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Stage", "Duration"},
		Rows:   rows,
	})
	md.PlainText("")

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Stage Time Distribution"),
		piechart.WithShowData(true),
	)
	for _, t := range report.Timings {
		if us := t.Duration.Microseconds(); us > 0 {
			chart.LabelAndIntValue(t.Stage, uint64(us))
		}
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [sigvec](https://github.com/nao1215/sigvec)*")
}
