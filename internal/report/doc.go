// Package report renders vectorization reports for humans and tools:
// plain text for the terminal, Markdown for documentation, and JSON for
// downstream processing.
package report
