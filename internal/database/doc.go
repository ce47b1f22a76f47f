// Package database provides SQLite-backed storage for vectorization
// results, keeping the report, its statistics, and the rendered SVG per
// source image for later listing and retrieval.
package database
