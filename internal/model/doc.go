// Package model defines the data structures shared across the vectorization
// pipeline: geometric primitives (Point, Stroke, SignaturePath) and the
// per-run VectorizeReport that records what each stage did.
package model
