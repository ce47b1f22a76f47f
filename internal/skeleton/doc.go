// Package skeleton thins an ink mask to a one-pixel-wide medial skeleton
// with the Zhang–Suen algorithm, preserving connectivity and endpoints so
// the tracer can walk single-stroke paths instead of blob outlines.
package skeleton
