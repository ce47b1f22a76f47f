// Package binarize turns a grayscale+alpha buffer into a boolean ink mask.
//
// The threshold comes from Otsu's method over a 256-bin histogram of opaque
// pixels unless the caller supplies one explicitly. Ink polarity (dark-on-light
// vs light-on-dark) is chosen by a plausibility window on the dark-pixel
// fraction, with a percentile-based fallback for high-key scans where the
// global Otsu threshold lands inside background noise.
package binarize
