// Package config defines the vectorization configuration, its validation
// rules, and the optional .sigvec profile file that carries named tuning
// presets.
package config
