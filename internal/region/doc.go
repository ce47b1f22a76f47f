// Package region labels 8-connected ink components and isolates the ones
// that make up the actual signature. Components are scored by size, position
// and density, nearby fragments are merged into the winner, and the mask is
// cropped to the merged bounding box plus a margin.
package region
