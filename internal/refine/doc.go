// Package refine post-processes raw traced polylines: Ramer–Douglas–Peucker
// simplification, even arc-length resampling, optional Chaikin corner-cutting
// smoothing, and a nearest-neighbor reordering of the strokes into a natural
// left-to-right drawing sequence.
package refine
