// Package trace walks a skeleton mask into polylines, one per connected
// component. The walk prefers the straightest continuation through branch
// points and backtracks over an explicit stack, so every skeleton edge is
// traversed exactly once and each component yields a single continuous path.
package trace
