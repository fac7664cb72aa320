// Package chain renders a segmented scenario as a node-link chain:
// one node per item, sequential edges following the ordinals, and one
// cluster per category. It complements the diagonal diagram when the
// reader cares about the causal chain rather than the time staircase.
//
// ToDOT emits Graphviz DOT; RenderSVG runs the DOT through the embedded
// Graphviz engine.
package chain
