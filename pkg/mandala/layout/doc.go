// Package layout computes the diagonal step-diagram for a segmented
// scenario. It is a pure geometry pass: given the structure, a canvas,
// and a style, it emits a declarative [Plan] of drawing primitives and
// makes no assumption about the rendering backend.
//
// Items march from top-left to bottom-right, one bar per item, with thin
// rules between groups, double rules between categories, a bracket per
// category on the right, and a single time-axis label above the first
// bar. Step sizes derive from the canvas divided by the item count, so
// the diagram fits regardless of scenario length.
package layout
