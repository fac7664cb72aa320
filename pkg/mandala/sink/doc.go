// Package sink renders a diagonal layout plan into concrete output
// formats. Renderers consume the declarative plan only; they never see
// the scenario structure, so any backend that understands the four
// primitive kinds can be added without touching the layout engine.
//
// Available sinks:
//   - SVG: self-contained vector output for browsers and docs
//   - JSON: the kind-tagged plan itself, for external renderers
//
// The PDF report in pkg/report draws the same plan with gofpdf.
package sink
