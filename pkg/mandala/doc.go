// Package mandala implements the failure-mandala scenario model: the
// tokenized scenario page, separator classification, and segmentation of
// the item stream into the fixed cause → action → result taxonomy.
//
// # Architecture
//
// The scenario page arrives as an ordered stream of [Token] values —
// numbered items interleaved with separator markers — produced by the
// tokenizer in pkg/fkd. Markup never reaches this package; [Classify]
// works on separator asset references and [Segment] works purely on the
// token stream.
//
//	tokens  → Classify (per marker) → Segment → *Structure
//
// The resulting [Structure] holds exactly three categories in fixed
// order. Item ordinals are global: 1..N across the whole scenario, never
// reset at group or category boundaries.
//
// # Failure model
//
// Segment fails with a coded error when the stream is unusable as a
// whole: MISSING_SCENARIO (no items), MALFORMED_SCENARIO (a third
// category boundary), INCOMPLETE_SCENARIO (fewer than two category
// boundaries, or an empty category). A failed segmentation never yields
// a partial Structure. Unknown separators are a data-quality warning,
// not an error; they are ignored as boundaries and reported alongside
// the result.
//
// Both Classify and Segment are pure and reentrant; scenario pages in a
// batch may be segmented concurrently.
package mandala
