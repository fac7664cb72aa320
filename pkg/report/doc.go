// Package report renders a full case record as an A4 PDF dossier:
// title block, the narrative sections in archive order, the diagonal
// scenario diagram, attached images, and the damage/source metadata.
//
// The diagram is not computed here. The caller supplies the layout.Plan
// produced by the layout engine and this package only scales and draws
// its primitives, so the PDF and SVG renderings of a scenario always
// agree. A plan that fails to draw degrades to a dossier without a
// diagram; it never suppresses the rest of the report.
//
// Japanese text needs a Unicode font. Point WithFontFile at a TTF with
// CJK coverage (e.g. a Noto Sans JP file); without one the renderer
// falls back to built-in Helvetica, which keeps the PDF structurally
// valid but cannot display the Japanese text.
package report
