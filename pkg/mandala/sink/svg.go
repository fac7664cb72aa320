package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/daikumatan/shippai-knowledge-etl/pkg/mandala/layout"
)

// SVG visual constants. The plan carries geometry; stroke colors and
// widths are a sink concern.
const (
	barStroke        = "#666666"
	barStrokeWidth   = 0.5
	thinStroke       = "#999999"
	thinStrokeWidth  = 0.5
	doubleStroke     = "#2c3e50"
	doubleStrokeWdt  = 1.2
	doubleRuleSpread = 2.0 // vertical distance between the two rules
	bracketStroke    = "#333333"
	bracketTickLen   = 4.0
	textColor        = "#1a1a1a"
	bracketTextColor = "#2c3e50"
	axisTextColor    = "#666666"
	labelPadX        = 4.0
	fontSize         = 11.0
	bracketFontSize  = 12.0
	axisFontSize     = 10.0
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	background string
}

// WithBackground sets a background fill; default is transparent.
func WithBackground(color string) SVGOption {
	return func(r *svgRenderer) { r.background = color }
}

// RenderSVG renders a layout plan as a standalone SVG document.
// Primitives are drawn in plan order: later primitives paint on top.
func RenderSVG(plan layout.Plan, opts ...SVGOption) []byte {
	var r svgRenderer
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		plan.Width, plan.Height, plan.Width, plan.Height)

	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
			plan.Width, plan.Height, r.background)
	}

	for _, prim := range plan.Primitives {
		switch v := prim.(type) {
		case layout.Rect:
			renderRect(&buf, v)
		case layout.SeparatorLine:
			renderSeparator(&buf, v)
		case layout.Bracket:
			renderBracket(&buf, v)
		case layout.AxisLabel:
			renderAxisLabel(&buf, v)
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderRect(buf *bytes.Buffer, r layout.Rect) {
	fmt.Fprintf(buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" stroke="%s" stroke-width="%.1f"/>`+"\n",
		r.X, r.Y, r.W, r.H, r.Fill, barStroke, barStrokeWidth)
	// Baseline roughly centers the label in the bar; overflow is clipped
	// at the viewport, matching the "renderer decides truncation" contract.
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-size="%.1f" fill="%s">%s</text>`+"\n",
		r.X+labelPadX, r.Y+r.H/2+fontSize/3, fontSize, textColor, escape(r.Label))
}

func renderSeparator(buf *bytes.Buffer, s layout.SeparatorLine) {
	if s.Weight == layout.WeightThickDouble {
		for _, dy := range []float64{-doubleRuleSpread / 2, doubleRuleSpread / 2} {
			fmt.Fprintf(buf, `  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="%.1f"/>`+"\n",
				s.X1, s.Y1+dy, s.X2, s.Y2+dy, doubleStroke, doubleStrokeWdt)
		}
		return
	}
	fmt.Fprintf(buf, `  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="%.1f"/>`+"\n",
		s.X1, s.Y1, s.X2, s.Y2, thinStroke, thinStrokeWidth)
}

func renderBracket(buf *bytes.Buffer, b layout.Bracket) {
	// Vertical spine with short ticks back toward the bars at both ends.
	fmt.Fprintf(buf, `  <path d="M %.1f %.1f H %.1f V %.1f H %.1f" fill="none" stroke="%s" stroke-width="0.8"/>`+"\n",
		b.X-bracketTickLen, b.YTop, b.X, b.YBottom, b.X-bracketTickLen, bracketStroke)
	mid := (b.YTop + b.YBottom) / 2
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-size="%.1f" fill="%s">%s</text>`+"\n",
		b.X+bracketTickLen, mid+bracketFontSize/3, bracketFontSize, bracketTextColor, escape(b.Label))
}

func renderAxisLabel(buf *bytes.Buffer, a layout.AxisLabel) {
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-size="%.1f" fill="%s">%s</text>`+"\n",
		a.X, a.Y, axisFontSize, axisTextColor, escape(a.Text))
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
