package report

import (
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"github.com/daikumatan/shippai-knowledge-etl/pkg/mandala/layout"
)

// Diagram stroke palette, matching the SVG sink.
var (
	thinRuleColor   = [3]int{153, 153, 153}
	doubleRuleColor = [3]int{44, 62, 80}
	bracketColor    = [3]int{51, 51, 51}
	barStrokeColor  = [3]int{102, 102, 102}
	barTextColor    = [3]int{26, 26, 26}
	axisTextColor   = [3]int{102, 102, 102}
)

const mmPerPoint = 25.4 / 72

// drawPlan draws a layout plan at (x0, y0), uniformly scaled to fit
// within maxW × maxH millimeters, and returns the drawn height. The
// plan's own coordinates are abstract canvas units; only the scale
// maps them to the page.
func drawPlan(pdf *gofpdf.Fpdf, plan *layout.Plan, font string, x0, y0, maxW, maxH float64) float64 {
	if plan == nil || plan.Width <= 0 || plan.Height <= 0 {
		return 0
	}
	scale := maxW / float64(plan.Width)
	if s := maxH / float64(plan.Height); s < scale {
		scale = s
	}

	for _, p := range plan.Primitives {
		switch v := p.(type) {
		case layout.Rect:
			drawBar(pdf, v, font, x0, y0, scale)
		case layout.SeparatorLine:
			drawSeparator(pdf, v, x0, y0, scale)
		case layout.Bracket:
			drawBracket(pdf, v, font, x0, y0, scale)
		case layout.AxisLabel:
			pdf.SetTextColor(axisTextColor[0], axisTextColor[1], axisTextColor[2])
			pdf.SetFont(font, "", 7)
			pdf.Text(x0+v.X*scale, y0+v.Y*scale, v.Text)
		}
	}
	return float64(plan.Height) * scale
}

func drawBar(pdf *gofpdf.Fpdf, r layout.Rect, font string, x0, y0, scale float64) {
	x := x0 + r.X*scale
	y := y0 + r.Y*scale
	w := r.W * scale
	h := r.H * scale

	fr, fg, fb := hexRGB(r.Fill)
	pdf.SetFillColor(fr, fg, fb)
	pdf.SetDrawColor(barStrokeColor[0], barStrokeColor[1], barStrokeColor[2])
	pdf.SetLineWidth(0.15)
	pdf.Rect(x, y, w, h, "FD")

	if r.Label == "" {
		return
	}
	fontPt := h / mmPerPoint * 0.62
	if fontPt < 3 {
		return // unreadable, skip rather than clutter
	}
	// Budget in half-width cells: one cell is roughly half the font
	// size wide.
	cellMM := fontPt * 0.5 * mmPerPoint
	pad := h * 0.25
	maxCells := int((w - 2*pad) / cellMM)
	pdf.SetTextColor(barTextColor[0], barTextColor[1], barTextColor[2])
	pdf.SetFont(font, "", fontPt)
	pdf.Text(x+pad, y+h*0.74, truncate(r.Label, maxCells))
}

func drawSeparator(pdf *gofpdf.Fpdf, s layout.SeparatorLine, x0, y0, scale float64) {
	x1, y1 := x0+s.X1*scale, y0+s.Y1*scale
	x2, y2 := x0+s.X2*scale, y0+s.Y2*scale
	if s.Weight == layout.WeightThickDouble {
		pdf.SetDrawColor(doubleRuleColor[0], doubleRuleColor[1], doubleRuleColor[2])
		pdf.SetLineWidth(0.3)
		pdf.Line(x1, y1-0.35, x2, y2-0.35)
		pdf.Line(x1, y1+0.35, x2, y2+0.35)
		return
	}
	pdf.SetDrawColor(thinRuleColor[0], thinRuleColor[1], thinRuleColor[2])
	pdf.SetLineWidth(0.15)
	pdf.Line(x1, y1, x2, y2)
}

func drawBracket(pdf *gofpdf.Fpdf, b layout.Bracket, font string, x0, y0, scale float64) {
	x := x0 + b.X*scale
	top := y0 + b.YTop*scale
	bottom := y0 + b.YBottom*scale
	const tick = 1.5 // mm

	pdf.SetDrawColor(bracketColor[0], bracketColor[1], bracketColor[2])
	pdf.SetLineWidth(0.25)
	pdf.Line(x, top, x, bottom)
	pdf.Line(x, top, x-tick, top)
	pdf.Line(x, bottom, x-tick, bottom)

	pdf.SetTextColor(doubleRuleColor[0], doubleRuleColor[1], doubleRuleColor[2])
	pdf.SetFont(font, "", 9)
	pdf.Text(x+1.5, (top+bottom)/2+1.2, b.Label)
}

// hexRGB parses #rrggbb; unparseable input comes back white so a bad
// fill degrades visibly instead of failing the render.
func hexRGB(s string) (int, int, int) {
	if len(s) != 7 || s[0] != '#' {
		return 255, 255, 255
	}
	r, err1 := strconv.ParseUint(s[1:3], 16, 8)
	g, err2 := strconv.ParseUint(s[3:5], 16, 8)
	b, err3 := strconv.ParseUint(s[5:7], 16, 8)
	if err1 != nil || err2 != nil || err3 != nil {
		return 255, 255, 255
	}
	return int(r), int(g), int(b)
}
