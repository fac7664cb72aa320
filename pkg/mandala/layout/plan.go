package layout

import (
	"encoding/json"
	"fmt"
)

// Weight distinguishes the two separator rule strengths.
type Weight string

const (
	// WeightThin is the single rule between groups of one category.
	WeightThin Weight = "thin"
	// WeightThickDouble is the double rule between categories.
	WeightThickDouble Weight = "thickDouble"
)

// Primitive is one drawing instruction of a Plan. The four concrete
// kinds are [Rect], [SeparatorLine], [Bracket], and [AxisLabel].
type Primitive interface {
	primitive()
}

// Rect is one item bar. Fill is a hex color chosen by the item's
// category. Label is the zero-padded ordinal plus the item text; the
// renderer decides wrapping or truncation to the bar width.
type Rect struct {
	X, Y, W, H float64
	Fill       string
	Label      string
}

// SeparatorLine is a rule between two consecutive bars.
type SeparatorLine struct {
	X1, Y1, X2, Y2 float64
	Weight         Weight
}

// Bracket spans a category's bars on the right and carries its label.
type Bracket struct {
	X            float64
	YTop, YBottom float64
	Label        string
}

// AxisLabel is the time-progression annotation above the first bar.
type AxisLabel struct {
	X, Y float64
	Text string
}

func (Rect) primitive()          {}
func (SeparatorLine) primitive() {}
func (Bracket) primitive()       {}
func (AxisLabel) primitive()     {}

// Plan is the ordered drawing list plus overall canvas size. It is built
// once per layout call, never mutated afterwards, and holds no reference
// back to the structure it was computed from.
type Plan struct {
	Width      float64
	Height     float64
	Primitives []Primitive
}

// planJSON is the serialized Plan shape, with kind-tagged primitives.
type planJSON struct {
	Width      float64           `json:"width"`
	Height     float64           `json:"height"`
	Primitives []json.RawMessage `json:"primitives"`
}

// MarshalJSON encodes the plan with a "kind" tag per primitive so that
// external renderers can dispatch without knowing Go types.
func (p Plan) MarshalJSON() ([]byte, error) {
	out := planJSON{Width: p.Width, Height: p.Height}
	for _, prim := range p.Primitives {
		var raw []byte
		var err error
		switch v := prim.(type) {
		case Rect:
			raw, err = json.Marshal(struct {
				Kind string `json:"kind"`
				Rect
			}{"rect", v})
		case SeparatorLine:
			raw, err = json.Marshal(struct {
				Kind string `json:"kind"`
				SeparatorLine
			}{"separator", v})
		case Bracket:
			raw, err = json.Marshal(struct {
				Kind string `json:"kind"`
				Bracket
			}{"bracket", v})
		case AxisLabel:
			raw, err = json.Marshal(struct {
				Kind string `json:"kind"`
				AxisLabel
			}{"axisLabel", v})
		}
		if err != nil {
			return nil, err
		}
		out.Primitives = append(out.Primitives, raw)
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the kind-tagged form produced by MarshalJSON.
// Unknown kinds are an error; a plan is a closed set of primitives.
func (p *Plan) UnmarshalJSON(data []byte) error {
	var in planJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	p.Width = in.Width
	p.Height = in.Height
	p.Primitives = nil
	for _, raw := range in.Primitives {
		var tag struct {
			Kind string `json:"kind"`
		}
		if err := json.Unmarshal(raw, &tag); err != nil {
			return err
		}
		var prim Primitive
		var err error
		switch tag.Kind {
		case "rect":
			var v Rect
			err = json.Unmarshal(raw, &v)
			prim = v
		case "separator":
			var v SeparatorLine
			err = json.Unmarshal(raw, &v)
			prim = v
		case "bracket":
			var v Bracket
			err = json.Unmarshal(raw, &v)
			prim = v
		case "axisLabel":
			var v AxisLabel
			err = json.Unmarshal(raw, &v)
			prim = v
		default:
			return fmt.Errorf("unknown primitive kind %q", tag.Kind)
		}
		if err != nil {
			return err
		}
		p.Primitives = append(p.Primitives, prim)
	}
	return nil
}

// Rects returns the bar primitives in drawing order.
func (p Plan) Rects() []Rect {
	var out []Rect
	for _, prim := range p.Primitives {
		if r, ok := prim.(Rect); ok {
			out = append(out, r)
		}
	}
	return out
}

// Separators returns the rule primitives in drawing order.
func (p Plan) Separators() []SeparatorLine {
	var out []SeparatorLine
	for _, prim := range p.Primitives {
		if s, ok := prim.(SeparatorLine); ok {
			out = append(out, s)
		}
	}
	return out
}

// Brackets returns the category bracket primitives in drawing order.
func (p Plan) Brackets() []Bracket {
	var out []Bracket
	for _, prim := range p.Primitives {
		if b, ok := prim.(Bracket); ok {
			out = append(out, b)
		}
	}
	return out
}
