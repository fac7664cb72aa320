package sink

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/daikumatan/shippai-knowledge-etl/pkg/mandala/layout"
)

// RenderJSON encodes the plan in its kind-tagged wire form, indented.
// This is the hand-off format for external renderers that want the raw
// drawing instructions instead of a finished image.
func RenderJSON(plan layout.Plan) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(plan); err != nil {
		return nil, fmt.Errorf("encode plan: %w", err)
	}
	return buf.Bytes(), nil
}
