package chain

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/daikumatan/shippai-knowledge-etl/pkg/errors"
	"github.com/daikumatan/shippai-knowledge-etl/pkg/mandala"
)

// Options configures the chain rendering.
type Options struct {
	// Detailed includes the group number in each node label.
	Detailed bool
}

// Cluster fills per category, matching the diagonal diagram tints.
var categoryFill = map[mandala.Category]string{
	mandala.CategoryCause:  "#dce6f1",
	mandala.CategoryAction: "#e2efda",
	mandala.CategoryResult: "#fce4d6",
}

// ToDOT converts a segmented scenario to Graphviz DOT: a top-to-bottom
// chain of item nodes linked in ordinal order, clustered by category.
func ToDOT(s *mandala.Structure, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph scenario {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.3;\n")
	buf.WriteString("  nodesep=0.25;\n")

	if s == nil {
		buf.WriteString("}\n")
		return buf.String()
	}

	var prev string
	var edges []string
	for _, cat := range []mandala.Category{mandala.CategoryCause, mandala.CategoryAction, mandala.CategoryResult} {
		groups := s.Groups(cat)
		if len(groups) == 0 {
			continue
		}
		fmt.Fprintf(&buf, "\n  subgraph cluster_%s {\n", cat.Key())
		fmt.Fprintf(&buf, "    label=%q;\n", cat.Label())
		fmt.Fprintf(&buf, "    style=\"rounded,filled\";\n")
		fmt.Fprintf(&buf, "    fillcolor=%q;\n", categoryFill[cat])
		for gi, group := range groups {
			for _, item := range group {
				id := fmt.Sprintf("n%02d", item.Ordinal)
				label := fmt.Sprintf("%02d. %s", item.Ordinal, item.Text)
				if opts.Detailed {
					label += fmt.Sprintf("\ngroup %d", gi+1)
				}
				fmt.Fprintf(&buf, "    %s [label=%q];\n", id, label)
				if prev != "" {
					edges = append(edges, fmt.Sprintf("  %s -> %s;", prev, id))
				}
				prev = id
			}
		}
		buf.WriteString("  }\n")
	}

	if len(edges) > 0 {
		buf.WriteString("\n")
		buf.WriteString(strings.Join(edges, "\n"))
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG with the embedded Graphviz
// engine.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render SVG")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the opening svg tag to a zero-origin
// viewBox so the output embeds cleanly.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
