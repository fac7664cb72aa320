package chain

import (
	"context"
	"strings"
	"testing"

	"github.com/daikumatan/shippai-knowledge-etl/pkg/mandala"
)

func testStructure(t *testing.T) *mandala.Structure {
	t.Helper()
	return mandala.FromSerialized(mandala.Serialized{
		Cause:  [][]string{{"腐食", "減肉"}},
		Action: [][]string{{"漏えい"}},
		Result: [][]string{{"爆発", "全損"}},
	})
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(testStructure(t), Options{})

	for _, want := range []string{
		"digraph scenario {",
		`subgraph cluster_cause`,
		`subgraph cluster_action`,
		`subgraph cluster_result`,
		`label="原因"`,
		`label="行動"`,
		`label="結果"`,
		`n01 [label="01. 腐食"]`,
		`n05 [label="05. 全損"]`,
		"n01 -> n02;",
		"n04 -> n05;",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q\n%s", want, dot)
		}
	}

	// Edges follow ordinals: n items, n-1 edges.
	if got := strings.Count(dot, "->"); got != 4 {
		t.Errorf("edge count = %d, want 4", got)
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(testStructure(t), Options{Detailed: true})
	if !strings.Contains(dot, `group 1`) {
		t.Errorf("detailed DOT missing group annotation\n%s", dot)
	}
}

func TestToDOTEmptyCategorySkipped(t *testing.T) {
	s := mandala.FromSerialized(mandala.Serialized{
		Cause:  [][]string{{"a"}},
		Result: [][]string{{"b"}},
	})
	dot := ToDOT(s, Options{})
	if strings.Contains(dot, "cluster_action") {
		t.Error("empty category produced a cluster")
	}
}

func TestToDOTNilStructure(t *testing.T) {
	dot := ToDOT(nil, Options{})
	if !strings.Contains(dot, "digraph scenario {") || strings.Contains(dot, "->") {
		t.Errorf("nil structure DOT = %s", dot)
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(testStructure(t), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	out := string(svg)
	if !strings.Contains(out, "<svg") {
		t.Error("output is not SVG")
	}
	if !strings.Contains(out, `viewBox="0 0 `) {
		t.Error("viewBox not normalized")
	}
}

func TestNormalizeViewBoxPassthrough(t *testing.T) {
	in := []byte(`<svg width="10"><rect/></svg>`)
	if got := normalizeViewBox(in); string(got) != string(in) {
		t.Errorf("no-viewBox input changed: %s", got)
	}
}
