package report

import (
	"bytes"
	"testing"

	"github.com/daikumatan/shippai-knowledge-etl/pkg/fkd"
	"github.com/daikumatan/shippai-knowledge-etl/pkg/mandala"
	"github.com/daikumatan/shippai-knowledge-etl/pkg/mandala/layout"
)

func testCase() *fkd.Case {
	return &fkd.Case{
		CaseID:         "CZ0200703",
		URL:            "https://www.shippai.org/fkd/cf/CZ0200703.html",
		CaseName:       "タンク爆発事故",
		Date:           "1995-07-04",
		Location:       "北海道",
		Facility:       "化学工場",
		Summary:        "タンクが爆発した。",
		Phenomenon:     "爆発",
		Process:        "点検を開始。\n\n爆発が発生。",
		Cause:          "静電気による引火。",
		Countermeasure: "接地を徹底する。",
		Knowledge:      []string{"静電気は着火源になる。"},
		Scenario: mandala.Serialized{
			Cause:  [][]string{{"腐食", "減肉", "放置"}},
			Action: [][]string{{"漏えい", "滞留", "着火"}},
			Result: [][]string{{"爆発", "延焼", "全損"}},
		},
		Sources:    []string{"消防庁資料 https://example.org/report.pdf", "新聞報道"},
		Casualties: fkd.Casualties{Deaths: 0, Injuries: 3},
		Authors:    []string{"山田 太郎"},
	}
}

func testPlan(t *testing.T, c *fkd.Case) *layout.Plan {
	t.Helper()
	s := mandala.FromSerialized(c.Scenario)
	plan := layout.Diagonal(s, layout.Canvas{Width: 960, Height: 720}, layout.DefaultStyle())
	return &plan
}

func TestRenderProducesPDF(t *testing.T) {
	c := testCase()
	var buf bytes.Buffer
	if err := Render(&buf, c, testPlan(t, c)); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	out := buf.Bytes()
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Errorf("output does not start with PDF header: %q", out[:min(16, len(out))])
	}
	if len(out) < 1000 {
		t.Errorf("suspiciously small PDF: %d bytes", len(out))
	}
}

func TestRenderWithoutPlan(t *testing.T) {
	// A nil plan must still yield a complete dossier.
	var buf bytes.Buffer
	if err := Render(&buf, testCase(), nil); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Error("output is not a PDF")
	}
}

func TestRenderMissingImageDegrades(t *testing.T) {
	c := testCase()
	c.Images.Representative = "DZ0200703.jpg"
	c.Images.Multimedia = []fkd.Multimedia{{ID: "MA0200703_1", Caption: "現場写真"}}

	var buf bytes.Buffer
	if err := Render(&buf, c, testPlan(t, c)); err != nil {
		t.Fatalf("Render() with absent image bytes: %v", err)
	}
}

func TestRenderUndecodableImageDegrades(t *testing.T) {
	c := testCase()
	c.Images.Representative = "DZ0200703.jpg"

	var buf bytes.Buffer
	err := Render(&buf, c, testPlan(t, c), WithImage("DZ0200703.jpg", []byte("not an image")))
	if err != nil {
		t.Fatalf("Render() with bad image bytes: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Error("output is not a PDF")
	}
}

func TestDisplayWidth(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"abc", 3},
		{"原因", 4},
		{"01. 配管", 8},
		{"", 0},
	}
	for _, tt := range tests {
		if got := displayWidth(tt.in); got != tt.want {
			t.Errorf("displayWidth(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		maxCells int
		want     string
	}{
		{name: "fits", in: "01. 腐食", maxCells: 10, want: "01. 腐食"},
		{name: "cut ascii", in: "abcdefgh", maxCells: 6, want: "abcd…"},
		{name: "cut wide", in: "配管が腐食して穴があいた", maxCells: 10, want: "配管が腐…"},
		{name: "exact", in: "abcd", maxCells: 4, want: "abcd"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, tt.maxCells)
			if got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.maxCells, got, tt.want)
			}
			if displayWidth(got) > tt.maxCells {
				t.Errorf("result %q wider than budget %d", got, tt.maxCells)
			}
		})
	}
}

func TestHexRGB(t *testing.T) {
	tests := []struct {
		in      string
		r, g, b int
	}{
		{"#dce6f1", 0xdc, 0xe6, 0xf1},
		{"#000000", 0, 0, 0},
		{"garbage", 255, 255, 255},
		{"#zzzzzz", 255, 255, 255},
	}
	for _, tt := range tests {
		r, g, b := hexRGB(tt.in)
		if r != tt.r || g != tt.g || b != tt.b {
			t.Errorf("hexRGB(%q) = %d,%d,%d, want %d,%d,%d", tt.in, r, g, b, tt.r, tt.g, tt.b)
		}
	}
}
