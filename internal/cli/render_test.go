package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/daikumatan/shippai-knowledge-etl/pkg/fkd"
	"github.com/daikumatan/shippai-knowledge-etl/pkg/pipeline"
)

func testResult() *pipeline.Result {
	return &pipeline.Result{
		Case: &fkd.Case{
			CaseID:   "CZ0200703",
			CaseName: "回転ドア事故",
		},
		Artifacts: map[string][]byte{
			pipeline.FormatSVG:  []byte("<svg/>"),
			pipeline.FormatJSON: []byte(`{"Width":960}`),
		},
	}
}

func TestWriteArtifactsSingleFile(t *testing.T) {
	res := testResult()
	opts := pipeline.Options{Formats: []string{pipeline.FormatSVG}}
	out := filepath.Join(t.TempDir(), "diagram.svg")

	paths, err := writeArtifacts(res, opts, out)
	if err != nil {
		t.Fatalf("writeArtifacts: %v", err)
	}
	if len(paths) != 1 || paths[0] != out {
		t.Fatalf("paths = %v, want [%s]", paths, out)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != "<svg/>" {
		t.Errorf("file content = %q, want svg artifact", data)
	}
}

func TestWriteArtifactsDirectory(t *testing.T) {
	res := testResult()
	dir := t.TempDir()
	opts := pipeline.Options{Formats: []string{pipeline.FormatSVG, pipeline.FormatJSON}}

	paths, err := writeArtifacts(res, opts, dir)
	if err != nil {
		t.Fatalf("writeArtifacts: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("wrote %d files, want 2", len(paths))
	}
	for _, p := range paths {
		if filepath.Dir(p) != dir {
			t.Errorf("artifact %s not in output dir", p)
		}
		if _, err := os.Stat(p); err != nil {
			t.Errorf("artifact %s not written: %v", p, err)
		}
	}
	// Plan JSON keeps its distinguishing extension.
	if filepath.Ext(paths[0]) != ".svg" {
		t.Errorf("first artifact = %s, want .svg", paths[0])
	}
	if !strings.HasSuffix(paths[1], ".plan.json") {
		t.Errorf("second artifact = %s, want .plan.json", paths[1])
	}
}

func TestWriteArtifactsFallbackDir(t *testing.T) {
	res := testResult()
	dir := t.TempDir()
	opts := pipeline.Options{Formats: []string{pipeline.FormatSVG}, OutputDir: dir}

	paths, err := writeArtifacts(res, opts, "")
	if err != nil {
		t.Fatalf("writeArtifacts: %v", err)
	}
	if len(paths) != 1 || filepath.Dir(paths[0]) != dir {
		t.Errorf("paths = %v, want one file under opts.OutputDir", paths)
	}
}

func TestArtifactExtensions(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{format: pipeline.FormatSVG, want: "svg"},
		{format: pipeline.FormatJSON, want: "plan.json"},
		{format: pipeline.FormatDOT, want: "dot"},
		{format: pipeline.FormatPDF, want: "pdf"},
	}

	for _, tt := range tests {
		if got := artifactExt(tt.format); got != tt.want {
			t.Errorf("artifactExt(%q) = %q, want %q", tt.format, got, tt.want)
		}
	}
}
