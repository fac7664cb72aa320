package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/daikumatan/shippai-knowledge-etl/pkg/fkd"
	"github.com/daikumatan/shippai-knowledge-etl/pkg/pipeline"
	"github.com/daikumatan/shippai-knowledge-etl/pkg/store"
)

// renderCommand creates the render command: artifacts for one case.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr  string
		viz         string
		output      string
		fontFile    string
		width       float64
		height      float64
		detailed    bool
		refresh     bool
		noCache     bool
		embedImages bool
	)

	cmd := &cobra.Command{
		Use:   "render [url|record.json]",
		Short: "Render the scenario diagram and case report for one case",
		Long: `Render one case's artifacts. The diagonal visualization supports svg,
json (the drawing plan), and pdf (the full case report); the chain
visualization supports svg and dot.

The argument is a case URL, or a stored record file written by run or
extract; a record file re-renders without touching the archive.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			opts := c.pipelineOptions()
			opts.URL = args[0]
			opts.Refresh = refresh
			if formatsStr != "" {
				opts.Formats = parseFormats(formatsStr)
			}
			if viz != "" {
				opts.Viz = viz
			}
			if fontFile != "" {
				opts.FontFile = fontFile
			}
			if width > 0 {
				opts.Width = width
			}
			if height > 0 {
				opts.Height = height
			}
			if embedImages {
				opts.EmbedImages = true
			}
			opts.Detailed = detailed

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			prog := newProgress(logger)
			var res *pipeline.Result
			if record, ok := loadRecord(args[0]); ok {
				opts.URL = ""
				res, err = runner.ExecuteCase(ctx, record, opts)
			} else {
				res, err = runner.Execute(ctx, opts)
			}
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Rendered %s", res.Case.CaseID))
			printCaseStats(res.Stats.ItemCount, len(res.Warnings), res.CacheInfo.ExtractHit)

			paths, err := writeArtifacts(res, opts, output)
			if err != nil {
				return err
			}
			for _, p := range paths {
				printFile(p)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg, json, dot, pdf (comma-separated)")
	cmd.Flags().StringVarP(&viz, "viz", "t", "", "visualization: diagonal (default), chain")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or directory")
	cmd.Flags().StringVar(&fontFile, "font", "", "TTF font with Japanese glyphs for PDF output")
	cmd.Flags().Float64Var(&width, "width", 0, "diagram canvas width")
	cmd.Flags().Float64Var(&height, "height", 0, "diagram canvas height")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "annotate chain nodes with their group")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass cached pages and records")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching entirely")
	cmd.Flags().BoolVar(&embedImages, "embed-images", false, "fetch and embed case figures into the PDF")

	return cmd
}

// loadRecord reads a stored case record when arg names a local JSON
// file; URLs and missing paths report false.
func loadRecord(arg string) (*fkd.Case, bool) {
	if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
		return nil, false
	}
	if !strings.HasSuffix(arg, ".json") {
		return nil, false
	}
	data, err := os.ReadFile(arg)
	if err != nil {
		return nil, false
	}
	var c fkd.Case
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, false
	}
	return &c, true
}

// writeArtifacts writes the rendered artifacts. A single format with an
// output path that has an extension writes exactly that file; anything
// else goes into the output directory with archive-derived names.
func writeArtifacts(res *pipeline.Result, opts pipeline.Options, output string) ([]string, error) {
	if output != "" && len(opts.Formats) == 1 && filepath.Ext(output) != "" {
		data := res.Artifacts[opts.Formats[0]]
		if err := os.WriteFile(output, data, 0o644); err != nil {
			return nil, err
		}
		return []string{output}, nil
	}

	dir := output
	if dir == "" {
		dir = opts.OutputDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	var paths []string
	for _, format := range opts.Formats {
		data, ok := res.Artifacts[format]
		if !ok {
			continue
		}
		path := filepath.Join(dir, store.Filename(res.Case, artifactExt(format)))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// artifactExt maps a format to its file extension, keeping the plan
// JSON distinct from the case record.
func artifactExt(format string) string {
	if format == pipeline.FormatJSON {
		return "plan.json"
	}
	return strings.ToLower(format)
}
