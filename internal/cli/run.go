package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/daikumatan/shippai-knowledge-etl/pkg/pipeline"
)

// runCommand creates the run command: the full ETL over case or index
// URLs, mirroring a batch run against the archive.
func (c *CLI) runCommand() *cobra.Command {
	var (
		formatsStr  string
		viz         string
		output      string
		fontFile    string
		limit       int
		refresh     bool
		noCache     bool
		embedImages bool
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "run [url...]",
		Short: "Extract, render, and persist failure knowledge cases",
		Long: `Run the full pipeline over the given URLs. Case URLs (under cf/) are
processed directly; index URLs (under lis/) expand into their listed
cases. Records land in the configured store, artifacts and the results
ledger in the output directory.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			opts := c.pipelineOptions()
			if formatsStr != "" {
				opts.Formats = parseFormats(formatsStr)
			}
			if viz != "" {
				opts.Viz = viz
			}
			if output != "" {
				opts.OutputDir = output
			}
			if fontFile != "" {
				opts.FontFile = fontFile
			}
			if embedImages {
				opts.EmbedImages = true
			}
			opts.Refresh = refresh
			opts.Limit = limit

			if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			urls := args
			if interactive {
				urls, err = c.pickFromIndexes(ctx, runner, args, limit)
				if err != nil {
					return err
				}
				if len(urls) == 0 {
					printInfo("No case selected")
					return nil
				}
			}

			prog := newProgress(logger)
			rep, err := runner.Run(ctx, urls, opts)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Processed %d cases", rep.Summary.Total))

			printRunReport(rep)
			return nil
		},
	}

	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg, json, dot, pdf (comma-separated)")
	cmd.Flags().StringVarP(&viz, "viz", "t", "", "visualization: diagonal (default), chain")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output directory for artifacts and the results ledger")
	cmd.Flags().StringVar(&fontFile, "font", "", "TTF font with Japanese glyphs for PDF output")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum cases to expand from an index page (0 = all)")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass cached pages and records")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching entirely")
	cmd.Flags().BoolVar(&embedImages, "embed-images", false, "fetch and embed case figures into the PDF")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "pick cases from index pages instead of running them all")

	return cmd
}

// pickFromIndexes opens the case picker for each index URL and returns
// the chosen case URLs; plain case URLs pass through untouched.
func (c *CLI) pickFromIndexes(ctx context.Context, runner *pipeline.Runner, args []string, limit int) ([]string, error) {
	var urls []string
	for _, u := range args {
		if !strings.Contains(u, "/lis/") {
			urls = append(urls, u)
			continue
		}
		refs, err := runner.Extractor.ListCases(ctx, u, limit)
		if err != nil {
			return nil, err
		}
		if len(refs) == 0 {
			continue
		}
		model := NewCaseListModel(refs)
		final, err := tea.NewProgram(model, tea.WithContext(ctx)).Run()
		if err != nil {
			return nil, err
		}
		if m, ok := final.(CaseListModel); ok && m.Selected != nil {
			urls = append(urls, m.Selected.URL)
		}
	}
	return urls, nil
}

// printRunReport summarizes a batch run on the terminal.
func printRunReport(rep *pipeline.RunReport) {
	printNewline()
	printSuccess("%d succeeded, %d excluded, %d failed",
		rep.Summary.Success, rep.Summary.Excluded, rep.Summary.Error)

	for _, cr := range rep.Cases {
		switch cr.Status {
		case pipeline.StatusSuccess:
			printInfo("%s %s", cr.CaseID, cr.CaseName)
			for _, out := range cr.Outputs {
				printFile(out)
			}
		case pipeline.StatusExcluded:
			if len(cr.MissingFields) > 0 {
				printWarning("%s excluded: %s (missing %v)", cr.CaseID, cr.Reason, cr.MissingFields)
			} else {
				printWarning("%s excluded: %s", cr.CaseID, cr.Reason)
			}
		default:
			printError("%s failed: %s", cr.URL, cr.Message)
		}
	}
}
