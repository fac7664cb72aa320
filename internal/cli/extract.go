package cli

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
)

// extractCommand creates the extract command: one case record as JSON
// on stdout, for piping into other tools.
func (c *CLI) extractCommand() *cobra.Command {
	var (
		refresh bool
		noCache bool
		output  string
	)

	cmd := &cobra.Command{
		Use:   "extract [url]",
		Short: "Extract one case record as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			opts := c.pipelineOptions()
			opts.URL = args[0]
			opts.Refresh = refresh

			record, warnings, err := runner.Extract(ctx, opts)
			if err != nil {
				return err
			}
			for _, w := range warnings {
				printWarning("unknown scenario marker %s at token %d", w.Asset, w.Index)
			}

			out := os.Stdout
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			return enc.Encode(record)
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass cached pages and records")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching entirely")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the record to a file instead of stdout")

	return cmd
}
