package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// casesCommand creates the cases command: browse an index page and pick
// a case interactively.
func (c *CLI) casesCommand() *cobra.Command {
	var (
		list    string
		limit   int
		noCache bool
		plain   bool
	)

	cmd := &cobra.Command{
		Use:   "cases",
		Short: "Browse and pick cases from an archive index",
		Long: `List the cases of an archive index page. By default an interactive
picker opens; the selected case is processed by the full pipeline.
With --plain the case IDs and titles are printed instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			listURL := c.resolveListURL(list)
			spinner := newSpinnerWithContext(ctx, "Fetching case index...")
			spinner.Start()
			refs, err := runner.Extractor.ListCases(ctx, listURL, limit)
			spinner.Stop()
			if err != nil {
				return err
			}
			if len(refs) == 0 {
				printInfo("No cases listed at %s", listURL)
				return nil
			}

			if plain {
				for _, ref := range refs {
					fmt.Printf("%s\t%s\t%s\n", ref.CaseID, ref.Title, ref.URL)
				}
				return nil
			}

			model := NewCaseListModel(refs)
			prog, err := tea.NewProgram(model, tea.WithContext(ctx)).Run()
			if err != nil {
				return err
			}
			final, ok := prog.(CaseListModel)
			if !ok || final.Selected == nil {
				return nil
			}

			printKeyValue("case", final.Selected.CaseID)
			printKeyValue("title", final.Selected.Title)
			printKeyValue("url", final.Selected.URL)
			printNewline()
			printNextStep("Render it", fmt.Sprintf("%s render %s", appName, final.Selected.URL))
			printNextStep("Extract the record", fmt.Sprintf("%s extract %s", appName, final.Selected.URL))
			return nil
		},
	}

	cmd.Flags().StringVar(&list, "list", "ca_ALL.html", "index page name or full URL")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum cases to list (0 = all)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching entirely")
	cmd.Flags().BoolVar(&plain, "plain", false, "print the list instead of the picker")

	return cmd
}
