package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/daikumatan/shippai-knowledge-etl/internal/config"
)

// configCommand creates the config management command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	cmd.AddCommand(c.configInitCommand())
	cmd.AddCommand(c.configPathCommand())

	return cmd
}

// configInitCommand creates the "config init" subcommand.
func (c *CLI) configInitCommand() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write an annotated sample configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			target := path
			if target == "" {
				var err error
				target, err = config.DefaultConfigPath()
				if err != nil {
					return err
				}
			}
			if err := config.WriteSample(target); err != nil {
				return err
			}
			printSuccess("Wrote %s", target)
			printNextStep("Edit it", "$EDITOR "+target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "output", "o", "", "target path (default: the standard config location)")
	return cmd
}

// configPathCommand creates the "config path" subcommand.
func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the resolved configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(c.ConfigPath)
			return nil
		},
	}
}
