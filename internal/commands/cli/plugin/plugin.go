// Package plugin provides plugin inspection commands.
package plugin

import "github.com/spf13/cobra"

// NewPluginCommand creates the main plugin command group.
func NewPluginCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plugin",
		Short: "Plugin inspection commands",
		Long:  `Commands for inspecting the merged plugin configuration.`,
	}

	// Add subcommands.
	cmd.AddCommand(NewListCommand())
	cmd.AddCommand(NewShowCommand())
	cmd.AddCommand(NewBrowseCommand())

	return cmd
}
