// Package cli provides centralized command registration.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/andrei-cloud/plugload/internal/commands/cli/cachecmd"
	"github.com/andrei-cloud/plugload/internal/commands/cli/initcmd"
	"github.com/andrei-cloud/plugload/internal/commands/cli/locale"
	"github.com/andrei-cloud/plugload/internal/commands/cli/metricscmd"
	"github.com/andrei-cloud/plugload/internal/commands/cli/plugin"
)

// RegisterCommands registers all root commands.
func RegisterCommands(root *cobra.Command) error {
	root.AddCommand(initcmd.NewInitCommand())
	root.AddCommand(plugin.NewPluginCommand())
	root.AddCommand(locale.NewLocalesCommand())
	root.AddCommand(locale.NewTranslateCommand())
	root.AddCommand(cachecmd.NewCacheCommand())
	root.AddCommand(metricscmd.NewMetricsCommand())

	return nil
}
