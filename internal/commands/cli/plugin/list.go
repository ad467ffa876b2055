// Package plugin provides plugin listing commands.
package plugin

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andrei-cloud/plugload/internal/cli"
	"github.com/andrei-cloud/plugload/internal/registry"
)

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List installed plugins",
		Long:  `List every plugin directory with its enabled flag and configuration keys.`,
		Args:  cobra.NoArgs,
		RunE:  runListPlugins,
	}
}

func runListPlugins(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	svc, state, err := cli.Load(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = svc.Close(ctx)
	}()

	return writePluginTable(cmd.OutOrStdout(), state.Plugins)
}

func writePluginTable(out io.Writer, plugins map[string]registry.Config) error {
	names := make([]string, 0, len(plugins))
	for name := range plugins {
		names = append(names, name)
	}
	sort.Strings(names)

	// Create tabwriter for aligned output.
	w := cli.NewTable(out)
	_, _ = fmt.Fprintln(w, "Plugin\tEnabled\tKeys")
	_, _ = fmt.Fprintln(w, "------\t-------\t----")

	for _, name := range names {
		cfg := plugins[name]
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n",
			name,
			cli.YesNo(cfg.Enabled()),
			strings.Join(cli.Keys(cfg), ", "))
	}

	return w.Flush()
}
