// Package initcmd provides the init command.
package initcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrei-cloud/plugload/internal/cli"
	"github.com/andrei-cloud/plugload/internal/plugins"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize plugins once and report the result",
		Long: `Run plugin discovery, configuration merge, translation loading and
activation once, then print what happened.`,
		Args: cobra.NoArgs,
		RunE: runInit,
	}
}

func runInit(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	svc, state, err := cli.Load(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = svc.Close(ctx)
	}()

	return printState(cmd, state)
}

func printState(cmd *cobra.Command, state *plugins.State) error {
	out := cmd.OutOrStdout()

	cacheResult := "miss"
	if state.CacheHit {
		cacheResult = "hit"
	}

	_, _ = fmt.Fprintf(out, "Run:         %s\n", state.RunID)
	_, _ = fmt.Fprintf(out, "Fingerprint: %s\n", state.Fingerprint)
	_, _ = fmt.Fprintf(out, "Cache:       %s\n", cacheResult)
	_, _ = fmt.Fprintf(out, "Event fired: %s\n\n", cli.YesNo(state.EventFired))

	if len(state.Discovered) == 0 {
		_, _ = fmt.Fprintln(out, "No plugins found.")

		return nil
	}

	activated := make(map[string]bool, len(state.Activated))
	for _, name := range state.Activated {
		activated[name] = true
	}

	w := cli.NewTable(out)
	_, _ = fmt.Fprintln(w, "Plugin\tEnabled\tActivated")
	_, _ = fmt.Fprintln(w, "------\t-------\t---------")
	for _, name := range state.Discovered {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n",
			name,
			cli.YesNo(state.Plugins[name].Enabled()),
			cli.YesNo(activated[name]))
	}

	return w.Flush()
}
