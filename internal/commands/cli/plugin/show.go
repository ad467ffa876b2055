package plugin

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrei-cloud/plugload/internal/cli"
)

// NewShowCommand creates the show command.
func NewShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME",
		Short: "Show the merged configuration of a plugin",
		Args:  cobra.ExactArgs(1),
		RunE:  runShowPlugin,
	}
}

func runShowPlugin(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	svc, _, err := cli.Load(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = svc.Close(ctx)
	}()

	name := args[0]
	cfg, ok := svc.Loader().Registry().Plugin(name)
	if !ok {
		return fmt.Errorf("plugin %q not found", name)
	}

	return cli.PrintRecord(cmd.OutOrStdout(), name, cfg)
}
