// Package cachecmd provides configuration cache commands.
package cachecmd

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/andrei-cloud/plugload/internal/cache"
	"github.com/andrei-cloud/plugload/internal/config"
)

// NewCacheCommand creates the cache command group.
func NewCacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Plugin configuration cache commands",
	}

	cmd.AddCommand(newClearCommand())

	return cmd
}

func newClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Drop every cached plugin configuration",
		Long: `Remove all merged plugin configurations from the configured cache backend.
The next run rebuilds them from the plugin files.`,
		Args: cobra.NoArgs,
		RunE: runClear,
	}
}

func runClear(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg := config.Get()

	store, err := cache.New(ctx, cfg.Cache, afero.NewOsFs())
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	defer func() {
		_ = store.Close()
	}()

	if err := store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	driver := cfg.Cache.Driver
	if driver == "" {
		driver = cache.DriverFile
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Cache cleared (%s).\n", driver)

	return err
}
