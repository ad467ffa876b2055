// Package metricscmd provides the metrics command.
package metricscmd

import (
	"github.com/spf13/cobra"

	"github.com/andrei-cloud/plugload/internal/cli"
)

// NewMetricsCommand creates the metrics command.
func NewMetricsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "Initialize plugins and print loader metrics",
		Long:  `Initialize plugins once and write the loader metrics in Prometheus text format.`,
		Args:  cobra.NoArgs,
		RunE:  runMetrics,
	}
}

func runMetrics(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	svc, _, err := cli.Load(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = svc.Close(ctx)
	}()

	return svc.Loader().Metrics().WriteText(cmd.OutOrStdout())
}
