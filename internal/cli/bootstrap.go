package cli

import (
	"context"
	"fmt"

	"github.com/andrei-cloud/plugload/internal/config"
	"github.com/andrei-cloud/plugload/internal/plugins"
)

// Bootstrap builds the plugin service from the active configuration.
func Bootstrap(ctx context.Context) (*plugins.Service, error) {
	svc, err := plugins.NewServiceFromConfig(ctx, config.Get())
	if err != nil {
		return nil, fmt.Errorf("failed to set up plugin loader: %w", err)
	}

	return svc, nil
}

// Load bootstraps the service and initializes the plugins. The caller must
// Close the returned service.
func Load(ctx context.Context) (*plugins.Service, *plugins.State, error) {
	svc, err := Bootstrap(ctx)
	if err != nil {
		return nil, nil, err
	}

	state, err := svc.Instance(ctx)
	if err != nil {
		_ = svc.Close(ctx)

		return nil, nil, fmt.Errorf("failed to initialize plugins: %w", err)
	}

	return svc, state, nil
}
