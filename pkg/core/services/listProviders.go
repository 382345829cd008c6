package services

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/soundviewhealth/chc-scheduler/internal/config"
	"github.com/soundviewhealth/chc-scheduler/pkg/clients/xlsxclient"
	"github.com/soundviewhealth/chc-scheduler/pkg/core/model"
)

// ProviderClient defines the roster operations needed from the xlsx client
type ProviderClient interface {
	ListProviders(path string, opts xlsxclient.RosterOptions) ([]model.Provider, error)
}

// ListProviders loads the provider roster from a workbook using the
// configured locations and sheet name.
func ListProviders(client ProviderClient, cfg *config.Config, logger *zap.Logger, path string) ([]model.Provider, error) {
	logger.Debug("Loading provider roster", zap.String("path", path))

	providers, err := client.ListProviders(path, rosterOptions(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to load providers: %w", err)
	}

	logger.Info("Loaded providers", zap.Int("count", len(providers)))
	return providers, nil
}

func rosterOptions(cfg *config.Config) xlsxclient.RosterOptions {
	locations := make([]model.Location, 0, len(cfg.Locations))
	for _, loc := range cfg.Locations {
		locations = append(locations, model.Location(loc))
	}
	sheet := cfg.ProviderSheet
	if sheet == "" {
		sheet = "Providers"
	}
	return xlsxclient.RosterOptions{
		Sheet:           sheet,
		KnownLocations:  locations,
		DefaultLocation: model.Location(cfg.DefaultLocation),
	}
}
