package commands

import (
	"go.uber.org/zap"

	"github.com/soundviewhealth/chc-scheduler/internal/config"
	"github.com/soundviewhealth/chc-scheduler/pkg/clients/xlsxclient"
)

// AppContext holds the dependencies passed to commands
type AppContext struct {
	Cfg    *config.Config
	Logger *zap.Logger
	Xlsx   *xlsxclient.Client
}
