package config

import (
	"github.com/matheusbnas/dashboard-financeiro-AI/internal/logging"
)

// ConfigureLogging builds the application logger from the Log section of the
// configuration.
func ConfigureLogging(cfg *Config) logging.Logger {
	return logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
}
