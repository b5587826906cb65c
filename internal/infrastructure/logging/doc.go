// Package logging provides structured logging using uber/zap.
//
// Two modes are supported:
//   - Production: JSON output for machine parsing
//   - Development: colored console output
//
// Components receive named child loggers so every line carries its origin:
//
//	logger := logging.NewFromSettings(cfg.Logging)
//	storeLog := logger.Component("store")
//	storeLog.Info("Config activated", zap.String("config", name))
package logging
