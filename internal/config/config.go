package config

import (
	"os"
	"path/filepath"
	"sync"

	"fjacquet/stmt-import/internal/logging"

	"github.com/joho/godotenv"
)

var envOnce sync.Once

// LoadEnv loads environment variables from a .env file in the current or the
// parent directory, once per process. Variables already set are kept.
// It returns the file that was loaded, or an empty string.
func LoadEnv(logger logging.Logger) string {
	logger = logging.OrDefault(logger)
	var loaded string
	envOnce.Do(func() {
		loaded = loadEnvFile(logger, ".env", filepath.Join("..", ".env"))
	})
	return loaded
}

func loadEnvFile(logger logging.Logger, candidates ...string) string {
	for _, envFile := range candidates {
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			logger.WithError(err).Warn("Error loading .env file", logging.F(logging.FieldFile, envFile))
			return ""
		}
		logger.Debug("Loaded environment variables", logging.F(logging.FieldFile, envFile))
		return envFile
	}
	logger.Debug("No .env file found, using environment variables")
	return ""
}

// NewLogger builds the application logger from the log section.
func NewLogger(config *Config) logging.Logger {
	return logging.NewLogrusAdapter(config.Log.Level, config.Log.Format)
}
