package config

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"

	"fjacquet/chatledger/internal/logging"
)

var envOnce sync.Once

// LoadEnv loads variables from a .env file in the working directory or its
// parent, once per process. Variables already set are not overridden.
func LoadEnv(logger logging.Logger) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	envOnce.Do(func() {
		envFile := findEnvFile()
		if envFile == "" {
			logger.Debug("No .env file found, using environment variables")
			return
		}
		if err := godotenv.Load(envFile); err != nil {
			logger.WithError(err).Warn("Error loading .env file")
			return
		}
		logger.Debug("Loaded environment variables", logging.F(logging.FieldFile, envFile))
	})
}

func findEnvFile() string {
	for _, candidate := range []string{".env", filepath.Join("..", ".env")} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}
