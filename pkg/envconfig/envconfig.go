package envconfig

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/vercatryx/Triangle-order-managment-sub004/pkg/logger"
)

// LoadEnvFile loads environment variables from the given file.
// Variables already set in the environment take precedence.
func LoadEnvFile(path string) error {
	return godotenv.Load(path)
}

// GetEnv returns the value of the environment variable or the fallback
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

// GetLogLevel reads LOG_LEVEL and maps it to a logger level
func GetLogLevel() logger.LogLevel {
	switch GetEnv("LOG_LEVEL", "info") {
	case "debug":
		return logger.LevelDebug
	case "warn":
		return logger.LevelWarn
	case "error":
		return logger.LevelError
	default:
		return logger.LevelInfo
	}
}
