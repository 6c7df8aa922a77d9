package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	DataPath string
	LogDir   string

	// DefaultTrials and DefaultConfidence seed simulation requests that
	// leave those fields unset.
	DefaultTrials     int
	DefaultConfidence float64

	// Seed pins the random source for reproducible runs; 0 means derive a
	// fresh seed per invocation.
	Seed int64
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Try to load from the executable's directory (highest priority for
	// servers launched by an external host).
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory (useful for development/go run)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}

	logDir := os.Getenv("LOGS_FOLDER")
	if logDir == "" {
		logDir = filepath.Join(dataPath, "logs")
	}

	trials, _ := strconv.Atoi(getEnv("DEFAULT_TRIALS", "10000"))
	confidence, _ := strconv.ParseFloat(getEnv("DEFAULT_CONFIDENCE", "85"), 64)
	seed, _ := strconv.ParseInt(getEnv("RANDOM_SEED", "0"), 10, 64)

	cfg := &AppConfig{
		DataPath:          dataPath,
		LogDir:            logDir,
		DefaultTrials:     trials,
		DefaultConfidence: confidence,
		Seed:              seed,
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
