package config

import (
	"os"
	"strconv"
	"time"

	"raisingate/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Log     LogConfig
	Gate    GateConfig
	Paths   PathConfig
	Acquire AcquireConfig
	Prep    PrepConfig
	Model   ModelConfig
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string
}

// GateConfig holds the quality gate thresholds. ProfilePath names an optional
// TOML file whose values override these.
type GateConfig struct {
	NullThreshold         float64
	CollinearityThreshold float64
	LeakageThreshold      float64
	CheckRanges           bool
	Parallel              bool
	ProfilePath           string
}

// PathConfig holds file system paths
type PathConfig struct {
	DataDir      string
	ArtifactsDir string
}

// AcquireConfig holds download settings
type AcquireConfig struct {
	Timeout   time.Duration
	UserAgent string
}

// PrepConfig holds cleaning and splitting settings
type PrepConfig struct {
	TestSize float64
	Seed     int64
}

// ModelConfig holds logistic regression training settings
type ModelConfig struct {
	LearningRate float64
	Iterations   int
	L2           float64
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Log:     LogConfig{Level: getEnvOrDefault("LOG_LEVEL", "INFO")},
		Gate:    *loadGateConfig(),
		Paths:   *loadPathConfig(),
		Acquire: *loadAcquireConfig(),
		Prep:    *loadPrepConfig(),
		Model:   *loadModelConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func loadGateConfig() *GateConfig {
	return &GateConfig{
		NullThreshold:         getEnvFloatOrDefault("GATE_NULL_THRESHOLD", 0.05),
		CollinearityThreshold: getEnvFloatOrDefault("GATE_COLLINEARITY_THRESHOLD", 0.9),
		LeakageThreshold:      getEnvFloatOrDefault("GATE_LEAKAGE_THRESHOLD", 0.5),
		CheckRanges:           getEnvBoolOrDefault("GATE_CHECK_RANGES", false),
		Parallel:              getEnvBoolOrDefault("GATE_PARALLEL", true),
		ProfilePath:           getEnvOrDefault("GATE_PROFILE", ""),
	}
}

func loadPathConfig() *PathConfig {
	return &PathConfig{
		DataDir:      getEnvOrDefault("DATA_DIR", "data"),
		ArtifactsDir: getEnvOrDefault("ARTIFACTS_DIR", "artifacts"),
	}
}

func loadAcquireConfig() *AcquireConfig {
	return &AcquireConfig{
		Timeout:   getEnvDurationOrDefault("ACQUIRE_TIMEOUT", 30*time.Second),
		UserAgent: getEnvOrDefault("ACQUIRE_USER_AGENT", "raisingate/1.0"),
	}
}

func loadPrepConfig() *PrepConfig {
	return &PrepConfig{
		TestSize: getEnvFloatOrDefault("SPLIT_TEST_SIZE", 0.2),
		Seed:     int64(getEnvIntOrDefault("SPLIT_SEED", 123)),
	}
}

func loadModelConfig() *ModelConfig {
	return &ModelConfig{
		LearningRate: getEnvFloatOrDefault("MODEL_LEARNING_RATE", 0.1),
		Iterations:   getEnvIntOrDefault("MODEL_ITERATIONS", 1000),
		L2:           getEnvFloatOrDefault("MODEL_L2", 1.0),
	}
}

func validateConfig(config *Config) error {
	if err := checkUnit("GATE_NULL_THRESHOLD", config.Gate.NullThreshold); err != nil {
		return err
	}
	if err := checkUnit("GATE_COLLINEARITY_THRESHOLD", config.Gate.CollinearityThreshold); err != nil {
		return err
	}
	if err := checkUnit("GATE_LEAKAGE_THRESHOLD", config.Gate.LeakageThreshold); err != nil {
		return err
	}
	if config.Prep.TestSize <= 0 || config.Prep.TestSize >= 1 {
		return errors.ConfigInvalid("SPLIT_TEST_SIZE must be between 0 and 1")
	}
	if config.Model.Iterations <= 0 {
		return errors.ConfigInvalid("MODEL_ITERATIONS must be positive")
	}
	if config.Model.LearningRate <= 0 {
		return errors.ConfigInvalid("MODEL_LEARNING_RATE must be positive")
	}
	if config.Model.L2 < 0 {
		return errors.ConfigInvalid("MODEL_L2 cannot be negative")
	}
	if config.Acquire.Timeout <= 0 {
		return errors.ConfigInvalid("ACQUIRE_TIMEOUT must be positive")
	}
	return nil
}

func checkUnit(name string, v float64) error {
	if v < 0 || v > 1 {
		return errors.ConfigInvalid(name + " must be within [0, 1]")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
