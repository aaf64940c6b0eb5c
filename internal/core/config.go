package core

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kferan/driverlens/internal/classifier"
)

// Defaults mirror the constants the service originally shipped with, so a
// run without a config file behaves identically to the hardcoded setup.
const (
	DefaultHost      = "0.0.0.0"
	DefaultPort      = 5000
	DefaultModelURL  = "https://www.dropbox.com/s/v2v5osbpk4m6i4s/driver?dl=0"
	DefaultModelPath = "models/driver.onnx"
	DefaultImageSize = 224
	DefaultAppDir    = "app"
)

type ModelConfig struct {
	URL       string   `yaml:"url"`
	Path      string   `yaml:"path"`
	ImageSize int      `yaml:"imageSize"`
	Labels    []string `yaml:"labels"`
}

type Database struct {
	Type             string `yaml:"type"`
	ConnectionString string `yaml:"connectionString"`
}

type CacheConfig struct {
	RedisAddress string `yaml:"redisAddress"`
	TTLSeconds   int    `yaml:"ttlSeconds"`
}

type ServiceConfig struct {
	Host     string      `yaml:"host"`
	Port     int         `yaml:"port"`
	AppDir   string      `yaml:"appDir"`
	Model    ModelConfig `yaml:"model"`
	Database Database    `yaml:"database"`
	Cache    CacheConfig `yaml:"cache"`
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *ServiceConfig {
	return &ServiceConfig{
		Host:   DefaultHost,
		Port:   DefaultPort,
		AppDir: DefaultAppDir,
		Model: ModelConfig{
			URL:       DefaultModelURL,
			Path:      DefaultModelPath,
			ImageSize: DefaultImageSize,
			Labels:    classifier.DefaultLabels,
		},
	}
}

// LoadConfig loads configuration from the specified YAML file. A missing
// file is not an error; the built-in defaults are used instead.
func LoadConfig(configPath string) (*ServiceConfig, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	// Parse YAML over the defaults so omitted fields keep their values
	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", configPath, err)
	}

	return config, nil
}

func validateConfig(config *ServiceConfig) error {
	if config.Port <= 0 || config.Port > 65535 {
		return fmt.Errorf("port must be within 1-65535, got %d", config.Port)
	}
	if config.Model.URL == "" {
		return fmt.Errorf("model url must not be empty")
	}
	if config.Model.Path == "" {
		return fmt.Errorf("model path must not be empty")
	}
	if config.Model.ImageSize <= 0 {
		return fmt.Errorf("model image size must be positive, got %d", config.Model.ImageSize)
	}
	return validateLabels(config.Model.Labels)
}

// validateLabels ensures the class set is usable as a prediction target
func validateLabels(labels []string) error {
	if len(labels) == 0 {
		return fmt.Errorf("at least one label is required")
	}

	seenNames := make(map[string]bool)
	for i, label := range labels {
		if label == "" {
			return fmt.Errorf("label at index %d is empty", i)
		}
		if seenNames[label] {
			return fmt.Errorf("duplicate label: %s", label)
		}
		seenNames[label] = true
	}

	return nil
}
