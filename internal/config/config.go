package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the application's configuration.
type Config struct {
	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`
	MLService struct {
		URL            string `yaml:"url"`
		TimeoutSeconds int64  `yaml:"timeout_seconds"`
	} `yaml:"ml_service"`
	ModelStore struct {
		Dir string `yaml:"dir"`
	} `yaml:"model_store"`
	Anchor struct {
		URL     string `yaml:"url"`
		Enabled bool   `yaml:"enabled"`
	} `yaml:"anchor"`
	Feedback struct {
		QueueCapacity int `yaml:"queue_capacity"`
	} `yaml:"feedback"`
	Learning struct {
		MinFeedbackCount      int     `yaml:"min_feedback_count"`
		BatchSize             int     `yaml:"batch_size"`
		UpdateIntervalSeconds int64   `yaml:"update_interval_seconds"`
		CheckIntervalSeconds  int64   `yaml:"check_interval_seconds"`
		LearningRate          float64 `yaml:"learning_rate"`
	} `yaml:"learning"`
	Server struct {
		Port      string `yaml:"port"`
		JWTSecret string `yaml:"jwt_secret"`
	} `yaml:"server"`
}

// LoadConfig reads configuration from the specified YAML file.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	return config, nil
}
