package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Host     string `yaml:"host"`
		HTTPPort int    `yaml:"http_port"`
	} `yaml:"server"`
	User struct {
		Email string `yaml:"email"`
		Token string `yaml:"token"`
	} `yaml:"user"`
	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

var GlobalConfig *Config

func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".libradb"), nil
}

func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.yaml"), nil
}

func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	GlobalConfig = &config
	return &config, nil
}

func Save(config *Config) error {
	configDir, err := GetConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}
	return os.WriteFile(configPath, data, 0o600)
}

// Init writes a default config pointing at a local server.
func Init() error {
	config := &Config{}
	config.Server.Host = "localhost"
	config.Server.HTTPPort = 8080
	config.Logging.Level = "info"
	return Save(config)
}

func GetServerURL() (string, error) {
	cfg, err := Load()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("http://%s:%d", cfg.Server.Host, cfg.Server.HTTPPort), nil
}

// GetAuthToken returns the saved bearer token from the last login.
func GetAuthToken() (string, error) {
	cfg, err := Load()
	if err != nil {
		return "", err
	}
	if cfg.User.Token == "" {
		return "", fmt.Errorf("not logged in")
	}
	return cfg.User.Token, nil
}
