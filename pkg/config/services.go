package config

import (
	"fmt"
	"os"
)

type Service struct {
	Host     string
	Port     string
	Protocol string
}

type ServicesConfig struct {
	API      Service
	DBPath   string
	JWTAlert bool
}

func LoadServicesConfig() *ServicesConfig {
	return &ServicesConfig{
		API: Service{
			Host:     getEnvOrDefault("API_HOST", "localhost"),
			Port:     getEnvOrDefault("API_PORT", "8080"),
			Protocol: "http",
		},
		DBPath:   getEnvOrDefault("DB_PATH", "./data/libradb.db"),
		JWTAlert: os.Getenv("JWT_SECRET") == "",
	}
}

func (s *Service) URL() string {
	return fmt.Sprintf("%s://%s:%s", s.Protocol, s.Host, s.Port)
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
