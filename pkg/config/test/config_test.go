package config_test

import (
	"testing"

	"github.com/Aawaiz-Soomro/LibraDB/pkg/config"
)

func TestLoadServicesConfigDefaults(t *testing.T) {
	t.Setenv("API_HOST", "")
	t.Setenv("API_PORT", "")
	t.Setenv("DB_PATH", "")
	t.Setenv("JWT_SECRET", "")

	cfg := config.LoadServicesConfig()
	if cfg.API.Host != "localhost" || cfg.API.Port != "8080" {
		t.Fatalf("api defaults = %s:%s, want localhost:8080", cfg.API.Host, cfg.API.Port)
	}
	if cfg.DBPath != "./data/libradb.db" {
		t.Fatalf("db path default = %s", cfg.DBPath)
	}
	if !cfg.JWTAlert {
		t.Fatal("JWTAlert must be set when JWT_SECRET is missing")
	}
}

func TestLoadServicesConfigFromEnv(t *testing.T) {
	t.Setenv("API_HOST", "")
	t.Setenv("API_PORT", "9090")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg := config.LoadServicesConfig()
	if cfg.API.Port != "9090" {
		t.Fatalf("port = %s, want 9090", cfg.API.Port)
	}
	if cfg.JWTAlert {
		t.Fatal("JWTAlert must be clear when JWT_SECRET is set")
	}
	if got := cfg.API.URL(); got != "http://localhost:9090" {
		t.Fatalf("url = %s, want http://localhost:9090", got)
	}
}
