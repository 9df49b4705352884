package config

import (
	"os"
	"strconv"
)

// Config holds all configuration for the formdesk portal server.
type Config struct {
	Port      int
	Version   string
	Catalog   CatalogConfig
	Engine    EngineConfig
	Telemetry TelemetryConfig
}

type CatalogConfig struct {
	// Path to the catalog document; empty uses the embedded default.
	Path string
}

type EngineConfig struct {
	// APIKey for the reasoning engine. Empty runs the portal in degraded
	// mode with the assistant disabled.
	APIKey string
	Model  string
	// Endpoint overrides the engine base URL; normally left empty.
	Endpoint string
}

type TelemetryConfig struct {
	Enabled      bool
	OTLPEndpoint string
	ServiceName  string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Port:    envInt("FORMDESK_PORT", 8080),
		Version: envStr("FORMDESK_VERSION", "0.2.0"),
		Catalog: CatalogConfig{
			Path: envStr("FORMDESK_CATALOG", ""),
		},
		Engine: EngineConfig{
			APIKey:   envStr("GEMINI_API_KEY", ""),
			Model:    envStr("FORMDESK_MODEL", "gemini-2.0-flash"),
			Endpoint: envStr("FORMDESK_ENGINE_ENDPOINT", ""),
		},
		Telemetry: TelemetryConfig{
			Enabled:      envBool("OTEL_ENABLED", false),
			OTLPEndpoint: envStr("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			ServiceName:  envStr("OTEL_SERVICE_NAME", "formdesk-portal"),
		},
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
