package config

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	// Server
	Host        string `json:"host"`
	Port        int    `json:"port"`
	Environment string `json:"environment"`
	APIPrefix   string `json:"api_prefix"`
	LogLevel    string `json:"log_level"`

	// CORS
	CORSOrigins []string `json:"cors_origins"`

	// Auth
	APIKeyHeader string   `json:"api_key_header"`
	APIKeys      []string `json:"api_keys"`
	EnableAuth   bool     `json:"enable_auth"`

	// Rate Limiting
	RateLimitPerMinute int `json:"rate_limit_per_minute"`

	// Store
	DatabasePath   string `json:"database_path"`
	QueryTimeoutMs int    `json:"query_timeout_ms"`

	// AI / LLM
	AnthropicAPIKey  string `json:"anthropic_api_key"`
	AnthropicBaseURL string `json:"anthropic_base_url"` // override for compatible proxies
	Model            string `json:"model"`
	LLMTimeout       int    `json:"llm_timeout"` // seconds

	// Audit
	EnableAuditLogging bool `json:"enable_audit_logging"`
}

func Load() (*Config, error) {
	cfg := &Config{
		Host:               DefaultHost,
		Port:               DefaultPort,
		Environment:        DefaultEnvironment,
		APIPrefix:          DefaultAPIPrefix,
		LogLevel:           DefaultLogLevel,
		CORSOrigins:        DefaultCORSOrigins,
		APIKeyHeader:       "X-API-Key",
		RateLimitPerMinute: DefaultRateLimitPerMinute,
		DatabasePath:       DefaultDatabasePath,
		QueryTimeoutMs:     DefaultQueryTimeoutMs,
		LLMTimeout:         DefaultLLMTimeout,
		EnableAuditLogging: true,
	}

	// Load from JSON config file if specified
	if path := getEnv("MELODEX_CONFIG", ""); path != "" {
		if err := loadJSON(path, cfg); err != nil {
			return nil, err
		}
	}

	// Environment overrides
	applyEnvOverrides(cfg)

	return cfg, nil
}

func loadJSON(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, cfg)
}

func applyEnvOverrides(cfg *Config) {
	if v := getEnv("MELODEX_HOST", ""); v != "" {
		cfg.Host = v
	}
	if v := getEnv("MELODEX_PORT", ""); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	if v := getEnv("MELODEX_ENV", ""); v != "" {
		cfg.Environment = v
	}
	if v := getEnv("MELODEX_LOG_LEVEL", ""); v != "" {
		cfg.LogLevel = v
	}
	if v := getEnv("MELODEX_API_KEYS", ""); v != "" {
		cfg.APIKeys = strings.Split(v, ",")
	}
	if v := getEnv("MELODEX_DB_PATH", ""); v != "" {
		cfg.DatabasePath = v
	}
	if v := getEnv("MELODEX_QUERY_TIMEOUT_MS", ""); v != "" {
		if t, err := strconv.Atoi(v); err == nil {
			cfg.QueryTimeoutMs = t
		}
	}
	if v := getEnv("ANTHROPIC_API_KEY", ""); v != "" {
		cfg.AnthropicAPIKey = v
	}
	if v := getEnv("ANTHROPIC_BASE_URL", ""); v != "" {
		cfg.AnthropicBaseURL = v
	}
	if v := getEnv("MELODEX_MODEL", ""); v != "" {
		cfg.Model = v
	}
	if v := getEnv("RATE_LIMIT_PER_MINUTE", ""); v != "" {
		if r, err := strconv.Atoi(v); err == nil {
			cfg.RateLimitPerMinute = r
		}
	}
	if v := getEnv("ENABLE_AUTH", ""); v != "" {
		cfg.EnableAuth = v == "true" || v == "1"
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}
