package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Port                   string
	PlannerPort            string
	Env                    string
	CORSAllowOrigin        []string
	PlannerBaseURL         string
	PlannerTimeout         time.Duration
	LLMProvider            string
	LLMModel               string
	LLMTemperature         float64
	GeminiAPIKey           string
	DatabaseURL            string
	LogLevel               string
	CleanFallback          bool
	PlanRateLimitPerMinute int
	SessionTTL             time.Duration
}

var defaults = map[string]any{
	"port":                       "8080",
	"planner_port":               "8000",
	"env":                        "dev",
	"cors_allow_origins":         "*",
	"planner_base_url":           "http://127.0.0.1:8000",
	"planner_timeout_seconds":    120,
	"llm_provider":               "gemini",
	"llm_model":                  "gemini-2.0-flash",
	"llm_temperature":            0.3,
	"gemini_api_key":             "",
	"database_url":               "",
	"log_level":                  "info",
	"render_clean_fallback":      false,
	"plan_rate_limit_per_minute": 10,
	"session_ttl_minutes":        60,
}

// Load reads configuration with precedence defaults < .env files < environment.
func Load() Config {
	return FromViper(newViper(".env", "cmd/.env"))
}

// FromViper maps a populated viper instance onto Config.
func FromViper(v *viper.Viper) Config {
	env := normalizeEnv(v.GetString("env"))
	dbURL := strings.TrimSpace(v.GetString("database_url"))
	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is empty in production; plan history stays in memory")
	}

	timeout := time.Duration(v.GetInt("planner_timeout_seconds")) * time.Second
	if timeout < 0 {
		timeout = 0
	}

	return Config{
		Port:                   v.GetString("port"),
		PlannerPort:            v.GetString("planner_port"),
		Env:                    env,
		CORSAllowOrigin:        splitAndTrim(v.GetString("cors_allow_origins")),
		PlannerBaseURL:         strings.TrimRight(strings.TrimSpace(v.GetString("planner_base_url")), "/"),
		PlannerTimeout:         timeout,
		LLMProvider:            normalizeProvider(v.GetString("llm_provider")),
		LLMModel:               strings.TrimSpace(v.GetString("llm_model")),
		LLMTemperature:         v.GetFloat64("llm_temperature"),
		GeminiAPIKey:           strings.TrimSpace(v.GetString("gemini_api_key")),
		DatabaseURL:            dbURL,
		LogLevel:               v.GetString("log_level"),
		CleanFallback:          v.GetBool("render_clean_fallback"),
		PlanRateLimitPerMinute: v.GetInt("plan_rate_limit_per_minute"),
		SessionTTL:             time.Duration(v.GetInt("session_ttl_minutes")) * time.Minute,
	}
}

func newViper(envFiles ...string) *viper.Viper {
	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}

	// Best-effort load of local env files for dev convenience.
	for _, path := range envFiles {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		v.SetConfigFile(path)
		v.SetConfigType("env")
		if err := v.MergeInConfig(); err != nil {
			log.Printf("config: skipping %s: %v", path, err)
		}
	}

	v.AutomaticEnv()
	return v
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "gemini", "google":
		return "gemini"
	default:
		return "none"
	}
}
