package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	APIPort  string `yaml:"api_port"`
	LogLevel string `yaml:"log_level"`

	StoreLocation string `yaml:"store_location"`
	SampleFile    string `yaml:"sample_file"`

	OpenAIAPIKey     string  `yaml:"openai_api_key"`
	OpenAIBaseURL    string  `yaml:"openai_base_url"`
	OpenAIModel      string  `yaml:"openai_model"`
	ModelTemperature float64 `yaml:"model_temperature"`

	APIRateLimitRPS   float64 `yaml:"api_rate_limit_rps"`
	APIRateLimitBurst int     `yaml:"api_rate_limit_burst"`
}

// Load builds the configuration from an optional YAML file (CONFIG_FILE,
// default config.yaml) overridden by environment variables. A missing file
// is not an error; environment always wins.
func Load() Config {
	cfg := Config{
		APIPort:  "8080",
		LogLevel: "info",

		StoreLocation: "data/processed/transcriptions.db",
		SampleFile:    "data/raw/mtsamples.csv",

		OpenAIBaseURL:    "https://api.openai.com",
		OpenAIModel:      "gpt-4o-mini",
		ModelTemperature: 0,

		APIRateLimitRPS:   20,
		APIRateLimitBurst: 40,
	}

	path := mustEnv("CONFIG_FILE", "config.yaml")
	if raw, err := os.ReadFile(path); err == nil {
		_ = yaml.Unmarshal(raw, &cfg)
	}

	cfg.APIPort = mustEnv("API_PORT", cfg.APIPort)
	cfg.LogLevel = mustEnv("LOG_LEVEL", cfg.LogLevel)

	cfg.StoreLocation = mustEnv("STORE_LOCATION", cfg.StoreLocation)
	cfg.SampleFile = mustEnv("SAMPLE_FILE", cfg.SampleFile)

	cfg.OpenAIAPIKey = mustEnv("OPENAI_API_KEY", cfg.OpenAIAPIKey)
	cfg.OpenAIBaseURL = mustEnv("OPENAI_BASE_URL", cfg.OpenAIBaseURL)
	cfg.OpenAIModel = mustEnv("OPENAI_MODEL", cfg.OpenAIModel)
	cfg.ModelTemperature = mustEnvFloat("MODEL_TEMPERATURE", cfg.ModelTemperature)

	cfg.APIRateLimitRPS = mustEnvFloat("API_RATE_LIMIT_RPS", cfg.APIRateLimitRPS)
	cfg.APIRateLimitBurst = mustEnvInt("API_RATE_LIMIT_BURST", cfg.APIRateLimitBurst)

	return cfg
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
