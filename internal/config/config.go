// Package config provides environment-backed configuration for the
// server and CLI.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// Config holds runtime settings. Environment variables are the single
// source; godotenv in main loads a .env file into the environment first.
type Config struct {
	Port         int    `validate:"min=1,max=65535"`
	DatabaseURL  string
	GeminiAPIKey string

	// DefaultTruthMode applies when a request omits truth_mode.
	DefaultTruthMode string `validate:"oneof=off balanced strict"`
	// DefaultTopNSkills bounds how many extracted skills are scored.
	DefaultTopNSkills int `validate:"min=1,max=100"`
}

var validate = validator.New()

// FromEnv reads configuration from the environment, applying defaults
// for anything unset.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:              8080,
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		DefaultTruthMode:  "balanced",
		DefaultTopNSkills: 25,
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %v", err)
		}
		cfg.Port = port
	}

	if mode := os.Getenv("ATS_TRUTH_MODE"); mode != "" {
		cfg.DefaultTruthMode = mode
	}

	if topNStr := os.Getenv("ATS_TOP_N_SKILLS"); topNStr != "" {
		topN, err := strconv.Atoi(topNStr)
		if err != nil {
			return nil, fmt.Errorf("invalid ATS_TOP_N_SKILLS: %v", err)
		}
		cfg.DefaultTopNSkills = topN
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}
