// Package config provides mindgate settings: tunable kernel thresholds plus
// inference and logging configuration. Settings load from a YAML file with
// MINDGATE_* environment overrides, and a Provider exposes them hot-readable
// per call with fsnotify-driven reload.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"mindgate/internal/logging"
)

// KernelSettings holds the tunable decision thresholds.
type KernelSettings struct {
	// AttentionRelevanceThreshold is the minimum relevance for a context
	// element to survive attention filtering.
	AttentionRelevanceThreshold float64 `yaml:"attention_relevance_threshold"`

	// PlausibilityConfidenceThreshold is the minimum confidence required
	// for an LLM-assisted plausibility verdict to be trusted.
	PlausibilityConfidenceThreshold float64 `yaml:"plausibility_confidence_threshold"`
}

// LLMSettings configures the chat completion client.
type LLMSettings struct {
	Provider string `yaml:"provider"` // openai-compatible endpoint family
	BaseURL  string `yaml:"base_url"`
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	Timeout  string `yaml:"timeout"` // Go duration string
	Enabled  bool   `yaml:"enabled"`
}

// EmbeddingSettings configures the embedding engine.
type EmbeddingSettings struct {
	Provider       string `yaml:"provider"` // "ollama" or "genai"
	OllamaEndpoint string `yaml:"ollama_endpoint"`
	OllamaModel    string `yaml:"ollama_model"`
	GenAIAPIKey    string `yaml:"genai_api_key"`
	GenAIModel     string `yaml:"genai_model"`
}

// LoggingSettings configures logging.
type LoggingSettings struct {
	Level  string `yaml:"level"` // debug, info, warn, error
	Output string `yaml:"output"`
}

// Settings holds all mindgate configuration.
type Settings struct {
	Kernel    KernelSettings    `yaml:"kernel"`
	LLM       LLMSettings       `yaml:"llm"`
	Embedding EmbeddingSettings `yaml:"embedding"`
	Logging   LoggingSettings   `yaml:"logging"`
}

// DefaultSettings returns the default configuration.
func DefaultSettings() *Settings {
	return &Settings{
		Kernel: KernelSettings{
			AttentionRelevanceThreshold:     0.5,
			PlausibilityConfidenceThreshold: 0.5,
		},
		LLM: LLMSettings{
			Provider: "openai",
			BaseURL:  "http://localhost:8080/v1",
			Model:    "gpt-4o-mini",
			Timeout:  "60s",
			Enabled:  false,
		},
		Embedding: EmbeddingSettings{
			Provider:       "ollama",
			OllamaEndpoint: "http://localhost:11434",
			OllamaModel:    "embeddinggemma",
			GenAIModel:     "gemini-embedding-001",
		},
		Logging: LoggingSettings{
			Level:  "info",
			Output: "stderr",
		},
	}
}

// Load reads settings from a YAML file, falling back to defaults for a
// missing file, then applies environment overrides. Thresholds outside
// (0,1] are rejected.
func Load(path string) (*Settings, error) {
	s := DefaultSettings()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read settings file: %w", err)
			}
			logging.Config("Settings file %s not found, using defaults", path)
		} else if err := yaml.Unmarshal(data, s); err != nil {
			return nil, fmt.Errorf("failed to parse settings file: %w", err)
		}
	}

	applyEnvOverrides(s)

	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// applyEnvOverrides lets MINDGATE_* environment variables win over the file.
func applyEnvOverrides(s *Settings) {
	if v, ok := envFloat("MINDGATE_ATTENTION_RELEVANCE_THRESHOLD"); ok {
		s.Kernel.AttentionRelevanceThreshold = v
	}
	if v, ok := envFloat("MINDGATE_PLAUSIBILITY_CONFIDENCE_THRESHOLD"); ok {
		s.Kernel.PlausibilityConfidenceThreshold = v
	}
	if v := os.Getenv("MINDGATE_LLM_API_KEY"); v != "" {
		s.LLM.APIKey = v
	}
	if v := os.Getenv("MINDGATE_LLM_BASE_URL"); v != "" {
		s.LLM.BaseURL = v
	}
	if v := os.Getenv("MINDGATE_LLM_MODEL"); v != "" {
		s.LLM.Model = v
	}
	if v := os.Getenv("MINDGATE_EMBEDDING_PROVIDER"); v != "" {
		s.Embedding.Provider = v
	}
	if v := os.Getenv("MINDGATE_GENAI_API_KEY"); v != "" {
		s.Embedding.GenAIAPIKey = v
	}
	if v := os.Getenv("MINDGATE_LOG_LEVEL"); v != "" {
		s.Logging.Level = v
	}
}

func envFloat(key string) (float64, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		logging.ConfigWarn("Ignoring %s=%q: not a float", key, raw)
		return 0, false
	}
	return v, true
}

func (s *Settings) validate() error {
	if s.Kernel.AttentionRelevanceThreshold <= 0 || s.Kernel.AttentionRelevanceThreshold > 1 {
		return fmt.Errorf("attention_relevance_threshold must be in (0,1], got %v",
			s.Kernel.AttentionRelevanceThreshold)
	}
	if s.Kernel.PlausibilityConfidenceThreshold <= 0 || s.Kernel.PlausibilityConfidenceThreshold > 1 {
		return fmt.Errorf("plausibility_confidence_threshold must be in (0,1], got %v",
			s.Kernel.PlausibilityConfidenceThreshold)
	}
	return nil
}
