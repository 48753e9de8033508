package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mindgate/internal/config"
	"mindgate/internal/inference"
	"mindgate/internal/logging"
)

var (
	// Global flags
	configPath string
	verbose    bool

	settings *config.Provider
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "mindgate",
	Short: "mindgate - cognitive pre/post-processing for agent tasks",
	Long: `mindgate sits between a raw user request and an LLM-driven executor.

Before execution it builds a situated-context envelope (when, where, and
what is unknown about a request), filters supporting context down to what
is relevant, and rejects incoherent goals. After execution it scores the
produced result along semantic, precision, and constraint-compliance
tracks and fuses them into one auditable number.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := "info"
		if verbose {
			level = "debug"
		}
		if err := logging.Initialize(level, "stderr"); err != nil {
			return err
		}

		var err error
		settings, err = config.NewProvider(configPath)
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}
		if configPath != "" {
			if err := settings.Watch(); err != nil {
				logging.ConfigWarn("Settings watch disabled: %v", err)
			}
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if settings != nil {
			_ = settings.Close()
		}
		logging.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to settings YAML")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// buildEngine wires the inference collaborator from current settings.
// The embedding engine is required; the chat client is optional and its
// absence just disables the LLM-assisted paths.
func buildEngine() (*inference.Collaborator, inference.LLMClient, error) {
	s := settings.Snapshot()

	embedder, err := inference.NewEmbeddingEngine(inference.EmbeddingConfig{
		Provider:       s.Embedding.Provider,
		OllamaEndpoint: s.Embedding.OllamaEndpoint,
		OllamaModel:    s.Embedding.OllamaModel,
		GenAIAPIKey:    s.Embedding.GenAIAPIKey,
		GenAIModel:     s.Embedding.GenAIModel,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create embedding engine: %w", err)
	}

	var llm inference.LLMClient
	if s.LLM.Enabled {
		cfg := inference.DefaultChatConfig(s.LLM.APIKey)
		if s.LLM.BaseURL != "" {
			cfg.BaseURL = s.LLM.BaseURL
		}
		if s.LLM.Model != "" {
			cfg.Model = s.LLM.Model
		}
		llm = inference.NewChatClient(cfg)
	}

	return inference.NewCollaborator(embedder, llm), llm, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
