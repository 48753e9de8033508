package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"mindgate/internal/awareness"
	"mindgate/internal/pipeline"
	"mindgate/internal/plausibility"
	"mindgate/internal/types"
)

var (
	profilePath string
	contextPath string

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	passStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	failStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// contextFile is the YAML shape accepted by --context.
type contextFile struct {
	Elements []struct {
		Key    string `yaml:"key"`
		Value  string `yaml:"value"`
		Source string `yaml:"source"`
	} `yaml:"elements"`
}

var assessCmd = &cobra.Command{
	Use:   "assess <query>",
	Short: "Build the awareness envelope and run the cognitive filters for a query",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := args[0]

		profile, err := loadProfile(profilePath)
		if err != nil {
			return err
		}

		envelope := awareness.Fuse(query, profile, time.Now())
		fmt.Println(headerStyle.Render("Awareness Envelope"))
		fmt.Println(envelope.SystemPrompt())
		fmt.Println()

		task := types.TaskState{Goal: query}
		if contextPath != "" {
			elements, err := loadContextElements(contextPath)
			if err != nil {
				return err
			}
			task.ContextElements = elements
		}

		engine, llm, err := buildEngine()
		if err != nil {
			return err
		}

		filter := pipeline.New(engine, plausibility.NewChecker(llm), settings)
		result := filter.Run(cmd.Context(), task)
		renderResult(result)
		return nil
	},
}

func init() {
	assessCmd.Flags().StringVar(&profilePath, "profile", "", "path to user profile YAML")
	assessCmd.Flags().StringVar(&contextPath, "context", "", "path to context elements YAML")
	rootCmd.AddCommand(assessCmd)
}

func loadProfile(path string) (*awareness.Profile, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	var profile awareness.Profile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	return &profile, nil
}

func loadContextElements(path string) ([]types.ContextElement, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read context file: %w", err)
	}
	var cf contextFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse context file: %w", err)
	}
	elements := make([]types.ContextElement, 0, len(cf.Elements))
	for _, e := range cf.Elements {
		elements = append(elements, types.NewContextElement(e.Key, e.Value, e.Source))
	}
	return elements, nil
}

func renderResult(result types.Result) {
	fmt.Println(headerStyle.Render("Cognitive Filters"))
	fmt.Println(dimStyle.Render(fmt.Sprintf("request %s", result.RequestID)))

	if !result.OK {
		fmt.Printf("%s %s: %s\n", failStyle.Render("ERROR"), result.ErrorKind, result.Message)
		return
	}

	switch data := result.Data.(type) {
	case types.SanityAlert:
		fmt.Printf("%s %s\n", failStyle.Render("REJECTED"), data.Reason)
		for _, issue := range data.Issues {
			fmt.Printf("  - %s\n", issue)
		}
	case types.RefinedState:
		fmt.Printf("%s goal cleared for execution (confidence %.2f)\n",
			passStyle.Render("CLEARED"), data.PlausibilityConfidence)
		for _, el := range data.CriticalElements {
			fmt.Printf("  - %s (relevance %.2f)\n", el.Key, el.Relevance)
		}
	}

	if dropped, ok := result.Metrics["elements_dropped"]; ok {
		fmt.Println(dimStyle.Render(fmt.Sprintf("dropped %v low-relevance elements", dropped)))
	}
}
