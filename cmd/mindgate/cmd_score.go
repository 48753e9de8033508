package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"mindgate/internal/scoring"
	"mindgate/internal/types"
)

var (
	scoreQuery      string
	scoreExpected   string
	constraintsPath string
	scoreRole       string
	scoreTaskType   string
	scoreDomain     string
)

var scoreCmd = &cobra.Command{
	Use:   "score <content-file>",
	Short: "Score produced content against the query, expectation, and constraints",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read content file: %w", err)
		}

		var constraints []types.Constraint
		if constraintsPath != "" {
			data, err := os.ReadFile(constraintsPath)
			if err != nil {
				return fmt.Errorf("failed to read constraints file: %w", err)
			}
			if err := yaml.Unmarshal(data, &constraints); err != nil {
				return fmt.Errorf("failed to parse constraints file: %w", err)
			}
		}

		engine, _, err := buildEngine()
		if err != nil {
			return err
		}

		report := scoring.NewAggregator(engine).Score(cmd.Context(), scoring.ScoreInput{
			Query:       scoreQuery,
			Content:     string(content),
			Expected:    scoreExpected,
			Constraints: constraints,
			Metadata: types.ScoringMetadata{
				UserRole: scoreRole,
				TaskType: scoreTaskType,
				Domain:   scoreDomain,
			},
		})

		fmt.Println(headerStyle.Render("Score Report"))
		fmt.Printf("  aggregate: %.3f\n", report.Score)
		fmt.Printf("  semantic:  %.3f (weight %.2f)\n", report.SemanticScore, report.WeightsUsed["semantic"])
		fmt.Printf("  precision: %.3f (weight %.2f)\n", report.PrecisionScore, report.WeightsUsed["precision"])
		fmt.Printf("  reward:    %.3f (weight %.2f)\n", report.RewardScore, report.WeightsUsed["reward"])

		for _, outcome := range report.ConstraintOutcomes {
			if outcome.Satisfied {
				fmt.Printf("  %s %s %q\n", passStyle.Render("ok"), outcome.Constraint.Type, outcome.Constraint.Value)
			} else {
				fmt.Printf("  %s %s %q: %s\n", failStyle.Render("fail"), outcome.Constraint.Type, outcome.Constraint.Value, outcome.Reason)
			}
		}
		return nil
	},
}

func init() {
	scoreCmd.Flags().StringVar(&scoreQuery, "query", "", "original user query")
	scoreCmd.Flags().StringVar(&scoreExpected, "expected", "", "expected output description")
	scoreCmd.Flags().StringVar(&constraintsPath, "constraints", "", "path to constraints YAML")
	scoreCmd.Flags().StringVar(&scoreRole, "role", "", "user role for weighting")
	scoreCmd.Flags().StringVar(&scoreTaskType, "task-type", "", "task type for weighting")
	scoreCmd.Flags().StringVar(&scoreDomain, "domain", "", "domain for weighting")
	rootCmd.AddCommand(scoreCmd)
}
