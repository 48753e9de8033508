package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindgate/internal/types"
)

func TestEvaluateRewardCompliance(t *testing.T) {
	t.Run("no constraints scores perfect", func(t *testing.T) {
		score, outcomes := EvaluateRewardCompliance("anything", nil)
		assert.Equal(t, 1.0, score)
		assert.Nil(t, outcomes)
	})

	t.Run("score is exactly satisfied over total", func(t *testing.T) {
		constraints := []types.Constraint{
			{Type: types.ConstraintContains, Value: "alpha"},
			{Type: types.ConstraintContains, Value: "beta"},
			{Type: types.ConstraintContains, Value: "missing"},
			{Type: types.ConstraintNotContains, Value: "forbidden"},
		}
		score, outcomes := EvaluateRewardCompliance("alpha and beta", constraints)
		assert.InDelta(t, 0.75, score, 1e-9)
		require.Len(t, outcomes, 4)
		assert.False(t, outcomes[2].Satisfied)
		assert.NotEmpty(t, outcomes[2].Reason)
	})

	t.Run("alias types collapse to canonical", func(t *testing.T) {
		constraints := []types.Constraint{
			{Type: types.ConstraintMustContain, Value: "alpha"},
			{Type: types.ConstraintMustNotContain, Value: "beta"},
		}
		score, _ := EvaluateRewardCompliance("alpha only", constraints)
		assert.Equal(t, 1.0, score)
	})
}

func TestEvaluateConstraint(t *testing.T) {
	cases := []struct {
		name      string
		content   string
		c         types.Constraint
		satisfied bool
	}{
		{"regex match", "version 1.2.3 released", types.Constraint{Type: types.ConstraintRegex, Value: `\d+\.\d+\.\d+`}, true},
		{"regex no match", "no version here", types.Constraint{Type: types.ConstraintRegex, Value: `\d+\.\d+\.\d+`}, false},
		{"regex invalid pattern", "anything", types.Constraint{Type: types.ConstraintRegex, Value: `([`}, false},
		{"line count exact", "a\nb\nc", types.Constraint{Type: types.ConstraintLineCount, Value: "3"}, true},
		{"line count ignores trailing newline", "a\nb\nc\n", types.Constraint{Type: types.ConstraintLineCount, Value: "3"}, true},
		{"line count empty content is zero", "", types.Constraint{Type: types.ConstraintLineCount, Value: "0"}, true},
		{"line count mismatch", "a\nb", types.Constraint{Type: types.ConstraintLineCount, Value: "3"}, false},
		{"line count non-numeric", "a", types.Constraint{Type: types.ConstraintLineCount, Value: "three"}, false},
		{"word count exact", "one two three", types.Constraint{Type: types.ConstraintWordCount, Value: "3"}, true},
		{"word count collapses whitespace", "one  two\tthree", types.Constraint{Type: types.ConstraintWordCount, Value: "3"}, true},
		{"contains", "hello world", types.Constraint{Type: types.ConstraintContains, Value: "world"}, true},
		{"not contains", "hello world", types.Constraint{Type: types.ConstraintNotContains, Value: "goodbye"}, true},
		{"not contains violated", "hello world", types.Constraint{Type: types.ConstraintNotContains, Value: "world"}, false},
		{"file extension", "report.pdf", types.Constraint{Type: types.ConstraintFileExtension, Value: ".pdf"}, true},
		{"file extension mismatch", "report.txt", types.Constraint{Type: types.ConstraintFileExtension, Value: ".pdf"}, false},
		{"max length within", "short", types.Constraint{Type: types.ConstraintMaxLength, Value: "10"}, true},
		{"max length at limit", "exactly10!", types.Constraint{Type: types.ConstraintMaxLength, Value: "10"}, true},
		{"max length exceeded", "this is far too long", types.Constraint{Type: types.ConstraintMaxLength, Value: "10"}, false},
		{"unknown type", "anything", types.Constraint{Type: "made_up"}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			outcome := evaluateConstraint(tc.content, tc.c)
			assert.Equal(t, tc.satisfied, outcome.Satisfied)
			if !tc.satisfied {
				assert.NotEmpty(t, outcome.Reason)
			}
		})
	}
}
