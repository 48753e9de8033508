package inference

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tableEmbedder returns a fixed vector per text.
type tableEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (e *tableEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	return e.vectors[text], nil
}

func (e *tableEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, 0, len(texts))
	for _, text := range texts {
		out = append(out, e.vectors[text])
	}
	return out, nil
}

func (e *tableEmbedder) Dimensions() int { return 2 }
func (e *tableEmbedder) Name() string    { return "table" }

// cannedLLM returns a fixed reply or error for any prompt.
type cannedLLM struct {
	reply string
	err   error
}

func (c *cannedLLM) Complete(ctx context.Context, messages []Message) (string, error) {
	return c.reply, c.err
}

func (c *cannedLLM) CompleteWithSystem(ctx context.Context, system, user string) (string, error) {
	return c.reply, c.err
}

func TestCollaborator_EmbedSimilarity(t *testing.T) {
	ctx := context.Background()

	t.Run("cosine of the two embeddings", func(t *testing.T) {
		embedder := &tableEmbedder{vectors: map[string][]float32{
			"a": {1, 0},
			"b": {1, 0},
		}}
		sim, err := NewCollaborator(embedder, nil).EmbedSimilarity(ctx, "a", "b")
		require.NoError(t, err)
		assert.InDelta(t, 1.0, sim, 1e-6)
	})

	t.Run("negative cosine clamps to zero", func(t *testing.T) {
		embedder := &tableEmbedder{vectors: map[string][]float32{
			"a": {1, 0},
			"b": {-1, 0},
		}}
		sim, err := NewCollaborator(embedder, nil).EmbedSimilarity(ctx, "a", "b")
		require.NoError(t, err)
		assert.Equal(t, 0.0, sim)
	})

	t.Run("embedder failure surfaces", func(t *testing.T) {
		embedder := &tableEmbedder{err: errors.New("backend down")}
		_, err := NewCollaborator(embedder, nil).EmbedSimilarity(ctx, "a", "b")
		assert.Error(t, err)
	})

	t.Run("nil embedder errors", func(t *testing.T) {
		_, err := NewCollaborator(nil, nil).EmbedSimilarity(ctx, "a", "b")
		assert.Error(t, err)
	})
}

func TestCollaborator_PrecisionCompare(t *testing.T) {
	ctx := context.Background()
	embedder := &tableEmbedder{vectors: map[string][]float32{
		"expected": {1, 0},
		"actual":   {0, 1},
	}}

	t.Run("llm judgment scaled from 0-100", func(t *testing.T) {
		c := NewCollaborator(embedder, &cannedLLM{reply: `{"score": 85}`})
		score, err := c.PrecisionCompare(ctx, "expected", "actual")
		require.NoError(t, err)
		assert.InDelta(t, 0.85, score, 1e-9)
	})

	t.Run("fenced judgment decoded", func(t *testing.T) {
		c := NewCollaborator(embedder, &cannedLLM{reply: "```json\n{\"score\": 40}\n```"})
		score, err := c.PrecisionCompare(ctx, "expected", "actual")
		require.NoError(t, err)
		assert.InDelta(t, 0.40, score, 1e-9)
	})

	t.Run("out-of-range judgment clamped", func(t *testing.T) {
		c := NewCollaborator(embedder, &cannedLLM{reply: `{"score": 150}`})
		score, err := c.PrecisionCompare(ctx, "expected", "actual")
		require.NoError(t, err)
		assert.Equal(t, 1.0, score)
	})

	t.Run("llm failure falls back to embedding similarity", func(t *testing.T) {
		c := NewCollaborator(embedder, &cannedLLM{err: errors.New("timeout")})
		score, err := c.PrecisionCompare(ctx, "expected", "actual")
		require.NoError(t, err)
		// Orthogonal fallback vectors.
		assert.InDelta(t, 0.0, score, 1e-6)
	})

	t.Run("undecodable reply falls back", func(t *testing.T) {
		c := NewCollaborator(embedder, &cannedLLM{reply: "about eighty-five percent"})
		score, err := c.PrecisionCompare(ctx, "expected", "actual")
		require.NoError(t, err)
		assert.InDelta(t, 0.0, score, 1e-6)
	})

	t.Run("no llm goes straight to embeddings", func(t *testing.T) {
		c := NewCollaborator(embedder, nil)
		score, err := c.PrecisionCompare(ctx, "expected", "actual")
		require.NoError(t, err)
		assert.InDelta(t, 0.0, score, 1e-6)
	})
}

func TestCollaborator_Complete(t *testing.T) {
	ctx := context.Background()

	t.Run("delegates to the chat client", func(t *testing.T) {
		c := NewCollaborator(nil, &cannedLLM{reply: "hello"})
		reply, err := c.Complete(ctx, []Message{{Role: "user", Content: "hi"}})
		require.NoError(t, err)
		assert.Equal(t, "hello", reply)
	})

	t.Run("errors without a chat client", func(t *testing.T) {
		_, err := NewCollaborator(nil, nil).Complete(ctx, nil)
		assert.Error(t, err)
	})
}
