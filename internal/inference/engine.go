package inference

import (
	"context"
	"encoding/json"
	"fmt"

	"mindgate/internal/logging"
)

// =============================================================================
// INFERENCE ENGINE INTERFACE
// =============================================================================

// Engine is the opaque inference collaborator the cognitive tiers depend on.
// All three operations return scores in [0,1] or reply text; availability
// failures surface as errors for the caller to absorb conservatively.
type Engine interface {
	// EmbedSimilarity scores the semantic similarity of two texts.
	EmbedSimilarity(ctx context.Context, a, b string) (float64, error)

	// PrecisionCompare scores how precisely actual matches the expected
	// description.
	PrecisionCompare(ctx context.Context, expected, actual string) (float64, error)

	// Complete sends a chat prompt and returns the reply text, which may
	// be Markdown-fenced JSON.
	Complete(ctx context.Context, messages []Message) (string, error)
}

// Collaborator implements Engine over an embedding engine and an optional
// chat client. With no chat client, Complete is unavailable and precision
// comparison degrades to embedding similarity.
type Collaborator struct {
	embedder EmbeddingEngine
	llm      LLMClient
}

// NewCollaborator wires an embedding engine and chat client into an Engine.
func NewCollaborator(embedder EmbeddingEngine, llm LLMClient) *Collaborator {
	return &Collaborator{embedder: embedder, llm: llm}
}

// EmbedSimilarity embeds both texts and returns their cosine similarity
// clamped into [0,1].
func (c *Collaborator) EmbedSimilarity(ctx context.Context, a, b string) (float64, error) {
	if c.embedder == nil {
		return 0, fmt.Errorf("no embedding engine configured")
	}

	timer := logging.StartTimer(logging.CategoryInference, "EmbedSimilarity")
	defer timer.Stop()

	vecs, err := c.embedder.EmbedBatch(ctx, []string{a, b})
	if err != nil {
		return 0, fmt.Errorf("embedding failed: %w", err)
	}
	if len(vecs) != 2 {
		return 0, fmt.Errorf("expected 2 embeddings, got %d", len(vecs))
	}

	cos, err := CosineSimilarity(vecs[0], vecs[1])
	if err != nil {
		return 0, err
	}
	return ClampUnit(cos), nil
}

// precisionReply is the structured verdict expected from the precision judge.
type precisionReply struct {
	Score float64 `json:"score"`
}

const precisionSystemPrompt = `You compare an expected output description against an actual output.
Rate how precisely the actual output satisfies the expected description.
Respond with JSON only: {"score": <integer 0-100>}`

// PrecisionCompare asks the chat model for a 0-100 precision judgment.
// When no chat client is configured or the reply cannot be decoded, it
// falls back to embedding similarity between expected and actual.
func (c *Collaborator) PrecisionCompare(ctx context.Context, expected, actual string) (float64, error) {
	if c.llm != nil {
		score, err := c.precisionViaLLM(ctx, expected, actual)
		if err == nil {
			return score, nil
		}
		logging.InferenceWarn("Precision judge unavailable, falling back to embedding similarity: %v", err)
	}
	return c.EmbedSimilarity(ctx, expected, actual)
}

func (c *Collaborator) precisionViaLLM(ctx context.Context, expected, actual string) (float64, error) {
	timer := logging.StartTimer(logging.CategoryInference, "PrecisionCompare")
	defer timer.Stop()

	user := fmt.Sprintf("## Expected\n\n%s\n\n## Actual\n\n%s", expected, actual)
	reply, err := c.llm.CompleteWithSystem(ctx, precisionSystemPrompt, user)
	if err != nil {
		return 0, fmt.Errorf("precision completion failed: %w", err)
	}

	raw := ExtractJSON(reply)
	if raw == "" {
		return 0, fmt.Errorf("no JSON in precision reply")
	}
	var parsed precisionReply
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return 0, fmt.Errorf("failed to decode precision reply: %w", err)
	}

	return ClampUnit(parsed.Score / 100.0), nil
}

// Complete delegates to the chat client.
func (c *Collaborator) Complete(ctx context.Context, messages []Message) (string, error) {
	if c.llm == nil {
		return "", fmt.Errorf("no chat client configured")
	}
	return c.llm.Complete(ctx, messages)
}
