package plausibility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeVerdict(t *testing.T) {
	t.Run("plain object", func(t *testing.T) {
		reply, err := DecodeVerdict(`{"is_plausible": false, "issues": ["a", "b"]}`)
		require.NoError(t, err)
		assert.False(t, reply.IsPlausible)
		assert.Equal(t, []string{"a", "b"}, reply.Issues)
	})

	t.Run("json fence", func(t *testing.T) {
		reply, err := DecodeVerdict("```json\n{\"is_plausible\": true, \"issues\": []}\n```")
		require.NoError(t, err)
		assert.True(t, reply.IsPlausible)
	})

	t.Run("object buried in prose", func(t *testing.T) {
		reply, err := DecodeVerdict(`Sure, here is the verdict: {"is_plausible": true, "issues": []} Hope that helps!`)
		require.NoError(t, err)
		assert.True(t, reply.IsPlausible)
	})

	t.Run("no json object", func(t *testing.T) {
		_, err := DecodeVerdict("the goal seems fine")
		assert.Error(t, err)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := DecodeVerdict(`{"is_plausible": }`)
		assert.Error(t, err)
	})

	t.Run("empty reply", func(t *testing.T) {
		_, err := DecodeVerdict("")
		assert.Error(t, err)
	})
}
