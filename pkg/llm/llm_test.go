package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ProviderSelection(t *testing.T) {
	anthropic, err := New(Config{Provider: "anthropic", Key: "k", Model: "m", MaxTokens: 512})
	require.NoError(t, err)
	assert.IsType(t, &AnthropicClient{}, anthropic)

	openai, err := New(Config{Provider: "openai", Key: "k", Model: "m", MaxTokens: 512})
	require.NoError(t, err)
	assert.IsType(t, &OpenAIClient{}, openai)
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New(Config{Provider: "bard", Key: "k"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bard")
}
