package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aperture/pkg/errors"
)

func TestFactoryResolvesKnownProviders(t *testing.T) {
	factory := NewFactory("")

	gemini, err := factory.Resolve("gemini")
	require.NoError(t, err)
	assert.Equal(t, ProviderNameGemini, gemini.Name())

	openai, err := factory.Resolve("OpenAI")
	require.NoError(t, err)
	assert.Equal(t, ProviderNameOpenAI, openai.Name())
}

func TestFactoryResolveUnknownProvider(t *testing.T) {
	factory := NewFactory("")

	client, err := factory.Resolve("anthropic")
	assert.Nil(t, client)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnknownProvider))
	assert.Contains(t, err.Error(), "anthropic")
}

func TestFactoryResolvePassesBaseURLToOpenAI(t *testing.T) {
	factory := NewFactory("http://localhost:11434/v1")

	client, err := factory.Resolve("openai")
	require.NoError(t, err)

	wire, err := client.BuildRequest("k", sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:11434/v1/chat/completions", wire.URL)
}

func TestListProvidersIsStable(t *testing.T) {
	factory := NewFactory("")

	first := factory.ListProviders()
	second := factory.ListProviders()

	require.Len(t, first, 2)
	assert.Equal(t, "gemini", first[0].ID)
	assert.Equal(t, "openai", first[1].ID)
	assert.Equal(t, first, second)
}
