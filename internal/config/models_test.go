package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWithProviderModelsReplacesOnlyModels(t *testing.T) {
	prev, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)
	prevLM := prev.Provider(ProviderLMStudio)
	prevOllama := prev.Provider("ollama")

	next := prev.WithProviderModels(ProviderLMStudio, []ModelDefinition{{ID: "a"}, {ID: "c"}})

	require.NotSame(t, prev, next)
	require.NotSame(t, prev.Models, next.Models)

	lm := next.Provider(ProviderLMStudio)
	require.NotSame(t, prevLM, lm)
	require.Equal(t, prevLM.BaseURL, lm.BaseURL)
	require.Equal(t, prevLM.APIKey, lm.APIKey)
	require.Equal(t, prevLM.API, lm.API)
	require.Equal(t, []ModelDefinition{{ID: "a"}, {ID: "c"}}, lm.Models)

	// Untouched sections are shared, not copied.
	require.Same(t, prevOllama, next.Provider("ollama"))
	require.Equal(t, prev.Gateway, next.Gateway)
	require.Equal(t, prev.Discovery, next.Discovery)
	require.Equal(t, prev.Models.CatalogFile, next.Models.CatalogFile)

	// The previous snapshot is unchanged.
	require.Len(t, prevLM.Models, 2)
	require.Equal(t, "b", prevLM.Models[1].ID)
}

func TestWithProviderModelsCreatesMissingProvider(t *testing.T) {
	prev := &Config{}
	next := prev.WithProviderModels(ProviderLMStudio, []ModelDefinition{{ID: "x"}})

	require.Nil(t, prev.Models)
	require.NotNil(t, next.Provider(ProviderLMStudio))
	require.Equal(t, "x", next.Provider(ProviderLMStudio).Models[0].ID)
}

func TestWithProviderModelsCopiesInput(t *testing.T) {
	in := []ModelDefinition{{ID: "a"}}
	next := (&Config{}).WithProviderModels(ProviderLMStudio, in)
	in[0].ID = "mutated"
	require.Equal(t, "a", next.Provider(ProviderLMStudio).Models[0].ID)
}
