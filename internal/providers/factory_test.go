package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactory_MissingCredential(t *testing.T) {
	factory := NewFactory(map[string]ProviderSettings{})

	for _, tc := range []struct {
		provider string
		envVar   string
	}{
		{ProviderOpenAI, "OPENAI_API_KEY"},
		{ProviderAnthropic, "ANTHROPIC_API_KEY"},
		{ProviderGroq, "GROQ_API_KEY"},
	} {
		t.Run(tc.provider, func(t *testing.T) {
			client, err := factory.Client(tc.provider)
			require.Error(t, err)
			assert.Nil(t, client)

			var missing *MissingCredentialError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, tc.envVar, missing.EnvVar, "the error must name the missing credential")
		})
	}
}

func TestFactory_UnknownProvider(t *testing.T) {
	factory := NewFactory(map[string]ProviderSettings{})

	_, err := factory.Client("gemini")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gemini")
}

func TestFactory_EndpointDefaults(t *testing.T) {
	factory := NewFactory(map[string]ProviderSettings{
		ProviderOpenAI:    {APIKey: "sk-test"},
		ProviderAnthropic: {APIKey: "sk-ant-test"},
		ProviderGroq:      {APIKey: "gsk-test"},
	})

	openai, err := factory.Client(ProviderOpenAI)
	require.NoError(t, err)
	assert.Equal(t, DefaultOpenAIEndpoint, openai.(*openAIClient).endpoint)

	anthropic, err := factory.Client(ProviderAnthropic)
	require.NoError(t, err)
	assert.Equal(t, DefaultAnthropicEndpoint, anthropic.(*anthropicClient).endpoint)

	// Groq reuses the OpenAI wire client with its endpoint overridden.
	groq, err := factory.Client(ProviderGroq)
	require.NoError(t, err)
	assert.Equal(t, DefaultGroqEndpoint, groq.(*openAIClient).endpoint)
	assert.Equal(t, ProviderGroq, groq.Name())
}

func TestFactory_EndpointOverride(t *testing.T) {
	factory := NewFactory(map[string]ProviderSettings{
		ProviderOpenAI: {APIKey: "sk-test", Endpoint: "http://localhost:9999/v1"},
	})

	client, err := factory.Client(ProviderOpenAI)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9999/v1", client.(*openAIClient).endpoint)
}

func TestFactory_Transcriber(t *testing.T) {
	factory := NewFactory(map[string]ProviderSettings{
		ProviderOpenAI:    {APIKey: "sk-test"},
		ProviderAnthropic: {APIKey: "sk-ant-test"},
	})

	_, err := factory.Transcriber(ProviderOpenAI)
	require.NoError(t, err)

	// Anthropic has no transcription endpoint.
	_, err = factory.Transcriber(ProviderAnthropic)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transcription")
}
