package providers

import (
	"fmt"
	"net/http"
)

// Logical provider names used in route configuration.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGroq      = "groq"
)

// Default provider endpoints. Groq speaks the OpenAI wire format, so its
// client is the OpenAI client with the endpoint overridden.
const (
	DefaultOpenAIEndpoint    = "https://api.openai.com/v1"
	DefaultAnthropicEndpoint = "https://api.anthropic.com/v1"
	DefaultGroqEndpoint      = "https://api.groq.com/openai/v1"
)

var credentialEnvVars = map[string]string{
	ProviderOpenAI:    "OPENAI_API_KEY",
	ProviderAnthropic: "ANTHROPIC_API_KEY",
	ProviderGroq:      "GROQ_API_KEY",
}

// ProviderSettings is the resolved credential and endpoint for one provider.
type ProviderSettings struct {
	APIKey   string
	Endpoint string
}

// Factory produces a ready-to-use client for one of the three logical
// providers. Construction performs no network call; a missing credential
// fails immediately with a MissingCredentialError naming the credential.
type Factory struct {
	settings   map[string]ProviderSettings
	httpClient *http.Client
}

func NewFactory(settings map[string]ProviderSettings) *Factory {
	return &Factory{
		settings:   settings,
		httpClient: http.DefaultClient,
	}
}

// SetHTTPClient overrides the transport, used by tests to point clients at a
// fake provider.
func (f *Factory) SetHTTPClient(c *http.Client) {
	f.httpClient = c
}

// Client returns a client bound to the named provider.
func (f *Factory) Client(name string) (Client, error) {
	envVar, known := credentialEnvVars[name]
	if !known {
		return nil, fmt.Errorf("unknown provider %q", name)
	}

	s := f.settings[name]
	if s.APIKey == "" {
		return nil, &MissingCredentialError{Provider: displayName(name), EnvVar: envVar}
	}

	switch name {
	case ProviderAnthropic:
		endpoint := s.Endpoint
		if endpoint == "" {
			endpoint = DefaultAnthropicEndpoint
		}

		return newAnthropicClient(s.APIKey, endpoint, f.httpClient), nil
	case ProviderGroq:
		endpoint := s.Endpoint
		if endpoint == "" {
			endpoint = DefaultGroqEndpoint
		}

		return newOpenAIClient(ProviderGroq, s.APIKey, endpoint, f.httpClient), nil
	default:
		endpoint := s.Endpoint
		if endpoint == "" {
			endpoint = DefaultOpenAIEndpoint
		}

		return newOpenAIClient(ProviderOpenAI, s.APIKey, endpoint, f.httpClient), nil
	}
}

// Transcriber returns a client for the named provider that supports audio
// transcription.
func (f *Factory) Transcriber(name string) (Transcriber, error) {
	client, err := f.Client(name)
	if err != nil {
		return nil, err
	}

	t, ok := client.(Transcriber)
	if !ok {
		return nil, &APIError{
			Provider:   name,
			StatusCode: http.StatusInternalServerError,
			Message:    name + " does not support audio transcription",
		}
	}

	return t, nil
}

func displayName(name string) string {
	switch name {
	case ProviderOpenAI:
		return "OpenAI"
	case ProviderAnthropic:
		return "Anthropic"
	case ProviderGroq:
		return "GROQ"
	default:
		return name
	}
}
