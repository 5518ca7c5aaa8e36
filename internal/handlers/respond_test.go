package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/supertoolshq/gateway/internal/config"
	"github.com/supertoolshq/gateway/internal/providers"
)

// fakeClient returns a canned completion or error.
type fakeClient struct {
	name     string
	response string
	err      error

	lastRequest *providers.PromptRequest
}

func (c *fakeClient) Name() string {
	if c.name == "" {
		return providers.ProviderOpenAI
	}

	return c.name
}

func (c *fakeClient) Complete(_ context.Context, req *providers.PromptRequest) (string, error) {
	c.lastRequest = req

	if c.err != nil {
		return "", c.err
	}

	return c.response, nil
}

// fakeTranscriber returns a canned transcript.
type fakeTranscriber struct {
	transcript string
	err        error

	lastFilename string
	lastContent  []byte
}

func (f *fakeTranscriber) Transcribe(_ context.Context, filename string, file io.Reader) (string, error) {
	f.lastFilename = filename
	f.lastContent, _ = io.ReadAll(file)

	if f.err != nil {
		return "", f.err
	}

	return f.transcript, nil
}

// countingFactory counts client constructions so tests can prove a rejected
// request never reached the provider layer.
type countingFactory struct {
	client      *fakeClient
	transcriber *fakeTranscriber

	clientErr error

	clientCalls      int
	transcriberCalls int
}

func (f *countingFactory) Client(name string) (providers.Client, error) {
	f.clientCalls++

	if f.clientErr != nil {
		return nil, f.clientErr
	}

	if f.client == nil {
		f.client = &fakeClient{name: name}
	}

	return f.client, nil
}

func (f *countingFactory) Transcriber(name string) (providers.Transcriber, error) {
	f.transcriberCalls++

	if f.transcriber == nil {
		f.transcriber = &fakeTranscriber{}
	}

	return f.transcriber, nil
}

func newTestTools(t *testing.T, factory ClientFactory) *Tools {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewTools(config.NewManager(t.TempDir()), factory, logger, nil)
}

func decodeResponse(t *testing.T, body []byte) map[string]any {
	t.Helper()

	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("response is not valid JSON: %v\n%s", err, body)
	}

	return decoded
}

func TestToNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected float64
	}{
		{"float", 42.5, 42.5},
		{"int", 7, 7},
		{"numeric string", "87.43", 87.43},
		{"garbage string", "not a number", 0},
		{"nil", nil, 0},
		{"bool", true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, toNumber(tt.input))
		})
	}
}

func TestToString(t *testing.T) {
	assert.Equal(t, "Whole Foods", toString("Whole Foods"))
	assert.Equal(t, "", toString(nil))
	assert.Equal(t, "", toString(12.5))
}
