package providers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIClient_Complete(t *testing.T) {
	var captured map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"items\":[]}"}}]}`))
	}))
	defer server.Close()

	client := newOpenAIClient(ProviderOpenAI, "sk-test", server.URL, server.Client())

	req := &PromptRequest{
		Model:     "gpt-4o",
		System:    "Always return valid JSON.",
		MaxTokens: 500,
		JSONOnly:  true,
	}
	req.Text(RoleUser, "list my items")

	content, err := client.Complete(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, `{"items":[]}`, content)

	assert.Equal(t, "gpt-4o", captured["model"])
	assert.Equal(t, float64(500), captured["max_tokens"])

	responseFormat, ok := captured["response_format"].(map[string]any)
	require.True(t, ok, "JSONOnly must request the structured output mode")
	assert.Equal(t, "json_object", responseFormat["type"])

	messages, ok := captured["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2, "system prompt plus user message")

	system := messages[0].(map[string]any)
	assert.Equal(t, "system", system["role"])
	assert.Equal(t, "Always return valid JSON.", system["content"])

	user := messages[1].(map[string]any)
	assert.Equal(t, "list my items", user["content"], "single text part collapses to string content")
}

func TestOpenAIClient_VisionMessage(t *testing.T) {
	var captured map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &captured)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer server.Close()

	client := newOpenAIClient(ProviderOpenAI, "sk-test", server.URL, server.Client())

	req := &PromptRequest{Model: "gpt-4o"}
	req.Vision("data:image/jpeg;base64,AAAA", "what is this?")

	_, err := client.Complete(context.Background(), req)
	require.NoError(t, err)

	messages := captured["messages"].([]any)
	require.Len(t, messages, 1)

	parts, ok := messages[0].(map[string]any)["content"].([]any)
	require.True(t, ok, "vision messages use the content-parts form")
	require.Len(t, parts, 2)

	image := parts[0].(map[string]any)
	assert.Equal(t, "image_url", image["type"])

	imageURL := image["image_url"].(map[string]any)
	assert.Equal(t, "data:image/jpeg;base64,AAAA", imageURL["url"])
	assert.Equal(t, "high", imageURL["detail"])

	text := parts[1].(map[string]any)
	assert.Equal(t, "text", text["type"])
	assert.Equal(t, "what is this?", text["text"])
}

func TestOpenAIClient_APIErrors(t *testing.T) {
	testCases := []struct {
		name       string
		status     int
		body       string
		wantType   string
		wantintext string
	}{
		{
			name:       "unauthorized",
			status:     http.StatusUnauthorized,
			body:       `{"error":{"type":"invalid_request_error","message":"Incorrect API key provided"}}`,
			wantType:   "invalid_request_error",
			wantintext: "Incorrect API key",
		},
		{
			name:       "rate limited",
			status:     http.StatusTooManyRequests,
			body:       `{"error":{"type":"rate_limit_error","message":"Rate limit reached"}}`,
			wantType:   "rate_limit_error",
			wantintext: "Rate limit",
		},
		{
			name:   "unparseable error body",
			status: http.StatusBadGateway,
			body:   "<html>bad gateway</html>",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			client := newOpenAIClient(ProviderOpenAI, "sk-test", server.URL, server.Client())

			req := &PromptRequest{Model: "gpt-4o"}
			req.Text(RoleUser, "hello")

			_, err := client.Complete(context.Background(), req)
			require.Error(t, err)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tc.status, apiErr.StatusCode)
			assert.Equal(t, tc.wantType, apiErr.Type)

			if tc.wantintext != "" {
				assert.Contains(t, apiErr.Error(), tc.wantintext)
			}
		})
	}
}

func TestOpenAIClient_Transcribe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/audio/transcriptions", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		assert.Equal(t, "whisper-1", r.FormValue("model"))
		assert.Equal(t, "text", r.FormValue("response_format"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		assert.Equal(t, "memo.webm", header.Filename)

		data, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "fake-audio-bytes", string(data))

		_, _ = w.Write([]byte("Call John by Friday.\n"))
	}))
	defer server.Close()

	client := newOpenAIClient(ProviderOpenAI, "sk-test", server.URL, server.Client())

	transcript, err := client.Transcribe(context.Background(), "memo.webm", strings.NewReader("fake-audio-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "Call John by Friday.", transcript)
}

func TestOpenAIClient_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	client := newOpenAIClient(ProviderOpenAI, "sk-test", server.URL, server.Client())

	req := &PromptRequest{Model: "gpt-4o"}
	req.Text(RoleUser, "hello")

	_, err := client.Complete(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}
