package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const anthropicVersion = "2023-06-01"

// anthropicClient speaks the Anthropic messages wire format.
type anthropicClient struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

func newAnthropicClient(apiKey, endpoint string, httpClient *http.Client) *anthropicClient {
	return &anthropicClient{
		apiKey:     apiKey,
		endpoint:   strings.TrimSuffix(endpoint, "/"),
		httpClient: httpClient,
	}
}

func (c *anthropicClient) Name() string {
	return ProviderAnthropic
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *anthropicClient) Complete(ctx context.Context, req *PromptRequest) (string, error) {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		// The messages API rejects requests without max_tokens.
		maxTokens = 1024
	}

	payload := map[string]any{
		"model":      req.Model,
		"max_tokens": maxTokens,
		"messages":   c.buildMessages(req),
	}
	if req.System != "" {
		payload["system"] = req.System
	}

	if req.Temperature > 0 {
		payload["temperature"] = req.Temperature
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal messages request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create messages request: %w", err)
	}

	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("anthropic request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyReader, err := decompressReader(resp)
	if err != nil {
		return "", fmt.Errorf("decompress anthropic response: %w", err)
	}

	respBody, err := io.ReadAll(bodyReader)
	if err != nil {
		return "", fmt.Errorf("read anthropic response: %w", err)
	}

	var parsed anthropicResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		if resp.StatusCode != http.StatusOK {
			return "", &APIError{Provider: ProviderAnthropic, StatusCode: resp.StatusCode}
		}

		return "", fmt.Errorf("unmarshal anthropic response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{Provider: ProviderAnthropic, StatusCode: resp.StatusCode}
		if parsed.Error != nil {
			apiErr.Type = parsed.Error.Type
			apiErr.Message = parsed.Error.Message
		}

		return "", apiErr
	}

	for _, block := range parsed.Content {
		if block.Type == ContentTypeText {
			return strings.TrimSpace(block.Text), nil
		}
	}

	return "", errors.New("no text content in anthropic response")
}

func (c *anthropicClient) buildMessages(req *PromptRequest) []map[string]any {
	messages := make([]map[string]any, 0, len(req.Messages))

	for _, msg := range req.Messages {
		var text strings.Builder

		for _, part := range msg.Parts {
			if part.Type == ContentTypeText {
				text.WriteString(part.Text)
			}
		}

		messages = append(messages, map[string]any{
			"role":    msg.Role,
			"content": text.String(),
		})
	}

	return messages
}
