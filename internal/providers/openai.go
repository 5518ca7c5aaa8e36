package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

// openAIClient speaks the OpenAI chat-completions wire format. Groq exposes
// an OpenAI-compatible API, so the same client serves both with a different
// endpoint and credential.
type openAIClient struct {
	name       string
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

func newOpenAIClient(name, apiKey, endpoint string, httpClient *http.Client) *openAIClient {
	return &openAIClient{
		name:       name,
		apiKey:     apiKey,
		endpoint:   strings.TrimSuffix(endpoint, "/"),
		httpClient: httpClient,
	}
}

func (c *openAIClient) Name() string {
	return c.name
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *openAIClient) Complete(ctx context.Context, req *PromptRequest) (string, error) {
	payload := map[string]any{
		"model":    req.Model,
		"messages": c.buildMessages(req),
	}
	if req.MaxTokens > 0 {
		payload["max_tokens"] = req.MaxTokens
	}

	if req.Temperature > 0 {
		payload["temperature"] = req.Temperature
	}

	if req.JSONOnly {
		payload["response_format"] = map[string]any{"type": "json_object"}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create completion request: %w", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	respBody, err := c.do(httpReq)
	if err != nil {
		return "", err
	}

	var parsed openAIResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("unmarshal %s response: %w", c.name, err)
	}

	if len(parsed.Choices) == 0 {
		return "", errors.New("no choices in " + c.name + " response")
	}

	return parsed.Choices[0].Message.Content, nil
}

// Transcribe uploads an audio file to the transcription endpoint and returns
// the plain-text transcript.
func (c *openAIClient) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	var buf bytes.Buffer

	form := multipart.NewWriter(&buf)

	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}

	if _, err := io.Copy(part, audio); err != nil {
		return "", fmt.Errorf("copy audio data: %w", err)
	}

	if err := form.WriteField("model", "whisper-1"); err != nil {
		return "", fmt.Errorf("write model field: %w", err)
	}

	if err := form.WriteField("response_format", "text"); err != nil {
		return "", fmt.Errorf("write response_format field: %w", err)
	}

	if err := form.Close(); err != nil {
		return "", fmt.Errorf("close multipart form: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/audio/transcriptions", &buf)
	if err != nil {
		return "", fmt.Errorf("create transcription request: %w", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", form.FormDataContentType())

	respBody, err := c.do(httpReq)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(respBody)), nil
}

func (c *openAIClient) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", c.name, err)
	}
	defer resp.Body.Close()

	bodyReader, err := decompressReader(resp)
	if err != nil {
		return nil, fmt.Errorf("decompress %s response: %w", c.name, err)
	}

	body, err := io.ReadAll(bodyReader)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", c.name, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.apiError(resp.StatusCode, body)
	}

	return body, nil
}

func (c *openAIClient) apiError(status int, body []byte) *APIError {
	apiErr := &APIError{Provider: c.name, StatusCode: status}

	var parsed openAIResponse
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != nil {
		apiErr.Type = parsed.Error.Type
		apiErr.Message = parsed.Error.Message
	}

	return apiErr
}

func (c *openAIClient) buildMessages(req *PromptRequest) []map[string]any {
	messages := make([]map[string]any, 0, len(req.Messages)+1)

	if req.System != "" {
		messages = append(messages, map[string]any{
			"role":    RoleSystem,
			"content": req.System,
		})
	}

	for _, msg := range req.Messages {
		// Single text part collapses to the plain string content form.
		if len(msg.Parts) == 1 && msg.Parts[0].Type == ContentTypeText {
			messages = append(messages, map[string]any{
				"role":    msg.Role,
				"content": msg.Parts[0].Text,
			})

			continue
		}

		parts := make([]map[string]any, 0, len(msg.Parts))

		for _, part := range msg.Parts {
			switch part.Type {
			case ContentTypeImageURL:
				imageURL := map[string]any{"url": part.ImageURL}
				if part.Detail != "" {
					imageURL["detail"] = part.Detail
				}

				parts = append(parts, map[string]any{
					"type":      ContentTypeImageURL,
					"image_url": imageURL,
				})
			default:
				parts = append(parts, map[string]any{
					"type": ContentTypeText,
					"text": part.Text,
				})
			}
		}

		messages = append(messages, map[string]any{
			"role":    msg.Role,
			"content": parts,
		})
	}

	return messages
}
