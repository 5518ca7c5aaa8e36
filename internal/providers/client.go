package providers

import (
	"compress/gzip"
	"context"
	"io"
	"net/http"

	"github.com/andybalholm/brotli"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"

	ContentTypeText     = "text"
	ContentTypeImageURL = "image_url"
)

// ContentPart is one piece of a message: plain text or an inline image
// reference (data URL or https URL).
type ContentPart struct {
	Type     string
	Text     string
	ImageURL string
	// Detail applies to image parts only ("low", "high", "auto").
	Detail string
}

// Message is a role-tagged list of content parts.
type Message struct {
	Role  string
	Parts []ContentPart
}

// PromptRequest describes one model invocation. Constructed fresh per call,
// never persisted.
type PromptRequest struct {
	Model       string
	System      string
	Messages    []Message
	MaxTokens   int
	Temperature float64
	// JSONOnly asks the provider to constrain output to valid JSON where the
	// provider supports a structured output mode.
	JSONOnly bool
}

// Text appends a user message containing a single text part.
func (r *PromptRequest) Text(role, text string) {
	r.Messages = append(r.Messages, Message{
		Role:  role,
		Parts: []ContentPart{{Type: ContentTypeText, Text: text}},
	})
}

// Vision appends a user message carrying an image followed by an instruction.
func (r *PromptRequest) Vision(imageURL, instruction string) {
	r.Messages = append(r.Messages, Message{
		Role: RoleUser,
		Parts: []ContentPart{
			{Type: ContentTypeImageURL, ImageURL: imageURL, Detail: "high"},
			{Type: ContentTypeText, Text: instruction},
		},
	})
}

// Client is an opaque handle bound to one provider and one API key. Created
// per request at the top of a handler, used once, discarded when the handler
// returns.
type Client interface {
	// Name returns the logical provider name ("openai", "anthropic", "groq").
	Name() string

	// Complete sends a chat/vision completion and returns the raw text of the
	// first choice.
	Complete(ctx context.Context, req *PromptRequest) (string, error)
}

// Transcriber is implemented by clients that can turn an audio file into
// plain text.
type Transcriber interface {
	Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error)
}

// decompressReader unwraps gzip and brotli encoded provider responses.
func decompressReader(resp *http.Response) (io.Reader, error) {
	var bodyReader io.Reader = resp.Body

	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		bodyReader = gzipReader
	case "br":
		bodyReader = brotli.NewReader(resp.Body)
	}

	return bodyReader, nil
}
