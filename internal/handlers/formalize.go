package handlers

import (
	"net/http"

	"github.com/supertoolshq/gateway/internal/config"
	"github.com/supertoolshq/gateway/internal/prompts"
	"github.com/supertoolshq/gateway/internal/providers"
)

// formalizeInputLimit truncates the source text before it is embedded in the
// prompt.
const formalizeInputLimit = 500

// Formalize rewrites text in a named style preset. The model returns the
// transformed text directly, no JSON envelope.
func (t *Tools) Formalize(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text  string `json:"text"`
		Style string `json:"style"`
	}
	if err := decodeBody(r, &body); err != nil || body.Text == "" {
		t.failValidation(w, config.ToolFormalize, "No text provided")
		return
	}

	route := t.config.Get().RouteFor(config.ToolFormalize)

	client, err := t.factory.Client(route.Provider)
	if err != nil {
		t.fail(w, config.ToolFormalize, err)
		return
	}

	text := body.Text
	if len(text) > formalizeInputLimit {
		text = text[:formalizeInputLimit]
	}

	req := &providers.PromptRequest{
		Model:     route.Model,
		MaxTokens: 400,
	}
	req.Text(providers.RoleUser, prompts.Formalize(body.Style, text))

	raw, err := t.invoke(r, config.ToolFormalize, client, req)
	if err != nil {
		t.fail(w, config.ToolFormalize, err)
		return
	}

	t.succeed(w, config.ToolFormalize, map[string]any{"transformedText": raw})
}
