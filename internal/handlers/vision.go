package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/supertoolshq/gateway/internal/config"
	"github.com/supertoolshq/gateway/internal/prompts"
	"github.com/supertoolshq/gateway/internal/providers"
)

// PantryItem is one food item identified in a fridge or pantry photo.
type PantryItem struct {
	Name       string `json:"name"`
	Quantity   string `json:"quantity"`
	Category   string `json:"category"`
	ExpiryDate string `json:"expiryDate"`
}

// PantryAnalyze inventories a fridge/pantry image.
func (t *Tools) PantryAnalyze(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Image string `json:"image"`
	}
	if err := decodeBody(r, &body); err != nil || body.Image == "" {
		t.failValidation(w, config.ToolPantry, "No image provided")
		return
	}

	route := t.config.Get().RouteFor(config.ToolPantry)

	client, err := t.factory.Client(route.Provider)
	if err != nil {
		t.fail(w, config.ToolPantry, err)
		return
	}

	req := &providers.PromptRequest{
		Model:     route.Model,
		MaxTokens: 1000,
		JSONOnly:  true,
	}
	req.Vision(body.Image, prompts.PantryAnalysis(prompts.Today(t.now())))

	raw, err := t.invoke(r, config.ToolPantry, client, req)
	if err != nil {
		t.fail(w, config.ToolPantry, err)
		return
	}

	var parsed struct {
		Items []PantryItem `json:"items"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		t.fail(w, config.ToolPantry, parseError(config.ToolPantry, err))
		return
	}

	if parsed.Items == nil {
		parsed.Items = []PantryItem{}
	}

	t.succeed(w, config.ToolPantry, map[string]any{"items": parsed.Items})
}

// PersonaScreenshot extracts raw message text from a chat or email
// screenshot. The model returns plain text here, not JSON.
func (t *Tools) PersonaScreenshot(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Image string `json:"image"`
	}
	if err := decodeBody(r, &body); err != nil || body.Image == "" {
		t.failValidation(w, config.ToolPersonaScreenshot, "No image provided")
		return
	}

	route := t.config.Get().RouteFor(config.ToolPersonaScreenshot)

	client, err := t.factory.Client(route.Provider)
	if err != nil {
		t.fail(w, config.ToolPersonaScreenshot, err)
		return
	}

	req := &providers.PromptRequest{
		Model:     route.Model,
		MaxTokens: 1000,
	}
	req.Vision(body.Image, prompts.MessageScreenshot)

	raw, err := t.invoke(r, config.ToolPersonaScreenshot, client, req)
	if err != nil {
		t.fail(w, config.ToolPersonaScreenshot, err)
		return
	}

	t.succeed(w, config.ToolPersonaScreenshot, map[string]any{"text": raw})
}

// ArgumentScreenshot extracts the two opposing claims from a debate
// screenshot.
func (t *Tools) ArgumentScreenshot(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Image string `json:"image"`
	}
	if err := decodeBody(r, &body); err != nil || body.Image == "" {
		t.failValidation(w, config.ToolArgumentScreenshot, "No image provided")
		return
	}

	route := t.config.Get().RouteFor(config.ToolArgumentScreenshot)

	client, err := t.factory.Client(route.Provider)
	if err != nil {
		t.fail(w, config.ToolArgumentScreenshot, err)
		return
	}

	req := &providers.PromptRequest{
		Model:     route.Model,
		MaxTokens: 500,
		JSONOnly:  true,
	}
	req.Vision(body.Image, prompts.ArgumentScreenshot)

	raw, err := t.invoke(r, config.ToolArgumentScreenshot, client, req)
	if err != nil {
		t.fail(w, config.ToolArgumentScreenshot, err)
		return
	}

	var parsed struct {
		ClaimA string `json:"claimA"`
		ClaimB string `json:"claimB"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		t.fail(w, config.ToolArgumentScreenshot, parseError(config.ToolArgumentScreenshot, err))
		return
	}

	t.succeed(w, config.ToolArgumentScreenshot, parsed)
}
