package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/supertoolshq/gateway/internal/config"
	"github.com/supertoolshq/gateway/internal/prompts"
	"github.com/supertoolshq/gateway/internal/providers"
)

// Verdict is the fact-checker's ruling on two opposing claims.
type Verdict struct {
	Winner       string   `json:"winner"`
	Reasoning    string   `json:"reasoning"`
	Confidence   float64  `json:"confidence"`
	Sources      []string `json:"sources"`
	Roast        *string  `json:"roast"`
	AnalysisNote string   `json:"analysisNote"`
}

// Settle referees an argument between two claims.
func (t *Tools) Settle(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ClaimA    string `json:"claimA"`
		ClaimB    string `json:"claimB"`
		Category  string `json:"category"`
		RoastMode bool   `json:"roastMode"`
	}
	if err := decodeBody(r, &body); err != nil || body.ClaimA == "" || body.ClaimB == "" {
		t.failValidation(w, config.ToolSettle, "Both claims are required")
		return
	}

	route := t.config.Get().RouteFor(config.ToolSettle)

	client, err := t.factory.Client(route.Provider)
	if err != nil {
		t.fail(w, config.ToolSettle, err)
		return
	}

	req := &providers.PromptRequest{
		Model:     route.Model,
		System:    prompts.SettleSystem(body.Category, body.RoastMode),
		MaxTokens: 1000,
		JSONOnly:  true,
	}
	req.Text(providers.RoleUser, prompts.Settle(body.ClaimA, body.ClaimB))

	raw, err := t.invoke(r, config.ToolSettle, client, req)
	if err != nil {
		t.fail(w, config.ToolSettle, err)
		return
	}

	verdict, err := parseVerdict(raw)
	if err != nil {
		t.fail(w, config.ToolSettle, err)
		return
	}

	t.succeed(w, config.ToolSettle, map[string]any{"verdict": verdict})
}

func parseVerdict(raw string) (*Verdict, error) {
	var fields map[string]any
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, parseError(config.ToolSettle, err)
	}

	verdict := &Verdict{
		Winner:       toString(fields["winner"]),
		Reasoning:    toString(fields["reasoning"]),
		Confidence:   toNumber(fields["confidence"]),
		Sources:      []string{},
		AnalysisNote: toString(fields["analysisNote"]),
	}

	if roast := toString(fields["roast"]); roast != "" {
		verdict.Roast = &roast
	}

	sources, _ := fields["sources"].([]any)
	for _, source := range sources {
		if s := toString(source); s != "" {
			verdict.Sources = append(verdict.Sources, s)
		}
	}

	return verdict, nil
}

// StyleProfile summarizes the writing style found in message examples.
type StyleProfile struct {
	Description     string   `json:"description"`
	Characteristics []string `json:"characteristics"`
}

// AnalyzeStyle builds a style profile from writing samples.
func (t *Tools) AnalyzeStyle(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Examples string `json:"examples"`
	}
	if err := decodeBody(r, &body); err != nil || body.Examples == "" {
		t.failValidation(w, config.ToolAnalyzeStyle, "No examples provided")
		return
	}

	route := t.config.Get().RouteFor(config.ToolAnalyzeStyle)

	client, err := t.factory.Client(route.Provider)
	if err != nil {
		t.fail(w, config.ToolAnalyzeStyle, err)
		return
	}

	req := &providers.PromptRequest{
		Model:     route.Model,
		System:    prompts.StyleAnalysisSystem,
		MaxTokens: 500,
		JSONOnly:  true,
	}
	req.Text(providers.RoleUser, prompts.StyleAnalysis(body.Examples))

	raw, err := t.invoke(r, config.ToolAnalyzeStyle, client, req)
	if err != nil {
		t.fail(w, config.ToolAnalyzeStyle, err)
		return
	}

	var profile StyleProfile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		t.fail(w, config.ToolAnalyzeStyle, parseError(config.ToolAnalyzeStyle, err))
		return
	}

	if profile.Characteristics == nil {
		profile.Characteristics = []string{}
	}

	t.succeed(w, config.ToolAnalyzeStyle, map[string]any{"profile": profile})
}

// DraftReply summarizes an incoming message and drafts a reply in the saved
// style.
func (t *Tools) DraftReply(w http.ResponseWriter, r *http.Request) {
	var body struct {
		StyleProfile *StyleProfile `json:"styleProfile"`
		InputMessage string        `json:"inputMessage"`
	}
	if err := decodeBody(r, &body); err != nil || body.StyleProfile == nil || body.InputMessage == "" {
		t.failValidation(w, config.ToolDraftReply, "Missing style profile or input message")
		return
	}

	route := t.config.Get().RouteFor(config.ToolDraftReply)

	client, err := t.factory.Client(route.Provider)
	if err != nil {
		t.fail(w, config.ToolDraftReply, err)
		return
	}

	req := &providers.PromptRequest{
		Model:     route.Model,
		System:    prompts.DraftReplySystem(body.StyleProfile.Description, body.StyleProfile.Characteristics),
		MaxTokens: 1000,
		JSONOnly:  true,
	}
	req.Text(providers.RoleUser, prompts.DraftReply(body.InputMessage))

	raw, err := t.invoke(r, config.ToolDraftReply, client, req)
	if err != nil {
		t.fail(w, config.ToolDraftReply, err)
		return
	}

	var parsed struct {
		Summary string `json:"summary"`
		Draft   string `json:"draft"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		t.fail(w, config.ToolDraftReply, parseError(config.ToolDraftReply, err))
		return
	}

	t.succeed(w, config.ToolDraftReply, parsed)
}

// Recipe is one suggested recipe scored against the caller's pantry.
type Recipe struct {
	Name         string   `json:"name"`
	Ingredients  []string `json:"ingredients"`
	MatchScore   float64  `json:"matchScore"`
	TimeToCook   string   `json:"timeToCook"`
	Difficulty   string   `json:"difficulty"`
	Calories     float64  `json:"calories"`
	Instructions string   `json:"instructions"`
}

// Recipes suggests recipes for the caller's pantry items.
func (t *Tools) Recipes(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Items []struct {
			Name     string `json:"name"`
			Quantity string `json:"quantity"`
		} `json:"items"`
	}
	if err := decodeBody(r, &body); err != nil || len(body.Items) == 0 {
		t.failValidation(w, config.ToolRecipes, "No pantry items provided")
		return
	}

	itemList := make([]string, 0, len(body.Items))
	for _, item := range body.Items {
		itemList = append(itemList, fmt.Sprintf("%s (%s)", item.Name, item.Quantity))
	}

	route := t.config.Get().RouteFor(config.ToolRecipes)

	client, err := t.factory.Client(route.Provider)
	if err != nil {
		t.fail(w, config.ToolRecipes, err)
		return
	}

	req := &providers.PromptRequest{
		Model:     route.Model,
		System:    prompts.RecipesSystem,
		MaxTokens: 1500,
		JSONOnly:  true,
	}
	req.Text(providers.RoleUser, prompts.Recipes(strings.Join(itemList, ", ")))

	raw, err := t.invoke(r, config.ToolRecipes, client, req)
	if err != nil {
		t.fail(w, config.ToolRecipes, err)
		return
	}

	recipes, err := parseRecipes(raw)
	if err != nil {
		t.fail(w, config.ToolRecipes, err)
		return
	}

	t.succeed(w, config.ToolRecipes, map[string]any{"recipes": recipes})
}

func parseRecipes(raw string) ([]Recipe, error) {
	var fields map[string]any
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, parseError(config.ToolRecipes, err)
	}

	recipes := []Recipe{}

	entries, _ := fields["recipes"].([]any)
	for _, entry := range entries {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}

		recipe := Recipe{
			Name:         toString(m["name"]),
			Ingredients:  []string{},
			MatchScore:   toNumber(m["matchScore"]),
			TimeToCook:   toString(m["timeToCook"]),
			Difficulty:   toString(m["difficulty"]),
			Calories:     toNumber(m["calories"]),
			Instructions: toString(m["instructions"]),
		}

		ingredients, _ := m["ingredients"].([]any)
		for _, ingredient := range ingredients {
			if s := toString(ingredient); s != "" {
				recipe.Ingredients = append(recipe.Ingredients, s)
			}
		}

		recipes = append(recipes, recipe)
	}

	return recipes, nil
}
