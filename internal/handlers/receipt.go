package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/supertoolshq/gateway/internal/config"
	"github.com/supertoolshq/gateway/internal/prompts"
	"github.com/supertoolshq/gateway/internal/providers"
)

// ReceiptItem is one line item extracted from a receipt.
type ReceiptItem struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// ReceiptAnalysis is the parsed result of a receipt scan. Every field has a
// documented default so a partially valid model response is still surfaced.
type ReceiptAnalysis struct {
	IsReceipt bool          `json:"isReceipt"`
	Reason    string        `json:"reason"`
	StoreName string        `json:"storeName"`
	Date      string        `json:"date"`
	Total     float64       `json:"total"`
	Category  string        `json:"category"`
	Items     []ReceiptItem `json:"items"`
}

// QuickReceipt classifies an image as a receipt and extracts its contents.
// A successful provider call that declares the image not a receipt is a
// classification failure: 422 with both the flag and the reason, never an
// empty 200.
func (t *Tools) QuickReceipt(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Image string `json:"image"`
	}
	if err := decodeBody(r, &body); err != nil || body.Image == "" {
		t.failValidation(w, config.ToolQuickReceipt, "No image provided")
		return
	}

	route := t.config.Get().RouteFor(config.ToolQuickReceipt)

	client, err := t.factory.Client(route.Provider)
	if err != nil {
		t.fail(w, config.ToolQuickReceipt, err)
		return
	}

	req := &providers.PromptRequest{
		Model:     route.Model,
		MaxTokens: 1000,
		JSONOnly:  true,
	}
	req.Vision(body.Image, prompts.ReceiptAnalysis(prompts.Today(t.now())))

	raw, err := t.invoke(r, config.ToolQuickReceipt, client, req)
	if err != nil {
		t.fail(w, config.ToolQuickReceipt, err)
		return
	}

	result, err := parseReceiptAnalysis(raw)
	if err != nil {
		t.fail(w, config.ToolQuickReceipt, err)
		return
	}

	if !result.IsReceipt {
		reason := result.Reason
		if reason == "" {
			reason = "Please upload a clear photo of a receipt or invoice."
		}

		t.countRequest(config.ToolQuickReceipt, http.StatusUnprocessableEntity)
		t.writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":     fmt.Sprintf("This doesn't look like a receipt. %s", reason),
			"isReceipt": false,
		})

		return
	}

	t.succeed(w, config.ToolQuickReceipt, result)
}

func parseReceiptAnalysis(raw string) (*ReceiptAnalysis, error) {
	var fields map[string]any
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, parseError(config.ToolQuickReceipt, err)
	}

	// Defaults apply per field: a reason can be present while the items list
	// is absent, and both must survive.
	result := &ReceiptAnalysis{
		IsReceipt: toBool(fields["isReceipt"]),
		Reason:    toString(fields["reason"]),
		StoreName: toString(fields["storeName"]),
		Date:      toString(fields["date"]),
		Total:     toNumber(fields["total"]),
		Category:  toString(fields["category"]),
		Items:     []ReceiptItem{},
	}

	items, _ := fields["items"].([]any)
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}

		result.Items = append(result.Items, ReceiptItem{
			Name:   toString(entry["name"]),
			Amount: toNumber(entry["amount"]),
		})
	}

	return result, nil
}
