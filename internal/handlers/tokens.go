package handlers

import (
	"strings"

	"github.com/pkoukk/tiktoken-go"

	"github.com/supertoolshq/gateway/internal/providers"
)

// countPromptTokens tallies the text portion of a prompt with cl100k_base and
// feeds the per-tool token counter. Image parts are not counted; the encoding
// only covers text.
func (t *Tools) countPromptTokens(tool string, req *providers.PromptRequest) int {
	tke, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		t.logger.Error("Failed to get tiktoken encoding", "error", err)
		return 0
	}

	var text strings.Builder

	text.WriteString(req.System)

	for _, msg := range req.Messages {
		for _, part := range msg.Parts {
			if part.Type == providers.ContentTypeText {
				text.WriteString(part.Text)
			}
		}
	}

	count := len(tke.Encode(text.String(), nil, nil))
	if t.metrics != nil {
		t.metrics.PromptTokens.WithLabelValues(tool).Add(float64(count))
	}

	return count
}
