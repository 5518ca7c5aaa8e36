package prompts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToday(t *testing.T) {
	now := time.Date(2025, 1, 15, 23, 30, 0, 0, time.FixedZone("PST", -8*3600))

	// Formatting happens in UTC so the date the model grounds against does not
	// depend on the server's zone.
	assert.Equal(t, "2025-01-16", Today(now))
}

func TestSettleSystem(t *testing.T) {
	plain := SettleSystem("science", false)
	assert.Contains(t, plain, `Set "roast" to null.`)

	roasting := SettleSystem("science", true)
	assert.Contains(t, roasting, "funny roast of the losing side")
	assert.Contains(t, roasting, "Category: science")
}

func TestFormalize_UnknownStyle(t *testing.T) {
	prompt := Formalize("klingon", "hello there")
	assert.Contains(t, prompt, StylePresets["formal"])
	assert.Contains(t, prompt, `"hello there"`)
}
