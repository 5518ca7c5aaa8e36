// Package prompts holds the instruction text sent to the AI providers.
// Handlers stay generic per capability shape; everything tool-specific about
// what to ask the model lives here.
package prompts

import (
	"fmt"
	"strings"
	"time"
)

// Today formats the reference date the vision and task prompts embed so the
// model can ground relative dates.
func Today(now time.Time) string {
	return now.UTC().Format("2006-01-02")
}

// ReceiptAnalysis asks the vision model to classify and extract a receipt.
func ReceiptAnalysis(today string) string {
	return fmt.Sprintf(`Today is %s. Determine if this image is a receipt, invoice, or bill.

Return JSON with this exact structure:
{
  "isReceipt": true or false,
  "reason": "brief explanation of what you see",
  "storeName": "store or business name, or empty string",
  "date": "YYYY-MM-DD or empty string",
  "total": number or 0,
  "category": "Food & Dining|Shopping|Transportation|Healthcare|Entertainment|Other",
  "items": [{"name": "item name", "amount": number}]
}

If this is NOT a receipt, set isReceipt to false, explain in reason, and leave all other fields empty/zero. Only return JSON.`, today)
}

// PantryAnalysis asks the vision model to inventory a fridge or pantry photo.
func PantryAnalysis(today string) string {
	return fmt.Sprintf(`Today is %s. Analyze this fridge or pantry image. Identify every food item you can see. For each item estimate the quantity and a realistic expiry date based on typical shelf life from today. Return JSON in this exact format: {"items": [{"name": "string", "quantity": "string", "category": "Produce|Dairy|Meat|Pantry|Frozen|Beverages", "expiryDate": "YYYY-MM-DD"}]}. Only return the JSON, nothing else.`, today)
}

// MessageScreenshot extracts raw message text from a chat or email screenshot.
const MessageScreenshot = `Extract all the message or email text from this screenshot. Return only the raw text content of the messages, preserving line breaks between separate messages. Do not include any UI elements, timestamps, sender names, or other metadata — just the message body text.`

// ArgumentScreenshot extracts two opposing claims from a debate screenshot.
const ArgumentScreenshot = `This is a screenshot of a debate or argument between two people. Extract the two opposing claims or positions. Return JSON: {"claimA": "first person's position or claim", "claimB": "second person's position or claim"}. If you can only identify one clear debate topic, split it into two opposing sides.`

// TaskExtractionSystem primes the task parser with today's date.
func TaskExtractionSystem(today string) string {
	return fmt.Sprintf(`Today is %s. You extract actionable tasks from voice transcripts. Be smart about urgency and priority. Return valid JSON only.`, today)
}

// TaskExtraction asks for every actionable task in a transcript.
func TaskExtraction(transcript string) string {
	return fmt.Sprintf(`Transcript: %q

Extract every actionable task from this. A task is something that needs to be done (call someone, buy something, schedule something, complete something, etc).

Return JSON:
{
  "tasks": [{"text": "clear task description", "category": "urgent|later", "priority": "high|medium|low", "dueDate": "YYYY-MM-DD or null"}],
  "foundTasks": true or false,
  "reason": "brief note about what you found or why no tasks were detected"
}`, transcript)
}

// SettleSystem primes the fact-checker, optionally asking for a roast of the
// losing side.
func SettleSystem(category string, roastMode bool) string {
	roastInstruction := `Set "roast" to null.`
	if roastMode {
		roastInstruction = `Also add a short funny roast of the losing side (1-2 sentences). Put it in the "roast" field.`
	}

	return fmt.Sprintf(`You are an objective, highly accurate fact-checker and debate referee. Category: %s. %s Return valid JSON only.`, category, roastInstruction)
}

// Settle asks for a verdict on two opposing claims.
func Settle(claimA, claimB string) string {
	return fmt.Sprintf(`Settle this argument:

Claim A: %q
Claim B: %q

Analyze both claims and determine which is more accurate, factual, or reasonable.

Return JSON:
{
  "winner": "A" or "B" or "Tie",
  "reasoning": "detailed explanation of your verdict",
  "confidence": number between 0-100,
  "sources": ["source or evidence 1", "source 2", "source 3"],
  "roast": "funny roast or null",
  "analysisNote": "any caveat about why this was hard to settle, or empty string if clear-cut"
}`, claimA, claimB)
}

// StyleAnalysisSystem primes the writing-style analyst.
const StyleAnalysisSystem = `You are an expert at analyzing writing style and communication patterns. Always return valid JSON.`

// StyleAnalysis asks for a style profile from message examples.
func StyleAnalysis(examples string) string {
	return fmt.Sprintf(`Analyze the writing style from these message examples:

%s

Identify the key characteristics of this writing style. Return JSON: {"description": "A 1-2 sentence summary of the overall style", "characteristics": ["trait1", "trait2", "trait3", "trait4", "trait5"]}`, examples)
}

// DraftReplySystem primes the reply drafter with the saved style profile.
func DraftReplySystem(description string, characteristics []string) string {
	return fmt.Sprintf(`You are a writing assistant. The user has this writing style: %s. Key characteristics: %s. Mirror this style exactly when drafting replies. Always return valid JSON.`, description, strings.Join(characteristics, ", "))
}

// DraftReply asks for a TL;DR summary and a style-matched draft.
func DraftReply(inputMessage string) string {
	return fmt.Sprintf(`Here is a message I need to reply to:

%s

First summarize the key points as bullet points (TL;DR), then draft a reply that matches my writing style. Return JSON: {"summary": "• point1\n• point2\n• point3", "draft": "the reply text"}`, inputMessage)
}

// RecipesSystem primes the recipe suggester.
const RecipesSystem = `You are a creative chef who suggests practical recipes based on available ingredients. Always return valid JSON.`

// Recipes asks for recipe suggestions scored against available ingredients.
func Recipes(itemList string) string {
	return fmt.Sprintf(`I have these ingredients: %s. Suggest 4 recipes I can make. For each recipe calculate a match score (0-100) based on how many required ingredients I already have. Return JSON: {"recipes": [{"name": "string", "ingredients": ["string"], "matchScore": number, "timeToCook": "string", "difficulty": "Easy|Medium|Hard", "calories": number, "instructions": "string"}]}`, itemList)
}

// Style presets for the text transformer.
var StylePresets = map[string]string{
	"shakespeare":  "Shakespearean English with thee/thou/thy, ornate language, poetic flourishes.",
	"formal":       "Highly formal professional language suitable for business or academic writing.",
	"presidential": "Presidential speech style with inspiring language and rhetorical devices.",
	"philosopher":  "Profound philosophical style like Nietzsche or Socrates.",
	"poet":         "Beautiful poetic language with metaphors and lyrical flow.",
	"medieval":     "Medieval chivalric language with archaic words.",
	"gangster":     `1920s gangster slang with phrases like "see?", "fella", "dame".`,
}

// Formalize asks for a style transformation of the given text. Unknown styles
// fall back to the formal preset.
func Formalize(style, text string) string {
	preset, ok := StylePresets[style]
	if !ok {
		preset = StylePresets["formal"]
	}

	return fmt.Sprintf(`Transform this text into %s style.

Style: %s

Rules:
- Keep the core meaning intact
- Transform tone and vocabulary to match the style
- Be creative and authentic
- Return ONLY the transformed text, no explanations

Text to transform: %q`, style, preset, text)
}
