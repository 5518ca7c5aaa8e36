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

// maxAudioUploadBytes caps the multipart form parse. Whisper itself rejects
// files over 25MB.
const maxAudioUploadBytes = 25 << 20

// Task is one actionable item extracted from a voice transcript.
type Task struct {
	Text     string  `json:"text"`
	Category string  `json:"category"`
	Priority string  `json:"priority"`
	DueDate  *string `json:"dueDate"`
}

// VoiceTask transcribes an uploaded recording and extracts actionable tasks
// from the transcript. An empty transcript is not a failure: the call
// succeeded, so the handler returns 200 with no tasks and an explanation.
func (t *Tools) VoiceTask(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxAudioUploadBytes); err != nil {
		t.failValidation(w, config.ToolVoiceTask, "No audio file provided")
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		t.failValidation(w, config.ToolVoiceTask, "No audio file provided")
		return
	}
	defer file.Close()

	route := t.config.Get().RouteFor(config.ToolVoiceTask)

	transcriber, err := t.factory.Transcriber(providers.ProviderOpenAI)
	if err != nil {
		t.fail(w, config.ToolVoiceTask, err)
		return
	}

	transcript, err := transcriber.Transcribe(r.Context(), header.Filename, file)
	if err != nil {
		t.fail(w, config.ToolVoiceTask, err)
		return
	}

	if strings.TrimSpace(transcript) == "" {
		t.succeed(w, config.ToolVoiceTask, map[string]any{
			"transcript": "",
			"tasks":      []Task{},
			"aiMessage":  "No speech was detected in this recording. Make sure your microphone is working and you're speaking clearly. Background noise can sometimes cause this.",
		})

		return
	}

	client, err := t.factory.Client(route.Provider)
	if err != nil {
		t.fail(w, config.ToolVoiceTask, err)
		return
	}

	req := &providers.PromptRequest{
		Model:     route.Model,
		System:    prompts.TaskExtractionSystem(prompts.Today(t.now())),
		MaxTokens: 1000,
		JSONOnly:  true,
	}
	req.Text(providers.RoleUser, prompts.TaskExtraction(transcript))

	raw, err := t.invoke(r, config.ToolVoiceTask, client, req)
	if err != nil {
		t.fail(w, config.ToolVoiceTask, err)
		return
	}

	var parsed struct {
		Tasks  []Task `json:"tasks"`
		Reason string `json:"reason"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		t.fail(w, config.ToolVoiceTask, parseError(config.ToolVoiceTask, err))
		return
	}

	if parsed.Tasks == nil {
		parsed.Tasks = []Task{}
	}

	response := map[string]any{
		"transcript": transcript,
		"tasks":      parsed.Tasks,
	}
	if len(parsed.Tasks) == 0 {
		response["aiMessage"] = fmt.Sprintf("Heard: %q — but no actionable tasks were found. Try phrases like \"Call John by Friday\", \"Buy groceries tomorrow\", or \"Submit the report next week\".", transcript)
	}

	t.succeed(w, config.ToolVoiceTask, response)
}
