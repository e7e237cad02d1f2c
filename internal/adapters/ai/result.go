package ai

import (
	"encoding/json"
	"strings"
)

// Result is the normalized outcome of one analysis call. Exactly one Result
// crosses the component boundary per call; failures are values, not errors.
type Result struct {
	Succeeded    bool      `json:"succeeded"`
	Title        string    `json:"title"`
	Caption      string    `json:"caption"`
	Headline     string    `json:"headline"`
	Instructions string    `json:"instructions"`
	Copyright    string    `json:"copyright"`
	Location     string    `json:"location"`
	Keywords     []Keyword `json:"keywords"`
	ErrorMessage string    `json:"error_message,omitempty"`
}

// Keyword is one model-suggested keyword. Every parsed keyword starts
// selected so hosts can deselect instead of re-typing.
type Keyword struct {
	Description string `json:"description"`
	Selected    bool   `json:"selected"`
}

// Failure builds a failed Result with all descriptive fields empty.
func Failure(message string) *Result {
	return &Result{ErrorMessage: message}
}

// EmptySuccess builds a succeeded Result with defaulted fields and an empty,
// iterable keyword slice. Used when the HTTP exchange succeeded but the
// model's answer could not be decoded.
func EmptySuccess() *Result {
	return &Result{Succeeded: true, Keywords: []Keyword{}}
}

// analysisPayload is the JSON document the model is instructed to emit as
// its answer, embedded as a string inside the provider's transport envelope.
type analysisPayload struct {
	Title        string `json:"title"`
	Caption      string `json:"caption"`
	Headline     string `json:"headline"`
	Keywords     string `json:"keywords"`
	Instructions string `json:"instructions"`
	Copyright    string `json:"copyright"`
	Location     string `json:"location"`
}

// resultFromModelText decodes the second JSON layer out of the model's text
// answer. Any decode problem degrades to EmptySuccess rather than failing
// the call, since the upstream service did respond.
func resultFromModelText(text string) *Result {
	text = stripCodeFence(text)
	if text == "" {
		return EmptySuccess()
	}

	var payload analysisPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return EmptySuccess()
	}

	return &Result{
		Succeeded:    true,
		Title:        payload.Title,
		Caption:      payload.Caption,
		Headline:     payload.Headline,
		Instructions: payload.Instructions,
		Copyright:    payload.Copyright,
		Location:     payload.Location,
		Keywords:     ParseKeywords(payload.Keywords),
	}
}

// ParseKeywords splits the model's comma-separated keyword string into
// trimmed, non-empty keywords, each selected by default.
func ParseKeywords(raw string) []Keyword {
	parts := strings.Split(raw, ",")
	keywords := make([]Keyword, 0, len(parts))
	for _, part := range parts {
		token := strings.TrimSpace(part)
		if token == "" {
			continue
		}
		keywords = append(keywords, Keyword{Description: token, Selected: true})
	}
	return keywords
}

// stripCodeFence removes a surrounding markdown code fence if the model
// wrapped its JSON answer in one.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		// Drop the language tag line ("json", "JSON", or empty).
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// providerError is the error envelope shared by Gemini and OpenAI-compatible
// backends on non-2xx responses.
type providerError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// upstreamErrorMessage pulls the provider-supplied message out of a non-2xx
// body, falling back to "Unknown error".
func upstreamErrorMessage(body []byte) string {
	var envelope providerError
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		return envelope.Error.Message
	}
	return "Unknown error"
}
