package ai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"aperture/pkg/errors"
)

const geminiEndpoint = "https://generativelanguage.googleapis.com/v1beta/models"

// Ensure GeminiClient implements Client
var _ Client = (*GeminiClient)(nil)

// GeminiClient speaks the Google Generative Language wire format. The API
// key travels as a URL query parameter, not a header.
type GeminiClient struct{}

// NewGeminiClient creates a new Gemini client.
func NewGeminiClient() *GeminiClient {
	return &GeminiClient{}
}

// Name returns provider name.
func (c *GeminiClient) Name() ProviderName { return ProviderNameGemini }

// Descriptor returns display metadata.
func (c *GeminiClient) Descriptor() Descriptor {
	return Descriptor{
		ID:          ProviderNameGemini.String(),
		DisplayName: "Google Gemini",
		Description: "Google Generative Language API (Gemini vision models)",
	}
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig geminiGenConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiGenConfig struct {
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// BuildRequest assembles a generateContent call with the image inlined as
// base64 and the API key embedded in the URL.
func (c *GeminiClient) BuildRequest(apiKey string, req Request) (*WireRequest, error) {
	if req.Model == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "gemini model is required")
	}

	parts := []geminiPart{{Text: req.Prompt}}
	if len(req.Image) > 0 {
		parts = append(parts, geminiPart{
			InlineData: &geminiInlineData{
				MIMEType: req.MIMEType,
				Data:     base64.StdEncoding.EncodeToString(req.Image),
			},
		})
	}

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: parts}},
		GenerationConfig: geminiGenConfig{
			Temperature:     req.Params.Temperature,
			TopP:            req.Params.TopP,
			MaxOutputTokens: req.Params.MaxTokens,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "marshal gemini request")
	}

	return &WireRequest{
		Method:  http.MethodPost,
		URL:     fmt.Sprintf("%s/%s:generateContent?key=%s", geminiEndpoint, req.Model, url.QueryEscape(apiKey)),
		Headers: map[string]string{"Content-Type": "application/json"},
		Body:    body,
	}, nil
}

// ParseResponse normalizes the Gemini envelope into a Result.
func (c *GeminiClient) ParseResponse(status int, body []byte) *Result {
	switch {
	case status == http.StatusUnauthorized:
		return Failure("Invalid API key")
	case status < 200 || status > 299:
		return Failure(upstreamErrorMessage(body))
	}

	var envelope geminiResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return EmptySuccess()
	}
	if len(envelope.Candidates) == 0 || len(envelope.Candidates[0].Content.Parts) == 0 {
		return EmptySuccess()
	}

	return resultFromModelText(envelope.Candidates[0].Content.Parts[0].Text)
}

// TestConnection sends a text-only generateContent probe.
func (c *GeminiClient) TestConnection(ctx context.Context, tr Transport, apiKey string) ConnectionStatus {
	wire, err := c.BuildRequest(apiKey, Request{
		Model:  "gemini-1.5-flash",
		Prompt: "Reply with the single word OK.",
		Params: GenerationParams{MaxTokens: 8},
	})
	if err != nil {
		return ConnectionStatus{Message: err.Error()}
	}

	status, body, err := tr.Do(ctx, wire)
	if err != nil {
		return ConnectionStatus{Message: err.Error()}
	}
	if status == http.StatusUnauthorized {
		return ConnectionStatus{Message: "Invalid API key"}
	}
	if status < 200 || status > 299 {
		return ConnectionStatus{Message: upstreamErrorMessage(body)}
	}
	return ConnectionStatus{OK: true, Message: "Connection successful"}
}
