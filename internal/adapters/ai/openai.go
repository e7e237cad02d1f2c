package ai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"aperture/pkg/errors"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// Ensure OpenAIClient implements Client
var _ Client = (*OpenAIClient)(nil)

// OpenAIClient speaks the OpenAI chat-completions wire format, which many
// compatible backends (Azure, Ollama, LM Studio, vLLM) also serve. The API
// key travels in the authorization header.
type OpenAIClient struct {
	baseURL string
}

// NewOpenAIClient creates a client for an OpenAI-compatible endpoint.
// baseURL may point at any compatible server; empty means api.openai.com.
func NewOpenAIClient(baseURL string) *OpenAIClient {
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	return &OpenAIClient{baseURL: strings.TrimSuffix(baseURL, "/")}
}

// Name returns provider name.
func (c *OpenAIClient) Name() ProviderName { return ProviderNameOpenAI }

// Descriptor returns display metadata.
func (c *OpenAIClient) Descriptor() Descriptor {
	return Descriptor{
		ID:          ProviderNameOpenAI.String(),
		DisplayName: "OpenAI Compatible",
		Description: "OpenAI chat-completions API or any compatible endpoint",
	}
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
	TopP        float64         `json:"top_p"`
	MaxTokens   int             `json:"max_tokens"`
}

type openAIMessage struct {
	Role    string              `json:"role"`
	Content []openAIContentPart `json:"content"`
}

type openAIContentPart struct {
	Type     string          `json:"type"`
	Text     string          `json:"text,omitempty"`
	ImageURL *openAIImageURL `json:"image_url,omitempty"`
}

type openAIImageURL struct {
	URL string `json:"url"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// BuildRequest assembles a chat-completions call with the image delivered
// as a base64 data URL inside the user message.
func (c *OpenAIClient) BuildRequest(apiKey string, req Request) (*WireRequest, error) {
	if req.Model == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "openai model is required")
	}

	parts := []openAIContentPart{{Type: "text", Text: req.Prompt}}
	if len(req.Image) > 0 {
		dataURL := fmt.Sprintf("data:%s;base64,%s", req.MIMEType, base64.StdEncoding.EncodeToString(req.Image))
		parts = append(parts, openAIContentPart{Type: "image_url", ImageURL: &openAIImageURL{URL: dataURL}})
	}

	body, err := json.Marshal(openAIRequest{
		Model:       req.Model,
		Messages:    []openAIMessage{{Role: "user", Content: parts}},
		Temperature: req.Params.Temperature,
		TopP:        req.Params.TopP,
		MaxTokens:   req.Params.MaxTokens,
	})
	if err != nil {
		return nil, errors.Wrap(err, "marshal openai request")
	}

	return &WireRequest{
		Method: http.MethodPost,
		URL:    c.baseURL + "/chat/completions",
		Headers: map[string]string{
			"Content-Type":  "application/json",
			"Authorization": "Bearer " + apiKey,
		},
		Body: body,
	}, nil
}

// ParseResponse normalizes the chat-completions envelope into a Result.
func (c *OpenAIClient) ParseResponse(status int, body []byte) *Result {
	switch {
	case status == http.StatusUnauthorized:
		return Failure("Invalid API key")
	case status < 200 || status > 299:
		return Failure(upstreamErrorMessage(body))
	}

	var envelope openAIResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return EmptySuccess()
	}
	if len(envelope.Choices) == 0 {
		return EmptySuccess()
	}

	return resultFromModelText(envelope.Choices[0].Message.Content)
}

// TestConnection sends a text-only chat probe.
func (c *OpenAIClient) TestConnection(ctx context.Context, tr Transport, apiKey string) ConnectionStatus {
	wire, err := c.BuildRequest(apiKey, Request{
		Model:  "gpt-4o-mini",
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
