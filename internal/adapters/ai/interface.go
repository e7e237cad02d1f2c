package ai

import "context"

// Client defines the contract each AI provider implementation must satisfy.
// Request construction and response parsing are pure so the engine owns the
// HTTP exchange and the retry budget.
type Client interface {
	Name() ProviderName

	// Descriptor returns static display metadata for configuration surfaces.
	Descriptor() Descriptor

	// BuildRequest assembles the provider wire request for one analysis.
	// Gemini-style providers embed the API key in the endpoint URL;
	// OpenAI-style providers carry it in an authorization header.
	BuildRequest(apiKey string, req Request) (*WireRequest, error)

	// ParseResponse normalizes a received HTTP response into a Result.
	// It never returns an error: every outcome is a well-formed Result.
	ParseResponse(status int, body []byte) *Result

	// TestConnection issues a minimal text-only request to validate the key
	// without paying for a full image analysis.
	TestConnection(ctx context.Context, tr Transport, apiKey string) ConnectionStatus
}

// Descriptor describes one supported backend for configuration surfaces.
type Descriptor struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
}

// GenerationParams tune the sampling behavior of the model.
type GenerationParams struct {
	Temperature float64
	TopP        float64
	MaxTokens   int
}

// Request carries everything a provider needs to build one wire request.
// Built fresh per call and never persisted.
type Request struct {
	Model    string
	Prompt   string
	Image    []byte
	MIMEType string
	Params   GenerationParams
}

// WireRequest is a provider-specific HTTP request ready for the transport.
type WireRequest struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
}

// ConnectionStatus reports the outcome of a key validation probe.
type ConnectionStatus struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}
