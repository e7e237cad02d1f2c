package ai

import (
	"aperture/pkg/errors"
)

// Factory resolves provider ids to clients. The provider set is closed;
// unknown ids are a configuration error, surfaced before any network call.
type Factory struct {
	openAIBaseURL string
}

// NewFactory creates a factory. openAIBaseURL overrides the endpoint for
// OpenAI-compatible backends; empty selects api.openai.com.
func NewFactory(openAIBaseURL string) *Factory {
	return &Factory{openAIBaseURL: openAIBaseURL}
}

// Resolve returns the client for a provider id.
func (f *Factory) Resolve(providerID string) (Client, error) {
	switch ProviderName(NormalizeProviderName(providerID)) {
	case ProviderNameGemini:
		return NewGeminiClient(), nil
	case ProviderNameOpenAI:
		return NewOpenAIClient(f.openAIBaseURL), nil
	default:
		return nil, errors.Wrapf(errors.ErrUnknownProvider, "provider %q", providerID)
	}
}

// ListProviders returns descriptors for every supported backend in a stable
// order that does not depend on configuration state.
func (f *Factory) ListProviders() []Descriptor {
	names := AllProviderNames()
	descriptors := make([]Descriptor, 0, len(names))
	for _, name := range names {
		client, err := f.Resolve(name.String())
		if err != nil {
			continue
		}
		descriptors = append(descriptors, client.Descriptor())
	}
	return descriptors
}
