package analysis

import (
	"time"

	"aperture/internal/adapters/ai"
	"aperture/internal/adapters/config"
	"aperture/internal/services/prompt"
)

// Settings is the call-time configuration snapshot for one attempt. The
// engine re-reads it on every attempt so configuration changes made while a
// batch is in flight are picked up by subsequent retries.
type Settings struct {
	Provider     string
	Model        string
	Params       ai.GenerationParams
	Prompt       prompt.Options
	BatchSize    int
	RequestDelay time.Duration
}

// SettingsSource yields the current settings. Implementations must be safe
// for concurrent reads.
type SettingsSource interface {
	Current() Settings
}

// SettingsFunc adapts a function to SettingsSource.
type SettingsFunc func() Settings

// Current implements SettingsSource.
func (f SettingsFunc) Current() Settings { return f() }

// SettingsFromConfig maps the loaded environment configuration onto a
// Settings snapshot.
func SettingsFromConfig(cfg *config.Config) Settings {
	provider := ai.NormalizeProviderName(cfg.AI.Provider)
	return Settings{
		Provider: provider,
		Model:    cfg.AI.ModelFor(provider),
		Params: ai.GenerationParams{
			Temperature: cfg.AI.Temperature,
			TopP:        cfg.AI.TopP,
			MaxTokens:   cfg.AI.MaxTokens,
		},
		Prompt: prompt.Options{
			CustomPrompt: cfg.Prompt.CustomPrompt,
			UseCustom:    cfg.Prompt.UseCustomPrompt,
			Preset:       cfg.Prompt.Preset,
			Enrich:       cfg.Prompt.EnrichWithMetadata,
		},
		BatchSize:    cfg.Batch.Size,
		RequestDelay: cfg.Batch.RequestDelay,
	}
}
