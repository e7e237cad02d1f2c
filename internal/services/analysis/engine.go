package analysis

import (
	"context"
	"time"

	"aperture/internal/adapters/ai"
	"aperture/internal/domain/photo"
	"aperture/internal/metrics"
	"aperture/internal/services/credentials"
	"aperture/internal/services/prompt"
	"aperture/pkg/logger"
)

// maxAttempts is the total attempt budget per analysis call: the first
// attempt plus two retries. Transient upstream errors are common at scale;
// missing keys and transport failures will not change across attempts and
// are not retried.
const maxAttempts = 3

// Engine drives one analysis: key retrieval, prompt assembly, request
// build, HTTP call, response parse, retry. No error ever escapes Analyze;
// every outcome is a well-formed Result.
type Engine struct {
	factory   *ai.Factory
	creds     *credentials.Store
	prompts   *prompt.Builder
	transport ai.Transport
	settings  SettingsSource
	limiter   ai.Limiter
	log       *logger.Logger
}

// NewEngine wires an engine. limiter may be nil to disable provider-level
// rate limiting.
func NewEngine(
	factory *ai.Factory,
	creds *credentials.Store,
	prompts *prompt.Builder,
	transport ai.Transport,
	settings SettingsSource,
	limiter ai.Limiter,
) *Engine {
	if limiter == nil {
		limiter = ai.NoopLimiter{}
	}
	return &Engine{
		factory:   factory,
		creds:     creds,
		prompts:   prompts,
		transport: transport,
		settings:  settings,
		limiter:   limiter,
		log:       logger.Get().With("component", "analysis_engine"),
	}
}

// Analyze produces a normalized analysis result for one photo. Each attempt
// repeats the full flow from settings read onward, since configuration may
// have changed between attempts. No backoff is applied between retries;
// pacing between photos is the batch scheduler's job.
func (e *Engine) Analyze(ctx context.Context, image []byte, mimeType string, pc photo.Context) *ai.Result {
	start := time.Now()
	providerLabel := "unknown"

	finish := func(res *ai.Result) *ai.Result {
		status := "failed"
		if res.Succeeded {
			status = "succeeded"
		}
		metrics.AnalysisResults.WithLabelValues(providerLabel, status).Inc()
		metrics.AnalysisLatency.WithLabelValues(providerLabel).Observe(time.Since(start).Seconds())
		return res
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		set := e.settings.Current()
		providerLabel = ai.NormalizeProviderName(set.Provider)

		client, err := e.factory.Resolve(set.Provider)
		if err != nil {
			// Configuration error: surfaced immediately, never retried.
			e.log.Errorw("unknown provider configured", "provider", set.Provider)
			return finish(ai.Failure("Unknown provider: " + set.Provider))
		}

		key, err := e.creds.GetAPIKey(ctx, client.Name().String())
		if err != nil {
			e.log.Warnw("API key unreadable, treating as missing", "provider", set.Provider, "error", err)
		}
		if key == "" {
			// Short-circuit before any network attempt.
			return finish(ai.Failure("API key missing"))
		}

		promptText := e.prompts.Build(set.Prompt, photo.Extract(pc))

		wire, err := client.BuildRequest(key, ai.Request{
			Model:    set.Model,
			Prompt:   promptText,
			Image:    image,
			MIMEType: mimeType,
			Params:   set.Params,
		})
		if err != nil {
			e.log.Errorw("failed to build provider request", "provider", set.Provider, "error", err)
			return finish(ai.Failure(err.Error()))
		}

		if err := e.limiter.Wait(ctx); err != nil {
			return finish(ai.Failure(err.Error()))
		}

		status, body, err := e.transport.Do(ctx, wire)
		if err != nil {
			// No response received: not retried, the condition will not
			// change across attempts.
			metrics.AnalysisAttempts.WithLabelValues(providerLabel, "transport_error").Inc()
			e.log.Errorw("transport failure", "provider", set.Provider, "attempt", attempt, "error", err)
			return finish(ai.Failure(err.Error()))
		}

		res := client.ParseResponse(status, body)
		if res.Succeeded {
			metrics.AnalysisAttempts.WithLabelValues(providerLabel, "success").Inc()
			if res.Title == "" && len(res.Keywords) == 0 {
				e.log.Warnw("model answer could not be decoded, returning empty result",
					"provider", set.Provider, "http_status", status)
			}
			return finish(res)
		}

		// Definitive provider error (401 included): a retry candidate.
		metrics.AnalysisAttempts.WithLabelValues(providerLabel, "upstream_error").Inc()
		e.log.Warnw("provider attempt failed",
			"provider", set.Provider,
			"attempt", attempt,
			"http_status", status,
			"message", res.ErrorMessage,
		)

		if attempt < maxAttempts {
			metrics.AnalysisRetries.WithLabelValues(providerLabel).Inc()
		}
	}

	return finish(ai.Failure("Maximum retries exceeded"))
}

// TestConnection validates the stored key for the configured provider with
// a minimal request.
func (e *Engine) TestConnection(ctx context.Context) ai.ConnectionStatus {
	set := e.settings.Current()

	client, err := e.factory.Resolve(set.Provider)
	if err != nil {
		return ai.ConnectionStatus{Message: "Unknown provider: " + set.Provider}
	}

	key, err := e.creds.GetAPIKey(ctx, client.Name().String())
	if err != nil || key == "" {
		return ai.ConnectionStatus{Message: "API key missing"}
	}

	return client.TestConnection(ctx, e.transport, key)
}
