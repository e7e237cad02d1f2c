package analysis

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aperture/internal/adapters/ai"
)

func batchSettings(size int, delay time.Duration) SettingsFunc {
	return func() Settings {
		return Settings{
			Provider:     "gemini",
			Model:        "gemini-1.5-flash",
			Params:       ai.GenerationParams{MaxTokens: 256},
			BatchSize:    size,
			RequestDelay: delay,
		}
	}
}

func newTestScheduler(t *testing.T, tr ai.Transport, settings SettingsSource) *BatchScheduler {
	t.Helper()
	return NewBatchScheduler(newTestEngine(t, tr, settings, true), settings)
}

func makePhotos(n int) []Photo {
	photos := make([]Photo, n)
	for i := range photos {
		photos[i] = Photo{Image: []byte{byte(i + 1)}, MIMEType: "image/jpeg"}
	}
	return photos
}

func TestAnalyzeBatchPacesBetweenPhotosButNotAfterLast(t *testing.T) {
	tr := &scriptedTransport{steps: []transportStep{{status: http.StatusOK, body: geminiSuccessBody(t)}}}
	settings := batchSettings(5, time.Second)
	scheduler := newTestScheduler(t, tr, settings)

	sleeps := 0
	scheduler.sleep = func(d time.Duration) {
		assert.Equal(t, time.Second, d)
		sleeps++
	}

	results := scheduler.AnalyzeBatch(context.Background(), makePhotos(7), nil)

	require.Len(t, results, 7)
	assert.Equal(t, 7, tr.calls)
	assert.Equal(t, 6, sleeps, "a delay after every photo except the last, across group boundaries")
}

func TestAnalyzeBatchZeroDelaySkipsPacing(t *testing.T) {
	tr := &scriptedTransport{steps: []transportStep{{status: http.StatusOK, body: geminiSuccessBody(t)}}}
	scheduler := newTestScheduler(t, tr, batchSettings(5, 0))

	sleeps := 0
	scheduler.sleep = func(time.Duration) { sleeps++ }

	results := scheduler.AnalyzeBatch(context.Background(), makePhotos(3), nil)

	require.Len(t, results, 3)
	assert.Zero(t, sleeps)
}

func TestAnalyzeBatchReportsProgressAfterEveryPhoto(t *testing.T) {
	tr := &scriptedTransport{steps: []transportStep{{status: http.StatusOK, body: geminiSuccessBody(t)}}}
	scheduler := newTestScheduler(t, tr, batchSettings(2, 0))
	scheduler.sleep = func(time.Duration) {}

	var completed []int
	scheduler.AnalyzeBatch(context.Background(), makePhotos(4), func(done, total int) {
		assert.Equal(t, 4, total)
		completed = append(completed, done)
	})

	assert.Equal(t, []int{1, 2, 3, 4}, completed)
}

func TestAnalyzeBatchContinuesPastFailures(t *testing.T) {
	// Photo 3 burns its full retry budget (calls 3-5), then service recovers.
	tr := &scriptedTransport{steps: []transportStep{
		{status: http.StatusOK, body: geminiSuccessBody(t)},
		{status: http.StatusOK, body: geminiSuccessBody(t)},
		{status: http.StatusInternalServerError},
		{status: http.StatusInternalServerError},
		{status: http.StatusInternalServerError},
		{status: http.StatusOK, body: geminiSuccessBody(t)},
	}}
	scheduler := newTestScheduler(t, tr, batchSettings(5, 0))
	scheduler.sleep = func(time.Duration) {}

	results := scheduler.AnalyzeBatch(context.Background(), makePhotos(4), nil)

	require.Len(t, results, 4)
	assert.True(t, results[0].Succeeded)
	assert.True(t, results[1].Succeeded)
	assert.False(t, results[2].Succeeded)
	assert.Equal(t, "Maximum retries exceeded", results[2].ErrorMessage)
	assert.True(t, results[3].Succeeded)
	assert.Equal(t, 6, tr.calls)
}

func TestAnalyzeBatchDefaultsGroupSize(t *testing.T) {
	tr := &scriptedTransport{steps: []transportStep{{status: http.StatusOK, body: geminiSuccessBody(t)}}}
	scheduler := newTestScheduler(t, tr, batchSettings(0, 0))
	scheduler.sleep = func(time.Duration) {}

	results := scheduler.AnalyzeBatch(context.Background(), makePhotos(6), nil)

	require.Len(t, results, 6)
	assert.Equal(t, 6, tr.calls)
}

func TestAnalyzeBatchEmptyInput(t *testing.T) {
	tr := &scriptedTransport{steps: []transportStep{{status: http.StatusOK}}}
	scheduler := newTestScheduler(t, tr, batchSettings(5, time.Second))

	slept := false
	scheduler.sleep = func(time.Duration) { slept = true }

	results := scheduler.AnalyzeBatch(context.Background(), nil, nil)

	assert.Empty(t, results)
	assert.Zero(t, tr.calls)
	assert.False(t, slept)
}
