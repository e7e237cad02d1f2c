package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aperture/internal/domain/photo"
)

func fullMetadata() *photo.Metadata {
	return &photo.Metadata{
		GPS:               "60.39, 5.32",
		CameraMake:        "Nikon",
		CameraModel:       "Z8",
		Lens:              "24-70mm f/2.8",
		FocalLength:       "35mm",
		Aperture:          "f/4",
		ShutterSpeed:      "1/250",
		ISOSpeedRating:    "400",
		Flash:             "off",
		DateTimeOriginal:  "2024-06-01 18:32",
		Dimensions:        "8256x5504",
		CroppedDimensions: "6000x4000",
	}
}

func TestBuildCustomPromptWinsOverPreset(t *testing.T) {
	b := NewBuilder(nil)

	got := b.Build(Options{CustomPrompt: "my own prompt", UseCustom: true, Preset: "stock"}, nil)
	assert.Equal(t, "my own prompt", got)
}

func TestBuildBlankCustomPromptFallsThrough(t *testing.T) {
	b := NewBuilder(nil)

	got := b.Build(Options{CustomPrompt: "   ", UseCustom: true, Preset: "minimal"}, nil)
	preset, ok := BuiltinPresets().Lookup("minimal")
	require.True(t, ok)
	assert.Equal(t, preset, got)
}

func TestBuildUnknownPresetUsesDefault(t *testing.T) {
	b := NewBuilder(nil)

	got := b.Build(Options{Preset: "no-such-preset"}, nil)
	assert.Equal(t, defaultPrompt, got)
}

func TestBuildEnrichmentAppendsTechnicalContext(t *testing.T) {
	b := NewBuilder(nil)

	got := b.Build(Options{Enrich: true}, fullMetadata())

	require.True(t, strings.HasPrefix(got, defaultPrompt))
	assert.Contains(t, got, "Technical context for this photograph:")
	assert.Contains(t, got, "Location: 60.39, 5.32")
	assert.Contains(t, got, "Camera: Nikon Z8, Lens: 24-70mm f/2.8")
	assert.Contains(t, got, "Settings: 35mm, f/4, 1/250, ISO 400, flash off")
	assert.Contains(t, got, "Captured: 2024-06-01 18:32")
	assert.Contains(t, got, "Image size: 8256x5504 (cropped: 6000x4000)")
	assert.True(t, strings.HasSuffix(got, "Consider this technical context when describing the image."))
}

func TestBuildEnrichmentLineOrderIsFixed(t *testing.T) {
	b := NewBuilder(nil)

	got := b.Build(Options{Enrich: true}, fullMetadata())

	location := strings.Index(got, "Location:")
	camera := strings.Index(got, "Camera:")
	settings := strings.Index(got, "Settings:")
	captured := strings.Index(got, "Captured:")
	size := strings.Index(got, "Image size:")

	assert.True(t, location < camera && camera < settings && settings < captured && captured < size)
}

func TestBuildEnrichmentSkipsAbsentFields(t *testing.T) {
	b := NewBuilder(nil)

	got := b.Build(Options{Enrich: true}, &photo.Metadata{Aperture: "f/8", ISOSpeedRating: "100"})

	assert.Contains(t, got, "Settings: f/8, ISO 100")
	assert.NotContains(t, got, "Location:")
	assert.NotContains(t, got, "Camera:")
	assert.NotContains(t, got, "Captured:")
	assert.NotContains(t, got, "Image size:")
}

func TestBuildNoEnrichmentWithoutMetadata(t *testing.T) {
	b := NewBuilder(nil)

	withNil := b.Build(Options{Enrich: true}, nil)
	assert.Equal(t, defaultPrompt, withNil)

	disabled := b.Build(Options{Enrich: false}, fullMetadata())
	assert.Equal(t, defaultPrompt, disabled)
}

func TestBuildIsDeterministic(t *testing.T) {
	b := NewBuilder(nil)
	opts := Options{Preset: "editorial", Enrich: true}

	first := b.Build(opts, fullMetadata())
	second := b.Build(opts, fullMetadata())
	assert.Equal(t, first, second)
}

func TestBuilderAcceptsCustomLibrary(t *testing.T) {
	b := NewBuilder(StaticLibrary{"house": "house prompt"})

	got := b.Build(Options{Preset: "house"}, nil)
	assert.Equal(t, "house prompt", got)
}
