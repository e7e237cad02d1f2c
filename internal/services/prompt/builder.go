package prompt

import (
	"strings"

	"aperture/internal/domain/photo"
)

// jsonAnswerContract is appended to every base prompt so the model's answer
// can be decoded as the inner JSON document of the two-layer protocol.
const jsonAnswerContract = `Respond with a single JSON object and nothing else, using exactly these string fields: ` +
	`"title", "caption", "headline", "keywords", "instructions", "copyright", "location". ` +
	`"keywords" must be a single comma-separated string. Use an empty string for any field you cannot determine.`

// defaultPrompt is the built-in instruction used when neither a custom
// prompt nor a preset is configured.
const defaultPrompt = `You are a professional photo archivist. Analyze the attached photograph and produce ` +
	`descriptive metadata: a short title, a one-to-two sentence caption, a newspaper-style headline, ` +
	`10-25 relevant keywords, any special handling instructions, a copyright notice if visible, ` +
	`and the most specific location you can identify. ` + jsonAnswerContract

// Options select the effective base prompt and enrichment behavior.
// Read from configuration at call time by the engine.
type Options struct {
	// CustomPrompt is used verbatim when UseCustom is set and it is non-empty.
	CustomPrompt string
	UseCustom    bool

	// Preset names a template in the library; unknown names fall back to the
	// built-in default.
	Preset string

	// Enrich appends the technical-context block when metadata is present.
	Enrich bool
}

// Builder assembles the instruction text sent to the model.
type Builder struct {
	presets Library
}

// NewBuilder creates a Builder over a preset library; nil means the
// built-in presets.
func NewBuilder(presets Library) *Builder {
	if presets == nil {
		presets = BuiltinPresets()
	}
	return &Builder{presets: presets}
}

// Build returns the full prompt for one analysis. Deterministic: identical
// inputs always produce identical text, with enrichment lines in fixed
// order (location, camera, settings, capture date, image size).
func (b *Builder) Build(opts Options, md *photo.Metadata) string {
	base := b.basePrompt(opts)
	if md == nil || !opts.Enrich {
		return base
	}

	block := enrichmentBlock(md)
	if block == "" {
		return base
	}

	var sb strings.Builder
	sb.WriteString(base)
	sb.WriteString("\n\nTechnical context for this photograph:\n")
	sb.WriteString(block)
	sb.WriteString("\nConsider this technical context when describing the image.")
	return sb.String()
}

func (b *Builder) basePrompt(opts Options) string {
	if opts.UseCustom && strings.TrimSpace(opts.CustomPrompt) != "" {
		return opts.CustomPrompt
	}
	if opts.Preset != "" {
		if preset, ok := b.presets.Lookup(opts.Preset); ok {
			return preset
		}
	}
	return defaultPrompt
}

// enrichmentBlock renders the present metadata fields, one line per
// category, in fixed order.
func enrichmentBlock(md *photo.Metadata) string {
	var lines []string

	if md.GPS != "" {
		lines = append(lines, "Location: "+md.GPS)
	}

	if camera := cameraLine(md); camera != "" {
		lines = append(lines, camera)
	}

	if settings := settingsLine(md); settings != "" {
		lines = append(lines, "Settings: "+settings)
	}

	if md.DateTimeOriginal != "" {
		lines = append(lines, "Captured: "+md.DateTimeOriginal)
	}

	if md.Dimensions != "" {
		line := "Image size: " + md.Dimensions
		if md.CroppedDimensions != "" && md.CroppedDimensions != md.Dimensions {
			line += " (cropped: " + md.CroppedDimensions + ")"
		}
		lines = append(lines, line)
	}

	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n")
}

func cameraLine(md *photo.Metadata) string {
	camera := strings.TrimSpace(md.CameraMake + " " + md.CameraModel)
	switch {
	case camera != "" && md.Lens != "":
		return "Camera: " + camera + ", Lens: " + md.Lens
	case camera != "":
		return "Camera: " + camera
	case md.Lens != "":
		return "Lens: " + md.Lens
	default:
		return ""
	}
}

// settingsLine assembles only the exposure settings actually present.
func settingsLine(md *photo.Metadata) string {
	var parts []string
	if md.FocalLength != "" {
		parts = append(parts, md.FocalLength)
	}
	if md.Aperture != "" {
		parts = append(parts, md.Aperture)
	}
	if md.ShutterSpeed != "" {
		parts = append(parts, md.ShutterSpeed)
	}
	if md.ISOSpeedRating != "" {
		parts = append(parts, "ISO "+md.ISOSpeedRating)
	}
	if md.Flash != "" {
		parts = append(parts, "flash "+md.Flash)
	}
	return strings.Join(parts, ", ")
}
