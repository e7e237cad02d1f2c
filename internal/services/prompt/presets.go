package prompt

// Library looks up named prompt templates. Consumed read-only by Builder;
// hosts can supply their own implementation to add presets.
type Library interface {
	Lookup(name string) (string, bool)
}

// StaticLibrary is a Library over a fixed map.
type StaticLibrary map[string]string

// Lookup implements Library.
func (l StaticLibrary) Lookup(name string) (string, bool) {
	v, ok := l[name]
	return v, ok
}

// BuiltinPresets returns the presets shipped with the service. Every preset
// keeps the JSON answer contract so parsing stays uniform across presets.
func BuiltinPresets() StaticLibrary {
	return StaticLibrary{
		"descriptive": "Describe this photograph in rich, factual detail for a photo archive. " + jsonAnswerContract,
		"editorial": "Write punchy editorial metadata for this photograph as a wire-service photo editor would, " +
			"with a strong headline and a concise caption. " + jsonAnswerContract,
		"stock": "Write metadata for this photograph optimized for stock-photography search: a literal title, " +
			"a plain caption, and many specific keywords. " + jsonAnswerContract,
		"minimal": "Write short, minimal metadata for this photograph. Keep the caption under 15 words. " + jsonAnswerContract,
	}
}
