package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKeywordsSplitsTrimsAndDropsEmpties(t *testing.T) {
	keywords := ParseKeywords("cat, dog ,  bird,,")

	require.Len(t, keywords, 3)
	assert.Equal(t, "cat", keywords[0].Description)
	assert.Equal(t, "dog", keywords[1].Description)
	assert.Equal(t, "bird", keywords[2].Description)
	for _, kw := range keywords {
		assert.True(t, kw.Selected, "every parsed keyword starts selected")
	}
}

func TestParseKeywordsEmptyInput(t *testing.T) {
	assert.Empty(t, ParseKeywords(""))
	assert.Empty(t, ParseKeywords(" , ,, "))
	assert.NotNil(t, ParseKeywords(""))
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "bare json", in: `{"title":"x"}`, want: `{"title":"x"}`},
		{name: "fenced with language", in: "```json\n{\"title\":\"x\"}\n```", want: `{"title":"x"}`},
		{name: "fenced without language", in: "```\n{\"title\":\"x\"}\n```", want: `{"title":"x"}`},
		{name: "surrounding whitespace", in: "  \n```json\n{}\n```  ", want: "{}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripCodeFence(tt.in))
		})
	}
}

func TestResultFromModelTextMapsAllFields(t *testing.T) {
	text := `{"title":"Dune","caption":"Sand at dawn","headline":"Desert light",` +
		`"keywords":"desert, dune, dawn","instructions":"none","copyright":"© A",` +
		`"location":"Sossusvlei"}`

	res := resultFromModelText(text)

	require.True(t, res.Succeeded)
	assert.Equal(t, "Dune", res.Title)
	assert.Equal(t, "Sand at dawn", res.Caption)
	assert.Equal(t, "Desert light", res.Headline)
	assert.Equal(t, "none", res.Instructions)
	assert.Equal(t, "© A", res.Copyright)
	assert.Equal(t, "Sossusvlei", res.Location)
	require.Len(t, res.Keywords, 3)
	assert.Equal(t, "dune", res.Keywords[1].Description)
}

func TestResultFromModelTextDegradesToEmptySuccess(t *testing.T) {
	for _, text := range []string{"", "not json at all", "{broken"} {
		res := resultFromModelText(text)

		require.True(t, res.Succeeded, "HTTP exchange succeeded, so the call did too")
		assert.Empty(t, res.Title)
		assert.NotNil(t, res.Keywords, "keywords must be iterable even when empty")
		assert.Empty(t, res.Keywords)
		assert.Empty(t, res.ErrorMessage)
	}
}

func TestFailureHasEmptyDescriptiveFields(t *testing.T) {
	res := Failure("boom")

	assert.False(t, res.Succeeded)
	assert.Equal(t, "boom", res.ErrorMessage)
	assert.Empty(t, res.Title)
	assert.Empty(t, res.Keywords)
}

func TestUpstreamErrorMessage(t *testing.T) {
	assert.Equal(t, "quota exceeded", upstreamErrorMessage([]byte(`{"error":{"message":"quota exceeded"}}`)))
	assert.Equal(t, "Unknown error", upstreamErrorMessage([]byte(`{}`)))
	assert.Equal(t, "Unknown error", upstreamErrorMessage([]byte(`garbage`)))
}
