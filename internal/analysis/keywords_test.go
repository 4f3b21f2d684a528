package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractKeywords_RanksByCount(t *testing.T) {
	got := ExtractKeywords([]Source{{Description: "coffee coffee tea"}})

	require.NotEmpty(t, got)
	assert.Equal(t, KeywordCount{Word: "coffee", Count: 2}, got[0])
	for _, kw := range got {
		assert.NotEqual(t, "tea", kw.Word, "three letter tokens are dropped")
	}
}

func TestExtractKeywords_DropsShortAndStopWords(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"short words", "the cat sat"},
		{"stop words", "themselves ourselves against between"},
		{"digits", "2024 room42 abc1"},
		{"punctuation only", "!!! ... ???"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, ExtractKeywords([]Source{{Description: tt.text}}))
		})
	}
}

func TestExtractKeywords_CountsURLsAsOneKeyword(t *testing.T) {
	got := ExtractKeywords([]Source{{Description: "check www.example.com now"}})

	words := make(map[string]int)
	for _, kw := range got {
		words[kw.Word] = kw.Count
	}

	assert.Equal(t, 1, words["www.example.com"])
	assert.Equal(t, 1, words["check"])
	assert.NotContains(t, words, "www")
	assert.NotContains(t, words, "example")
	assert.NotContains(t, words, "com")
	assert.NotContains(t, words, "examplecom")
}

func TestExtractKeywords_URLShapes(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"scheme", "docs at https://go.dev/doc/effective_go today", "https://go.dev/doc/effective_go"},
		{"www at start", "www.golang.org rocks", "www.golang.org"},
		{"bare domain", "visit golang.org/pkg please", "golang.org/pkg"},
		{"uppercase", "See HTTP://Example.COM", "http://example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractKeywords([]Source{{Description: tt.text}})
			var words []string
			for _, kw := range got {
				words = append(words, kw.Word)
			}
			assert.Contains(t, words, tt.want)
		})
	}
}

func TestExtractKeywords_WWWMustStartAToken(t *testing.T) {
	got := ExtractKeywords([]Source{{Description: "see:www.example.com"}})

	words := make(map[string]int)
	for _, kw := range got {
		words[kw.Word] = kw.Count
	}

	assert.Equal(t, 1, words["example.com"])
	assert.NotContains(t, words, "www.example.com")
}

func TestExtractKeywords_CorpusWideAndStable(t *testing.T) {
	notes := []Source{
		{Title: "Garden", Description: "water plants"},
		{Title: "Errands", Description: "water bills, groceries"},
		{Title: "", Description: "plants groceries garden"},
	}

	got := ExtractKeywords(notes)

	require.Len(t, got, 5)
	assert.Equal(t, []KeywordCount{
		{Word: "garden", Count: 2},
		{Word: "water", Count: 2},
		{Word: "plants", Count: 2},
		{Word: "groceries", Count: 2},
		{Word: "errands", Count: 1},
	}, got)
}

func TestExtractKeywords_Deterministic(t *testing.T) {
	notes := []Source{
		{Title: "Trip", Description: "pack boots jacket maps boots"},
		{Title: "Books", Description: "novel maps atlas"},
	}

	first := ExtractKeywords(notes)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ExtractKeywords(notes))
	}
}
