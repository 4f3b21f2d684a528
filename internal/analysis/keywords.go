// Package analysis derives presentation data from note text: the popular
// keyword list for a set of notes and a representative icon per note title.
// Everything here is pure and safe for concurrent use.
package analysis

import (
	"regexp"
	"slices"
	"strings"
)

// MaxKeywords is the length cap of ExtractKeywords.
const MaxKeywords = 5

const minKeywordLength = 4

// urlPattern matches, in order of preference, scheme-prefixed URLs,
// "www." URLs that start a token (the leading separator is part of the
// match and trimmed afterwards) and bare domains with an optional path.
var urlPattern = regexp.MustCompile(`https?://\S+|\swww\.\S+|[a-z0-9][a-z0-9-]{1,61}[a-z0-9]\.[a-z]{2,}(?:/\S*)?`)

type KeywordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// Source is the text of one note as seen by the keyword ranker.
type Source struct {
	Title       string
	Description string
}

// ExtractKeywords ranks the words of all sources by frequency and returns the
// top MaxKeywords. URLs count as single keywords. Ties keep first-seen order.
func ExtractKeywords(sources []Source) []KeywordCount {
	counts := make(map[string]int)
	var order []string

	add := func(word string) {
		if _, seen := counts[word]; !seen {
			order = append(order, word)
		}
		counts[word]++
	}

	for _, src := range sources {
		text := " " + strings.ToLower(src.Title+" "+src.Description)

		spans := findURLs(text)
		for _, span := range spans {
			add(text[span[0]:span[1]])
		}

		for _, token := range strings.Fields(cutSpans(text, spans)) {
			word := cleanToken(token)
			if !isKeyword(word) {
				continue
			}
			add(word)
		}
	}

	result := make([]KeywordCount, 0, len(order))
	for _, word := range order {
		result = append(result, KeywordCount{Word: word, Count: counts[word]})
	}

	slices.SortStableFunc(result, func(a, b KeywordCount) int {
		return b.Count - a.Count
	})

	if len(result) > MaxKeywords {
		result = result[:MaxKeywords]
	}
	return result
}

func findURLs(text string) [][2]int {
	var spans [][2]int
	for pos := 0; pos < len(text); {
		loc := urlPattern.FindStringIndex(text[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]

		switch {
		case isASCIISpace(text[start]):
			start++
		case strings.HasPrefix(text[start:end], "www."):
			// a bare domain may not begin with "www."; a www URL glued to a
			// preceding character is rescanned from the next byte
			pos = start + 1
			continue
		}

		spans = append(spans, [2]int{start, end})
		pos = end
	}
	return spans
}

func cutSpans(text string, spans [][2]int) string {
	if len(spans) == 0 {
		return text
	}

	var b strings.Builder
	last := 0
	for _, span := range spans {
		b.WriteString(text[last:span[0]])
		last = span[1]
	}
	b.WriteString(text[last:])
	return b.String()
}

// cleanToken keeps only word characters ([A-Za-z0-9_]).
func cleanToken(token string) string {
	var b strings.Builder
	for _, r := range token {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isKeyword(word string) bool {
	if word == "" || len(word) < minKeywordLength {
		return false
	}
	if isStopWord(word) {
		return false
	}
	return !strings.ContainsAny(word, "0123456789")
}

func isASCIISpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}
