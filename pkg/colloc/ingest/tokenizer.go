package ingest

import (
	"strings"
	"unicode"
)

// Tokenizer splits text into normalized word tokens suitable for
// collocation counting: lowercased, hyphen-cleaned, with stopwords and
// pure-numeric tokens removed.
type Tokenizer struct {
	stopwords map[string]struct{}
}

// NewTokenizer creates a tokenizer with the given stopword list.
func NewTokenizer(stopwords []string) *Tokenizer {
	stops := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		stops[strings.ToLower(w)] = struct{}{}
	}
	return &Tokenizer{stopwords: stops}
}

// Tokenize splits text into normalized tokens, dropping stopwords.
// Token characters are letters, digits, and the hyphen; everything else
// separates tokens.
func (t *Tokenizer) Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '-'
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if word := t.normalize(f); word != "" {
			tokens = append(tokens, word)
		}
	}
	return tokens
}

// normalize cleans a raw field and applies the keep/drop rules.
// Single-rune and pure-numeric tokens are dropped; mixed tokens like
// "gpt-4" or "utf-8" are kept.
func (t *Tokenizer) normalize(field string) string {
	word := strings.Trim(field, "-")
	for strings.Contains(word, "--") {
		word = strings.ReplaceAll(word, "--", "-")
	}

	if len(word) <= 1 {
		return ""
	}
	if isNumericOnly(word) {
		return ""
	}
	if _, stop := t.stopwords[word]; stop {
		return ""
	}
	return word
}

// AddStopword adds a word to the stopword list.
func (t *Tokenizer) AddStopword(word string) {
	t.stopwords[strings.ToLower(word)] = struct{}{}
}

func isNumericOnly(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) && r != '-' {
			return false
		}
	}
	return true
}
