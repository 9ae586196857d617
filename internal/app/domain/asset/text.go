package asset

import (
	"strings"
	"unicode"
)

// TextMatcher decides whether an asset matches a free-text query. Stores that
// evaluate predicates in process use it; SQL stores translate the same
// semantics into their own index query.
type TextMatcher interface {
	Matches(a Asset, query string) bool
}

// TextMatcherFunc adapts a function to TextMatcher.
type TextMatcherFunc func(a Asset, query string) bool

func (f TextMatcherFunc) Matches(a Asset, query string) bool {
	return f(a, query)
}

// TokenMatcher matches when any query token equals any token of the title,
// description or tags. Tokens are case-folded letter/digit runs. A blank
// query matches everything; a non-blank query without tokens matches nothing.
type TokenMatcher struct{}

func (TokenMatcher) Matches(a Asset, query string) bool {
	terms := Tokenize(query)
	if len(terms) == 0 {
		return strings.TrimSpace(query) == ""
	}
	indexed := make(map[string]struct{})
	for _, tok := range IndexedTokens(a) {
		indexed[tok] = struct{}{}
	}
	for _, term := range terms {
		if _, ok := indexed[term]; ok {
			return true
		}
	}
	return false
}

// IndexedTokens returns the searchable tokens of an asset.
func IndexedTokens(a Asset) []string {
	tokens := Tokenize(a.Title)
	tokens = append(tokens, Tokenize(a.Description)...)
	for _, tag := range a.Tags {
		tokens = append(tokens, Tokenize(tag)...)
	}
	return tokens
}

// Tokenize lower-cases s and splits it on every rune that is neither a letter
// nor a digit. Repeated tokens are kept once, in first-seen order.
func Tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := fields[:0]
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}
