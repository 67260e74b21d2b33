package firestore

import (
	"sort"
	"strings"
)

// maxQueryTerms is the Firestore limit on array-contains-any values
const maxQueryTerms = 10

// searchTokens builds the lowercased token set stored on full-text indexed
// documents. Each text value is split on non-alphanumeric boundaries; the
// same rule is applied to queries so a term matches regardless of case or
// punctuation.
func searchTokens(values ...string) []string {
	set := make(map[string]struct{})
	for _, value := range values {
		for _, tok := range tokenize(value) {
			set[tok] = struct{}{}
		}
	}

	tokens := make([]string, 0, len(set))
	for tok := range set {
		tokens = append(tokens, tok)
	}
	sort.Strings(tokens)
	return tokens
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		switch {
		case r >= 'a' && r <= 'z':
			return false
		case r >= '0' && r <= '9':
			return false
		default:
			return true
		}
	})
}

// queryTerms prepares a free-text query for an array-contains-any match,
// truncated to the backend's term limit.
func queryTerms(query string) []string {
	terms := tokenize(query)
	if len(terms) > maxQueryTerms {
		terms = terms[:maxQueryTerms]
	}
	return terms
}
