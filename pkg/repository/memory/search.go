package memory

import "strings"

// tokenize splits free text into lowercased terms on any non-alphanumeric
// boundary. The same rule is applied to indexed fields and to queries, so
// that a query term matches regardless of case or surrounding punctuation.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		switch {
		case r >= 'a' && r <= 'z':
			return false
		case r >= '0' && r <= '9':
			return false
		default:
			return true
		}
	})
	return fields
}

// matchesQuery reports whether any query term appears among the document
// tokens. Multi-term queries are OR-combined, matching the search
// semantics of the backing text index.
func matchesQuery(docTokens []string, query string) bool {
	terms := tokenize(query)
	if len(terms) == 0 {
		return false
	}

	set := make(map[string]struct{}, len(docTokens))
	for _, tok := range docTokens {
		set[tok] = struct{}{}
	}

	for _, term := range terms {
		if _, ok := set[term]; ok {
			return true
		}
	}
	return false
}
