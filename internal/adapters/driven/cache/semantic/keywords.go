package semantic

import (
	"strings"
	"unicode"
)

// stopWords are filtered before similarity matching; they carry no
// signal about which policy a question targets.
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {},
	"be": {}, "by": {}, "can": {}, "do": {}, "does": {}, "for": {},
	"from": {}, "get": {}, "have": {}, "how": {}, "i": {}, "if": {},
	"in": {}, "is": {}, "it": {}, "many": {}, "me": {}, "much": {},
	"my": {}, "of": {}, "on": {}, "or": {}, "our": {}, "per": {},
	"the": {}, "there": {}, "to": {}, "us": {}, "we": {}, "what": {},
	"when": {}, "where": {}, "which": {}, "who": {}, "will": {},
	"with": {}, "you": {}, "your": {},
}

// keywords extracts the stop-word-filtered token set of a query.
func keywords(query string) map[string]struct{} {
	tokens := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	set := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		if _, skip := stopWords[tok]; skip {
			continue
		}
		set[tok] = struct{}{}
	}
	return set
}
