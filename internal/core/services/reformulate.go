package services

import "strings"

// expansion maps query trigger phrases to policy vocabulary appended
// before retrieval. HR queries use everyday wording ("can I work from
// home") while the corpus uses policy register ("Home Working Policy");
// the appended terms bridge the two for the lexical leg.
type expansion struct {
	// triggers fire the group when any of them appears in the query.
	triggers []string

	// terms are appended to the query, skipping ones already present.
	terms []string
}

var expansions = []expansion{
	{
		triggers: []string{"sick leave", "sickness", "absence"},
		terms:    []string{"sickness and absence", "statutory sick pay", "SSP", "fit note"},
	},
	{
		triggers: []string{"email", "social media", "internet"},
		terms:    []string{"communications policy", "acceptable use", "internet policy"},
	},
	{
		triggers: []string{"home working", "remote", "hybrid"},
		terms:    []string{"home working policy", "home-working", "remote work rules"},
	},
	{
		triggers: []string{"notice"},
		terms:    []string{"notice periods policy", "resignation notice", "termination notice"},
	},
	{
		triggers: []string{"parental", "maternity", "paternity", "shared parental"},
		terms:    []string{"maternity policy", "paternity policy", "shared parental leave", "SPL"},
	},
	{
		triggers: []string{"redundancy"},
		terms:    []string{"consultation", "selection criteria", "redundant", "layoff"},
	},
	{
		triggers: []string{"retirement"},
		terms:    []string{"flexible retirement", "no compulsory retirement age"},
	},
	{
		triggers: []string{"byod", "own device"},
		terms:    []string{"bring your own device", "device security", "mobile device"},
	},
}

// Reformulate expands a user query with domain vocabulary. Terms keep
// the order their groups are declared in, so the output is
// deterministic for a given query. Queries matching no group pass
// through unchanged.
func Reformulate(query string) string {
	lower := strings.ToLower(query)

	var extra []string
	seen := make(map[string]struct{})
	for _, exp := range expansions {
		if !containsAny(lower, exp.triggers) {
			continue
		}
		for _, term := range exp.terms {
			key := strings.ToLower(term)
			if strings.Contains(lower, key) {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			extra = append(extra, term)
		}
	}

	if len(extra) == 0 {
		return query
	}
	return query + " " + strings.Join(extra, " ")
}

func containsAny(haystack string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}
