package services

import (
	"strings"

	"github.com/custodia-labs/hrdesk-cli/internal/core/domain"
)

// Synopsis is a curated policy summary injected ahead of retrieval
// results when a query matches its triggers. Synopses cover topics
// whose answers are scattered across a long document, where chunked
// retrieval alone surfaces fragments.
type Synopsis struct {
	// Triggers must all appear in the query (case insensitive).
	Triggers []string

	// Source is the policy document the synopsis condenses.
	Source string

	// Content is the summary text.
	Content string
}

// Synthetic results sort ahead of any organic hit and carry a
// negative chunk ID so they can never collide with corpus chunks or
// take part in adjacency merging.
const (
	synopsisScore   = 9999.0
	synopsisChunkID = -998
)

// DefaultSynopses returns the built-in synopsis table.
func DefaultSynopses() []Synopsis {
	return []Synopsis{
		{
			Triggers: []string{"sick", "leave"},
			Source:   "Sickness-And-Absence-Policy.docx",
			Content: "Company sick leave requires employees to follow notification " +
				"and certification rules to access Company Sick Pay (CSP). Eligible " +
				"employees receive their normal basic salary for a contract-defined " +
				"number of paid sick days each calendar year. The business monitors " +
				"absence patterns, can request medical examinations or return-to-work " +
				"interviews, and may terminate employment even while CSP is paid. All " +
				"medical information is processed under the Employee Data Protection Policy.",
		},
	}
}

// matchSynopsis returns the first synopsis whose triggers all appear
// in the query, rendered as a search result.
func matchSynopsis(synopses []Synopsis, query string) (domain.SearchResult, bool) {
	lower := strings.ToLower(query)
	for _, syn := range synopses {
		if len(syn.Triggers) == 0 {
			continue
		}
		matched := true
		for _, trigger := range syn.Triggers {
			if !strings.Contains(lower, strings.ToLower(trigger)) {
				matched = false
				break
			}
		}
		if matched {
			return domain.SearchResult{
				Content: syn.Content,
				Source:  syn.Source,
				Score:   synopsisScore,
				ChunkID: synopsisChunkID,
			}, true
		}
	}
	return domain.SearchResult{}, false
}
