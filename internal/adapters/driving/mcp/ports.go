package mcp

import (
	"github.com/custodia-labs/hrdesk-cli/internal/core/ports/driven"
	"github.com/custodia-labs/hrdesk-cli/internal/core/ports/driving"
)

// Ports aggregates everything the MCP server needs from the core.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Retriever answers document search requests.
	Retriever driving.Retriever

	// Answers is the response cache consulted around the external
	// answerer. Optional; without it hr_ask always retrieves.
	Answers driven.AnswerCache
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Retriever == nil {
		return ErrMissingRetriever
	}
	// Answers is optional
	return nil
}
