package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SearchInput is the input schema for the hr_document_search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the HR policy question or keywords to search for"`
	TopK  int    `json:"top_k,omitempty" jsonschema:"maximum number of passages to return (default from settings)"`
}

// SearchOutput is the output schema for the hr_document_search tool.
type SearchOutput struct {
	// Result is the formatted result block, or NO_RELEVANT_DOCUMENTS.
	Result string `json:"result"`

	// Sources are the policy files the result block cites.
	Sources []string `json:"sources,omitempty"`
}

// AskInput is the input schema for the hr_ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the employee's question"`
	Context  string `json:"context,omitempty" jsonschema:"optional conversation context distinguishing otherwise identical questions"`
	Answer   string `json:"answer,omitempty" jsonschema:"a final answer to store for this question instead of asking"`
}

// AskOutput is the output schema for the hr_ask tool.
type AskOutput struct {
	// Answer is the cached answer, when one was found.
	Answer string `json:"answer,omitempty"`

	// Cached reports whether Answer came from the response cache.
	Cached bool `json:"cached"`

	// Stored reports whether an incoming answer was written.
	Stored bool `json:"stored,omitempty"`

	// Context is the retrieved policy context for the caller's model,
	// present only on a cache miss.
	Context string `json:"context,omitempty"`

	// Sources are the policy files Context cites.
	Sources []string `json:"sources,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "hr_document_search",
		Description: "Search the indexed HR policy documents and return the most relevant passages with source citations",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "hr_ask",
		Description: "Answer an HR question from the response cache, or return retrieved policy context to answer from; pass answer to store a final answer for reuse",
	}, s.handleAsk)
}

// handleSearch handles the hr_document_search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	result, err := s.ports.Retriever.SearchFormatted(ctx, input.Query, input.TopK)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	return nil, SearchOutput{
		Result:  result,
		Sources: s.ports.Retriever.LastSources(),
	}, nil
}

// handleAsk handles the hr_ask tool invocation. With an answer supplied
// it is the put side of the cache; otherwise it is the get side,
// falling back to retrieval on a miss.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	if input.Answer != "" {
		if s.ports.Answers != nil {
			s.ports.Answers.Set(input.Question, input.Answer, input.Context)
		}
		return nil, AskOutput{Stored: true}, nil
	}

	if s.ports.Answers != nil {
		if answer, ok := s.ports.Answers.Get(input.Question, input.Context); ok {
			return nil, AskOutput{Answer: answer, Cached: true}, nil
		}
	}

	block, err := s.ports.Retriever.SearchFormatted(ctx, input.Question, 0)
	if err != nil {
		return nil, AskOutput{}, err
	}

	return nil, AskOutput{
		Context: block,
		Sources: s.ports.Retriever.LastSources(),
	}, nil
}
