package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// uriScheme is the custom URI scheme for HRDesk resources.
const uriScheme = "hrdesk://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Response cache counters, for assistants that surface health info.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "cache/stats",
		Name:        "cache-stats",
		Description: "Response cache hit/miss counters and size gauges",
		MIMEType:    "application/json",
	}, s.handleCacheStatsResource)

	// Sources cited by the most recent search.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "sources",
		Name:        "sources",
		Description: "Policy files cited by the most recent search",
		MIMEType:    "application/json",
	}, s.handleSourcesResource)
}

// handleCacheStatsResource returns the answer cache counters.
func (s *Server) handleCacheStatsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	text := "{}"
	if s.ports.Answers != nil {
		data, err := json.MarshalIndent(s.ports.Answers.Stats(), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshalling cache stats: %w", err)
		}
		text = string(data)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     text,
		}},
	}, nil
}

// handleSourcesResource returns the sources the last search cited.
func (s *Server) handleSourcesResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	sources := s.ports.Retriever.LastSources()
	if sources == nil {
		sources = []string{}
	}

	data, err := json.MarshalIndent(sources, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling sources: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
