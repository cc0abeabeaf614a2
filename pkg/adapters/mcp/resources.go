package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aretw0/funnelkit"
	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerResources() {
	// EXPOSE: funnel://{id}
	s.mcpServer.AddResourceTemplate(mcp.NewResourceTemplate(ResourceScheme+"{id}", "Funnel document",
		mcp.WithTemplateDescription("Current document of an open or stored funnel"),
		mcp.WithTemplateMIMEType("application/json"),
	), s.readFunnel)
}

func (s *Server) readFunnel(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := request.Params.URI
	id := strings.TrimPrefix(uri, ResourceScheme)
	if id == "" || id == uri {
		return nil, fmt.Errorf("invalid funnel URI %q", uri)
	}

	var body []byte
	err := s.sessions.Do(ctx, id, func(ed *funnelkit.Editor) error {
		var err error
		body, err = json.Marshal(ed.Document())
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read funnel: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(body),
		},
	}, nil
}
