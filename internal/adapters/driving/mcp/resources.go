package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/topicchat/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for topicchat resources.
	uriScheme = "topicchat://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "topics",
		Name:        "topics",
		Description: "Topics loaded from the backend",
		MIMEType:    "application/json",
	}, s.handleTopicsResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "transcript",
		Name:        "transcript",
		Description: "The current conversation as plain text",
		MIMEType:    "text/plain",
	}, s.handleTranscriptResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "topics/{topic}",
		Name:        "topic",
		Description: "Display name and state of a single topic",
		MIMEType:    "application/json",
	}, s.handleTopicResource)
}

// handleTopicsResource returns the loaded topic list.
func (s *Server) handleTopicsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	state := s.ports.Chat.State()

	infos := make([]TopicOutput, len(state.Topics))
	for i, t := range state.Topics {
		infos[i] = TopicOutput{ID: t.String(), Name: t.DisplayName()}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling topics: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleTranscriptResource returns the transcript as "Label: content" lines.
func (s *Server) handleTranscriptResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	var b strings.Builder
	for _, m := range s.ports.Chat.State().Messages {
		fmt.Fprintf(&b, "%s: %s\n", m.Role.Label(), domain.Unsanitize(m.Content))
		for _, c := range m.Sources {
			fmt.Fprintf(&b, "  - %s\n", domain.Unsanitize(c.String()))
		}
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     b.String(),
		}},
	}, nil
}

// handleTopicResource returns one topic.
func (s *Server) handleTopicResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id := extractTopicID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	state := s.ports.Chat.State()
	topic := domain.Topic(id)
	found := false
	for _, t := range state.Topics {
		if t == topic {
			found = true
			break
		}
	}
	if !found {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	info := struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Active  bool   `json:"active"`
		Pending bool   `json:"pending"`
	}{
		ID:      topic.String(),
		Name:    topic.DisplayName(),
		Active:  state.CurrentTopic == topic,
		Pending: state.TopicLoading && state.PendingTopic == topic,
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling topic: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractTopicID extracts the topic from a URI like topicchat://topics/{topic}.
func extractTopicID(uri string) string {
	const prefix = uriScheme + "topics/"

	id, ok := strings.CutPrefix(uri, prefix)
	if !ok || strings.Contains(id, "/") {
		return ""
	}
	return id
}
