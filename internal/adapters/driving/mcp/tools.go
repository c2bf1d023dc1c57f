package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/topicchat/internal/adapters/driving/render"
	"github.com/custodia-labs/topicchat/internal/core/domain"
)

// ListTopicsInput is the input schema for the list_topics tool.
type ListTopicsInput struct {
	Reload bool `json:"reload,omitempty" jsonschema:"fetch the topic list from the backend even if it is already loaded"`
}

// ListTopicsOutput is the output schema for the list_topics tool.
type ListTopicsOutput struct {
	Topics []TopicOutput `json:"topics"`
	Count  int           `json:"count"`
	Active string        `json:"active,omitempty"`
}

// TopicOutput describes one topic.
type TopicOutput struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SelectTopicInput is the input schema for the select_topic tool.
type SelectTopicInput struct {
	Topic string `json:"topic" jsonschema:"the topic identifier as returned by list_topics"`
}

// SelectTopicOutput is the output schema for the select_topic tool.
type SelectTopicOutput struct {
	Topic   string `json:"topic"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to ask about the active topic"`
	Topic    string `json:"topic,omitempty" jsonschema:"topic to select first if it is not already active"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer  string         `json:"answer"`
	Topic   string         `json:"topic"`
	Sources []SourceOutput `json:"sources,omitempty"`
}

// SourceOutput is one citation of an answer.
type SourceOutput struct {
	Page  string `json:"page"`
	File  string `json:"file"`
	Label string `json:"label"`
}

// TranscriptInput is the input schema for the transcript tool.
type TranscriptInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"return only the most recent messages (default all)"`
}

// TranscriptOutput is the output schema for the transcript tool.
type TranscriptOutput struct {
	Topic    string          `json:"topic,omitempty"`
	Messages []MessageOutput `json:"messages"`
	Count    int             `json:"count"`
}

// MessageOutput is one transcript entry.
type MessageOutput struct {
	Role      string         `json:"role"`
	Content   string         `json:"content"`
	Sources   []SourceOutput `json:"sources,omitempty"`
	Timestamp string         `json:"timestamp"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_topics",
		Description: "List the topics the backend can answer questions about",
	}, s.handleListTopics)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "select_topic",
		Description: "Initialize a topic so questions can be asked about it",
	}, s.handleSelectTopic)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Ask a question about the active topic and get an answer with source citations",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "transcript",
		Description: "Return the conversation so far, including system notices",
	}, s.handleTranscript)
}

// handleListTopics handles the list_topics tool invocation.
func (s *Server) handleListTopics(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListTopicsInput,
) (*mcp.CallToolResult, ListTopicsOutput, error) {
	state := s.ports.Chat.State()
	topics := state.Topics

	if input.Reload || len(topics) == 0 {
		loaded, err := s.ports.Chat.LoadTopics(ctx)
		if err != nil {
			return nil, ListTopicsOutput{}, toolError(err, "Failed to load topics")
		}
		topics = loaded
	}

	output := ListTopicsOutput{
		Topics: make([]TopicOutput, len(topics)),
		Count:  len(topics),
		Active: state.CurrentTopic.String(),
	}
	for i, t := range topics {
		output.Topics[i] = TopicOutput{ID: t.String(), Name: t.DisplayName()}
	}

	return nil, output, nil
}

// handleSelectTopic handles the select_topic tool invocation.
func (s *Server) handleSelectTopic(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SelectTopicInput,
) (*mcp.CallToolResult, SelectTopicOutput, error) {
	topic := domain.Topic(input.Topic)
	output := SelectTopicOutput{Topic: topic.String(), Name: topic.DisplayName()}

	err := s.ports.Chat.SelectTopic(ctx, topic)
	switch {
	case err == nil:
		output.Message = "Now ready to answer questions about " + topic.DisplayName()
	case errors.Is(err, domain.ErrTopicActive):
		output.Message = topic.DisplayName() + " is already active"
	default:
		return nil, SelectTopicOutput{}, toolError(err, "Failed to initialize topic")
	}

	return nil, output, nil
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	if input.Topic != "" {
		err := s.ports.Chat.SelectTopic(ctx, domain.Topic(input.Topic))
		if err != nil && !errors.Is(err, domain.ErrTopicActive) {
			return nil, AskOutput{}, toolError(err, "Failed to initialize topic")
		}
	}

	msg, err := s.ports.Chat.Send(ctx, input.Question)
	if err != nil {
		return nil, AskOutput{}, toolError(err, "Failed to send message")
	}

	return nil, AskOutput{
		Answer:  render.Plain(msg.Content),
		Topic:   s.ports.Chat.State().CurrentTopic.String(),
		Sources: sourcesOutput(msg.Sources),
	}, nil
}

// handleTranscript handles the transcript tool invocation.
func (s *Server) handleTranscript(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input TranscriptInput,
) (*mcp.CallToolResult, TranscriptOutput, error) {
	state := s.ports.Chat.State()
	msgs := state.Messages
	if input.Limit > 0 && input.Limit < len(msgs) {
		msgs = msgs[len(msgs)-input.Limit:]
	}

	output := TranscriptOutput{
		Topic:    state.CurrentTopic.String(),
		Messages: make([]MessageOutput, len(msgs)),
		Count:    len(msgs),
	}
	for i, m := range msgs {
		output.Messages[i] = MessageOutput{
			Role:      string(m.Role),
			Content:   render.Plain(m.Content),
			Sources:   sourcesOutput(m.Sources),
			Timestamp: m.Timestamp.Format(time.RFC3339),
		}
	}

	return nil, output, nil
}

func sourcesOutput(sources []domain.Citation) []SourceOutput {
	if len(sources) == 0 {
		return nil
	}
	out := make([]SourceOutput, len(sources))
	for i, c := range sources {
		page := "Unknown"
		if c.Page != domain.UnknownPage {
			page = fmt.Sprint(c.Page)
		}
		out[i] = SourceOutput{
			Page:  page,
			File:  c.Filename(),
			Label: render.Plain(c.String()),
		}
	}
	return out
}

// toolError turns a service error into the message the assistant sees.
func toolError(err error, fallback string) error {
	switch {
	case errors.Is(err, domain.ErrNoActiveTopic):
		return errors.New("no active topic: call select_topic first")
	case errors.Is(err, domain.ErrEmptyQuestion):
		return errors.New("question is empty")
	case errors.Is(err, domain.ErrSendInProgress):
		return errors.New("a previous question is still being answered")
	case errors.Is(err, domain.ErrSelectionPending):
		return errors.New("topic selection already in progress")
	case domain.IsCancelled(err):
		return errors.New("request cancelled")
	case errors.Is(err, domain.ErrInvalidInput):
		return err
	}
	return errors.New(domain.UserMessage(err, fallback))
}
