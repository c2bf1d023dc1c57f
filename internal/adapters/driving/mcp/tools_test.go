package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/topicchat/internal/core/domain"
)

func newTestServer(t *testing.T, chat *mockChatService) *Server {
	t.Helper()
	server, err := NewServer(&Ports{Chat: chat})
	require.NoError(t, err)
	return server
}

func TestServer_handleListTopics(t *testing.T) {
	ctx := context.Background()

	t.Run("loads topics when none are loaded", func(t *testing.T) {
		chat := &mockChatService{topics: []domain.Topic{"RDBMS", "Python_Programming"}}
		server := newTestServer(t, chat)

		_, output, err := server.handleListTopics(ctx, nil, ListTopicsInput{})

		require.NoError(t, err)
		assert.Equal(t, 1, chat.loadCalls)
		assert.Equal(t, 2, output.Count)
		assert.Equal(t, TopicOutput{ID: "Python_Programming", Name: "Python Programming"}, output.Topics[1])
	})

	t.Run("uses loaded topics without reload", func(t *testing.T) {
		chat := &mockChatService{state: domain.SessionState{
			Topics:       []domain.Topic{"RDBMS"},
			CurrentTopic: "RDBMS",
		}}
		server := newTestServer(t, chat)

		_, output, err := server.handleListTopics(ctx, nil, ListTopicsInput{})

		require.NoError(t, err)
		assert.Equal(t, 0, chat.loadCalls)
		assert.Equal(t, "RDBMS", output.Active)
	})

	t.Run("reload forces a fetch", func(t *testing.T) {
		chat := &mockChatService{
			state:  domain.SessionState{Topics: []domain.Topic{"Old"}},
			topics: []domain.Topic{"New"},
		}
		server := newTestServer(t, chat)

		_, output, err := server.handleListTopics(ctx, nil, ListTopicsInput{Reload: true})

		require.NoError(t, err)
		assert.Equal(t, 1, chat.loadCalls)
		assert.Equal(t, "New", output.Topics[0].ID)
	})

	t.Run("backend error uses server text", func(t *testing.T) {
		chat := &mockChatService{loadErr: &domain.HTTPError{StatusCode: 500, Message: "PDF directory missing"}}
		server := newTestServer(t, chat)

		_, _, err := server.handleListTopics(ctx, nil, ListTopicsInput{})

		require.Error(t, err)
		assert.Equal(t, "PDF directory missing", err.Error())
	})

	t.Run("empty list is not an error", func(t *testing.T) {
		chat := &mockChatService{topics: []domain.Topic{}}
		server := newTestServer(t, chat)

		_, output, err := server.handleListTopics(ctx, nil, ListTopicsInput{})

		require.NoError(t, err)
		assert.Equal(t, 0, output.Count)
		assert.NotNil(t, output.Topics)
	})
}

func TestServer_handleSelectTopic(t *testing.T) {
	ctx := context.Background()

	t.Run("selects topic", func(t *testing.T) {
		chat := &mockChatService{}
		server := newTestServer(t, chat)

		_, output, err := server.handleSelectTopic(ctx, nil, SelectTopicInput{Topic: "Data_Visualization"})

		require.NoError(t, err)
		assert.Equal(t, "Data Visualization", output.Name)
		assert.Equal(t, "Now ready to answer questions about Data Visualization", output.Message)
	})

	t.Run("already active is not an error", func(t *testing.T) {
		chat := &mockChatService{selectErr: domain.ErrTopicActive}
		server := newTestServer(t, chat)

		_, output, err := server.handleSelectTopic(ctx, nil, SelectTopicInput{Topic: "RDBMS"})

		require.NoError(t, err)
		assert.Equal(t, "RDBMS is already active", output.Message)
	})

	t.Run("failure falls back to generic text", func(t *testing.T) {
		chat := &mockChatService{selectErr: &domain.NetworkError{Op: "initialize topic", Err: errors.New("refused")}}
		server := newTestServer(t, chat)

		_, _, err := server.handleSelectTopic(ctx, nil, SelectTopicInput{Topic: "RDBMS"})

		require.Error(t, err)
		assert.Equal(t, "Failed to initialize topic", err.Error())
	})
}

func TestServer_handleAsk(t *testing.T) {
	ctx := context.Background()

	t.Run("returns plain answer with sources", func(t *testing.T) {
		chat := &mockChatService{
			state: domain.SessionState{CurrentTopic: "RDBMS"},
			sendMsg: &domain.Message{
				Role:    domain.RoleAssistant,
				Content: domain.Sanitize("Use <JOIN> & filter"),
				Sources: []domain.Citation{
					{Page: 4, Source: "PDF/RDBMS/joins.pdf"},
					{Page: domain.UnknownPage, Source: "misc.pdf"},
				},
			},
		}
		server := newTestServer(t, chat)

		_, output, err := server.handleAsk(ctx, nil, AskInput{Question: "How?"})

		require.NoError(t, err)
		assert.Equal(t, "Use <JOIN> & filter", output.Answer)
		assert.Equal(t, "RDBMS", output.Topic)
		require.Len(t, output.Sources, 2)
		assert.Equal(t, SourceOutput{Page: "4", File: "joins.pdf", Label: "Page 4 in joins.pdf"}, output.Sources[0])
		assert.Equal(t, "Unknown", output.Sources[1].Page)
		assert.Empty(t, chat.selected)
	})

	t.Run("selects topic first when given", func(t *testing.T) {
		chat := &mockChatService{sendMsg: &domain.Message{Content: "ok"}}
		server := newTestServer(t, chat)

		_, output, err := server.handleAsk(ctx, nil, AskInput{Question: "q", Topic: "RDBMS"})

		require.NoError(t, err)
		assert.Equal(t, []domain.Topic{"RDBMS"}, chat.selected)
		assert.Equal(t, "RDBMS", output.Topic)
	})

	t.Run("active topic is reused", func(t *testing.T) {
		chat := &mockChatService{
			state:     domain.SessionState{CurrentTopic: "RDBMS"},
			selectErr: domain.ErrTopicActive,
			sendMsg:   &domain.Message{Content: "ok"},
		}
		server := newTestServer(t, chat)

		_, _, err := server.handleAsk(ctx, nil, AskInput{Question: "q", Topic: "RDBMS"})

		require.NoError(t, err)
		assert.Equal(t, []string{"q"}, chat.sentQueries)
	})

	t.Run("no active topic", func(t *testing.T) {
		chat := &mockChatService{sendErr: domain.ErrNoActiveTopic}
		server := newTestServer(t, chat)

		_, _, err := server.handleAsk(ctx, nil, AskInput{Question: "q"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "select_topic")
	})

	t.Run("application error text is surfaced", func(t *testing.T) {
		chat := &mockChatService{
			state:   domain.SessionState{CurrentTopic: "RDBMS"},
			sendMsg: &domain.Message{Content: domain.Apology},
			sendErr: &domain.ApplicationError{Message: "model unavailable"},
		}
		server := newTestServer(t, chat)

		_, _, err := server.handleAsk(ctx, nil, AskInput{Question: "q"})

		require.Error(t, err)
		assert.Equal(t, "model unavailable", err.Error())
	})
}

func TestServer_handleTranscript(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	chat := &mockChatService{state: domain.SessionState{
		CurrentTopic: "RDBMS",
		Messages: []domain.Message{
			{Role: domain.RoleSystem, Content: "Now ready to answer questions about RDBMS", Timestamp: ts},
			{Role: domain.RoleUser, Content: domain.Sanitize("a < b?"), Timestamp: ts},
			{Role: domain.RoleAssistant, Content: "yes", Timestamp: ts, Sources: []domain.Citation{{Page: 1, Source: "x.pdf"}}},
		},
	}}
	server := newTestServer(t, chat)

	_, all, err := server.handleTranscript(context.Background(), nil, TranscriptInput{})
	require.NoError(t, err)
	assert.Equal(t, 3, all.Count)
	assert.Equal(t, "a < b?", all.Messages[1].Content)
	assert.Equal(t, "2024-05-01T12:00:00Z", all.Messages[0].Timestamp)
	assert.Equal(t, "RDBMS", all.Topic)

	_, last, err := server.handleTranscript(context.Background(), nil, TranscriptInput{Limit: 1})
	require.NoError(t, err)
	require.Equal(t, 1, last.Count)
	assert.Equal(t, "assistant", last.Messages[0].Role)
	assert.Len(t, last.Messages[0].Sources, 1)
}

func TestToolError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"empty question", domain.ErrEmptyQuestion, "question is empty"},
		{"send in progress", domain.ErrSendInProgress, "a previous question is still being answered"},
		{"pending", domain.ErrSelectionPending, "topic selection already in progress"},
		{"cancelled", domain.ErrCancelled, "request cancelled"},
		{"http without text", &domain.HTTPError{StatusCode: 503}, "HTTP error! status: 503"},
		{"network", &domain.NetworkError{Op: "ask", Err: errors.New("x")}, "fallback"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, toolError(tt.err, "fallback").Error())
		})
	}
}
