package mcp

import (
	"context"

	"github.com/custodia-labs/topicchat/internal/core/domain"
)

// mockChatService is a mock implementation of driving.ChatService.
type mockChatService struct {
	state domain.SessionState

	topics    []domain.Topic
	loadErr   error
	selectErr error
	sendMsg   *domain.Message
	sendErr   error

	loadCalls   int
	selected    []domain.Topic
	sentQueries []string
}

func (m *mockChatService) LoadTopics(_ context.Context) ([]domain.Topic, error) {
	m.loadCalls++
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	m.state.Topics = m.topics
	return m.topics, nil
}

func (m *mockChatService) SelectTopic(_ context.Context, topic domain.Topic) error {
	m.selected = append(m.selected, topic)
	if m.selectErr != nil {
		return m.selectErr
	}
	m.state.CurrentTopic = topic
	return nil
}

func (m *mockChatService) Send(_ context.Context, text string) (*domain.Message, error) {
	m.sentQueries = append(m.sentQueries, text)
	return m.sendMsg, m.sendErr
}

func (m *mockChatService) State() domain.SessionState {
	return m.state
}
