package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/topicchat/internal/core/domain"
	"github.com/custodia-labs/topicchat/internal/core/ports/driven"
	"github.com/custodia-labs/topicchat/internal/core/ports/driving"
	"github.com/custodia-labs/topicchat/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// Fallback texts used when the backend supplied no error message.
const (
	msgLoadTopicsFailed = "Failed to load topics"
	msgInitTopicFailed  = "Failed to initialize topic"
	msgSendFailed       = "Failed to send message"
	msgNoTopics         = "No topics available. Contact administrator."
)

// ChatService holds one chat session against a ChatBackend.
//
// All state is guarded by mu; backend calls run outside the lock so any
// number of surfaces may call into the service from their own goroutines.
type ChatService struct {
	backend driven.ChatBackend
	now     func() time.Time
	newID   func() string

	// selection owns the in-flight topic initialisation.
	selection cancelSlot

	mu            sync.Mutex
	transcript    domain.Transcript
	topics        []domain.Topic
	topicsGen     uint64
	currentTopic  domain.Topic
	pendingTopic  domain.Topic
	topicLoading  bool
	topicsLoading bool
	sending       bool

	// epoch advances on every topic change; an answer that arrives for an
	// older epoch is dropped.
	epoch uint64
}

// NewChatService creates a chat session backed by backend.
func NewChatService(backend driven.ChatBackend) *ChatService {
	return &ChatService{
		backend: backend,
		now:     time.Now,
		newID:   uuid.NewString,
		topics:  []domain.Topic{},
	}
}

// LoadTopics fetches the topic list and replaces the current one.
func (s *ChatService) LoadTopics(ctx context.Context) ([]domain.Topic, error) {
	logger.Section("Load Topics")

	s.mu.Lock()
	s.topicsGen++
	gen := s.topicsGen
	s.topicsLoading = true
	s.mu.Unlock()

	topics, err := s.backend.Topics(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.topicsGen {
		// A newer reload owns the list and the loading flag.
		logger.Debug("discarding stale topic list (generation %d)", gen)
		if err != nil {
			return nil, fmt.Errorf("load topics: %w", err)
		}
		return topics, nil
	}
	s.topicsLoading = false

	if err != nil {
		if !domain.IsCancelled(err) {
			logger.Error("load topics: %v", err)
			s.appendLocked(domain.RoleSystem, domain.UserMessage(err, msgLoadTopicsFailed), nil)
		}
		return nil, fmt.Errorf("load topics: %w", err)
	}

	s.topics = append(make([]domain.Topic, 0, len(topics)), topics...)
	logger.Debug("loaded %d topics", len(s.topics))
	if len(s.topics) == 0 {
		s.appendLocked(domain.RoleSystem, msgNoTopics, nil)
	}

	return append([]domain.Topic(nil), s.topics...), nil
}

// SelectTopic initialises topic and makes it active once the backend confirms.
func (s *ChatService) SelectTopic(ctx context.Context, topic domain.Topic) error {
	if topic.IsZero() {
		return fmt.Errorf("%w: topic is required", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	if topic == s.currentTopic {
		s.mu.Unlock()
		return domain.ErrTopicActive
	}
	if s.topicLoading && topic == s.pendingTopic {
		s.mu.Unlock()
		return domain.ErrSelectionPending
	}

	if s.topicLoading {
		logger.Debug("superseding selection of %s", s.pendingTopic)
	}
	reqCtx, gen := s.selection.install(ctx)
	removed := s.transcript.ClearConversation()
	s.currentTopic = ""
	s.pendingTopic = topic
	s.topicLoading = true
	s.epoch++
	s.mu.Unlock()

	logger.Section("Select Topic")
	logger.Debug("initializing %s (cleared %d messages)", topic, removed)

	err := s.backend.InitializeTopic(reqCtx, topic)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.selection.release(gen) {
		logger.Debug("selection of %s superseded", topic)
		return domain.ErrCancelled
	}
	s.pendingTopic = ""
	s.topicLoading = false

	if err != nil {
		if domain.IsCancelled(err) {
			logger.Debug("selection of %s cancelled", topic)
			return domain.ErrCancelled
		}
		logger.Error("initialize topic %s: %v", topic, err)
		s.appendLocked(domain.RoleSystem, domain.UserMessage(err, msgInitTopicFailed), nil)
		return fmt.Errorf("initialize topic %s: %w", topic, err)
	}

	s.currentTopic = topic
	s.appendLocked(domain.RoleSystem, "Now ready to answer questions about "+topic.DisplayName(), nil)
	logger.Info("topic %s ready", topic)
	return nil
}

// Send asks text about the active topic. On failure the apology message is
// recorded and returned together with the error.
func (s *ChatService) Send(ctx context.Context, text string) (*domain.Message, error) {
	question := strings.TrimSpace(text)
	if question == "" {
		return nil, domain.ErrEmptyQuestion
	}

	s.mu.Lock()
	topic := s.currentTopic
	if topic.IsZero() {
		s.mu.Unlock()
		return nil, domain.ErrNoActiveTopic
	}
	if s.sending {
		s.mu.Unlock()
		return nil, domain.ErrSendInProgress
	}
	s.sending = true
	epoch := s.epoch
	s.appendLocked(domain.RoleUser, question, nil)
	s.mu.Unlock()

	logger.Section("Ask")
	logger.Debug("topic=%s question=%q", topic, question)

	answer, err := s.backend.Ask(ctx, domain.Sanitize(question), topic)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sending = false

	if epoch != s.epoch {
		logger.Debug("dropping answer for %s: topic changed", topic)
		return nil, domain.ErrCancelled
	}

	if err != nil {
		if !domain.IsCancelled(err) {
			logger.Error("ask: %v", err)
			s.appendLocked(domain.RoleSystem, domain.UserMessage(err, msgSendFailed), nil)
		}
		apology := s.appendLocked(domain.RoleAssistant, domain.Apology, nil)
		return &apology, fmt.Errorf("ask: %w", err)
	}

	logger.Debug("answer: %d words, %d sources", answer.WordCount, len(answer.Sources))
	msg := s.appendLocked(domain.RoleAssistant, answer.Text, answer.Sources)
	return &msg, nil
}

// State returns a snapshot of the session.
func (s *ChatService) State() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return domain.SessionState{
		CurrentTopic:  s.currentTopic,
		PendingTopic:  s.pendingTopic,
		TopicLoading:  s.topicLoading,
		TopicsLoading: s.topicsLoading,
		Sending:       s.sending,
		Topics:        append([]domain.Topic(nil), s.topics...),
		Messages:      s.transcript.Messages(),
	}
}

// Close cancels any in-flight topic initialisation. The session must not
// be used afterwards.
func (s *ChatService) Close() {
	s.selection.clear()
}

// appendLocked records a message with sanitised content (caller must hold mu).
func (s *ChatService) appendLocked(role domain.Role, content string, sources []domain.Citation) domain.Message {
	msg := domain.Message{
		ID:        s.newID(),
		Role:      role,
		Content:   domain.Sanitize(content),
		Sources:   append([]domain.Citation(nil), sources...),
		Timestamp: s.now(),
	}
	s.transcript.Append(msg)
	return msg
}
