package driving

import (
	"context"

	"github.com/custodia-labs/topicchat/internal/core/domain"
)

// ChatService is the chat session: topic loading, topic selection and the
// question/answer exchange. Every outcome is also recorded in the
// transcript returned by State, so surfaces can render from state alone.
type ChatService interface {
	// LoadTopics fetches the topic list and replaces the current one.
	// Failures and an empty list are recorded as a single system notice.
	LoadTopics(ctx context.Context) ([]domain.Topic, error)

	// SelectTopic initialises topic server-side and makes it the active
	// topic once the backend confirms. A newer selection supersedes an
	// older in-flight one, whose call then returns domain.ErrCancelled.
	SelectTopic(ctx context.Context, topic domain.Topic) error

	// Send asks text about the active topic and returns the recorded
	// assistant message.
	Send(ctx context.Context, text string) (*domain.Message, error)

	// State returns a snapshot of the session.
	State() domain.SessionState
}
