package driven

import (
	"context"

	"github.com/custodia-labs/topicchat/internal/core/domain"
)

// ChatBackend is the remote service that knows the topics and answers questions.
//
// Implementations normalise failures into the domain error taxonomy:
// *domain.NetworkError, *domain.HTTPError, *domain.ApplicationError, and
// domain.ErrCancelled when ctx is cancelled.
type ChatBackend interface {
	// Topics returns the topic identifiers the backend can answer about.
	Topics(ctx context.Context) ([]domain.Topic, error)

	// InitializeTopic prepares topic server-side. It returns nil only when
	// the backend confirms success.
	InitializeTopic(ctx context.Context, topic domain.Topic) error

	// Ask sends a question scoped to topic and returns the answer.
	Ask(ctx context.Context, question string, topic domain.Topic) (*domain.Answer, error)
}
