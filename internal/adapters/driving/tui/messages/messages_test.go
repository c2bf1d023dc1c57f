package messages

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/topicchat/internal/core/domain"
)

func TestViewType_String(t *testing.T) {
	tests := []struct {
		view ViewType
		want string
	}{
		{ViewChat, "chat"},
		{ViewHelp, "help"},
		{ViewType(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.view.String())
		})
	}
}

func TestFocus_String(t *testing.T) {
	assert.Equal(t, "topics", FocusTopics.String())
	assert.Equal(t, "input", FocusInput.String())
	assert.Equal(t, "unknown", Focus(-1).String())
}

func TestTopicSelected(t *testing.T) {
	err := errors.New("boom")
	msg := TopicSelected{Topic: domain.Topic("RDBMS"), Err: err}

	assert.Equal(t, domain.Topic("RDBMS"), msg.Topic)
	assert.ErrorIs(t, msg.Err, err)
}

func TestAnswerReceived(t *testing.T) {
	m := &domain.Message{Role: domain.RoleAssistant, Content: "hi"}
	msg := AnswerReceived{Message: m}

	assert.NoError(t, msg.Err)
	assert.Equal(t, "hi", msg.Message.Content)
}
