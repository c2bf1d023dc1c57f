package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscript_AppendAndMessages(t *testing.T) {
	var tr Transcript
	tr.Append(Message{ID: "1", Role: RoleSystem, Content: "hello"})
	tr.Append(Message{ID: "2", Role: RoleUser, Content: "q"})

	msgs := tr.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "1", msgs[0].ID)
	assert.Equal(t, 2, tr.Len())

	// Returned slice is a copy.
	msgs[0].Content = "changed"
	assert.Equal(t, "hello", tr.Messages()[0].Content)
}

func TestTranscript_ClearConversation(t *testing.T) {
	var tr Transcript
	tr.Append(Message{ID: "s1", Role: RoleSystem})
	tr.Append(Message{ID: "u1", Role: RoleUser})
	tr.Append(Message{ID: "a1", Role: RoleAssistant})
	tr.Append(Message{ID: "s2", Role: RoleSystem})

	removed := tr.ClearConversation()

	assert.Equal(t, 2, removed)
	msgs := tr.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "s1", msgs[0].ID)
	assert.Equal(t, "s2", msgs[1].ID)
}

func TestTranscript_ClearConversation_Empty(t *testing.T) {
	var tr Transcript

	assert.Equal(t, 0, tr.ClearConversation())
	assert.Empty(t, tr.Messages())
}

func TestSessionState_Ready(t *testing.T) {
	assert.False(t, SessionState{}.Ready())
	assert.True(t, SessionState{CurrentTopic: "RDBMS"}.Ready())
	assert.False(t, SessionState{CurrentTopic: "RDBMS", Sending: true}.Ready())
}

func TestSessionState_Busy(t *testing.T) {
	assert.False(t, SessionState{}.Busy())
	assert.True(t, SessionState{TopicLoading: true}.Busy())
	assert.True(t, SessionState{TopicsLoading: true}.Busy())
	assert.True(t, SessionState{Sending: true}.Busy())
}
