package domain

// Transcript is the ordered list of messages shown to the user.
type Transcript struct {
	messages []Message
}

// Append adds a message to the end of the transcript.
func (t *Transcript) Append(m Message) {
	t.messages = append(t.messages, m)
}

// ClearConversation removes user and assistant messages and keeps system
// notices. It returns the number of messages removed.
func (t *Transcript) ClearConversation() int {
	kept := t.messages[:0]
	for _, m := range t.messages {
		if !m.Role.IsConversation() {
			kept = append(kept, m)
		}
	}
	removed := len(t.messages) - len(kept)
	// Zero the tail so dropped messages can be collected.
	for i := len(kept); i < len(t.messages); i++ {
		t.messages[i] = Message{}
	}
	t.messages = kept
	return removed
}

// Messages returns a copy of the transcript.
func (t *Transcript) Messages() []Message {
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Len returns the number of messages.
func (t *Transcript) Len() int {
	return len(t.messages)
}

// SessionState is a point-in-time copy of the chat session.
type SessionState struct {
	// CurrentTopic is the topic the backend confirmed; empty when none.
	CurrentTopic Topic

	// PendingTopic is the topic whose initialisation is in flight.
	PendingTopic Topic

	// TopicLoading is true while a topic initialisation is in flight.
	TopicLoading bool

	// TopicsLoading is true while the topic list is being fetched.
	TopicsLoading bool

	// Sending is true while a question awaits its answer.
	Sending bool

	// Topics is the most recently loaded topic list.
	Topics []Topic

	// Messages is the transcript.
	Messages []Message
}

// Busy reports whether any request is outstanding.
func (s SessionState) Busy() bool {
	return s.TopicLoading || s.TopicsLoading || s.Sending
}

// Ready reports whether questions can be sent.
func (s SessionState) Ready() bool {
	return !s.CurrentTopic.IsZero() && !s.Sending
}
