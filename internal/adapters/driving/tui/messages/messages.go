// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/topicchat/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewChat is the topic list, transcript and input.
	ViewChat ViewType = iota
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewChat:
		return "chat"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// Focus identifies which pane of the chat view receives keys.
type Focus int

const (
	// FocusTopics gives keys to the topic list.
	FocusTopics Focus = iota
	// FocusInput gives keys to the question input.
	FocusInput
)

// String returns the string representation of the focus.
func (f Focus) String() string {
	switch f {
	case FocusTopics:
		return "topics"
	case FocusInput:
		return "input"
	default:
		return "unknown"
	}
}

// TopicsLoaded carries the result of a topic list fetch.
type TopicsLoaded struct {
	Topics []domain.Topic
	Err    error
}

// TopicSelected carries the result of a topic initialisation.
type TopicSelected struct {
	Topic domain.Topic
	Err   error
}

// AnswerReceived signals that a question was answered or failed.
type AnswerReceived struct {
	Message *domain.Message
	Err     error
}

// SettingsChanged signals that the config file changed on disk.
type SettingsChanged struct{}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
