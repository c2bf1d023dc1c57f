// Package tui provides an interactive terminal user interface for topicchat.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/topicchat/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces used by the TUI.
type Ports struct {
	// Chat is the chat session. Required.
	Chat driving.ChatService

	// Settings supplies the topic icon table. Optional; without it the
	// built-in icons are used.
	Settings driving.SettingsService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(chat driving.ChatService, settings driving.SettingsService) *Ports {
	return &Ports{
		Chat:     chat,
		Settings: settings,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Chat == nil {
		return ErrMissingChatService
	}
	return nil
}
