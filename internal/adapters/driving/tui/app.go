package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/topicchat/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/topicchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/topicchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/topicchat/internal/adapters/driving/tui/views/chat"
	"github.com/custodia-labs/topicchat/internal/core/domain"
	"github.com/custodia-labs/topicchat/internal/logger"
)

// Watcher reports changes to the configuration file.
type Watcher interface {
	Watch(ctx context.Context, onChange func()) error
}

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// watcher, when set, triggers icon reloads.
	watcher Watcher

	styles *styles.Styles
	keymap *keymap.KeyMap

	// chatView is the topic list, transcript and input.
	chatView *chat.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has received its first size.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	a := &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		currentView: messages.ViewChat,
	}
	a.chatView = chat.NewView(s, km, ports.Chat, a.icons())
	return a, nil
}

// WithContext sets the context for the app and its service calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.chatView.WithContext(ctx)
	return a
}

// WithWatcher reloads topic icons whenever w reports a change.
func (a *App) WithWatcher(w Watcher) *App {
	a.watcher = w
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("topicchat"),
		a.chatView.Init(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.chatView.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a, a.handleKeyMsg(msg)

	case messages.ViewChanged:
		a.currentView = msg.View
		return a, nil

	case messages.SettingsChanged:
		a.chatView.SetIcons(a.icons())
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	a.chatView, cmd = a.chatView.Update(msg)
	return a, cmd
}

// handleKeyMsg routes keys. The help key only applies while the topic
// list has focus so that "?" can be typed into a question.
func (a *App) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	k := msg.String()

	if keymap.Matches(k, a.keymap.Quit) {
		return tea.Quit
	}

	if a.currentView == messages.ViewHelp {
		if keymap.Matches(k, a.keymap.Back) {
			a.currentView = messages.ViewChat
		}
		return nil
	}

	if keymap.Matches(k, a.keymap.Help) && a.chatView.Focus() == messages.FocusTopics {
		a.currentView = messages.ViewHelp
		return nil
	}

	var cmd tea.Cmd
	a.chatView, cmd = a.chatView.Update(msg)
	return cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	if a.currentView == messages.ViewHelp {
		return a.viewHelp()
	}
	return a.chatView.View()
}

// viewHelp renders the help view from the keymap.
func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n")

	sections := []string{"Topics", "Conversation", "General"}
	for i, group := range a.keymap.FullHelp() {
		b.WriteString("\n")
		b.WriteString(a.styles.Subtitle.Render(sections[i]))
		b.WriteString("\n")
		for _, binding := range group {
			b.WriteString(helpLine(binding))
		}
	}

	b.WriteString("\n")
	b.WriteString(a.styles.Help.Render("[esc] back to chat"))
	return b.String()
}

func helpLine(b key.Binding) string {
	h := b.Help()
	return fmt.Sprintf("  %-10s  %s\n", h.Key, h.Desc)
}

// icons returns the configured icon table, or the defaults.
func (a *App) icons() map[string]string {
	if a.ports.Settings == nil {
		return domain.DefaultTopicIcons()
	}
	settings, err := a.ports.Settings.Get()
	if err != nil {
		logger.Warn("tui: loading icons: %v", err)
		return domain.DefaultTopicIcons()
	}
	return settings.TopicIcons
}

// Run starts the TUI application and blocks until it exits.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(a.ctx)
	defer cancel()

	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(ctx))

	if a.watcher != nil {
		go func() {
			err := a.watcher.Watch(ctx, func() {
				p.Send(messages.SettingsChanged{})
			})
			if err != nil {
				logger.Warn("tui: config watch stopped: %v", err)
			}
		}()
	}

	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// ChatView returns the chat view.
func (a *App) ChatView() *chat.View {
	return a.chatView
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.chatView.SetDimensions(width, height)
}
