// Package chat provides the main chat view for the TUI: the topic list,
// the transcript and the question input.
package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/topicchat/internal/adapters/driving/render"
	"github.com/custodia-labs/topicchat/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/topicchat/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/topicchat/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/topicchat/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/topicchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/topicchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/topicchat/internal/core/domain"
	"github.com/custodia-labs/topicchat/internal/core/ports/driving"
	"github.com/custodia-labs/topicchat/internal/logger"
)

const (
	// topicPaneWidth is the outer width of the topic list.
	topicPaneWidth = 30

	// markdownStyle is the glamour style used for answers.
	markdownStyle = "dark"
)

// View is the chat screen.
type View struct {
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	topics     *list.TopicList
	input      *input.QuestionInput
	transcript viewport.Model
	statusbar  *status.Bar
	markdown   *render.Markdown

	chat driving.ChatService
	ctx  context.Context

	focus messages.Focus

	// reloading, selecting and sending cover the gap between issuing a
	// command and the service recording it in its state.
	reloading bool
	selecting domain.Topic
	sending   bool

	errMsg       string
	renderedKey  string
	renderedBody string

	width  int
	height int
}

// NewView creates a new chat view.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	chat driving.ChatService,
	icons map[string]string,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		styles:     s,
		keymap:     km,
		topics:     list.NewTopicList(s, icons),
		input:      input.NewQuestionInput(s),
		transcript: viewport.New(50, 10),
		statusbar:  status.NewBar(s, km),
		chat:       chat,
		ctx:        context.Background(),
		focus:      messages.FocusTopics,
	}
	v.SetDimensions(80, 24)
	v.sync()
	return v
}

// WithContext sets the context for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init starts the spinner and loads the topic list.
func (v *View) Init() tea.Cmd {
	return tea.Batch(v.statusbar.Init(), v.input.Init(), v.Reload())
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)

	case tea.KeyMsg:
		cmd = v.handleKeyMsg(msg)

	case messages.TopicsLoaded:
		v.reloading = false
		v.noteError(msg.Err, "Failed to load topics")

	case messages.TopicSelected:
		if msg.Topic == v.selecting {
			v.selecting = ""
		}
		if msg.Err == nil {
			v.setFocus(messages.FocusInput)
		}
		v.noteError(msg.Err, "Failed to initialize topic")

	case messages.AnswerReceived:
		v.sending = false
		v.noteError(msg.Err, "Failed to send message")

	case messages.ErrorOccurred:
		v.noteError(msg.Err, "Something went wrong")

	case spinner.TickMsg:
		v.statusbar, cmd = v.statusbar.Update(msg)

	default:
		v.input, cmd = v.input.Update(msg)
	}

	v.sync()
	return v, cmd
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()

	switch {
	case keymap.Matches(key, v.keymap.Focus):
		if v.focus == messages.FocusTopics {
			v.setFocus(messages.FocusInput)
		} else {
			v.setFocus(messages.FocusTopics)
		}
		return nil

	case keymap.Matches(key, v.keymap.ScrollUp), keymap.Matches(key, v.keymap.ScrollDown):
		var cmd tea.Cmd
		v.transcript, cmd = v.transcript.Update(msg)
		return cmd
	}

	if v.focus == messages.FocusInput {
		if keymap.Matches(key, v.keymap.Send) {
			return v.send()
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return cmd
	}

	switch {
	case keymap.Matches(key, v.keymap.Select):
		return v.selectTopic(v.topics.SelectedTopic())
	case keymap.Matches(key, v.keymap.Reload):
		return v.Reload()
	default:
		v.topics, _ = v.topics.Update(msg)
		return nil
	}
}

// Reload returns a command that fetches the topic list.
func (v *View) Reload() tea.Cmd {
	if v.reloading {
		return nil
	}
	v.reloading = true
	v.errMsg = ""
	v.sync()

	chat, ctx := v.chat, v.ctx
	return func() tea.Msg {
		topics, err := chat.LoadTopics(ctx)
		return messages.TopicsLoaded{Topics: topics, Err: err}
	}
}

// selectTopic returns a command that initialises topic. Selecting the
// active topic or the one already in flight does nothing.
func (v *View) selectTopic(topic domain.Topic) tea.Cmd {
	state := v.chat.State()
	if topic.IsZero() || topic == state.CurrentTopic || topic == v.selecting {
		return nil
	}
	v.selecting = topic
	v.errMsg = ""
	logger.Debug("tui: selecting topic %s", topic)

	chat, ctx := v.chat, v.ctx
	return func() tea.Msg {
		err := chat.SelectTopic(ctx, topic)
		return messages.TopicSelected{Topic: topic, Err: err}
	}
}

// send returns a command that asks the question in the input.
func (v *View) send() tea.Cmd {
	text := v.input.Value()
	if strings.TrimSpace(text) == "" || v.sending || !v.chat.State().Ready() {
		return nil
	}
	v.input.Reset()
	v.sending = true
	v.errMsg = ""
	v.sync()

	chat, ctx := v.chat, v.ctx
	return func() tea.Msg {
		m, err := chat.Send(ctx, text)
		return messages.AnswerReceived{Message: m, Err: err}
	}
}

// noteError shows err in the status bar unless it is silent.
func (v *View) noteError(err error, fallback string) {
	if domain.IsSilent(err) {
		return
	}
	v.errMsg = domain.UserMessage(err, fallback)
	logger.Debug("tui: %v", err)
}

// setFocus moves keyboard focus between the panes.
func (v *View) setFocus(focus messages.Focus) {
	v.focus = focus
	v.topics.SetFocused(focus == messages.FocusTopics)
	if focus == messages.FocusInput {
		v.input.Focus()
		v.statusbar.SetBindings(v.keymap.InputHelp())
	} else {
		v.input.Blur()
		v.statusbar.SetBindings(v.keymap.TopicsHelp())
	}
}

// sync copies the session state into the components.
func (v *View) sync() {
	state := v.chat.State()

	v.topics.SetTopics(state.Topics)
	pending := v.selecting
	if state.TopicLoading {
		pending = state.PendingTopic
	}
	v.topics.SetActive(state.CurrentTopic, pending)

	v.input.SetTopic(state.CurrentTopic)
	v.input.SetEnabled(state.Ready() && !v.sending)
	if v.focus == messages.FocusInput && v.input.Enabled() && !v.input.Focused() {
		v.input.Focus()
	}

	v.statusbar.SetTopic(state.CurrentTopic)
	switch {
	case v.reloading || state.TopicsLoading:
		v.statusbar.SetState(status.StateLoadingTopics)
	case !pending.IsZero():
		v.statusbar.SetTopic(pending)
		v.statusbar.SetState(status.StateInitializing)
	case v.sending || state.Sending:
		v.statusbar.SetState(status.StateSending)
	case v.errMsg != "":
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(v.errMsg)
	case !state.CurrentTopic.IsZero():
		v.statusbar.SetState(status.StateReady)
	default:
		v.statusbar.SetState(status.StateIdle)
	}

	v.syncTranscript(state.Messages)
}

// syncTranscript re-renders the transcript when it changed.
func (v *View) syncTranscript(msgs []domain.Message) {
	key := fmt.Sprint(len(msgs))
	if len(msgs) > 0 {
		key += "/" + msgs[len(msgs)-1].ID
	}
	if key == v.renderedKey {
		return
	}
	v.renderedKey = key

	blocks := make([]string, len(msgs))
	for i, m := range msgs {
		blocks[i] = v.renderMessage(m)
	}
	v.renderedBody = strings.Join(blocks, "\n\n")
	v.transcript.SetContent(v.renderedBody)
	v.transcript.GotoBottom()
}

// renderMessage formats one transcript entry.
func (v *View) renderMessage(m domain.Message) string {
	width := v.transcript.Width
	text := lipgloss.NewStyle().Width(width)

	switch m.Role {
	case domain.RoleSystem:
		return v.styles.SystemNotice.Width(width).Render(render.Plain(m.Content))
	case domain.RoleAssistant:
		lines := []string{v.styles.RoleLabel(m.Role), v.markdown.Render(m.Content)}
		if sources := render.Sources(m.Sources); len(sources) > 0 {
			lines = append(lines, v.styles.Muted.Render("Sources:"))
			for _, s := range sources {
				lines = append(lines, v.styles.Citation.Render("• "+s))
			}
		}
		return strings.Join(lines, "\n")
	default:
		return v.styles.RoleLabel(m.Role) + "\n" + text.Render(render.Plain(m.Content))
	}
}

// View renders the chat screen.
func (v *View) View() string {
	paneHeight := v.paneHeight()

	topicBorder, transcriptBorder := v.styles.FocusedBorder, v.styles.Border
	if v.focus == messages.FocusInput {
		topicBorder, transcriptBorder = v.styles.Border, v.styles.FocusedBorder
	}

	left := topicBorder.
		Width(topicPaneWidth - 2).
		Height(paneHeight).
		Render(v.topics.View())
	right := transcriptBorder.
		Width(v.width - topicPaneWidth - 2).
		Height(paneHeight).
		Render(v.transcript.View())

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, left, right),
		v.input.View(),
		v.statusbar.View(),
	)
}

// paneHeight is the inner height of the topic and transcript panes:
// the terminal minus the input (3), the status bar (1) and pane borders.
func (v *View) paneHeight() int {
	h := v.height - 6
	if h < 3 {
		h = 3
	}
	return h
}

// SetDimensions sets the view dimensions and lays out the components.
func (v *View) SetDimensions(width, height int) {
	if width == v.width && height == v.height {
		return
	}
	v.width = width
	v.height = height

	paneHeight := v.paneHeight()
	v.topics.SetDimensions(topicPaneWidth-2, paneHeight)

	transcriptWidth := width - topicPaneWidth - 2
	if transcriptWidth < 20 {
		transcriptWidth = 20
	}
	v.transcript.Width = transcriptWidth
	v.transcript.Height = paneHeight
	v.markdown = render.NewMarkdown(transcriptWidth-2, markdownStyle)
	v.renderedKey = ""

	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
}

// SetIcons replaces the topic icon table.
func (v *View) SetIcons(icons map[string]string) {
	v.topics.SetIcons(icons)
}

// Focus returns the pane that receives keys.
func (v *View) Focus() messages.Focus {
	return v.focus
}

// Transcript returns the rendered transcript, before viewport clipping.
func (v *View) Transcript() string {
	return v.renderedBody
}

// Err returns the error currently shown in the status bar.
func (v *View) Err() string {
	return v.errMsg
}
