// Package input provides text input components for the TUI.
package input

import (
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/topicchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/topicchat/internal/core/domain"
)

// idlePlaceholder is shown while no topic is active.
const idlePlaceholder = "Select a topic to start..."

// QuestionInput wraps a bubbles textinput that is only usable once a
// topic is active.
type QuestionInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	enabled   bool
	width     int
}

// NewQuestionInput creates a disabled question input.
func NewQuestionInput(s *styles.Styles) *QuestionInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = idlePlaceholder
	ti.CharLimit = 1000
	ti.Width = 50
	ti.Cursor.SetMode(cursor.CursorStatic)

	return &QuestionInput{
		textinput: ti,
		styles:    s,
		width:     50,
	}
}

// Init initialises the input.
func (q *QuestionInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages. Keys are ignored while disabled.
func (q *QuestionInput) Update(msg tea.Msg) (*QuestionInput, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); ok && !q.enabled {
		return q, nil
	}
	var cmd tea.Cmd
	q.textinput, cmd = q.textinput.Update(msg)
	return q, cmd
}

// View renders the input.
func (q *QuestionInput) View() string {
	style := q.styles.InputField
	if q.textinput.Focused() {
		style = style.BorderForeground(q.styles.Theme().Primary)
	}
	return style.Width(q.width - 2).Render(q.textinput.View())
}

// SetTopic updates the placeholder for the active topic. An empty topic
// restores the idle placeholder.
func (q *QuestionInput) SetTopic(topic domain.Topic) {
	if topic.IsZero() {
		q.textinput.Placeholder = idlePlaceholder
		return
	}
	q.textinput.Placeholder = "Ask about " + topic.DisplayName() + "..."
}

// Placeholder returns the current placeholder text.
func (q *QuestionInput) Placeholder() string {
	return q.textinput.Placeholder
}

// SetEnabled enables or disables typing. Disabling also blurs.
func (q *QuestionInput) SetEnabled(enabled bool) {
	q.enabled = enabled
	if !enabled {
		q.textinput.Blur()
	}
}

// Enabled reports whether the input accepts keys.
func (q *QuestionInput) Enabled() bool {
	return q.enabled
}

// Value returns the current input value.
func (q *QuestionInput) Value() string {
	return q.textinput.Value()
}

// SetValue sets the input value.
func (q *QuestionInput) SetValue(value string) {
	q.textinput.SetValue(value)
}

// Focus sets focus on the input if it is enabled.
func (q *QuestionInput) Focus() tea.Cmd {
	if !q.enabled {
		return nil
	}
	return q.textinput.Focus()
}

// Blur removes focus from the input.
func (q *QuestionInput) Blur() {
	q.textinput.Blur()
}

// Focused returns whether the input is focused.
func (q *QuestionInput) Focused() bool {
	return q.textinput.Focused()
}

// SetWidth sets the outer width of the input.
func (q *QuestionInput) SetWidth(width int) {
	q.width = width
	// Border, padding and prompt.
	inputWidth := width - 8
	if inputWidth < 20 {
		inputWidth = 20
	}
	q.textinput.Width = inputWidth
}

// Width returns the current width.
func (q *QuestionInput) Width() int {
	return q.width
}

// Reset clears the input.
func (q *QuestionInput) Reset() {
	q.textinput.Reset()
}
