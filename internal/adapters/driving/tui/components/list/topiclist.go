// Package list provides list display components for the TUI.
package list

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/topicchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/topicchat/internal/core/domain"
)

// TopicList displays one selectable row per topic.
type TopicList struct {
	topics   []domain.Topic
	icons    map[string]string
	active   domain.Topic
	pending  domain.Topic
	selected int
	focused  bool
	styles   *styles.Styles
	width    int
	height   int
}

// NewTopicList creates a new topic list component.
func NewTopicList(s *styles.Styles, icons map[string]string) *TopicList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &TopicList{
		icons:  icons,
		styles: s,
		width:  28,
		height: 10,
	}
}

// Init initialises the topic list.
func (l *TopicList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (l *TopicList) Update(msg tea.Msg) (*TopicList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		}
	}
	return l, nil
}

// View renders the topic list. An empty list renders only its header;
// the transcript carries the notice explaining why.
func (l *TopicList) View() string {
	lines := make([]string, 0, len(l.topics)+2)
	lines = append(lines, l.styles.Subtitle.Render("Topics"), "")

	visible := l.height - 2
	if visible < 1 {
		visible = 1
	}
	start := 0
	if l.selected >= visible {
		start = l.selected - visible + 1
	}
	end := min(start+visible, len(l.topics))

	for i := start; i < end; i++ {
		lines = append(lines, l.renderTopic(i))
	}

	return strings.Join(lines, "\n")
}

// renderTopic formats one row: cursor, icon and display name.
func (l *TopicList) renderTopic(index int) string {
	topic := l.topics[index]

	indicator := "  "
	if l.focused && index == l.selected {
		indicator = "> "
	}

	name := topic.DisplayName()
	maxName := l.width - 6
	if maxName < 8 {
		maxName = 8
	}
	if r := []rune(name); len(r) > maxName {
		name = string(r[:maxName-3]) + "..."
	}

	row := indicator + domain.TopicIcon(topic, l.icons) + " " + name

	switch {
	case topic == l.active:
		return l.styles.Active.Render(row)
	case topic == l.pending:
		return l.styles.Pending.Render(row + " …")
	case l.focused && index == l.selected:
		return l.styles.Selected.Render(row)
	default:
		return l.styles.Normal.Render(row)
	}
}

// SetTopics replaces the list. The cursor stays on the same topic when
// it is still present.
func (l *TopicList) SetTopics(topics []domain.Topic) {
	current := l.SelectedTopic()
	l.topics = topics
	l.selected = 0
	for i, t := range topics {
		if t == current {
			l.selected = i
			break
		}
	}
}

// Topics returns the listed topics.
func (l *TopicList) Topics() []domain.Topic {
	return l.topics
}

// SetIcons replaces the icon table.
func (l *TopicList) SetIcons(icons map[string]string) {
	l.icons = icons
}

// SetActive marks the initialised topic and the one in flight.
func (l *TopicList) SetActive(active, pending domain.Topic) {
	l.active = active
	l.pending = pending
}

// SetFocused toggles the cursor indicator.
func (l *TopicList) SetFocused(focused bool) {
	l.focused = focused
}

// Selected returns the cursor index.
func (l *TopicList) Selected() int {
	return l.selected
}

// SelectedTopic returns the topic under the cursor, or "" if empty.
func (l *TopicList) SelectedTopic() domain.Topic {
	if l.selected < 0 || l.selected >= len(l.topics) {
		return ""
	}
	return l.topics[l.selected]
}

// MoveUp moves the cursor up.
func (l *TopicList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves the cursor down.
func (l *TopicList) MoveDown() {
	if l.selected < len(l.topics)-1 {
		l.selected++
	}
}

// SetDimensions sets the component dimensions.
func (l *TopicList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Count returns the number of topics.
func (l *TopicList) Count() int {
	return len(l.topics)
}
