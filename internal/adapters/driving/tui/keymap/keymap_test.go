package keymap

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()

	require.NotNil(t, km)
}

func TestDefaultKeyMap_Bindings(t *testing.T) {
	km := DefaultKeyMap()

	tests := []struct {
		name    string
		binding key.Binding
		keys    []string
	}{
		{"quit", km.Quit, []string{"ctrl+c"}},
		{"help", km.Help, []string{"?"}},
		{"back", km.Back, []string{"esc", "?"}},
		{"focus", km.Focus, []string{"tab"}},
		{"up", km.Up, []string{"up", "k"}},
		{"down", km.Down, []string{"down", "j"}},
		{"select", km.Select, []string{"enter"}},
		{"send", km.Send, []string{"enter"}},
		{"reload", km.Reload, []string{"r"}},
		{"scroll up", km.ScrollUp, []string{"pgup"}},
		{"scroll down", km.ScrollDown, []string{"pgdown"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.keys, tt.binding.Keys())
			assert.NotEmpty(t, tt.binding.Help().Desc)
		})
	}
}

func TestDefaultKeyMap_QuitIsNotPrintable(t *testing.T) {
	km := DefaultKeyMap()

	// Letters must reach the input, so quit only listens on ctrl+c.
	assert.False(t, Matches("q", km.Quit))
}

func TestKeyMap_TopicsHelp(t *testing.T) {
	km := DefaultKeyMap()

	help := km.TopicsHelp()

	require.Len(t, help, 5)
	assert.Equal(t, "select topic", help[0].Help().Desc)
}

func TestKeyMap_InputHelp(t *testing.T) {
	km := DefaultKeyMap()

	help := km.InputHelp()

	require.NotEmpty(t, help)
	assert.Equal(t, "send", help[0].Help().Desc)
}

func TestKeyMap_FullHelp(t *testing.T) {
	km := DefaultKeyMap()

	groups := km.FullHelp()

	assert.Len(t, groups, 3)
	for _, g := range groups {
		assert.NotEmpty(t, g)
	}
}

func TestMatches(t *testing.T) {
	km := DefaultKeyMap()

	assert.True(t, Matches("enter", km.Send))
	assert.True(t, Matches("k", km.Up))
	assert.False(t, Matches("x", km.Up))
	assert.False(t, Matches("", km.Reload))
}
