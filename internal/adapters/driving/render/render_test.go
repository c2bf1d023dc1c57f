package render

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/topicchat/internal/core/domain"
)

func TestPlain_Unescapes(t *testing.T) {
	assert.Equal(t, "<b>x</b> & y", Plain(domain.Sanitize("<b>x</b> & y")))
}

func TestMarkdown_ZeroValueFallsBack(t *testing.T) {
	var m Markdown

	assert.Equal(t, "a < b", m.Render("a &lt; b"))
}

func TestMarkdown_NilFallsBack(t *testing.T) {
	var m *Markdown

	assert.Equal(t, "plain", m.Render("plain"))
}

func TestMarkdown_RendersEscapedMarkupLiterally(t *testing.T) {
	m := NewMarkdown(60, "dark")

	out := ansi.Strip(m.Render(domain.Sanitize("**bold** and <script>alert(1)</script>")))

	assert.Contains(t, out, "bold")
	assert.NotContains(t, out, "**")
	assert.Contains(t, out, "script")
	assert.Contains(t, out, "alert(1)")
}

func TestMarkdown_CodeKeepsLiteralText(t *testing.T) {
	m := NewMarkdown(60, "notty")

	out := ansi.Strip(m.Render(domain.Sanitize("Compare:\n\n```python\nif x < 3 and y > 1:\n    pass\n```\n\nor use `a<b && c`.")))

	assert.Contains(t, out, "if x < 3 and y > 1:")
	assert.Contains(t, out, "a<b && c")
	assert.NotContains(t, out, "&lt;")
	assert.NotContains(t, out, "&gt;")
	assert.NotContains(t, out, "&amp;")
}

func TestMarkdown_ProseShowsTagsAndEntitiesAsTyped(t *testing.T) {
	m := NewMarkdown(60, "notty")

	out := ansi.Strip(m.Render(domain.Sanitize("Wrap it in <b>tag</b>, write &lt; for <")))

	assert.Contains(t, out, "<b>tag</b>")
	assert.Contains(t, out, "write &lt; for <")
}

func TestMarkdown_HTMLBlockShownAsText(t *testing.T) {
	m := NewMarkdown(60, "notty")

	out := ansi.Strip(m.Render(domain.Sanitize("<div>\nhi\n</div>")))

	assert.Contains(t, out, "<div>")
	assert.Contains(t, out, "hi")
	assert.Contains(t, out, "</div>")
}

func TestLiteralMarkdown(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "just text", "just text"},
		{"inline html", "a <b>x</b> b", "a &lt;b&gt;x&lt;/b&gt; b"},
		{"ampersand", "R & D", "R &amp; D"},
		{"code span untouched", "use `<c> & d`", "use `<c> & d`"},
		{"fenced block untouched", "```\nx < 1 && y\n```", "```\nx < 1 && y\n```"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, literalMarkdown(tt.in))
		})
	}
}

func TestSources(t *testing.T) {
	lines := Sources([]domain.Citation{
		{Page: 12, Source: "/docs/rdbms.pdf"},
		{Page: domain.UnknownPage, Source: `C:\pdf\a&b.pdf`},
	})

	assert.Equal(t, []string{"Page 12 in rdbms.pdf", "Page Unknown in a&b.pdf"}, lines)
	assert.Nil(t, Sources(nil))
}

func TestIsTerminal_File(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out.txt"))
	require.NoError(t, err)
	defer f.Close()

	assert.False(t, IsTerminal(f))
	assert.Equal(t, DefaultWidth, TerminalWidth(f))
}
