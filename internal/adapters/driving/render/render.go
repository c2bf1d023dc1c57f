// Package render turns transcript content into terminal output.
//
// Message content is stored markup-escaped. Markdown rendering restores the
// literal text, then re-escapes only what markdown would treat as HTML or
// as an entity, so "<b>" shows as text while code keeps its "<".
// Plain output (pipes, JSON) unescapes it explicitly.
package render

import (
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/term"

	"github.com/custodia-labs/topicchat/internal/core/domain"
)

// DefaultWidth is the wrap width used when the terminal size is unknown.
const DefaultWidth = 80

// Markdown renders message content as terminal markdown.
// The zero value and a Markdown whose renderer failed to build both fall
// back to plain text.
type Markdown struct {
	mu       sync.Mutex
	renderer *glamour.TermRenderer
}

// NewMarkdown creates a renderer wrapping at width. An empty style detects
// the terminal background; otherwise style names a glamour standard style
// such as "dark" or "notty".
func NewMarkdown(width int, style string) *Markdown {
	if width <= 0 {
		width = DefaultWidth
	}

	styleOpt := glamour.WithAutoStyle()
	if style != "" {
		styleOpt = glamour.WithStandardStyle(style)
	}

	r, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		return &Markdown{}
	}
	return &Markdown{renderer: r}
}

// Render renders escaped content. It returns the plain text when no
// renderer is available or rendering fails.
func (m *Markdown) Render(content string) string {
	if m == nil || m.renderer == nil {
		return Plain(content)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	out, err := m.renderer.Render(literalMarkdown(Plain(content)))
	if err != nil {
		return Plain(content)
	}
	return strings.Trim(out, "\n")
}

// edit replaces one source segment during literalMarkdown.
type edit struct {
	seg     text.Segment
	replace func(string) string
}

var ampEscaper = strings.NewReplacer("&", "&amp;")

// literalMarkdown escapes raw HTML and the "&" of prose so that markdown
// shows them as typed. Code spans and blocks are left alone since markdown
// never decodes entities there.
func literalMarkdown(src string) string {
	source := []byte(src)
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))

	var edits []edit
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.CodeSpan, *ast.FencedCodeBlock, *ast.CodeBlock:
			return ast.WalkSkipChildren, nil
		case *ast.RawHTML:
			for i := 0; i < n.Segments.Len(); i++ {
				edits = append(edits, edit{n.Segments.At(i), domain.Sanitize})
			}
		case *ast.HTMLBlock:
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				edits = append(edits, edit{lines.At(i), domain.Sanitize})
			}
			if n.HasClosure() {
				edits = append(edits, edit{n.ClosureLine, domain.Sanitize})
			}
		case *ast.Text:
			edits = append(edits, edit{n.Segment, ampEscaper.Replace})
		}
		return ast.WalkContinue, nil
	})
	if len(edits) == 0 {
		return src
	}

	sort.Slice(edits, func(i, j int) bool { return edits[i].seg.Start < edits[j].seg.Start })

	var b strings.Builder
	last := 0
	for _, e := range edits {
		if e.seg.Start < last || e.seg.Stop > len(source) {
			continue
		}
		b.Write(source[last:e.seg.Start])
		b.WriteString(e.replace(string(source[e.seg.Start:e.seg.Stop])))
		last = e.seg.Stop
	}
	b.Write(source[last:])
	return b.String()
}

// Plain returns escaped content as the literal text it represents.
func Plain(content string) string {
	return domain.Unsanitize(content)
}

// Sources formats citations one per line, or returns nil when there are none.
func Sources(sources []domain.Citation) []string {
	if len(sources) == 0 {
		return nil
	}
	lines := make([]string, len(sources))
	for i, s := range sources {
		lines[i] = Plain(s.String())
	}
	return lines
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// TerminalWidth returns the width of f, or DefaultWidth when unknown.
func TerminalWidth(f *os.File) int {
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 {
		return DefaultWidth
	}
	return w
}
