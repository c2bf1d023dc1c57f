package cli

import (
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/custodia-labs/topicchat/internal/adapters/driving/render"
	"github.com/custodia-labs/topicchat/internal/core/domain"
)

var (
	noticeColor = color.New(color.FgYellow)
	sourceColor = color.New(color.FgCyan)
	topicColor  = color.New(color.FgGreen, color.Bold)
)

// terminalFile returns w as a terminal, or nil when it is not one.
func terminalFile(w io.Writer) *os.File {
	f, ok := w.(*os.File)
	if !ok || !render.IsTerminal(f) {
		return nil
	}
	return f
}

// newMarkdown returns a markdown renderer for terminals and nil otherwise,
// in which case answers print as plain text.
func newMarkdown(w io.Writer) *render.Markdown {
	f := terminalFile(w)
	if f == nil {
		return nil
	}
	return render.NewMarkdown(render.TerminalWidth(f), "")
}

// printAnswer writes an assistant message followed by its sources.
func printAnswer(w io.Writer, md *render.Markdown, m *domain.Message) {
	if md != nil {
		_, _ = io.WriteString(w, md.Render(m.Content)+"\n")
	} else {
		_, _ = io.WriteString(w, render.Plain(m.Content)+"\n")
	}

	sources := render.Sources(m.Sources)
	if len(sources) == 0 {
		return
	}
	_, _ = io.WriteString(w, "\nSources:\n")
	for _, s := range sources {
		_, _ = sourceColor.Fprintf(w, "  - %s\n", s)
	}
}

// printNotice writes a system message.
func printNotice(w io.Writer, m domain.Message) {
	_, _ = noticeColor.Fprintf(w, "» %s\n", render.Plain(m.Content))
}

// sourceJSON is the JSON shape of a citation.
type sourceJSON struct {
	Page   any    `json:"page"`
	Source string `json:"source"`
	File   string `json:"file"`
}

func sourcesJSON(sources []domain.Citation) []sourceJSON {
	out := make([]sourceJSON, len(sources))
	for i, c := range sources {
		var page any = c.Page
		if c.Page == domain.UnknownPage {
			page = "Unknown"
		}
		out[i] = sourceJSON{Page: page, Source: c.Source, File: c.Filename()}
	}
	return out
}
