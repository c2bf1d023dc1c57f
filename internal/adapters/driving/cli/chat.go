package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/topicchat/internal/adapters/driving/render"
	"github.com/custodia-labs/topicchat/internal/core/domain"
	"github.com/custodia-labs/topicchat/internal/core/ports/driving"
)

// chatCommands lists the REPL slash commands.
const chatCommands = `Commands:
  /topics         List topics
  /use <topic>    Select a topic by identifier or list number
  /help           Show this help
  /quit           Exit`

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: "Starts a line-oriented chat session. History is kept in memory only.\n\n" +
		chatCommands +
		"\n\nAnything else is sent as a question about the selected topic.",
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

// lineReader is the part of liner.State the REPL uses.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
	Close() error
}

// newLineReader is replaced in tests.
var newLineReader = func() lineReader {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	return line
}

func runChat(cmd *cobra.Command, _ []string) error {
	chat, err := chatService()
	if err != nil {
		return err
	}

	in := newLineReader()
	defer in.Close()

	out := cmd.OutOrStdout()
	r := &repl{
		chat:    chat,
		in:      in,
		out:     out,
		md:      newMarkdown(out),
		icons:   topicIcons(),
		printed: make(map[string]bool),
	}
	return r.run(cmd.Context())
}

// repl is an interactive question/answer loop over a ChatService.
type repl struct {
	chat  driving.ChatService
	in    lineReader
	out   io.Writer
	md    *render.Markdown
	icons map[string]string

	// printed holds the IDs of transcript messages already shown.
	printed map[string]bool
}

func (r *repl) run(ctx context.Context) error {
	fmt.Fprintln(r.out, "topicchat: type /help for commands")
	r.loadTopics(ctx)

	for {
		line, err := r.in.Prompt(r.prompt())
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(r.out)
				return nil
			}
			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		r.in.AppendHistory(line)

		if strings.HasPrefix(line, "/") {
			if !r.command(ctx, line) {
				return nil
			}
			continue
		}
		r.ask(ctx, line)
	}
}

func (r *repl) prompt() string {
	topic := r.chat.State().CurrentTopic
	if topic.IsZero() {
		return "topicchat> "
	}
	return topic.DisplayName() + "> "
}

// command runs a slash command and reports whether the loop continues.
func (r *repl) command(ctx context.Context, line string) bool {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "/quit", "/exit":
		return false
	case "/help":
		fmt.Fprintln(r.out, chatCommands)
	case "/topics":
		r.loadTopics(ctx)
	case "/use":
		r.use(ctx, arg)
	default:
		fmt.Fprintf(r.out, "Unknown command %s. Type /help for commands.\n", name)
	}
	return true
}

func (r *repl) loadTopics(ctx context.Context) {
	topics, err := r.chat.LoadTopics(ctx)
	r.flush()
	if err != nil {
		return
	}
	for i, t := range topics {
		fmt.Fprintf(r.out, "%3d. %s %s [%s]\n", i+1, domain.TopicIcon(t, r.icons), topicColor.Sprint(t.DisplayName()), t)
	}
}

// use selects a topic given its identifier or its number in the list.
func (r *repl) use(ctx context.Context, arg string) {
	if arg == "" {
		fmt.Fprintln(r.out, "Usage: /use <topic>")
		return
	}

	topic := domain.Topic(arg)
	topics := r.chat.State().Topics
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(topics) {
			fmt.Fprintf(r.out, "No topic number %d.\n", n)
			return
		}
		topic = topics[n-1]
	}

	err := r.chat.SelectTopic(ctx, topic)
	if errors.Is(err, domain.ErrTopicActive) {
		fmt.Fprintf(r.out, "%s is already selected.\n", topic.DisplayName())
		return
	}
	r.flush()
}

func (r *repl) ask(ctx context.Context, question string) {
	_, err := r.chat.Send(ctx, question)
	if errors.Is(err, domain.ErrNoActiveTopic) {
		fmt.Fprintln(r.out, "Select a topic first with /use <topic>.")
		return
	}
	r.flush()
}

// flush prints transcript messages not yet shown. The user's own
// questions are not echoed.
func (r *repl) flush() {
	for _, m := range r.chat.State().Messages {
		if r.printed[m.ID] {
			continue
		}
		r.printed[m.ID] = true

		switch m.Role {
		case domain.RoleSystem:
			printNotice(r.out, m)
		case domain.RoleAssistant:
			printAnswer(r.out, r.md, &m)
		case domain.RoleUser:
		}
	}
}
