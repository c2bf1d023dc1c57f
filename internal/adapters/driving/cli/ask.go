package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/topicchat/internal/adapters/driving/render"
	"github.com/custodia-labs/topicchat/internal/core/domain"
)

var (
	askTopic string
	askRaw   bool
	askJSON  bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question about a topic",
	Long: `Initialises the topic, asks one question and prints the answer with
the pages it was drawn from. Answers are rendered as markdown on a
terminal; use --raw for plain text.`,
	Example: `  topicchat ask --topic RDBMS "What is a foreign key?"`,
	Args:    cobra.MinimumNArgs(1),
	RunE:    runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askTopic, "topic", "t", "", "topic identifier (see 'topicchat topics')")
	askCmd.Flags().BoolVar(&askRaw, "raw", false, "print the answer as plain text")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	_ = askCmd.MarkFlagRequired("topic")
	rootCmd.AddCommand(askCmd)
}

// answerJSON is the JSON shape of an answer.
type answerJSON struct {
	Topic    string       `json:"topic"`
	Question string       `json:"question"`
	Answer   string       `json:"answer"`
	Sources  []sourceJSON `json:"sources"`
}

func runAsk(cmd *cobra.Command, args []string) error {
	chat, err := chatService()
	if err != nil {
		return err
	}

	topic := domain.Topic(strings.TrimSpace(askTopic))
	if topic.IsZero() {
		return errors.New("--topic is required")
	}
	question := strings.Join(args, " ")

	ctx := cmd.Context()
	if err := chat.SelectTopic(ctx, topic); err != nil && !errors.Is(err, domain.ErrTopicActive) {
		return userFacing(err, "Failed to initialize topic")
	}

	msg, err := chat.Send(ctx, question)
	if err != nil {
		return userFacing(err, "Failed to send message")
	}

	if askJSON {
		data, err := json.MarshalIndent(answerJSON{
			Topic:    topic.String(),
			Question: question,
			Answer:   render.Plain(msg.Content),
			Sources:  sourcesJSON(msg.Sources),
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal answer: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	md := newMarkdown(cmd.OutOrStdout())
	if askRaw {
		md = nil
	}
	printAnswer(cmd.OutOrStdout(), md, msg)
	return nil
}
