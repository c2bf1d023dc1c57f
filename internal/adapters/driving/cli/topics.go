package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/topicchat/internal/core/domain"
)

var topicsJSON bool

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List available topics",
	Long: `Fetches the topics the backend can answer questions about.
The identifier in brackets is what --topic and /use expect.`,
	Args: cobra.NoArgs,
	RunE: runTopics,
}

func init() {
	topicsCmd.Flags().BoolVar(&topicsJSON, "json", false, "output topics as JSON")
	rootCmd.AddCommand(topicsCmd)
}

// topicJSON is the JSON shape of a topic.
type topicJSON struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func runTopics(cmd *cobra.Command, _ []string) error {
	chat, err := chatService()
	if err != nil {
		return err
	}

	topics, err := chat.LoadTopics(cmd.Context())
	if err != nil {
		return userFacing(err, "Failed to load topics")
	}

	if topicsJSON {
		return outputTopicsJSON(cmd, topics)
	}

	if len(topics) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No topics available. Contact administrator.")
		return nil
	}

	icons := topicIcons()
	for _, t := range topics {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s %s [%s]\n", domain.TopicIcon(t, icons), topicColor.Sprint(t.DisplayName()), t)
	}
	return nil
}

func outputTopicsJSON(cmd *cobra.Command, topics []domain.Topic) error {
	out := make([]topicJSON, len(topics))
	for i, t := range topics {
		out[i] = topicJSON{ID: t.String(), Name: t.DisplayName()}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal topics: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

// topicIcons returns the configured icon table, or the defaults.
func topicIcons() map[string]string {
	if svc == nil || svc.Settings == nil {
		return domain.DefaultTopicIcons()
	}
	settings, err := svc.Settings.Get()
	if err != nil {
		return domain.DefaultTopicIcons()
	}
	return settings.TopicIcons
}
