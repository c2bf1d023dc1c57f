package domain

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Topic is the opaque identifier of a subject area, e.g. "Python_Programming".
// A topic must be initialised server-side before questions are accepted.
type Topic string

// DisplayName returns the human-readable name: separators become spaces and
// each word starts with an upper-case letter ("RDBMS" stays "RDBMS").
func (t Topic) DisplayName() string {
	name := strings.ReplaceAll(string(t), "_", " ")
	// Casers carry state, so one is built per call.
	return cases.Title(language.Und, cases.NoLower).String(name)
}

// String returns the raw identifier.
func (t Topic) String() string {
	return string(t)
}

// IsZero reports whether no topic is set.
func (t Topic) IsZero() bool {
	return t == ""
}

// TopicsFromStrings converts raw identifiers, dropping blank entries.
func TopicsFromStrings(raw []string) []Topic {
	topics := make([]Topic, 0, len(raw))
	for _, r := range raw {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		topics = append(topics, Topic(r))
	}
	return topics
}

// FallbackTopicIcon is shown for topics with no configured icon.
const FallbackTopicIcon = "📄"

// DefaultTopicIcons maps display names to icons for the stock topics.
func DefaultTopicIcons() map[string]string {
	return map[string]string{
		"RDBMS":                "🗄",
		"Python Programming":   "🐍",
		"Data Visualization":   "📈",
		"Problem Solving C":    "©",
		"Discrete Mathematics": "🧮",
	}
}

// TopicIcon looks the topic up by display name, then by raw identifier.
func TopicIcon(t Topic, icons map[string]string) string {
	if icon, ok := icons[t.DisplayName()]; ok && icon != "" {
		return icon
	}
	if icon, ok := icons[string(t)]; ok && icon != "" {
		return icon
	}
	return FallbackTopicIcon
}
