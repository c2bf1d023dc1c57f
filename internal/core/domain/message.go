package domain

import (
	"fmt"
	"strings"
	"time"
)

// Role identifies who produced a message.
type Role string

// Message roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Label returns the speaker label used by the renderers.
func (r Role) Label() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	case RoleSystem:
		return "System"
	default:
		return string(r)
	}
}

// IsConversation reports whether the role belongs to the question/answer
// exchange (as opposed to system notices).
func (r Role) IsConversation() bool {
	return r == RoleUser || r == RoleAssistant
}

// Message is a single transcript entry. Content is sanitised when the
// message is created and messages are never mutated afterwards.
type Message struct {
	ID        string
	Role      Role
	Content   string
	Sources   []Citation
	Timestamp time.Time
}

// UnknownPage marks a citation whose page the backend could not determine.
const UnknownPage = -1

// Citation is the provenance of an answer: a page within a source document.
type Citation struct {
	Page   int
	Source string
}

// Filename returns the last path component of Source.
func (c Citation) Filename() string {
	name := c.Source
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// PageLabel returns "Page 12", or "Page Unknown" when the page is unknown.
func (c Citation) PageLabel() string {
	if c.Page == UnknownPage {
		return "Page Unknown"
	}
	return fmt.Sprintf("Page %d", c.Page)
}

// String renders the citation the way the transcript shows it.
func (c Citation) String() string {
	return fmt.Sprintf("%s in %s", c.PageLabel(), Sanitize(c.Filename()))
}

// Answer is the backend's reply to a question.
type Answer struct {
	Text      string
	Sources   []Citation
	WordCount int
	Topic     Topic
}

// Apology is the assistant message recorded when a question fails.
const Apology = "Sorry, there was an error processing your request."

var markupEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// Sanitize escapes markup so text is displayed literally and never
// interpreted: "<script>" becomes "&lt;script&gt;".
func Sanitize(s string) string {
	return markupEscaper.Replace(s)
}

var markupUnescaper = strings.NewReplacer("&lt;", "<", "&gt;", ">", "&amp;", "&")

// Unsanitize reverses Sanitize for plain-text sinks (pipes, JSON output)
// where markup is never interpreted.
func Unsanitize(s string) string {
	return markupUnescaper.Replace(s)
}
