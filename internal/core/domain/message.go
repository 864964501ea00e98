package domain

import (
	"math"
	"time"
)

// Role identifies who authored a message.
type Role string

const (
	// RoleUser is a question typed by the user.
	RoleUser Role = "user"
	// RoleAssistant is an answer (or failure notice) from the service.
	RoleAssistant Role = "assistant"
)

// IsValid returns true if the role is recognised.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAssistant
}

// String returns the string representation.
func (r Role) String() string {
	return string(r)
}

// ExcerptLength is the display length of a source fragment.
const ExcerptLength = 180

// SourceFragment is a citation backing an assistant answer.
type SourceFragment struct {
	// Page is the 1-based page number, nil when the service omits it.
	Page *int

	// Text is the full retrieved text.
	Text string
}

// Excerpt returns Text truncated to at most n runes, with an ellipsis
// when something was cut.
func (f SourceFragment) Excerpt(n int) string {
	runes := []rune(f.Text)
	if n <= 0 || len(runes) <= n {
		return f.Text
	}
	return string(runes[:n]) + "..."
}

// Message is one turn in a conversation. Messages are values and are never
// mutated after creation.
type Message struct {
	// ID is unique and sorts by creation time.
	ID string

	// Role is the author.
	Role Role

	// Content is the message text.
	Content string

	// CreatedAt is when the message was appended.
	CreatedAt time.Time

	// Sources backs an assistant answer. Nil for user messages.
	Sources []SourceFragment

	// Confidence is the retrieval score in [0,1]. Nil when absent.
	Confidence *float64

	// HasGroundedAnswer is true when the service asserts the answer is
	// backed by document content. Always false for user messages.
	HasGroundedAnswer bool
}

// ShowCitations reports whether sources and confidence should be displayed.
func (m *Message) ShowCitations() bool {
	return m.Role == RoleAssistant && m.HasGroundedAnswer && len(m.Sources) > 0
}

// Clone returns a copy that shares no memory with m.
func (m Message) Clone() Message {
	c := m
	if m.Sources != nil {
		c.Sources = make([]SourceFragment, len(m.Sources))
		for i, src := range m.Sources {
			c.Sources[i] = SourceFragment{Text: src.Text}
			if src.Page != nil {
				page := *src.Page
				c.Sources[i].Page = &page
			}
		}
	}
	if m.Confidence != nil {
		conf := *m.Confidence
		c.Confidence = &conf
	}
	return c
}

// CloneMessages deep-copies a transcript.
func CloneMessages(msgs []Message) []Message {
	out := make([]Message, len(msgs))
	for i := range msgs {
		out[i] = msgs[i].Clone()
	}
	return out
}

// Answer is the service's reply to a question.
type Answer struct {
	// Text is the answer body.
	Text string

	// Sources are returned in relevance order.
	Sources []SourceFragment

	// Confidence is the service score, nil when omitted.
	Confidence *float64

	// HasRelevantData reports a grounded answer.
	HasRelevantData bool
}

// ClampConfidence bounds a score to [0,1]. NaN maps to 0.
func ClampConfidence(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
