package domain

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRole(t *testing.T) {
	assert.True(t, RoleUser.IsValid())
	assert.True(t, RoleAssistant.IsValid())
	assert.False(t, Role("system").IsValid())
	assert.Equal(t, "assistant", RoleAssistant.String())
}

func TestSourceFragment_Excerpt(t *testing.T) {
	long := strings.Repeat("a", ExcerptLength+20)

	tests := []struct {
		name string
		text string
		n    int
		want string
	}{
		{name: "short", text: "brief", n: ExcerptLength, want: "brief"},
		{name: "exact", text: strings.Repeat("b", 10), n: 10, want: strings.Repeat("b", 10)},
		{name: "truncated", text: long, n: ExcerptLength, want: strings.Repeat("a", ExcerptLength) + "..."},
		{name: "multibyte", text: "héllo wörld", n: 5, want: "héllo..."},
		{name: "no limit", text: long, n: 0, want: long},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := SourceFragment{Text: tt.text}
			assert.Equal(t, tt.want, f.Excerpt(tt.n))
		})
	}
}

func TestMessage_ShowCitations(t *testing.T) {
	sources := []SourceFragment{{Text: "p1"}}

	tests := []struct {
		name string
		msg  Message
		want bool
	}{
		{
			name: "grounded assistant with sources",
			msg:  Message{Role: RoleAssistant, HasGroundedAnswer: true, Sources: sources},
			want: true,
		},
		{
			name: "ungrounded",
			msg:  Message{Role: RoleAssistant, Sources: sources},
		},
		{
			name: "grounded without sources",
			msg:  Message{Role: RoleAssistant, HasGroundedAnswer: true},
		},
		{
			name: "user message",
			msg:  Message{Role: RoleUser, HasGroundedAnswer: true, Sources: sources},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.msg.ShowCitations())
		})
	}
}

func TestClampConfidence(t *testing.T) {
	assert.InDelta(t, 0.0, ClampConfidence(-0.5), 0)
	assert.InDelta(t, 1.0, ClampConfidence(1.7), 0)
	assert.InDelta(t, 0.42, ClampConfidence(0.42), 0)
	assert.InDelta(t, 0.0, ClampConfidence(math.NaN()), 0)
}

func TestMessage_Clone(t *testing.T) {
	page := 3
	conf := 0.8
	m := Message{
		Role:              RoleAssistant,
		Content:           "answer",
		Sources:           []SourceFragment{{Page: &page, Text: "original"}},
		Confidence:        &conf,
		HasGroundedAnswer: true,
	}

	c := m.Clone()
	c.Sources[0].Text = "changed"
	*c.Sources[0].Page = 9
	*c.Confidence = 0.1

	assert.Equal(t, "original", m.Sources[0].Text)
	assert.Equal(t, 3, *m.Sources[0].Page)
	assert.InDelta(t, 0.8, *m.Confidence, 0)
	assert.Nil(t, Message{Role: RoleUser}.Clone().Sources)
	assert.Nil(t, Message{Role: RoleUser}.Clone().Confidence)
}
