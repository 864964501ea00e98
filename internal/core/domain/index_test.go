package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIndexState_Phase(t *testing.T) {
	assert.Equal(t, PhaseNoDocument, IndexState{}.Phase())
	assert.Equal(t, PhaseDocumentReady, IndexState{Indexed: true}.Phase())
	assert.Equal(t, "no_document", PhaseNoDocument.String())
	assert.Equal(t, "document_ready", PhaseDocumentReady.String())
	assert.Equal(t, "unknown", SessionPhase(9).String())
}

func TestIndexState_Clone(t *testing.T) {
	t.Run("deep copies prompts", func(t *testing.T) {
		s := IndexState{
			Indexed:          true,
			DocumentName:     "cv.pdf",
			IndexedAt:        time.Now(),
			TotalChunks:      3,
			SuggestedPrompts: []string{"a", "b"},
		}

		c := s.Clone()
		c.SuggestedPrompts[0] = "changed"

		assert.Equal(t, "a", s.SuggestedPrompts[0])
		assert.Equal(t, s.DocumentName, c.DocumentName)
		assert.Equal(t, s.TotalChunks, c.TotalChunks)
	})

	t.Run("voids fields when not indexed", func(t *testing.T) {
		s := IndexState{DocumentName: "stale.pdf", TotalChunks: 9}
		assert.Equal(t, IndexState{}, s.Clone())
	})
}

func TestDefaultSuggestedPrompts(t *testing.T) {
	prompts := DefaultSuggestedPrompts()
	assert.Equal(t, []string{
		"What are the key takeaways?",
		"Identify all mentioned skills or requirements.",
	}, prompts)

	prompts[0] = "mutated"
	assert.Equal(t, "What are the key takeaways?", DefaultSuggestedPrompts()[0])
}
