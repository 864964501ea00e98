package domain

import "time"

// SessionPhase is the coordinator's state.
type SessionPhase int

const (
	// PhaseNoDocument means nothing is indexed; the user must upload.
	PhaseNoDocument SessionPhase = iota
	// PhaseDocumentReady means a document is indexed and can be queried.
	PhaseDocumentReady
)

// String returns the string representation of the phase.
func (p SessionPhase) String() string {
	switch p {
	case PhaseNoDocument:
		return "no_document"
	case PhaseDocumentReady:
		return "document_ready"
	default:
		return "unknown"
	}
}

// IndexState describes the document currently indexed on the service.
// When Indexed is false every other field is void.
type IndexState struct {
	// Indexed reports whether a document is searchable.
	Indexed bool

	// DocumentName is the uploaded file name.
	DocumentName string

	// IndexedAt is when indexing completed.
	IndexedAt time.Time

	// TotalChunks is the number of indexed segments.
	TotalChunks int

	// SuggestedPrompts are starter questions offered for the document.
	SuggestedPrompts []string
}

// Phase returns the coordinator phase implied by the state.
func (s IndexState) Phase() SessionPhase {
	if s.Indexed {
		return PhaseDocumentReady
	}
	return PhaseNoDocument
}

// Clone returns a deep copy safe to hand to observers.
func (s IndexState) Clone() IndexState {
	if !s.Indexed {
		return IndexState{}
	}
	c := s
	c.SuggestedPrompts = make([]string, len(s.SuggestedPrompts))
	copy(c.SuggestedPrompts, s.SuggestedPrompts)
	return c
}

// DefaultSuggestedPrompts are offered when the service returns none.
func DefaultSuggestedPrompts() []string {
	return []string{
		"What are the key takeaways?",
		"Identify all mentioned skills or requirements.",
	}
}

// UploadResponse is the service's reply to a successful submission.
type UploadResponse struct {
	Status           string   `json:"status,omitempty"`
	Message          string   `json:"message,omitempty"`
	DocumentName     string   `json:"document_name"`
	ChunksCreated    int      `json:"chunks_created"`
	SuggestedPrompts []string `json:"suggestions,omitempty"`
}

// StatusResponse is the service's reply to a status query.
type StatusResponse struct {
	IsIndexed        bool     `json:"is_indexed"`
	DocumentName     string   `json:"document_name,omitempty"`
	IndexedAt        string   `json:"indexed_at,omitempty"`
	TotalChunks      int      `json:"total_chunks,omitempty"`
	SuggestedPrompts []string `json:"suggestions,omitempty"`
}
