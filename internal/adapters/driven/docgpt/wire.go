package docgpt

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/custodia-labs/docgpt-cli/internal/core/domain"
)

// historyEntry is one prior turn sent with a question. The service accepts
// either "role" or "type", so both are sent.
type historyEntry struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

type askRequest struct {
	Question string         `json:"question"`
	History  []historyEntry `json:"history"`
}

type sourceChunk struct {
	Page *json.Number `json:"page,omitempty"`
	Text string       `json:"text"`
}

type askResponse struct {
	Answer          string        `json:"answer"`
	SourceChunks    []sourceChunk `json:"source_chunks"`
	ConfidenceScore *float64      `json:"confidence_score"`
	HasRelevantData bool          `json:"has_relevant_data"`
}

type catalogEntry struct {
	ID         flexID       `json:"id"`
	Name       string       `json:"name"`
	UploadDate string       `json:"upload_date"`
	PageCount  *json.Number `json:"page_count,omitempty"`
	ChunkCount int          `json:"chunk_count"`
	Status     string       `json:"status"`
}

type errorResponse struct {
	Detail json.RawMessage `json:"detail"`
}

func toHistory(messages []domain.Message) []historyEntry {
	out := make([]historyEntry, 0, len(messages))
	for i := range messages {
		m := &messages[i]
		out = append(out, historyEntry{
			ID:        m.ID,
			Type:      m.Role.String(),
			Role:      m.Role.String(),
			Content:   m.Content,
			Timestamp: m.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
	}
	return out
}

func (r *askResponse) toAnswer() *domain.Answer {
	answer := &domain.Answer{
		Text:            r.Answer,
		Confidence:      r.ConfidenceScore,
		HasRelevantData: r.HasRelevantData,
	}
	if len(r.SourceChunks) > 0 {
		answer.Sources = make([]domain.SourceFragment, 0, len(r.SourceChunks))
		for _, c := range r.SourceChunks {
			answer.Sources = append(answer.Sources, domain.SourceFragment{
				Page: numberToInt(c.Page),
				Text: c.Text,
			})
		}
	}
	return answer
}

func (e *catalogEntry) toDomain() domain.CatalogEntry {
	return domain.CatalogEntry{
		ID:         string(e.ID),
		Name:       e.Name,
		UploadDate: parseTimestamp(e.UploadDate),
		PageCount:  numberToInt(e.PageCount),
		ChunkCount: e.ChunkCount,
		Status:     domain.CatalogStatus(e.Status),
	}
}

// flexID decodes an identifier sent as either a JSON string or number.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

// numberToInt accepts integral JSON numbers, including "3.0".
func numberToInt(n *json.Number) *int {
	if n == nil || *n == "" {
		return nil
	}
	if v, err := n.Int64(); err == nil {
		i := int(v)
		return &i
	}
	if f, err := n.Float64(); err == nil {
		i := int(f)
		return &i
	}
	return nil
}

// parseTimestamp accepts RFC 3339 and the zone-less ISO form Python emits.
func parseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// detailText extracts a message from a "detail" value, which is a string
// for application errors and a list of {msg} objects for validation errors.
func detailText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return string(raw)
}
