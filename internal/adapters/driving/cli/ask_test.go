package cli

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docgpt-cli/internal/core/domain"
)

func intPtr(n int) *int { return &n }

func floatPtr(f float64) *float64 { return &f }

func groundedReply() *domain.Message {
	return &domain.Message{
		Role:              domain.RoleAssistant,
		Content:           "Revenue grew 12%.",
		HasGroundedAnswer: true,
		Confidence:        floatPtr(0.87),
		Sources: []domain.SourceFragment{
			{Page: intPtr(3), Text: "Revenue grew 12% year over year."},
			{Text: "Unpaged fragment"},
		},
	}
}

func TestAskCmd_PrintsAnswerWithSources(t *testing.T) {
	exchange := &MockExchangeService{
		AskFunc: func(context.Context, string) (*domain.Message, error) {
			return groundedReply(), nil
		},
	}
	setupTestServices(t, &Services{Exchange: exchange})

	out, err := execute(t, "ask", "How", "did", "revenue", "change?")
	require.NoError(t, err)
	assert.Equal(t, []string{"How did revenue change?"}, exchange.Questions)
	assert.Contains(t, out, "Revenue grew 12%.")
	assert.Contains(t, out, "Confidence: 87%")
	assert.Contains(t, out, "[1] p. 3: Revenue grew 12% year over year.")
	assert.Contains(t, out, "[2] Unpaged fragment")
}

func TestAskCmd_UngroundedHidesSources(t *testing.T) {
	exchange := &MockExchangeService{
		AskFunc: func(context.Context, string) (*domain.Message, error) {
			return &domain.Message{
				Role:       domain.RoleAssistant,
				Content:    "Not in the document.",
				Confidence: floatPtr(0.1),
				Sources:    []domain.SourceFragment{{Text: "noise"}},
			}, nil
		},
	}
	setupTestServices(t, &Services{Exchange: exchange})

	out, err := execute(t, "ask", "who?")
	require.NoError(t, err)
	assert.Contains(t, out, "Not in the document.")
	assert.NotContains(t, out, "Sources:")
	assert.NotContains(t, out, "Confidence")
}

func TestAskCmd_JSON(t *testing.T) {
	exchange := &MockExchangeService{
		AskFunc: func(context.Context, string) (*domain.Message, error) {
			return groundedReply(), nil
		},
	}
	setupTestServices(t, &Services{Exchange: exchange})

	out, err := execute(t, "ask", "--json", "revenue?")
	require.NoError(t, err)

	var got answerJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "Revenue grew 12%.", got.Answer)
	assert.True(t, got.Grounded)
	require.NotNil(t, got.Confidence)
	assert.InDelta(t, 0.87, *got.Confidence, 0.0001)
	require.Len(t, got.Sources, 2)
	assert.Equal(t, 3, *got.Sources[0].Page)
	assert.Nil(t, got.Sources[1].Page)
}

func TestAskCmd_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "signed out", err: &domain.ServiceError{StatusCode: 401}, want: signedOutMessage},
		{name: "service detail", err: &domain.ServiceError{StatusCode: 400, Detail: "No document indexed"}, want: "No document indexed"},
		{name: "transport", err: &domain.TransportError{Op: "ask", Err: errors.New("timeout")}, want: domain.AskFailedMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exchange := &MockExchangeService{
				AskFunc: func(context.Context, string) (*domain.Message, error) {
					return &domain.Message{Role: domain.RoleAssistant, Content: "failed"}, tt.err
				},
			}
			setupTestServices(t, &Services{Exchange: exchange})

			_, err := execute(t, "ask", "q")
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestAskCmd_BlankQuestion(t *testing.T) {
	exchange := &MockExchangeService{}
	setupTestServices(t, &Services{Exchange: exchange})

	_, err := execute(t, "ask", "   ")
	require.Error(t, err)
	assert.Empty(t, exchange.Questions)
}
