package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/docgpt-cli/internal/core/domain"
	"github.com/custodia-labs/docgpt-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docgpt-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docgpt-cli/internal/logger"
)

// Ensure ExchangeService implements the interface.
var _ driving.ExchangeService = (*ExchangeService)(nil)

// ExchangeService runs the question/answer cycle against the session transcript.
// Every accepted question produces exactly two messages: the user turn,
// appended before dispatch, and one assistant reply.
type ExchangeService struct {
	session *Session
	query   driven.QueryService

	mu       sync.Mutex
	inFlight bool
}

// NewExchangeService creates a new exchange engine over session.
func NewExchangeService(session *Session, query driven.QueryService) *ExchangeService {
	return &ExchangeService{
		session: session,
		query:   query,
	}
}

// InFlight reports whether a question is awaiting its answer.
func (e *ExchangeService) InFlight() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.inFlight
}

// Ask appends question as a user turn, dispatches it with the transcript and
// appends the reply. On failure the appended reply carries the error text and
// the error is returned alongside it.
func (e *ExchangeService) Ask(ctx context.Context, question string) (*domain.Message, error) {
	if strings.TrimSpace(question) == "" {
		return nil, domain.ErrEmptyQuestion
	}
	if !e.session.signedIn(ctx) {
		return nil, domain.ErrAuthRequired
	}
	if !e.acquire() {
		return nil, domain.ErrAskInFlight
	}
	defer e.release()
	defer logger.Elapsed("ask", time.Now())

	history, gen, _ := e.session.appendMessage(domain.Message{
		Role:    domain.RoleUser,
		Content: question,
	}, -1)
	logger.Debug("ask: %q with %d prior messages", question, len(history)-1)

	answer, err := e.dispatch(ctx, question, history)
	if err != nil {
		logger.Warn("ask failed: %v", err)
		reply := e.appendReply(domain.Message{
			Role:    domain.RoleAssistant,
			Content: domain.UserMessage(err, domain.AskFailedMessage),
		}, gen)
		return reply, fmt.Errorf("ask: %w", err)
	}

	reply := domain.Message{
		Role:              domain.RoleAssistant,
		Content:           answer.Text,
		HasGroundedAnswer: answer.HasRelevantData,
	}
	if len(answer.Sources) > 0 {
		reply.Sources = make([]domain.SourceFragment, len(answer.Sources))
		copy(reply.Sources, answer.Sources)
	}
	// A NaN score carries no information and is treated as absent.
	if answer.Confidence != nil && !math.IsNaN(*answer.Confidence) {
		c := domain.ClampConfidence(*answer.Confidence)
		reply.Confidence = &c
	}
	logger.Debug("ask: grounded=%t sources=%d", reply.HasGroundedAnswer, len(reply.Sources))
	return e.appendReply(reply, gen), nil
}

func (e *ExchangeService) dispatch(ctx context.Context, question string, history []domain.Message) (*domain.Answer, error) {
	if e.query == nil {
		return nil, domain.ErrServiceUnavailable
	}
	answer, err := e.query.Ask(ctx, question, history)
	if err != nil {
		return nil, err
	}
	if answer == nil {
		return nil, fmt.Errorf("empty answer from service")
	}
	return answer, nil
}

// appendReply records the assistant turn unless the session was reset while
// the question was pending, in which case the reply is returned but dropped.
func (e *ExchangeService) appendReply(msg domain.Message, gen int) *domain.Message {
	transcript, _, ok := e.session.appendMessage(msg, gen)
	if !ok {
		logger.Debug("ask: transcript cleared while waiting, dropping reply")
		msg.ID = newMessageID()
		return &msg
	}
	reply := transcript[len(transcript)-1]
	return &reply
}

func (e *ExchangeService) acquire() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.inFlight {
		return false
	}
	e.inFlight = true
	return true
}

func (e *ExchangeService) release() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.inFlight = false
}
