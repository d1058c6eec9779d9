package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"coach-agent/internal/domain"
	"coach-agent/internal/integrations/openai"
)

// FallbackReply is returned, and recorded as the assistant's turn, whenever
// the completion call fails.
const FallbackReply = "I apologize, I couldn't generate a response right now. " +
	"Could you please rephrase or ask a smaller, more specific question? " +
	"If you'd like, try asking about one step of your idea validation process."

const healthMessage = assistantName + " AI Coach is running"

type LLMClient interface {
	Complete(ctx context.Context, messages []domain.ChatMessage) openai.Result
}

// AuditRecorder persists audit entries. Implementations handle their own
// write failures; the request never sees them.
type AuditRecorder interface {
	Record(ctx context.Context, entry domain.AuditEntry)
}

type ChatService struct {
	llm       LLMClient
	audit     AuditRecorder
	history   *History
	knowledge string
	logger    *zap.SugaredLogger
	now       func() time.Time
}

type ChatInput struct {
	Message string
}

type ChatOutput struct {
	Response string
	Label    Label
	Fallback bool
}

type HealthStatus struct {
	Status  string
	Message string
}

func NewChatService(llm LLMClient, audit AuditRecorder, history *History, knowledge string, logger *zap.SugaredLogger) (*ChatService, error) {
	if llm == nil {
		return nil, errors.New("usecase: llm client must not be nil")
	}
	if audit == nil {
		return nil, errors.New("usecase: audit recorder must not be nil")
	}
	if history == nil {
		return nil, errors.New("usecase: history must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &ChatService{
		llm:       llm,
		audit:     audit,
		history:   history,
		knowledge: knowledge,
		logger:    logger,
		now:       time.Now,
	}, nil
}

func (s *ChatService) Chat(ctx context.Context, in ChatInput) (ChatOutput, error) {
	message := strings.TrimSpace(in.Message)
	if message == "" {
		return ChatOutput{}, newError(ErrorInvalidInput, "empty_message", nil)
	}

	prompt := buildPromptMessages(s.knowledge, s.history.Last(promptHistoryTurns), message)
	res := s.llm.Complete(ctx, prompt)

	reply, fallback := res.Text, false
	if !res.OK() {
		s.logger.Errorw("error generating response from completion API",
			"reason", res.Failure.Reason,
			"error", res.Failure,
		)
		reply, fallback = FallbackReply, true
	}

	s.history.Append(domain.MessagePair{User: message, Assistant: reply})

	label := Classify(reply)
	s.audit.Record(ctx, domain.AuditEntry{
		ID:            newUUID(),
		Timestamp:     s.now(),
		UserText:      message,
		AssistantText: reply,
		Label:         string(label),
		Reasoning:     label.Reasoning(),
		Fallback:      fallback,
	})

	return ChatOutput{Response: reply, Label: label, Fallback: fallback}, nil
}

// Reset clears the shared conversation history.
func (s *ChatService) Reset(_ context.Context) {
	s.history.Reset()
	s.logger.Infow("chat history has been reset")
}

func (s *ChatService) HistoryLen() int { return s.history.Len() }

// Health does not touch the completion API.
func (s *ChatService) Health() HealthStatus {
	return HealthStatus{Status: "healthy", Message: healthMessage}
}

var newUUID = func() string {
	return uuid.NewString()
}
