// Package handler adapts API Gateway proxy events to the chat use case.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"coach-agent/internal/usecase"
)

const correlationHeader = "X-Correlation-Id"

// ChatService is the conversation use case consumed by Handle.
type ChatService interface {
	Chat(ctx context.Context, in usecase.ChatInput) (usecase.ChatOutput, error)
	Reset(ctx context.Context)
	Health() usecase.HealthStatus
}

type Handler struct {
	svc    ChatService
	logger *zap.SugaredLogger
}

type chatRequest struct {
	Message *string `json:"message"`
}

type chatResponse struct {
	Response string `json:"response"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func NewHandler(svc ChatService, logger *zap.SugaredLogger) (*Handler, error) {
	if svc == nil {
		return nil, errors.New("handler: chat service must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Handler{svc: svc, logger: logger}, nil
}

// Handle routes one API Gateway request. It never returns a non-nil error;
// failures are expressed as HTTP responses.
func (h *Handler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	correlationID := headerValue(req.Headers, correlationHeader)
	if correlationID == "" {
		correlationID = uuid.NewString()
	}
	logger := h.logger.With("correlation_id", correlationID)

	method := strings.ToUpper(req.HTTPMethod)
	path := "/" + strings.Trim(req.Path, "/")

	switch {
	case method == http.MethodPost && path == "/chat":
		return h.chat(ctx, logger, req, correlationID), nil
	case method == http.MethodPost && path == "/reset":
		h.svc.Reset(ctx)
		return jsonResponse(http.StatusOK, correlationID, messageResponse{Message: "Chat history reset successfully"}), nil
	case method == http.MethodGet && path == "/health":
		s := h.svc.Health()
		return jsonResponse(http.StatusOK, correlationID, healthResponse{Status: s.Status, Message: s.Message}), nil
	default:
		logger.Warnw("route not found", "method", method, "path", req.Path)
		return jsonResponse(http.StatusNotFound, correlationID, errorResponse{Error: "Not found"}), nil
	}
}

func (h *Handler) chat(ctx context.Context, logger *zap.SugaredLogger, req events.APIGatewayProxyRequest, correlationID string) events.APIGatewayProxyResponse {
	var in chatRequest
	if err := json.Unmarshal([]byte(req.Body), &in); err != nil || in.Message == nil {
		return jsonResponse(http.StatusBadRequest, correlationID, errorResponse{Error: "No message provided"})
	}

	out, err := h.svc.Chat(ctx, usecase.ChatInput{Message: *in.Message})
	if err != nil {
		var ucErr *usecase.Error
		if errors.As(err, &ucErr) && ucErr.Code == usecase.ErrorInvalidInput {
			return jsonResponse(http.StatusBadRequest, correlationID, errorResponse{Error: "No message provided"})
		}
		logger.Errorw("chat request failed", "error", err)
		return jsonResponse(http.StatusInternalServerError, correlationID, errorResponse{Error: "Internal server error"})
	}

	logger.Infow("chat request completed", "label", out.Label, "fallback", out.Fallback)
	return jsonResponse(http.StatusOK, correlationID, chatResponse{Response: out.Response})
}

func jsonResponse(status int, correlationID string, v any) events.APIGatewayProxyResponse {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body = []byte(`{"error":"Internal server error"}`)
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type":                "application/json",
			"Access-Control-Allow-Origin": "*",
			correlationHeader:             correlationID,
		},
		Body: string(body),
	}
}

func headerValue(headers map[string]string, name string) string {
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
