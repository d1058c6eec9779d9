package httpapi

import (
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"net/http"

	"coach-agent/internal/usecase"
)

const maxBodyBytes = 1 << 20

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

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

const (
	errNoMessage = "No message provided"
	errInternal  = "Internal server error"
	resetMessage = "Chat history reset successfully"
)

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, struct{ Name string }{Name: "Anna"}); err != nil {
		s.logger.Errorw("failed to render index", "error", err)
	}
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil || json.Unmarshal(body, &req) != nil || req.Message == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: errNoMessage})
		return
	}

	out, err := s.svc.Chat(r.Context(), usecase.ChatInput{Message: *req.Message})
	if err != nil {
		var ucErr *usecase.Error
		if errors.As(err, &ucErr) && ucErr.Code == usecase.ErrorInvalidInput {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: errNoMessage})
			return
		}
		s.logger.Errorw("chat request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: errInternal})
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Response: out.Response})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.svc.Reset(r.Context())
	writeJSON(w, http.StatusOK, messageResponse{Message: resetMessage})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	h := s.svc.Health()
	writeJSON(w, http.StatusOK, healthResponse{Status: h.Status, Message: h.Message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
