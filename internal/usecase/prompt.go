package usecase

import (
	"strings"

	"coach-agent/internal/domain"
)

// promptHistoryTurns is how many prior exchanges are replayed to the model.
const promptHistoryTurns = 3

const assistantName = "Anna"

func buildPromptMessages(knowledge string, recent []domain.MessagePair, message string) []domain.ChatMessage {
	if len(recent) > promptHistoryTurns {
		recent = recent[len(recent)-promptHistoryTurns:]
	}
	messages := make([]domain.ChatMessage, 0, 2+2*len(recent))
	messages = append(messages, domain.ChatMessage{Role: domain.RoleSystem, Content: buildSystemPrompt(knowledge)})
	for _, p := range recent {
		messages = append(messages,
			domain.ChatMessage{Role: domain.RoleUser, Content: p.User},
			domain.ChatMessage{Role: domain.RoleAssistant, Content: p.Assistant},
		)
	}
	return append(messages, domain.ChatMessage{Role: domain.RoleUser, Content: message})
}

func buildSystemPrompt(knowledge string) string {
	return strings.Join([]string{
		"You are " + assistantName + ", an AI entrepreneurship coach. Your goal is to support first-time entrepreneurs " +
			"by answering business-related questions, giving motivational nudges, and helping them take actionable steps forward.",
		"",
		"PERSONALITY & APPROACH:",
		personalityRules(),
		"",
		"KNOWLEDGE BASE (Use this information to answer questions):",
		knowledge,
		"",
		"Please respond as " + assistantName + ", the AI entrepreneurship coach. If the user's question relates to topics " +
			"in the knowledge base, use that information. If not, provide helpful general entrepreneurship advice and " +
			"guide them toward actionable next steps.",
	}, "\n")
}

func personalityRules() string {
	return strings.Join([]string{
		"- Be helpful, empathetic, and goal-oriented",
		"- Always try to guide the user towards actionable steps",
		"- Ask goal-oriented follow-up questions when appropriate",
		"- When asking a follow-up question, briefly explain why you are asking it (e.g., \"I'm asking this because...\")",
		"- Keep responses concise but encouraging",
		"- End your response with either a question or a suggestion for an actionable step",
	}, "\n")
}
