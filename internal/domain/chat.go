package domain

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is the provider-agnostic chat message shape used by the prompt
// builder and the completion integrations.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
