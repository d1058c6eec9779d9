package domain

import "time"

// MessagePair is one completed exchange: the user's text and the reply that
// was returned for it (a fallback reply included).
type MessagePair struct {
	User      string
	Assistant string
}

// AuditEntry is a write-once record of one exchange and its reasoning label.
type AuditEntry struct {
	ID            string
	Timestamp     time.Time
	UserText      string
	AssistantText string
	Label         string
	Reasoning     string
	Fallback      bool
}
