package usecase

import "strings"

// Label names the kind of reply the assistant gave. It is a heuristic over
// the reply text, not a semantic judgement.
type Label string

const (
	LabelFollowUpQuestion Label = "follow-up question"
	LabelActionableAdvice Label = "actionable advice"
	LabelMotivational     Label = "motivational encouragement"
	LabelInformative      Label = "informative answer"
)

var (
	advicePhrases        = []string{"i suggest", "your next step", "you should", "consider"}
	encouragementPhrases = []string{"great", "excellent", "well done", "keep going"}
)

// Classify assigns exactly one Label; rules are checked in order and the
// first match wins.
func Classify(reply string) Label {
	// A question mark that is not the final character counts as an embedded
	// follow-up question.
	if strings.Contains(reply, "?") && !strings.HasSuffix(strings.TrimSpace(reply), "?") {
		return LabelFollowUpQuestion
	}
	lower := strings.ToLower(reply)
	if containsAny(lower, advicePhrases) {
		return LabelActionableAdvice
	}
	if containsAny(lower, encouragementPhrases) {
		return LabelMotivational
	}
	return LabelInformative
}

// Reasoning is the sentence written to the interaction log for l.
func (l Label) Reasoning() string {
	switch l {
	case LabelFollowUpQuestion:
		return "Asked a goal-oriented follow-up question to guide the user."
	case LabelActionableAdvice:
		return "Provided actionable coaching advice."
	case LabelMotivational:
		return "Offered motivational encouragement."
	default:
		return "Answered a business-related question with informative content."
	}
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
