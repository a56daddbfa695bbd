package orchestrator

import "strings"

// greetings is the fixed short-greeting set that triggers the
// clarification gate, per spec.md §4.6 step 1 / §8's boundary behavior.
var greetings = map[string]bool{
	"hi": true, "hello": true, "hey": true, "yo": true,
	"sup": true, "hiya": true, "howdy": true,
}

// needsClarification reports whether query is empty, too short,
// punctuation-only, whitespace-only, or a bare greeting.
func needsClarification(query string) bool {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return true
	}
	if len([]rune(trimmed)) <= 2 {
		return true
	}
	if greetings[strings.ToLower(trimmed)] {
		return true
	}
	if isPunctuationOnly(trimmed) {
		return true
	}
	return false
}

func isPunctuationOnly(s string) bool {
	for _, r := range s {
		if !strings.ContainsRune(".,!?;:'\"-_()[]{}…", r) && r != ' ' {
			return false
		}
	}
	return true
}

// clarificationResponse builds the cooperative response spec.md §7 says
// the clarification gate must always return (never an error).
func clarificationResponse(conversationID string) QueryResponse {
	return QueryResponse{
		Success:        true,
		Response:       "Could you say a bit more about what you'd like to know? For example, a player name, team, or game.",
		QueryType:      QueryClarification,
		ConversationID: conversationID,
		Warnings:       []string{"clarification_required"},
	}
}
