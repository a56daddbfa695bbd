package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNeedsClarification_EmptyOrWhitespace(t *testing.T) {
	assert.True(t, needsClarification(""))
	assert.True(t, needsClarification("   "))
}

func TestNeedsClarification_BareGreeting(t *testing.T) {
	assert.True(t, needsClarification("hi"))
	assert.True(t, needsClarification("Hello"))
	assert.True(t, needsClarification("  HEY  "))
}

func TestNeedsClarification_PunctuationOnly(t *testing.T) {
	assert.True(t, needsClarification("???"))
	assert.True(t, needsClarification("..."))
}

func TestNeedsClarification_RealQueryIsFalse(t *testing.T) {
	assert.False(t, needsClarification("how has Connor McDavid performed over the last 10 games?"))
}

func TestClarificationResponse_CarriesConversationIDAndWarning(t *testing.T) {
	resp := clarificationResponse("conv-1")
	assert.True(t, resp.Success)
	assert.Equal(t, QueryClarification, resp.QueryType)
	assert.Equal(t, "conv-1", resp.ConversationID)
	assert.Contains(t, resp.Warnings, "clarification_required")
}
