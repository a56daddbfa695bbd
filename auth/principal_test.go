package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrincipal_ToUser_CopiesPlayerID(t *testing.T) {
	p := Principal{Username: "player", Role: RolePlayer, DisplayName: "Dev Player", PlayerID: "8480018"}
	u := p.ToUser()
	assert.Equal(t, "8480018", u.Preferences.PlayerID)
}

func TestPrincipal_ToUser_ThroughEnforcer_MatchesOwnClip(t *testing.T) {
	en, err := NewEnforcer()
	require.NoError(t, err)

	store := NewPrincipalStore([]Principal{
		{Username: "player", Secret: "s", Role: RolePlayer, PlayerID: "8480018"},
	})
	principal, ok := store.Lookup("player")
	require.True(t, ok)
	user := principal.ToUser()

	assert.True(t, en.CanAccessClip(user, ClipAccessInfo{PlayerID: "8480018"}, false))
	assert.False(t, en.CanAccessClip(user, ClipAccessInfo{PlayerID: "9999999"}, false))
}
