package apperr

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_CapturesContextAndStatus(t *testing.T) {
	err := New(NotFound, "clips.get", "clip not found")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, err.Status())
	assert.Equal(t, "clips.get", err.Context.Operation)
	assert.False(t, err.RequiresChallenge())
}

func TestWrap_NilPassthrough(t *testing.T) {
	assert.Nil(t, Wrap(nil, Internal, "op"))
}

func TestWrap_PreservesExistingAppError(t *testing.T) {
	inner := New(Conflict, "clips.create", "duplicate")
	wrapped := Wrap(inner, Internal, "clips.create.outer")
	assert.Equal(t, Conflict, wrapped.Kind)
}

func TestUnauthorized_RequiresChallenge(t *testing.T) {
	err := New(Unauthorized, "auth.login", "missing").WithCode("missing")
	assert.True(t, err.RequiresChallenge())
	assert.Equal(t, http.StatusUnauthorized, err.Status())
}

func TestIs_IgnoresTextOnlyWrapping(t *testing.T) {
	base := New(BadGateway, "nhl.fetch", "upstream down")
	wrapped := errors.New("context: " + base.Error())
	assert.False(t, Is(wrapped, BadGateway))
	assert.True(t, Is(base, BadGateway))
}

func TestKindOf_DefaultsToInternal(t *testing.T) {
	assert.Equal(t, Internal, KindOf(errors.New("plain")))
}

func TestSafeExecute_RecoversPanic(t *testing.T) {
	err := SafeExecute("tool.vector_search", func() error {
		panic("boom")
	})
	require.Error(t, err)
	assert.Equal(t, Internal, KindOf(err))
}

func TestSafeExecuteWithReturn_RecoversPanicAndZerosResult(t *testing.T) {
	result, err := SafeExecuteWithReturn("tool.tabular_query", func() (int, error) {
		panic("boom")
	})
	require.Error(t, err)
	assert.Equal(t, 0, result)
}

func TestSafeExecuteWithReturn_PassesThroughSuccess(t *testing.T) {
	result, err := SafeExecuteWithReturn("tool.ok", func() (string, error) {
		return "value", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "value", result)
}
