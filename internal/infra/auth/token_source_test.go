package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDTokenSource_NewSessionToken(t *testing.T) {
	source := NewUUIDTokenSource()

	token := source.NewSessionToken()
	parsed, err := uuid.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(4), parsed.Version())

	// Tokens are random per call.
	assert.NotEqual(t, token, source.NewSessionToken())
}
