package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/config"
)

func TestBcryptHasher_HashAndCheck(t *testing.T) {
	hasher := NewBcryptHasher(&config.Config{Auth: &config.AuthConfig{BcryptCost: 4}})

	hash, err := hasher.Hash("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, hasher.Check("correct horse battery staple", hash))
	assert.False(t, hasher.Check("correct horse battery stapl", hash))
	assert.False(t, hasher.Check("", hash))
}

func TestBcryptHasher_CheckAgainstEmptyHash(t *testing.T) {
	hasher := NewBcryptHasher(&config.Config{})

	assert.False(t, hasher.Check("anything", ""))
}
