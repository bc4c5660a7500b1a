package auth

import (
	"github.com/google/uuid"

	"folio/internal/domain/service"
)

// uuidTokenSource mints session tokens as random UUID v4 strings: the
// version nibble is fixed to 4 and the variant nibble is one of
// {8, 9, a, b}.
type uuidTokenSource struct{}

// NewUUIDTokenSource is the constructor for uuidTokenSource.
func NewUUIDTokenSource() service.TokenSource {
	return &uuidTokenSource{}
}

func (*uuidTokenSource) NewSessionToken() string {
	return uuid.NewString()
}
