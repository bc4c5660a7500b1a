// Package usecase defines the application's business-logic interfaces
// and their input/output shapes.
package usecase

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// RegisterInput carries the fields of a registration request.
type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterOutput returns the public part of the created credential.
type RegisterOutput struct {
	ID        bson.ObjectID `json:"id"`
	Email     string        `json:"email"`
	ProfileID bson.ObjectID `json:"profileId"`
}

// LoginInput carries the fields of a login request.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginOutput is the session cookie pair handed back on success.
type LoginOutput struct {
	ID           bson.ObjectID `json:"id"`
	SessionToken string        `json:"sessionToken"`
}

// DeleteAccountInput re-authenticates a destructive action.
type DeleteAccountInput struct {
	Password string `json:"password"`
}

// AccountUsecase owns the credential lifecycle.
type AccountUsecase interface {
	// Register creates a Credential and its empty linked Profile.
	// If the Profile cannot be created, the Credential is compensated
	// away: the caller observes all-or-nothing.
	Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error)

	// Login verifies the secret and mints a fresh session token,
	// replacing any previous one.
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)

	// DeleteAccount removes the Credential, its Profile and the
	// profile-owned sub-documents after re-authentication.
	DeleteAccount(ctx context.Context, credentialID bson.ObjectID, input *DeleteAccountInput) error
}
