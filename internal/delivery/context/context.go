// Package context carries request-scoped values between the delivery
// layer and the services below it.
package context

import (
	"context"
	"log/slog"

	"go.mongodb.org/mongo-driver/v2/bson"

	"folio/internal/domain/entity"
)

type contextKey string

const (
	loggerKey     contextKey = "logger"
	credentialKey contextKey = "credential"
)

// WithLogger attaches a request-scoped logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// GetLoggerOrDefault returns the request-scoped logger if one is
// attached, otherwise the given fallback.
func GetLoggerOrDefault(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok && logger != nil {
		return logger
	}

	return fallback
}

// WithCredential attaches the authenticated credential.
func WithCredential(ctx context.Context, credential *entity.Credential) context.Context {
	return context.WithValue(ctx, credentialKey, credential)
}

// GetCredential returns the authenticated credential, if any.
func GetCredential(ctx context.Context) (*entity.Credential, bool) {
	credential, ok := ctx.Value(credentialKey).(*entity.Credential)

	return credential, ok && credential != nil
}

// GetCredentialID returns the authenticated credential's ID.
func GetCredentialID(ctx context.Context) (bson.ObjectID, bool) {
	credential, ok := GetCredential(ctx)
	if !ok {
		return bson.ObjectID{}, false
	}

	return credential.ID, true
}
