package middleware

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/v2/bson"

	deliverycontext "folio/internal/delivery/context"
	"folio/internal/domain/entity"
	"folio/internal/domain/fault"
	"folio/internal/domain/store"
)

// The cookie names are deliberately opaque so the pair reveals nothing
// about its purpose to anyone inspecting traffic or storage.
const (
	// CredentialCookie carries the credential id (hex).
	CredentialCookie = "8e44f0089b076e18a718eb9ca3d94674"

	// SessionCookie carries the session token minted at login.
	SessionCookie = "fa53b91ccc1b78668d5af58e1ed3a485"
)

// unauthorizedMessage is the single message every gate denial returns.
// One fixed message for every denial reason: a caller probing the gate
// cannot distinguish a bad id from a bad token or a missing account.
const unauthorizedMessage = "Unauthorized. The request has not been applied because it lacks valid authentication credentials for the target resource."

// GateMiddleware guards protected routes with the session cookie pair.
type GateMiddleware struct {
	store  store.Store
	logger *slog.Logger
}

// NewGateMiddleware is the constructor for GateMiddleware.
func NewGateMiddleware(docStore store.Store, logger *slog.Logger) *GateMiddleware {
	return &GateMiddleware{store: docStore, logger: logger}
}

// Authorize validates the cookie pair against the stored session token
// and attaches the authenticated credential on success.
func (m *GateMiddleware) Authorize(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		credential, err := m.authenticate(c)
		if err != nil {
			return err
		}

		ctx := deliverycontext.WithCredential(c.Request().Context(), credential)
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}

// authenticate resolves the cookie pair to a credential. Every denial
// path returns the same silent unauthorized fault so responses cannot
// be used to enumerate accounts, and nothing here reaches the error
// log.
func (m *GateMiddleware) authenticate(c echo.Context) (*entity.Credential, error) {
	const fn = "Gate.Authorize"

	idCookie, err := c.Cookie(CredentialCookie)
	if err != nil || idCookie.Value == "" {
		return nil, fault.Unauthorized(fn, unauthorizedMessage)
	}
	tokenCookie, err := c.Cookie(SessionCookie)
	if err != nil || tokenCookie.Value == "" {
		return nil, fault.Unauthorized(fn, unauthorizedMessage)
	}

	credentialID, err := bson.ObjectIDFromHex(idCookie.Value)
	if err != nil {
		return nil, fault.Unauthorized(fn, unauthorizedMessage)
	}

	var credential entity.Credential
	found, err := m.store.FindByID(c.Request().Context(), entity.CollectionCredentials,
		credentialID, &credential, store.Fields("sessionToken"))
	if err != nil {
		m.logger.Debug("Session gate lookup failed", slog.Any("error", err))

		return nil, fault.Unauthorized(fn, unauthorizedMessage)
	}
	if !found {
		return nil, fault.Unauthorized(fn, unauthorizedMessage)
	}

	// An account that never logged in has no token; it must not pass
	// on an equally empty cookie value.
	if credential.SessionToken == "" || credential.SessionToken != tokenCookie.Value {
		return nil, fault.Unauthorized(fn, unauthorizedMessage)
	}

	credential.SessionToken = ""

	return &credential, nil
}
