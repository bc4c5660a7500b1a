// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	deliverycontext "folio/internal/delivery/context"
	httpmiddleware "folio/internal/delivery/http/middleware"
	"folio/internal/delivery/http/response"
	"folio/internal/domain/fault"
	"folio/internal/usecase"
)

// sessionCookieTTL matches how long a browser keeps the pair; the
// server itself never expires tokens, only login rotates them.
const sessionCookieTTL = 30 * 24 * time.Hour

// AccountHandler holds dependencies for credential-related handlers.
type AccountHandler struct {
	uc     usecase.AccountUsecase
	logger *slog.Logger
}

// NewAccountHandler is the constructor for AccountHandler, injected by Fx.
func NewAccountHandler(uc usecase.AccountUsecase, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		uc:     uc,
		logger: logger,
	}
}

// Register handles the account registration request.
func (h *AccountHandler) Register(c echo.Context) error {
	var input *usecase.RegisterInput
	if err := c.Bind(&input); err != nil {
		return fault.New(fault.Validation, "AccountHandler.Register", "Invalid registration input.")
	}

	output, err := h.uc.Register(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, output)
}

// Login handles the login request and installs the session cookie pair.
func (h *AccountHandler) Login(c echo.Context) error {
	var input *usecase.LoginInput
	if err := c.Bind(&input); err != nil {
		return fault.New(fault.Validation, "AccountHandler.Login", "Invalid login input.")
	}

	output, err := h.uc.Login(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	setSessionCookie(c, httpmiddleware.CredentialCookie, output.ID.Hex())
	setSessionCookie(c, httpmiddleware.SessionCookie, output.SessionToken)

	return response.Success(c, http.StatusOK, output)
}

// Session answers whether the caller holds a valid cookie pair. The
// gate has already done the work; reaching this handler is the answer.
func (h *AccountHandler) Session(c echo.Context) error {
	credential, ok := deliverycontext.GetCredential(c.Request().Context())
	if !ok {
		return fault.Unauthorized("AccountHandler.Session", "No authenticated credential attached to the request.")
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"id":        credential.ID,
		"email":     credential.Email,
		"profileId": credential.ProfileID,
	})
}

// Delete re-authenticates and removes the account with everything it
// owns, then clears the cookie pair.
func (h *AccountHandler) Delete(c echo.Context) error {
	credential, ok := deliverycontext.GetCredential(c.Request().Context())
	if !ok {
		return fault.Unauthorized("AccountHandler.Delete", "No authenticated credential attached to the request.")
	}

	var input *usecase.DeleteAccountInput
	if err := c.Bind(&input); err != nil {
		return fault.New(fault.Validation, "AccountHandler.Delete", "Invalid account deletion input.")
	}

	if err := h.uc.DeleteAccount(c.Request().Context(), credential.ID, input); err != nil {
		return errors.WithStack(err)
	}

	clearSessionCookie(c, httpmiddleware.CredentialCookie)
	clearSessionCookie(c, httpmiddleware.SessionCookie)

	return response.Success(c, http.StatusOK, map[string]string{"status": "deleted"})
}

func setSessionCookie(c echo.Context, name, value string) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  time.Now().Add(sessionCookieTTL),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

func clearSessionCookie(c echo.Context, name string) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}
