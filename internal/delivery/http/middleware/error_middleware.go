// Package middleware contains the HTTP middleware for the application.
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"folio/internal/delivery/http/response"
	"folio/internal/domain/fault"
	"folio/internal/infra/errlog"
)

// ErrorMiddleware translates errors escaping the handlers into the
// failure envelope and forwards them to the error-log recorder. It is
// the single place where internal errors become wire responses, so
// nothing below it needs to know about HTTP.
type ErrorMiddleware struct {
	logger   *slog.Logger
	recorder *errlog.Recorder
}

// NewErrorMiddleware creates a new error handling middleware.
func NewErrorMiddleware(logger *slog.Logger, recorder *errlog.Recorder) *ErrorMiddleware {
	return &ErrorMiddleware{
		logger:   logger,
		recorder: recorder,
	}
}

// HandleHTTPError handles errors as Echo's HTTPErrorHandler.
func (m *ErrorMiddleware) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	m.recorder.Record(err)

	if f, ok := fault.FromError(err); ok {
		_ = response.Fail(c, f.HTTPCode(), f.Kind(), f.Message())

		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		_ = response.Fail(c, httpErr.Code, kindForStatus(httpErr.Code), http.StatusText(httpErr.Code))

		return
	}

	m.logger.Error("Unhandled error",
		slog.String("error", err.Error()),
		slog.String("path", c.Request().URL.Path),
		slog.String("method", c.Request().Method),
	)

	_ = response.Fail(c, fault.Unknown.HTTPCode(), fault.Unknown, "An unknown error occurred.")
}

// kindForStatus maps transport-level statuses raised by echo itself
// (unknown route, bad method) onto the closest failure kind.
func kindForStatus(code int) fault.Kind {
	switch code {
	case http.StatusNotFound:
		return fault.NotFound
	case http.StatusUnauthorized:
		return fault.Restriction
	case http.StatusForbidden:
		return fault.Security
	default:
		return fault.Unknown
	}
}
