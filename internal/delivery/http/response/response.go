// Package response defines the wire shapes shared by every endpoint.
package response

import (
	"github.com/labstack/echo/v4"

	"folio/internal/domain/fault"
)

// Failure is the envelope every failed request returns: the stable
// failure kind and a user-presentable message. Causes and stack traces
// never cross the wire.
type Failure struct {
	Type string `json:"type"`
	Msg  string `json:"msg"`
}

// Fail writes the failure envelope with the given status.
func Fail(c echo.Context, statusCode int, kind fault.Kind, msg string) error {
	return c.JSON(statusCode, Failure{
		Type: string(kind),
		Msg:  msg,
	})
}

// Success writes data as-is with the given status.
func Success(c echo.Context, statusCode int, data any) error {
	return c.JSON(statusCode, data)
}
