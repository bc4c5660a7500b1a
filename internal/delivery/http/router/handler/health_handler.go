package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"folio/internal/delivery/http/response"
)

// HealthCheck reports liveness.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"})
}
