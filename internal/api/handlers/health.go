package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthHandler provides liveness and readiness endpoints. The engine has
// no external hard dependency (the synthetic catalog always works), so
// readiness is equivalent to liveness once the server is constructed.
type HealthHandler struct{}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Healthz returns 200 if the process is running.
func (*HealthHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz returns 200 once the server can serve comparisons.
func (*HealthHandler) Readyz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
}
