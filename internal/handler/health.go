package handler // declare the package name; contains HTTP handlers

import (
    "net/http" // status codes and response helpers

    "github.com/labstack/echo/v4"
)

// Health answers liveness probes.  It deliberately touches neither
// the database nor Redis so a degraded dependency does not take the
// whole service out of rotation.
func Health(c echo.Context) error {
    return c.String(http.StatusOK, "ok")
}
