package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/equipment-rental/internal/handler"    // student-facing handlers
	"github.com/iliyamo/equipment-rental/internal/middleware" // JWT + role middlewares
	"github.com/iliyamo/equipment-rental/internal/model"
)

// RegisterStudent registers STUDENT-scoped endpoints under /v1.
// All routes require a valid JWT and STUDENT role.  The optional
// rate-limit middleware (nil when Redis is unavailable) throttles
// order submission per user.
func RegisterStudent(e *echo.Echo, o *handler.StudentOrderHandler, cs *handler.ConsentHandler, jwtSecret string, rateLimit echo.MiddlewareFunc) {
	mws := []echo.MiddlewareFunc{
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleStudent),
	}
	if rateLimit != nil {
		mws = append(mws, rateLimit)
	}
	g := e.Group("/v1", mws...)

	// ---- Orders ----
	// Submitting a cart may fan out into several orders when the
	// request is recurring; the response carries every created id.
	g.POST("/orders", o.Create)
	g.GET("/orders", o.ListOwn)
	// Cancel is only valid while the order is still PENDING.
	g.DELETE("/orders/:id", o.Cancel)

	// ---- Consent forms ----
	g.GET("/consent-forms", cs.ListForStudent)
	g.POST("/consent-forms/:id/sign", cs.Sign)
}
