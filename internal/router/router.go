package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/equipment-rental/internal/handler"    // handlers implementing business logic
	"github.com/iliyamo/equipment-rental/internal/middleware" // JWT + role middlewares
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// The /healthz endpoint lets load balancers and monitoring verify
	// that the service is up.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	// Operations that do not require an existing session.  Register is
	// public and always creates a STUDENT account; privileged roles are
	// created by managers through the admin API.
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Refresh rotates the refresh token and issues a new pair.
	g.POST("/refresh", a.Refresh)
	// refresh-access issues a new access token without rotating.
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout takes a `refresh_token` in the JSON body and invalidates it.
	// It does not require a JWT so expired sessions can still log out.
	g.POST("/logout", a.Logout)

	// Endpoints that require a valid access token of any role.
	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers unauthenticated browse endpoints: warehouses,
// their equipment catalog and their weekly operating hours.  These return
// sanitized data so prospective borrowers can browse before signing up.
// The optional cache middleware (nil-safe) shields them from load spikes.
func RegisterPublic(e *echo.Echo, eq *handler.EquipmentHandler, hrs *handler.HoursHandler, cache echo.MiddlewareFunc) {
	mws := []echo.MiddlewareFunc{}
	if cache != nil {
		mws = append(mws, cache)
	}
	g := e.Group("/v1", mws...)
	// List of all warehouses.
	g.GET("/warehouses", eq.ListWarehouses)
	// Active equipment of a warehouse, filterable by ?category=.
	g.GET("/warehouses/:id/equipment", eq.BrowseCatalog)
	// Full 7-day half-hour operating grid of a warehouse.
	g.GET("/warehouses/:id/hours", hrs.Get)
}
