package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/equipment-rental/internal/handler"    // management handlers
	"github.com/iliyamo/equipment-rental/internal/middleware" // JWT + role middlewares
	"github.com/iliyamo/equipment-rental/internal/model"
)

// ManageHandlers bundles the handlers mounted under /v1/manage so the
// registration signature stays readable as the surface grows.
type ManageHandlers struct {
	Orders    *handler.ManageOrderHandler
	Equipment *handler.EquipmentHandler
	Hours     *handler.HoursHandler
	Users     *handler.UserAdminHandler
	Consent   *handler.ConsentHandler
	Audit     *handler.AuditHandler
}

// RegisterManage registers the management endpoints under /v1/manage.
// Storage managers reach the warehouse-scoped routes; handlers narrow
// them further to their own warehouse.  User administration, consent
// form maintenance and the audit log stay MANAGER-only.
func RegisterManage(e *echo.Echo, h ManageHandlers, jwtSecret string) {
	g := e.Group(
		"/v1/manage",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleManager, model.RoleStorageManager),
	)

	// ---- Order review ----
	g.GET("/orders", h.Orders.List)
	g.POST("/orders/:id/approve", h.Orders.Approve)
	g.POST("/orders/:id/reject", h.Orders.Reject)

	// ---- Inventory ----
	g.GET("/warehouses/:id/equipment", h.Equipment.ListInventory)
	g.POST("/warehouses/:id/equipment", h.Equipment.Create)
	g.PUT("/equipment/:id", h.Equipment.Update)
	g.PATCH("/equipment/:id", h.Equipment.Update)
	g.DELETE("/equipment/:id", h.Equipment.Delete)

	// ---- Operating hours ----
	g.PUT("/warehouses/:id/hours", h.Hours.Save)

	// MANAGER-only administration.
	admin := e.Group(
		"/v1/manage",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleManager),
	)

	// ---- Users ----
	admin.POST("/users", h.Users.Create)
	admin.GET("/users", h.Users.List)
	admin.POST("/users/:id/deactivate", h.Users.Deactivate)

	// ---- Consent forms ----
	admin.POST("/consent-forms", h.Consent.Create)
	admin.PUT("/consent-forms/:id", h.Consent.Update)
	admin.DELETE("/consent-forms/:id", h.Consent.Delete)

	// ---- Audit log ----
	admin.GET("/audit", h.Audit.List)
}
