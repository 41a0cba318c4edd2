package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/equipment-rental/internal/model"
	"github.com/iliyamo/equipment-rental/internal/repository"
)

// EquipmentHandler serves both the public catalog and the manager
// inventory CRUD.  The catalog route is cached by the response
// cache middleware; mutations write audit entries.
type EquipmentHandler struct {
	Equipment  *repository.EquipmentRepo
	Warehouses *repository.WarehouseRepo
	Users      *repository.UserRepo
	Audit      *repository.AuditRepo
}

func NewEquipmentHandler(equipment *repository.EquipmentRepo, warehouses *repository.WarehouseRepo, users *repository.UserRepo, audit *repository.AuditRepo) *EquipmentHandler {
	if equipment == nil || warehouses == nil || users == nil || audit == nil {
		panic("nil repository passed to NewEquipmentHandler")
	}
	return &EquipmentHandler{Equipment: equipment, Warehouses: warehouses, Users: users, Audit: audit}
}

type equipmentPart struct {
	ID          uint64 `json:"id"`
	WarehouseID uint64 `json:"warehouse_id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	TotalQty    uint32 `json:"total_qty"`
	IsActive    bool   `json:"is_active"`
}

func toEquipmentPart(e model.Equipment) equipmentPart {
	return equipmentPart{
		ID: e.ID, WarehouseID: e.WarehouseID, Name: e.Name, Category: e.Category,
		Description: e.Description, TotalQty: e.TotalQty, IsActive: e.IsActive,
	}
}

// ListWarehouses handles GET /v1/warehouses.
func (h *EquipmentHandler) ListWarehouses(c echo.Context) error {
	list, err := h.Warehouses.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	type warehousePart struct {
		ID      uint64 `json:"id"`
		Name    string `json:"name"`
		Address string `json:"address"`
	}
	out := make([]warehousePart, 0, len(list))
	for _, w := range list {
		out = append(out, warehousePart{ID: w.ID, Name: w.Name, Address: w.Address})
	}
	return c.JSON(http.StatusOK, echo.Map{"warehouses": out})
}

// BrowseCatalog handles GET /v1/warehouses/:id/equipment.  Only
// active items are shown; ?category= narrows the listing.
func (h *EquipmentHandler) BrowseCatalog(c echo.Context) error {
	warehouseID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid warehouse id"})
	}
	ctx := c.Request().Context()
	exists, err := h.Warehouses.Exists(ctx, warehouseID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !exists {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "warehouse not found"})
	}
	items, err := h.Equipment.ListByWarehouse(ctx, warehouseID, true, c.QueryParam("category"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]equipmentPart, 0, len(items))
	for _, e := range items {
		out = append(out, toEquipmentPart(e))
	}
	return c.JSON(http.StatusOK, echo.Map{"equipment": out})
}

// ListInventory handles GET /v1/manage/warehouses/:id/equipment and
// includes inactive items.
func (h *EquipmentHandler) ListInventory(c echo.Context) error {
	warehouseID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid warehouse id"})
	}
	if status, errResp := h.checkScope(c, warehouseID); errResp != nil {
		return c.JSON(status, errResp)
	}
	items, err := h.Equipment.ListByWarehouse(c.Request().Context(), warehouseID, false, c.QueryParam("category"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]equipmentPart, 0, len(items))
	for _, e := range items {
		out = append(out, toEquipmentPart(e))
	}
	return c.JSON(http.StatusOK, echo.Map{"equipment": out})
}

type equipmentReq struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	TotalQty    uint32 `json:"total_qty"`
	IsActive    *bool  `json:"is_active"`
}

// Create handles POST /v1/manage/warehouses/:id/equipment.
func (h *EquipmentHandler) Create(c echo.Context) error {
	warehouseID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid warehouse id"})
	}
	if status, errResp := h.checkScope(c, warehouseID); errResp != nil {
		return c.JSON(status, errResp)
	}
	var req equipmentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	ctx := c.Request().Context()
	e := model.Equipment{
		WarehouseID: warehouseID,
		Name:        req.Name,
		Category:    strings.TrimSpace(req.Category),
		Description: req.Description,
		TotalQty:    req.TotalQty,
		IsActive:    active,
	}
	if err := h.Equipment.Create(ctx, &e); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	h.audit(c, "equipment.create", e.ID)
	return c.JSON(http.StatusCreated, toEquipmentPart(e))
}

// Update handles PUT /v1/manage/equipment/:id.
func (h *EquipmentHandler) Update(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid equipment id"})
	}
	ctx := c.Request().Context()
	e, err := h.Equipment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "equipment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if status, errResp := h.checkScope(c, e.WarehouseID); errResp != nil {
		return c.JSON(status, errResp)
	}
	var req equipmentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		e.Name = name
	}
	if req.Category != "" {
		e.Category = strings.TrimSpace(req.Category)
	}
	if req.Description != "" {
		e.Description = req.Description
	}
	if req.TotalQty != 0 {
		e.TotalQty = req.TotalQty
	}
	if req.IsActive != nil {
		e.IsActive = *req.IsActive
	}
	if err := h.Equipment.Update(ctx, &e); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "equipment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	h.audit(c, "equipment.update", e.ID)
	return c.JSON(http.StatusOK, toEquipmentPart(e))
}

// Delete handles DELETE /v1/manage/equipment/:id.  Items referenced
// by order line items answer 409.
func (h *EquipmentHandler) Delete(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid equipment id"})
	}
	ctx := c.Request().Context()
	e, err := h.Equipment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "equipment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if status, errResp := h.checkScope(c, e.WarehouseID); errResp != nil {
		return c.JSON(status, errResp)
	}
	err = h.Equipment.Delete(ctx, id)
	switch {
	case err == nil:
		h.audit(c, "equipment.delete", id)
		return c.NoContent(http.StatusNoContent)
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "equipment referenced by orders"})
	case errors.Is(err, sql.ErrNoRows):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "equipment not found"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
}

// checkScope verifies the caller may administer the warehouse.  It
// returns a non-nil error payload and its HTTP status on failure.
func (h *EquipmentHandler) checkScope(c echo.Context, warehouseID uint64) (int, echo.Map) {
	userID, err := getUserID(c)
	if err != nil {
		return http.StatusUnauthorized, echo.Map{"error": "unauthorized"}
	}
	role := getRole(c)
	if role == model.RoleManager {
		return 0, nil
	}
	caller, err := h.Users.GetByID(c.Request().Context(), userID)
	if err != nil {
		return http.StatusInternalServerError, echo.Map{"error": "load profile failed"}
	}
	if !canManageWarehouse(role, caller.WarehouseID, warehouseID) {
		return http.StatusForbidden, echo.Map{"error": "forbidden"}
	}
	return 0, nil
}

// audit records an inventory mutation; failures are logged by the
// repository layer and do not fail the request.
func (h *EquipmentHandler) audit(c echo.Context, action string, equipmentID uint64) {
	userID, err := getUserID(c)
	if err != nil {
		return
	}
	_ = h.Audit.Record(c.Request().Context(), model.AuditEntry{
		ActorID:  userID,
		Action:   action,
		Entity:   "equipment",
		EntityID: formatUint(equipmentID),
	})
}
