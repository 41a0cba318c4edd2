package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/equipment-rental/internal/model"
	"github.com/iliyamo/equipment-rental/internal/repository"
	"github.com/iliyamo/equipment-rental/internal/schedule"
)

// HoursHandler serves the weekly operating-hours grid of a
// warehouse.  Reads assemble the full grid from defaults plus
// override rows; the save path runs the desired grid through the
// reconciler and applies the resulting delete/update/insert batches
// in one transaction.
type HoursHandler struct {
	Slots      *repository.TimeSlotRepo
	Warehouses *repository.WarehouseRepo
	Users      *repository.UserRepo
	Audit      *repository.AuditRepo
}

func NewHoursHandler(slots *repository.TimeSlotRepo, warehouses *repository.WarehouseRepo, users *repository.UserRepo, audit *repository.AuditRepo) *HoursHandler {
	if slots == nil || warehouses == nil || users == nil || audit == nil {
		panic("nil repository passed to NewHoursHandler")
	}
	return &HoursHandler{Slots: slots, Warehouses: warehouses, Users: users, Audit: audit}
}

// slotPart is one grid cell in API responses and save requests.
type slotPart struct {
	Day       int    `json:"day"`
	SlotStart string `json:"slot_start"`
	SlotEnd   string `json:"slot_end"`
	Closed    bool   `json:"closed"`
	Default   bool   `json:"default"` // whether Closed equals the day default (response only)
}

// Get handles GET /v1/warehouses/:id/hours and returns all 7×16
// cells, including the ones at their default state.
func (h *HoursHandler) Get(c echo.Context) error {
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
	persisted, err := h.Slots.ListByWarehouse(ctx, warehouseID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	grid := schedule.GridFromOverrides(persisted)
	cells := make([]slotPart, 0, schedule.DaysPerWeek*schedule.SlotsPerDay)
	for day := 0; day < schedule.DaysPerWeek; day++ {
		for i := 0; i < schedule.SlotsPerDay; i++ {
			closed := grid.Closed(day, i)
			cells = append(cells, slotPart{
				Day:       day,
				SlotStart: schedule.SlotStart(i),
				SlotEnd:   schedule.SlotEnd(i),
				Closed:    closed,
				Default:   closed == schedule.DefaultClosed(day),
			})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"warehouse_id": warehouseID, "slots": cells})
}

type saveHoursReq struct {
	Slots []slotPart `json:"slots"`
}

// Save handles PUT /v1/manage/warehouses/:id/hours.  The body must
// carry the complete desired grid; cells omitted from the request
// keep their day default.  Nothing is persisted until the diff is
// applied, and the apply is transactional, so a failed save leaves
// the stored overrides unchanged and the client re-fetches
// authoritative state.
func (h *HoursHandler) Save(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	warehouseID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid warehouse id"})
	}
	ctx := c.Request().Context()

	role := getRole(c)
	if role != model.RoleManager {
		caller, err := h.Users.GetByID(ctx, userID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load profile failed"})
		}
		if !canManageWarehouse(role, caller.WarehouseID, warehouseID) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
	}

	exists, err := h.Warehouses.Exists(ctx, warehouseID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !exists {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "warehouse not found"})
	}

	var req saveHoursReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	desired := schedule.DefaultGrid()
	for _, cell := range req.Slots {
		if cell.Day < 0 || cell.Day >= schedule.DaysPerWeek {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "day out of range"})
		}
		idx, ok := schedule.SlotIndex(cell.SlotStart)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "slot_start outside operating window"})
		}
		desired.Set(cell.Day, idx, cell.Closed)
	}

	persisted, err := h.Slots.ListByWarehouse(ctx, warehouseID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	rec := schedule.Diff(persisted, desired, warehouseID)
	if err := h.Slots.Apply(ctx, warehouseID, rec); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save failed"})
	}
	if !rec.Empty() {
		_ = h.Audit.Record(ctx, model.AuditEntry{
			ActorID:  userID,
			Action:   "hours.save",
			Entity:   "warehouse_time_slots",
			EntityID: formatUint(warehouseID),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"inserted": len(rec.Insert),
		"updated":  len(rec.Update),
		"deleted":  len(rec.Delete),
	})
}
