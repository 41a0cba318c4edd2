package handler

import (
	"database/sql" // for sentinel errors returned from repository
	"errors"       // for errors.Is comparisons
	"net/http"     // HTTP status codes
	"strings"      // interval normalization
	"time"         // parsing request instants

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/equipment-rental/internal/repository"
	"github.com/iliyamo/equipment-rental/internal/schedule"
)

// StudentOrderHandler serves the student-facing order endpoints:
// creating (possibly recurring) borrow orders, listing one's own
// orders and cancelling a pending one.  All methods assume JWT and
// role middleware ran first; they may still return 401 when the
// user ID cannot be extracted from the context.
type StudentOrderHandler struct {
	Orders    *repository.OrderRepo
	Users     *repository.UserRepo
	Equipment *repository.EquipmentRepo
	Consent   *repository.ConsentRepo
}

// NewStudentOrderHandler constructs the handler and panics when a
// required dependency is missing.
func NewStudentOrderHandler(orders *repository.OrderRepo, users *repository.UserRepo, equipment *repository.EquipmentRepo, consent *repository.ConsentRepo) *StudentOrderHandler {
	if orders == nil || users == nil || equipment == nil || consent == nil {
		panic("nil repository passed to NewStudentOrderHandler")
	}
	return &StudentOrderHandler{Orders: orders, Users: users, Equipment: equipment, Consent: consent}
}

type cartItem struct {
	ID uint64 `json:"id"`
}

type createOrderReq struct {
	StartDate          string     `json:"start_date"` // RFC 3339
	EndDate            string     `json:"end_date"`   // RFC 3339
	Notes              string     `json:"notes"`
	CartItems          []cartItem `json:"cart_items"`
	IsRecurring        bool       `json:"is_recurring"`
	RecurrenceCount    int        `json:"recurrence_count"`
	RecurrenceInterval string     `json:"recurrence_interval"` // day | week | month
}

// Create handles POST /v1/orders.  The requested window is fanned
// out into one order per occurrence; every order of the series and
// all line items are inserted in a single transaction, so a failed
// save leaves nothing behind.  The response carries the generated
// order IDs in chronological order.
func (h *StudentOrderHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createOrderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	start, err := time.Parse(time.RFC3339, req.StartDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_date must be RFC 3339"})
	}
	end, err := time.Parse(time.RFC3339, req.EndDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_date must be RFC 3339"})
	}

	// Deduplicate cart items while preserving cart order.
	items := make([]uint64, 0, len(req.CartItems))
	seen := make(map[uint64]struct{})
	for _, it := range req.CartItems {
		if it.ID == 0 {
			continue
		}
		if _, ok := seen[it.ID]; !ok {
			seen[it.ID] = struct{}{}
			items = append(items, it.ID)
		}
	}

	ctx := c.Request().Context()

	// The warehouse is inherited from the student's profile, never
	// recomputed per occurrence.
	user, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load profile failed"})
	}
	if user.WarehouseID == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no warehouse on profile"})
	}
	warehouseID := *user.WarehouseID

	orders, err := schedule.Expand(schedule.Request{
		Start:       start.UTC(),
		End:         end.UTC(),
		Notes:       strings.TrimSpace(req.Notes),
		Items:       items,
		IsRecurring: req.IsRecurring,
		Count:       req.RecurrenceCount,
		Interval:    strings.ToUpper(strings.TrimSpace(req.RecurrenceInterval)),
	}, userID, warehouseID)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidWindow):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "end date must be after start date"})
		case errors.Is(err, schedule.ErrInvalidRecurrence):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "recurrence count must be 1-30 with interval day, week or month"})
		case errors.Is(err, schedule.ErrEmptyCart):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "cart is empty"})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	// All cart items must be active equipment of the student's warehouse.
	n, err := h.Equipment.CountActiveByIDs(ctx, warehouseID, items)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if n != len(items) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cart references unknown or inactive equipment"})
	}

	// Required consent forms gate order creation.
	signed, err := h.Consent.HasSignedAllRequired(ctx, warehouseID, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !signed {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "required consent forms not signed"})
	}

	tx, err := h.Orders.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := h.Orders.CreateBatchTx(ctx, tx, orders); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create orders failed"})
	}
	if err := h.Orders.CreateItemsBulkTx(ctx, tx, orders, items); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create order items failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	return c.JSON(http.StatusCreated, echo.Map{"order_ids": ids})
}

// ListOwn handles GET /v1/orders and returns the caller's orders
// with line items, newest window first.
func (h *StudentOrderHandler) ListOwn(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	details, err := h.Orders.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"orders": details})
}

// Cancel handles DELETE /v1/orders/:id.  Only the owner may cancel
// and only while the order is still pending.
func (h *StudentOrderHandler) Cancel(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	orderID := strings.TrimSpace(c.Param("id"))
	if orderID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}
	err = h.Orders.CancelOwn(c.Request().Context(), orderID, userID)
	switch {
	case err == nil:
		return c.NoContent(http.StatusNoContent)
	case errors.Is(err, sql.ErrNoRows):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "order already decided"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
}
