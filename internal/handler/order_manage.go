package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/equipment-rental/internal/model"
	"github.com/iliyamo/equipment-rental/internal/queue"
	"github.com/iliyamo/equipment-rental/internal/repository"
	queue_publisher "github.com/iliyamo/equipment-rental/internal/service"
)

// ManageOrderHandler serves the review queue: listing orders and
// approving or rejecting pending ones.  Managers see every
// warehouse; storage managers only their own.  Decisions are
// audited in the same transaction as the status change and a
// notification event is published afterwards on a best-effort
// basis.
type ManageOrderHandler struct {
	Orders *repository.OrderRepo
	Users  *repository.UserRepo
	Audit  *repository.AuditRepo
}

func NewManageOrderHandler(orders *repository.OrderRepo, users *repository.UserRepo, audit *repository.AuditRepo) *ManageOrderHandler {
	if orders == nil || users == nil || audit == nil {
		panic("nil repository passed to NewManageOrderHandler")
	}
	return &ManageOrderHandler{Orders: orders, Users: users, Audit: audit}
}

// List handles GET /v1/manage/orders?status=&warehouse_id=.
// Storage managers are pinned to their profile warehouse regardless
// of the query parameter.
func (h *ManageOrderHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	status := strings.ToUpper(strings.TrimSpace(c.QueryParam("status")))
	switch status {
	case "", model.OrderPending, model.OrderApproved, model.OrderRejected, model.OrderCancelled:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}
	var warehouseID uint64
	if s := c.QueryParam("warehouse_id"); s != "" {
		warehouseID, err = strconv.ParseUint(s, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid warehouse_id"})
		}
	}

	ctx := c.Request().Context()
	if getRole(c) == model.RoleStorageManager {
		caller, err := h.Users.GetByID(ctx, userID)
		if err != nil || caller.WarehouseID == nil {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "no warehouse on profile"})
		}
		warehouseID = *caller.WarehouseID
	}

	details, err := h.Orders.ListForReview(ctx, status, warehouseID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"orders": details})
}

type decisionReq struct {
	Reason string `json:"reason"`
}

// Approve handles POST /v1/manage/orders/:id/approve.
func (h *ManageOrderHandler) Approve(c echo.Context) error {
	return h.decide(c, model.OrderApproved, "order.approve", queue.TypeOrderApproved)
}

// Reject handles POST /v1/manage/orders/:id/reject.  An optional
// reason from the body is stored on the order and included in the
// notification.
func (h *ManageOrderHandler) Reject(c echo.Context) error {
	return h.decide(c, model.OrderRejected, "order.reject", queue.TypeOrderRejected)
}

// decide runs the shared approve/reject flow: scope check, status
// transition plus audit entry in one transaction, then the
// notification publish.  A publish failure does not fail the
// request; the decision has already been committed.
func (h *ManageOrderHandler) decide(c echo.Context, status, auditAction, eventType string) error {
	deciderID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	orderID := strings.TrimSpace(c.Param("id"))
	if orderID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}
	var req decisionReq
	_ = c.Bind(&req) // body is optional
	reason := strings.TrimSpace(req.Reason)

	ctx := c.Request().Context()
	order, err := h.Orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	if getRole(c) == model.RoleStorageManager {
		caller, err := h.Users.GetByID(ctx, deciderID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load profile failed"})
		}
		if !canManageWarehouse(model.RoleStorageManager, caller.WarehouseID, order.WarehouseID) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
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
	if err := h.Orders.DecideTx(ctx, tx, orderID, deciderID, status, reason); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "order already decided"})
		}
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if err := h.Audit.RecordTx(ctx, tx, model.AuditEntry{
		ActorID:  deciderID,
		Action:   auditAction,
		Entity:   "orders",
		EntityID: orderID,
		Detail:   reason,
	}); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "audit failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	// Best-effort notification; the decision stands even if the
	// broker is down.
	owner, err := h.Users.GetByID(ctx, order.UserID)
	email := ""
	if err == nil {
		email = owner.Email
	}
	_ = queue_publisher.PublishNotification(ctx, queue.NotificationEvent{
		Type:        eventType,
		OrderID:     orderID,
		UserID:      order.UserID,
		UserEmail:   email,
		WarehouseID: order.WarehouseID,
		StartsAt:    order.StartsAt.UTC().Format(time.RFC3339),
		EndsAt:      order.EndsAt.UTC().Format(time.RFC3339),
		Detail:      reason,
		OccurredAt:  time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusOK, echo.Map{"id": orderID, "status": status})
}
