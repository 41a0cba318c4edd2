package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/equipment-rental/internal/config"
	"github.com/iliyamo/equipment-rental/internal/model"
	"github.com/iliyamo/equipment-rental/internal/repository"
)

// UserAdminHandler serves privileged user administration: creating
// accounts with any role, listing users and deactivating accounts.
// The routes carry RequireRole(MANAGER), so no per-request role
// checks are needed here beyond identity extraction.
type UserAdminHandler struct {
	Cfg        config.Config
	Users      *repository.UserRepo
	Warehouses *repository.WarehouseRepo
	Tokens     *repository.TokenRepo
	Audit      *repository.AuditRepo
}

func NewUserAdminHandler(cfg config.Config, users *repository.UserRepo, warehouses *repository.WarehouseRepo, tokens *repository.TokenRepo, audit *repository.AuditRepo) *UserAdminHandler {
	if users == nil || warehouses == nil || tokens == nil || audit == nil {
		panic("nil repository passed to NewUserAdminHandler")
	}
	return &UserAdminHandler{Cfg: cfg, Users: users, Warehouses: warehouses, Tokens: tokens, Audit: audit}
}

type createUserReq struct {
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	FullName    string  `json:"full_name"`
	Role        string  `json:"role"` // STUDENT | MANAGER | STORAGE_MANAGER
	WarehouseID *uint64 `json:"warehouse_id"`
}

// Create handles POST /v1/manage/users.  Storage managers must be
// attached to an existing warehouse; managers may be created
// without one.
func (h *UserAdminHandler) Create(c echo.Context) error {
	actorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.FullName = strings.TrimSpace(req.FullName)
	if req.Email == "" || req.Password == "" || req.FullName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password/full_name required"})
	}
	role := strings.ToUpper(strings.TrimSpace(req.Role))
	switch role {
	case model.RoleStudent, model.RoleManager, model.RoleStorageManager:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role"})
	}

	ctx := c.Request().Context()
	if role == model.RoleStorageManager || role == model.RoleStudent {
		if req.WarehouseID == nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "warehouse_id required for this role"})
		}
		exists, err := h.Warehouses.Exists(ctx, *req.WarehouseID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		if !exists {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "warehouse not found"})
		}
	}

	uid, err := h.Users.Create(ctx, req.Email, req.Password, req.FullName, role, req.WarehouseID, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	_ = h.Audit.Record(ctx, model.AuditEntry{
		ActorID:  actorID,
		Action:   "user.create",
		Entity:   "users",
		EntityID: formatUint(uid),
		Detail:   role,
	})
	return c.JSON(http.StatusCreated, userPart{
		ID: uid, Email: req.Email, FullName: req.FullName, Role: role, WarehouseID: req.WarehouseID,
	})
}

// List handles GET /v1/manage/users.
func (h *UserAdminHandler) List(c echo.Context) error {
	users, err := h.Users.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	type adminUserPart struct {
		userPart
		IsActive bool `json:"is_active"`
	}
	out := make([]adminUserPart, 0, len(users))
	for _, u := range users {
		out = append(out, adminUserPart{
			userPart: userPart{ID: u.ID, Email: u.Email, FullName: u.FullName, Role: u.Role, WarehouseID: u.WarehouseID},
			IsActive: u.IsActive,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"users": out})
}

// Deactivate handles POST /v1/manage/users/:id/deactivate.  All of
// the user's refresh tokens are revoked so open sessions die with
// the account.
func (h *UserAdminHandler) Deactivate(c echo.Context) error {
	actorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	if id == actorID {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot deactivate yourself"})
	}
	ctx := c.Request().Context()
	if err := h.Users.SetActive(ctx, id, false); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "deactivate failed"})
	}
	_ = h.Tokens.RevokeAllForUser(ctx, id)
	_ = h.Audit.Record(ctx, model.AuditEntry{
		ActorID:  actorID,
		Action:   "user.deactivate",
		Entity:   "users",
		EntityID: formatUint(id),
	})
	return c.NoContent(http.StatusNoContent)
}
