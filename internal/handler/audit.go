package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/equipment-rental/internal/repository"
)

// AuditHandler exposes the audit log to managers.
type AuditHandler struct {
	Audit *repository.AuditRepo
}

func NewAuditHandler(audit *repository.AuditRepo) *AuditHandler {
	if audit == nil {
		panic("nil repository passed to NewAuditHandler")
	}
	return &AuditHandler{Audit: audit}
}

type auditPart struct {
	ID        uint64    `json:"id"`
	ActorID   uint64    `json:"actor_id"`
	Action    string    `json:"action"`
	Entity    string    `json:"entity"`
	EntityID  string    `json:"entity_id"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// List handles GET /v1/manage/audit?actor_id=&entity=&limit=
// and returns entries newest first.
func (h *AuditHandler) List(c echo.Context) error {
	var actorID uint64
	if raw := c.QueryParam("actor_id"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid actor_id"})
		}
		actorID = v
	}
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid limit"})
		}
		limit = v
	}
	entries, err := h.Audit.List(c.Request().Context(), actorID, c.QueryParam("entity"), limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]auditPart, 0, len(entries))
	for _, e := range entries {
		out = append(out, auditPart{
			ID: e.ID, ActorID: e.ActorID, Action: e.Action,
			Entity: e.Entity, EntityID: e.EntityID, Detail: e.Detail, CreatedAt: e.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"entries": out})
}
