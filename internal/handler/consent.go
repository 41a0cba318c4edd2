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

// ConsentHandler serves consent forms: students list and sign the
// forms of their warehouse; managers maintain them.
type ConsentHandler struct {
	Consent *repository.ConsentRepo
	Users   *repository.UserRepo
	Audit   *repository.AuditRepo
}

func NewConsentHandler(consent *repository.ConsentRepo, users *repository.UserRepo, audit *repository.AuditRepo) *ConsentHandler {
	if consent == nil || users == nil || audit == nil {
		panic("nil repository passed to NewConsentHandler")
	}
	return &ConsentHandler{Consent: consent, Users: users, Audit: audit}
}

type consentFormPart struct {
	ID         uint64 `json:"id"`
	Title      string `json:"title"`
	Body       string `json:"body"`
	IsRequired bool   `json:"is_required"`
}

// ListForStudent handles GET /v1/consent-forms and returns the
// forms of the caller's warehouse.
func (h *ConsentHandler) ListForStudent(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()
	user, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load profile failed"})
	}
	if user.WarehouseID == nil {
		return c.JSON(http.StatusOK, echo.Map{"forms": []consentFormPart{}})
	}
	forms, err := h.Consent.ListByWarehouse(ctx, *user.WarehouseID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]consentFormPart, 0, len(forms))
	for _, f := range forms {
		out = append(out, consentFormPart{ID: f.ID, Title: f.Title, Body: f.Body, IsRequired: f.IsRequired})
	}
	return c.JSON(http.StatusOK, echo.Map{"forms": out})
}

// Sign handles POST /v1/consent-forms/:id/sign.  Re-signing an
// already signed form succeeds without a new row.
func (h *ConsentHandler) Sign(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	formID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid form id"})
	}
	if err := h.Consent.Sign(c.Request().Context(), formID, userID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "sign failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

type consentFormReq struct {
	WarehouseID uint64 `json:"warehouse_id"`
	Title       string `json:"title"`
	Body        string `json:"body"`
	IsRequired  bool   `json:"is_required"`
}

// Create handles POST /v1/manage/consent-forms (MANAGER only).
func (h *ConsentHandler) Create(c echo.Context) error {
	actorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req consentFormReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || req.WarehouseID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and warehouse_id required"})
	}
	ctx := c.Request().Context()
	f := model.ConsentForm{WarehouseID: req.WarehouseID, Title: req.Title, Body: req.Body, IsRequired: req.IsRequired}
	if err := h.Consent.Create(ctx, &f); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	_ = h.Audit.Record(ctx, model.AuditEntry{
		ActorID: actorID, Action: "consent.create", Entity: "consent_forms", EntityID: formatUint(f.ID),
	})
	return c.JSON(http.StatusCreated, consentFormPart{ID: f.ID, Title: f.Title, Body: f.Body, IsRequired: f.IsRequired})
}

// Update handles PUT /v1/manage/consent-forms/:id (MANAGER only).
func (h *ConsentHandler) Update(c echo.Context) error {
	actorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	formID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid form id"})
	}
	var req consentFormReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title required"})
	}
	ctx := c.Request().Context()
	f := model.ConsentForm{ID: formID, Title: req.Title, Body: req.Body, IsRequired: req.IsRequired}
	if err := h.Consent.Update(ctx, &f); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	_ = h.Audit.Record(ctx, model.AuditEntry{
		ActorID: actorID, Action: "consent.update", Entity: "consent_forms", EntityID: formatUint(formID),
	})
	return c.JSON(http.StatusOK, consentFormPart{ID: formID, Title: f.Title, Body: f.Body, IsRequired: f.IsRequired})
}

// Delete handles DELETE /v1/manage/consent-forms/:id (MANAGER only).
func (h *ConsentHandler) Delete(c echo.Context) error {
	actorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	formID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid form id"})
	}
	err = h.Consent.Delete(c.Request().Context(), formID)
	switch {
	case err == nil:
		_ = h.Audit.Record(c.Request().Context(), model.AuditEntry{
			ActorID: actorID, Action: "consent.delete", Entity: "consent_forms", EntityID: formatUint(formID),
		})
		return c.NoContent(http.StatusNoContent)
	case errors.Is(err, sql.ErrNoRows):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "form not found"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
}
