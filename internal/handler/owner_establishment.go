package handler

import (
    "errors"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/davrbek/restaurant-reservation/internal/access"
    "github.com/davrbek/restaurant-reservation/internal/availability"
    "github.com/davrbek/restaurant-reservation/internal/model"
    "github.com/davrbek/restaurant-reservation/internal/repository"
)

// OwnerHandler bundles the repositories restaurateurs use to manage
// their venues, zones and weekly schedules.  Catalog writes that change
// the bookable surface call the slot generator synchronously after the
// write, so owners see fresh slots on the very next browse.
type OwnerHandler struct {
    Establishments *repository.EstablishmentRepo
    Zones          *repository.ZoneRepo
    Schedules      *repository.ScheduleRepo
    History        *repository.HistoryRepo
    Generator      *availability.Generator
}

func NewOwnerHandler(ests *repository.EstablishmentRepo, zones *repository.ZoneRepo,
    schedules *repository.ScheduleRepo, hist *repository.HistoryRepo, gen *availability.Generator) *OwnerHandler {
    if ests == nil || zones == nil || schedules == nil || hist == nil || gen == nil {
        panic("nil dependency passed to NewOwnerHandler")
    }
    return &OwnerHandler{Establishments: ests, Zones: zones, Schedules: schedules, History: hist, Generator: gen}
}

type establishmentReq struct {
    Name           string   `json:"name"`
    Description    *string  `json:"description"`
    Address        string   `json:"address"`
    Latitude       *float64 `json:"latitude"`
    Longitude      *float64 `json:"longitude"`
    Phone          string   `json:"phone"`
    Email          string   `json:"email"`
    TelegramChatID *string  `json:"telegram_chat_id"`
}

// CreateEstablishment handles POST /v1/owner/establishments.  New
// venues start unverified and stay off the public listing until an
// admin flips the flag.
func (h *OwnerHandler) CreateEstablishment(c echo.Context) error {
    ownerID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req establishmentReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Name = strings.TrimSpace(req.Name)
    req.Address = strings.TrimSpace(req.Address)
    if req.Name == "" || req.Address == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and address required"})
    }
    e := model.Establishment{
        OwnerID:        ownerID,
        Name:           req.Name,
        Description:    req.Description,
        Address:        req.Address,
        Latitude:       req.Latitude,
        Longitude:      req.Longitude,
        Phone:          strings.TrimSpace(req.Phone),
        Email:          strings.TrimSpace(req.Email),
        TelegramChatID: req.TelegramChatID,
    }
    id, err := h.Establishments.Create(c.Request().Context(), &e)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"id": id, "is_verified": false})
}

// ListMyEstablishments handles GET /v1/owner/establishments.
func (h *OwnerHandler) ListMyEstablishments(c echo.Context) error {
    ownerID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    items, err := h.Establishments.ListByOwner(c.Request().Context(), ownerID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// UpdateEstablishment handles PUT /v1/owner/establishments/:id.  The
// repository re-checks ownership in the WHERE clause, so a 404 covers
// both "no such venue" and "not yours".
func (h *OwnerHandler) UpdateEstablishment(c echo.Context) error {
    ownerID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req establishmentReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Name = strings.TrimSpace(req.Name)
    req.Address = strings.TrimSpace(req.Address)
    if req.Name == "" || req.Address == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and address required"})
    }
    e := model.Establishment{
        ID:             id,
        OwnerID:        ownerID,
        Name:           req.Name,
        Description:    req.Description,
        Address:        req.Address,
        Latitude:       req.Latitude,
        Longitude:      req.Longitude,
        Phone:          strings.TrimSpace(req.Phone),
        Email:          strings.TrimSpace(req.Email),
        TelegramChatID: req.TelegramChatID,
    }
    if err := h.Establishments.Update(c.Request().Context(), &e); err != nil {
        if errors.Is(err, repository.ErrEstablishmentNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "establishment not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
    }
    return c.NoContent(http.StatusNoContent)
}

// DeleteEstablishment handles DELETE /v1/owner/establishments/:id.
// Venues with reservations on file cannot be removed.
func (h *OwnerHandler) DeleteEstablishment(c echo.Context) error {
    ownerID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    if err := h.Establishments.Delete(c.Request().Context(), id, ownerID); err != nil {
        switch {
        case errors.Is(err, repository.ErrConflict):
            return c.JSON(http.StatusConflict, echo.Map{"error": "establishment has reservations"})
        case errors.Is(err, repository.ErrEstablishmentNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "establishment not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
    }
    return c.NoContent(http.StatusNoContent)
}

// ListHistory handles GET /v1/owner/establishments/:id/history: the
// append-only archive of visited, cancelled and expired reservations.
func (h *OwnerHandler) ListHistory(c echo.Context) error {
    ownerID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    items, err := h.History.ListByEstablishmentForOwner(c.Request().Context(), id, ownerID)
    if err != nil {
        if errors.Is(err, repository.ErrForbidden) {
            return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// VerifyEstablishment handles POST /v1/admin/establishments/:id/verify.
// Admin only; verification puts the venue on the public listing.
func (h *OwnerHandler) VerifyEstablishment(c echo.Context) error {
    actor, err := actorFrom(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    if !actor.IsAdmin() {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req struct {
        Verified *bool `json:"verified"`
    }
    _ = c.Bind(&req)
    verified := true
    if req.Verified != nil {
        verified = *req.Verified
    }
    ctx := c.Request().Context()
    if _, err := h.Establishments.GetByID(ctx, id); err != nil {
        if errors.Is(err, repository.ErrEstablishmentNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "establishment not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if err := h.Establishments.SetVerified(ctx, id, verified); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"id": id, "is_verified": verified})
}

// ownEstablishment loads a venue and enforces the management predicate.
// Returns (establishment, true) on success; on failure the response has
// already been written.
func (h *OwnerHandler) ownEstablishment(c echo.Context, id uint64) (*model.Establishment, bool) {
    actor, err := actorFrom(c)
    if err != nil {
        _ = c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
        return nil, false
    }
    est, err := h.Establishments.GetByID(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, repository.ErrEstablishmentNotFound) {
            _ = c.JSON(http.StatusNotFound, echo.Map{"error": "establishment not found"})
        } else {
            _ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
        }
        return nil, false
    }
    if !access.CanManageEstablishment(actor, est.OwnerID) {
        _ = c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
        return nil, false
    }
    return &est, true
}
