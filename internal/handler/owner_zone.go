package handler

import (
    "database/sql"
    "errors"
    "log"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/davrbek/restaurant-reservation/internal/model"
    "github.com/davrbek/restaurant-reservation/internal/repository"
)

type zoneReq struct {
    Name  string `json:"name"`
    Seats uint32 `json:"seats"`
}

// CreateZone handles POST /v1/owner/establishments/:id/zones.  A new
// zone immediately grows the bookable surface, so the generator runs
// right after the insert.
func (h *OwnerHandler) CreateZone(c echo.Context) error {
    estID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid establishment id"})
    }
    est, ok := h.ownEstablishment(c, estID)
    if !ok {
        return nil
    }
    var req zoneReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Name = strings.TrimSpace(req.Name)
    if req.Name == "" || req.Seats == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and seats (>=1) required"})
    }
    ctx := c.Request().Context()
    z := model.Zone{EstablishmentID: est.ID, Name: req.Name, Seats: req.Seats}
    id, err := h.Zones.Create(ctx, &z)
    if err != nil {
        if errors.Is(err, repository.ErrConflict) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "zone name already in use"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
    }
    if err := h.Generator.EnsureWindow(ctx, est.ID); err != nil {
        log.Printf("owner: ensure window after zone create for establishment %d: %v", est.ID, err)
    }
    return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// UpdateZone handles PUT /v1/owner/zones/:id.  Capacity edits apply to
// future generation only: existing availability rows keep their counts
// so bookings already made stay consistent.
func (h *OwnerHandler) UpdateZone(c echo.Context) error {
    zoneID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid zone id"})
    }
    ctx := c.Request().Context()
    z, err := h.Zones.GetByID(ctx, zoneID)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "zone not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if _, ok := h.ownEstablishment(c, z.EstablishmentID); !ok {
        return nil
    }
    var req zoneReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Name = strings.TrimSpace(req.Name)
    if req.Name == "" || req.Seats == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and seats (>=1) required"})
    }
    z.Name = req.Name
    z.Seats = req.Seats
    if err := h.Zones.Update(ctx, &z); err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "zone not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
    }
    return c.NoContent(http.StatusNoContent)
}

// DeleteZone handles DELETE /v1/owner/zones/:id.  Zones referenced by
// reservations are protected.
func (h *OwnerHandler) DeleteZone(c echo.Context) error {
    zoneID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid zone id"})
    }
    ctx := c.Request().Context()
    z, err := h.Zones.GetByID(ctx, zoneID)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "zone not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if _, ok := h.ownEstablishment(c, z.EstablishmentID); !ok {
        return nil
    }
    if err := h.Zones.Delete(ctx, zoneID, z.EstablishmentID); err != nil {
        if errors.Is(err, repository.ErrConflict) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "zone has reservations"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
    }
    return c.NoContent(http.StatusNoContent)
}
