package handler

import (
    "log"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/davrbek/restaurant-reservation/internal/model"
)

type scheduleReq struct {
    OpensAt  string `json:"opens_at"`  // "HH:MM"
    ClosesAt string `json:"closes_at"` // "HH:MM"
    IsDayOff bool   `json:"is_day_off"`
}

// UpsertSchedule handles
// PUT /v1/owner/establishments/:id/schedule/:weekday.  One row per
// weekday, enforced by the unique key underneath; repeating the call
// simply overwrites the hours.  The generator runs after the write so
// newly opened days get their slots straight away.
func (h *OwnerHandler) UpsertSchedule(c echo.Context) error {
    estID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid establishment id"})
    }
    weekday, err := strconv.Atoi(c.Param("weekday"))
    if err != nil || weekday < 0 || weekday > 6 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "weekday must be 0 (Sunday) through 6"})
    }
    est, ok := h.ownEstablishment(c, estID)
    if !ok {
        return nil
    }
    var req scheduleReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    entry := model.WorkSchedule{
        EstablishmentID: est.ID,
        Weekday:         weekday,
        IsDayOff:        req.IsDayOff,
    }
    if !req.IsDayOff {
        opens, err1 := time.Parse("15:04", req.OpensAt)
        closes, err2 := time.Parse("15:04", req.ClosesAt)
        if err1 != nil || err2 != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "opens_at/closes_at must be HH:MM"})
        }
        if !opens.Before(closes) {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": model.ErrInvalidHours.Error()})
        }
        entry.OpensAt = req.OpensAt
        entry.ClosesAt = req.ClosesAt
    }
    ctx := c.Request().Context()
    if err := h.Schedules.Upsert(ctx, &entry); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save failed"})
    }
    if err := h.Generator.EnsureWindow(ctx, est.ID); err != nil {
        log.Printf("owner: ensure window after schedule change for establishment %d: %v", est.ID, err)
    }
    return c.JSON(http.StatusOK, echo.Map{
        "weekday":    weekday,
        "is_day_off": entry.IsDayOff,
        "opens_at":   entry.OpensAt,
        "closes_at":  entry.ClosesAt,
    })
}

// DeleteSchedule handles
// DELETE /v1/owner/establishments/:id/schedule/:weekday.  Removing the
// row makes the weekday closed; already-generated slots for that day
// stay bookable until they age out.
func (h *OwnerHandler) DeleteSchedule(c echo.Context) error {
    estID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid establishment id"})
    }
    weekday, err := strconv.Atoi(c.Param("weekday"))
    if err != nil || weekday < 0 || weekday > 6 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "weekday must be 0 (Sunday) through 6"})
    }
    est, ok := h.ownEstablishment(c, estID)
    if !ok {
        return nil
    }
    if err := h.Schedules.Delete(c.Request().Context(), est.ID, weekday); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
    }
    return c.NoContent(http.StatusNoContent)
}
