// This file defines the public browsing API: unauthenticated users can
// discover establishments, their zones, weekly hours and open slots.
// Sensitive fields (owner IDs, Telegram chat IDs) are filtered out.

package handler

import (
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/davrbek/restaurant-reservation/internal/repository"
)

// PublicHandler aggregates repositories needed for unauthenticated
// browsing and produces sanitized responses.
type PublicHandler struct {
    Establishments *repository.EstablishmentRepo
    Zones          *repository.ZoneRepo
    Schedules      *repository.ScheduleRepo
    Slots          *repository.SlotRepo
    Availability   *repository.AvailabilityRepo
}

// PublicEstablishment is an establishment as the public sees it.
type PublicEstablishment struct {
    ID          uint64   `json:"id"`
    Name        string   `json:"name"`
    Description *string  `json:"description,omitempty"`
    Address     string   `json:"address"`
    Latitude    *float64 `json:"latitude,omitempty"`
    Longitude   *float64 `json:"longitude,omitempty"`
    Phone       string   `json:"phone,omitempty"`
    Email       string   `json:"email,omitempty"`
}

// PublicZone is a seating zone as the public sees it.
type PublicZone struct {
    ID    uint64 `json:"id"`
    Name  string `json:"name"`
    Seats uint32 `json:"seats"`
}

// PublicScheduleEntry is one weekday of opening hours.
type PublicScheduleEntry struct {
    Weekday  int    `json:"weekday"` // 0 = Sunday
    OpensAt  string `json:"opens_at,omitempty"`
    ClosesAt string `json:"closes_at,omitempty"`
    IsDayOff bool   `json:"is_day_off"`
}

// PublicSlot is a bookable slot.
type PublicSlot struct {
    ID     uint64 `json:"id"`
    ZoneID uint64 `json:"zone_id"`
    Date   string `json:"date"`
    Time   string `json:"time"`
    Seats  uint32 `json:"seats"`
}

// PublicAvailability is one ledger row: seats remaining in a zone on a
// date.
type PublicAvailability struct {
    ZoneID         uint64 `json:"zone_id"`
    Date           string `json:"date"`
    RemainingSeats uint32 `json:"remaining_seats"`
}

// ListEstablishments handles GET /v1/establishments.  Only verified
// venues appear.  Supports ?name= substring filter and limit/offset
// paging.
func (h *PublicHandler) ListEstablishments(c echo.Context) error {
    limit := 20
    if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 && v <= 100 {
        limit = v
    }
    offset := 0
    if v, err := strconv.Atoi(c.QueryParam("offset")); err == nil && v > 0 {
        offset = v
    }
    name := strings.TrimSpace(c.QueryParam("name"))

    ctx := c.Request().Context()
    ests, err := h.Establishments.List(ctx, name, limit, offset)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    out := make([]PublicEstablishment, 0, len(ests))
    for _, e := range ests {
        out = append(out, PublicEstablishment{
            ID: e.ID, Name: e.Name, Description: e.Description, Address: e.Address,
            Latitude: e.Latitude, Longitude: e.Longitude, Phone: e.Phone, Email: e.Email,
        })
    }
    return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetEstablishment handles GET /v1/establishments/:id.
func (h *PublicHandler) GetEstablishment(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    e, err := h.Establishments.GetByID(c.Request().Context(), id)
    if err != nil {
        if err == repository.ErrEstablishmentNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "establishment not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, PublicEstablishment{
        ID: e.ID, Name: e.Name, Description: e.Description, Address: e.Address,
        Latitude: e.Latitude, Longitude: e.Longitude, Phone: e.Phone, Email: e.Email,
    })
}

// ListZones handles GET /v1/establishments/:id/zones.
func (h *PublicHandler) ListZones(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx := c.Request().Context()
    if _, err := h.Establishments.GetByID(ctx, id); err != nil {
        if err == repository.ErrEstablishmentNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "establishment not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    zones, err := h.Zones.ListByEstablishment(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    out := make([]PublicZone, 0, len(zones))
    for _, z := range zones {
        out = append(out, PublicZone{ID: z.ID, Name: z.Name, Seats: z.Seats})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetSchedule handles GET /v1/establishments/:id/schedule, returning
// the weekly hours ordered by weekday.
func (h *PublicHandler) GetSchedule(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx := c.Request().Context()
    if _, err := h.Establishments.GetByID(ctx, id); err != nil {
        if err == repository.ErrEstablishmentNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "establishment not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    entries, err := h.Schedules.ListByEstablishment(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    out := make([]PublicScheduleEntry, 0, len(entries))
    for _, s := range entries {
        entry := PublicScheduleEntry{Weekday: s.Weekday, IsDayOff: s.IsDayOff}
        if !s.IsDayOff {
            entry.OpensAt = s.OpensAt
            entry.ClosesAt = s.ClosesAt
        }
        out = append(out, entry)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// ListSlots handles GET /v1/establishments/:id/slots?date=YYYY-MM-DD.
// Only active (unclaimed) slots are returned; ?zone_id= narrows to one
// zone.
func (h *PublicHandler) ListSlots(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    date, err := time.Parse("2006-01-02", c.QueryParam("date"))
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "date is required as YYYY-MM-DD"})
    }
    var zoneID uint64
    if zq := c.QueryParam("zone_id"); zq != "" {
        zoneID, err = strconv.ParseUint(zq, 10, 64)
        if err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid zone_id"})
        }
    }
    ctx := c.Request().Context()
    if _, err := h.Establishments.GetByID(ctx, id); err != nil {
        if err == repository.ErrEstablishmentNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "establishment not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    slots, err := h.Slots.ListOpen(ctx, id, date, zoneID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    out := make([]PublicSlot, 0, len(slots))
    for _, s := range slots {
        out = append(out, PublicSlot{
            ID: s.ID, ZoneID: s.ZoneID,
            Date: s.Date.Format("2006-01-02"), Time: s.TimeOfDay, Seats: s.Seats,
        })
    }
    return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetAvailability handles GET /v1/establishments/:id/availability,
// returning remaining-seat counts per zone per day of the rolling
// window.
func (h *PublicHandler) GetAvailability(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx := c.Request().Context()
    if _, err := h.Establishments.GetByID(ctx, id); err != nil {
        if err == repository.ErrEstablishmentNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "establishment not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    rows, err := h.Availability.ListByEstablishment(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    out := make([]PublicAvailability, 0, len(rows))
    for _, a := range rows {
        out = append(out, PublicAvailability{
            ZoneID: a.ZoneID, Date: a.Date.Format("2006-01-02"), RemainingSeats: a.RemainingSeats,
        })
    }
    return c.JSON(http.StatusOK, echo.Map{"items": out})
}
