package handler

import (
    "database/sql"
    "errors"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/davrbek/restaurant-reservation/internal/access"
    "github.com/davrbek/restaurant-reservation/internal/model"
    "github.com/davrbek/restaurant-reservation/internal/queue"
    "github.com/davrbek/restaurant-reservation/internal/repository"
)

// OwnerReservationHandler serves the restaurateur side of the
// reservation lifecycle: listing, accepting, marking visits and
// cancelling.  Every transition evaluates the access predicate and the
// model guard before opening a transaction, and the conditional UPDATEs
// underneath re-check state so racing owners cannot double-apply one.
type OwnerReservationHandler struct {
    Establishments *repository.EstablishmentRepo
    Reservations   *repository.ReservationRepo
    Slots          *repository.SlotRepo
    Availability   *repository.AvailabilityRepo
    History        *repository.HistoryRepo
}

func NewOwnerReservationHandler(ests *repository.EstablishmentRepo, res *repository.ReservationRepo,
    slots *repository.SlotRepo, avail *repository.AvailabilityRepo, hist *repository.HistoryRepo) *OwnerReservationHandler {
    if ests == nil || res == nil || slots == nil || avail == nil || hist == nil {
        panic("nil repository passed to NewOwnerReservationHandler")
    }
    return &OwnerReservationHandler{Establishments: ests, Reservations: res, Slots: slots, Availability: avail, History: hist}
}

// ListEstablishmentReservations handles
// GET /v1/owner/establishments/:id/reservations, newest first, with
// limit/offset paging.
func (h *OwnerReservationHandler) ListEstablishmentReservations(c echo.Context) error {
    actor, err := actorFrom(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    estID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid establishment id"})
    }
    limit := 20
    if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 && v <= 100 {
        limit = v
    }
    offset := 0
    if v, err := strconv.Atoi(c.QueryParam("offset")); err == nil && v > 0 {
        offset = v
    }
    ctx := c.Request().Context()
    ownerID, err := h.Establishments.OwnerOf(ctx, estID)
    if err != nil {
        if errors.Is(err, repository.ErrEstablishmentNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "establishment not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if !access.CanManageEstablishment(actor, ownerID) {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }
    // The repo re-checks against the real owner, which also covers the
    // admin path.
    items, err := h.Reservations.ListByEstablishmentForOwner(ctx, estID, ownerID, limit, offset)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetReservation handles GET /v1/owner/reservations/:id.
func (h *OwnerReservationHandler) GetReservation(c echo.Context) error {
    res, ok := h.authorizeTransition(c)
    if !ok {
        return nil
    }
    detail, err := h.Reservations.GetDetail(c.Request().Context(), res.ID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"item": detail})
}

// Accept handles POST /v1/owner/reservations/:id/accept.
func (h *OwnerReservationHandler) Accept(c echo.Context) error {
    res, ok := h.authorizeTransition(c)
    if !ok {
        return nil
    }
    if err := res.CanAccept(); err != nil {
        return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
    }
    ctx := c.Request().Context()
    tx, err := h.Establishments.DB().BeginTx(ctx, nil)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()
    if err := h.Reservations.AcceptTx(ctx, tx, res.ID); err != nil {
        if errors.Is(err, repository.ErrConflict) {
            return c.JSON(http.StatusConflict, echo.Map{"error": model.ErrAlreadyAccepted.Error()})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "accept failed"})
    }
    if err := tx.Commit(); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
    }
    committed = true

    if est, err := h.Establishments.GetByID(ctx, res.EstablishmentID); err == nil {
        publishReservationEvent(ctx, queue.EventAccepted, res, &est)
    }
    return c.JSON(http.StatusOK, echo.Map{"id": res.ID, "status": "ACCEPTED"})
}

// MarkVisited handles POST /v1/owner/reservations/:id/visited.  A copy
// lands in the history archive; the reservation row itself stays, now
// terminal.
func (h *OwnerReservationHandler) MarkVisited(c echo.Context) error {
    res, ok := h.authorizeTransition(c)
    if !ok {
        return nil
    }
    if err := res.CanMarkVisited(time.Now().UTC()); err != nil {
        return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
    }
    ctx := c.Request().Context()
    tx, err := h.Establishments.DB().BeginTx(ctx, nil)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()
    if err := h.Reservations.MarkVisitedTx(ctx, tx, res.ID); err != nil {
        if errors.Is(err, repository.ErrConflict) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "reservation state changed"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
    }
    if err := h.History.ArchiveTx(ctx, tx, res, model.OutcomeVisited); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "archive failed"})
    }
    if err := tx.Commit(); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
    }
    committed = true
    return c.JSON(http.StatusOK, echo.Map{"id": res.ID, "status": "VISITED"})
}

// Cancel handles DELETE /v1/owner/reservations/:id: the owner-side
// cancellation, sharing the guard and teardown with the guest side.
func (h *OwnerReservationHandler) Cancel(c echo.Context) error {
    res, ok := h.authorizeTransition(c)
    if !ok {
        return nil
    }
    if err := res.CanCancel(time.Now().UTC()); err != nil {
        return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
    }
    ctx := c.Request().Context()
    if err := CancelReservationTx(ctx, h.Establishments.DB(), h.Reservations, h.Slots, h.Availability, h.History, res); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
    }
    if est, err := h.Establishments.GetByID(ctx, res.EstablishmentID); err == nil {
        publishReservationEvent(ctx, queue.EventCancelled, res, &est)
    }
    return c.NoContent(http.StatusNoContent)
}

// authorizeTransition loads the reservation and enforces the owner
// predicate before any transition endpoint proceeds.  On failure the
// response is already written and (nil, false) comes back.
func (h *OwnerReservationHandler) authorizeTransition(c echo.Context) (*model.Reservation, bool) {
    actor, err := actorFrom(c)
    if err != nil {
        _ = c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
        return nil, false
    }
    resID, ok := pathID(c, "id")
    if !ok {
        _ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
        return nil, false
    }
    ctx := c.Request().Context()
    res, err := h.Reservations.GetByID(ctx, resID)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            _ = c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
        } else {
            _ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
        }
        return nil, false
    }
    ownerID, err := h.Establishments.OwnerOf(ctx, res.EstablishmentID)
    if err != nil {
        _ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
        return nil, false
    }
    if !access.CanTransitionReservation(actor, ownerID) {
        _ = c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
        return nil, false
    }
    return &res, true
}
