// Package handler contains the HTTP handlers for every API surface:
// auth, public browse, confirmations, booking and owner management.
package handler

import (
    "context"
    "errors"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/davrbek/restaurant-reservation/internal/access"
    "github.com/davrbek/restaurant-reservation/internal/model"
    "github.com/davrbek/restaurant-reservation/internal/queue"
    qp "github.com/davrbek/restaurant-reservation/internal/service"
)

// getUserID extracts the user_id stored by the JWT middleware.
func getUserID(c echo.Context) (uint64, error) {
    switch t := c.Get("user_id").(type) {
    case uint64:
        return t, nil
    case int64:
        return uint64(t), nil
    case float64:
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}

// actorFrom builds the access predicate input from the request context.
func actorFrom(c echo.Context) (access.Actor, error) {
    uid, err := getUserID(c)
    if err != nil {
        return access.Actor{}, err
    }
    role, _ := c.Get("role").(string)
    return access.Actor{UserID: uid, Role: role}, nil
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
    id, err := strconv.ParseUint(c.Param(name), 10, 64)
    return id, err == nil && id != 0
}

// publishReservationEvent fires a lifecycle event at the broker.  The
// caller has already committed; a publish failure only costs the
// notification, so the error is swallowed after the publisher logs it.
func publishReservationEvent(ctx context.Context, kind string, res *model.Reservation, est *model.Establishment) {
    chatID := ""
    if est.TelegramChatID != nil {
        chatID = *est.TelegramChatID
    }
    _ = qp.PublishReservationEvent(ctx, queue.ReservationEvent{
        Kind:              kind,
        ReservationID:     res.ID,
        EstablishmentID:   est.ID,
        EstablishmentName: est.Name,
        TelegramChatID:    chatID,
        GuestFirstName:    res.FirstName,
        GuestLastName:     res.LastName,
        GuestEmail:        res.Email,
        Guests:            res.Guests,
        StayAt:            res.StayAt.UTC().Format(time.RFC3339),
    })
}
