package router

// This file registers the restaurateur routes for working the reservation
// queue.  They are kept separate from the catalog routes because the two
// surfaces evolve independently.

import (
    "github.com/labstack/echo/v4"

    "github.com/davrbek/restaurant-reservation/internal/handler"
    "github.com/davrbek/restaurant-reservation/internal/middleware"
    "github.com/davrbek/restaurant-reservation/internal/model"
)

// RegisterOwnerReservations registers routes that allow restaurateurs to
// list, inspect, accept, mark visited and cancel reservations on their
// own establishments.  All routes require a JWT and the RESTAURATEUR or
// ADMIN role; the per-venue predicate runs in the handler.
func RegisterOwnerReservations(e *echo.Echo, h *handler.OwnerReservationHandler, jwtSecret string) {
    g := e.Group(
        "/v1",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole(model.RoleRestaurateur, model.RoleAdmin),
    )
    g.GET("/owner/establishments/:id/reservations", h.ListEstablishmentReservations)
    g.GET("/owner/reservations/:id", h.GetReservation)
    g.POST("/owner/reservations/:id/accept", h.Accept)
    g.POST("/owner/reservations/:id/visited", h.MarkVisited)
    g.DELETE("/owner/reservations/:id", h.Cancel)
}
