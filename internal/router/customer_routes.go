package router

import (
    "github.com/labstack/echo/v4"

    "github.com/davrbek/restaurant-reservation/internal/handler"
    "github.com/davrbek/restaurant-reservation/internal/middleware"
    "github.com/davrbek/restaurant-reservation/internal/model"
)

// RegisterCustomer registers the authenticated diner endpoints under /v1.
// All routes require a valid JWT; any known role is accepted because
// restaurateurs and admins can also book tables for themselves.  Access to
// an individual reservation is decided in the handler, not here.
func RegisterCustomer(e *echo.Echo, b *handler.BookingHandler, jwtSecret string) {
    g := e.Group(
        "/v1",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole(model.RoleClient, model.RoleRestaurateur, model.RoleAdmin),
    )
    g.GET("/my-reservations", b.ListMine)
    g.GET("/reservations/:id", b.GetReservation)
    g.DELETE("/reservations/:id", b.CancelReservation)
}
