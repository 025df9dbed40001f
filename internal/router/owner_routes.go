package router

import (
    "github.com/labstack/echo/v4"

    "github.com/davrbek/restaurant-reservation/internal/handler"
    "github.com/davrbek/restaurant-reservation/internal/middleware"
    "github.com/davrbek/restaurant-reservation/internal/model"
)

// RegisterOwner registers the restaurateur catalog endpoints under /v1.
// All routes require a valid JWT and the RESTAURATEUR or ADMIN role.
// Ownership of the specific venue is enforced per request in the handlers.
func RegisterOwner(e *echo.Echo, o *handler.OwnerHandler, jwtSecret string) {
    g := e.Group(
        "/v1",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole(model.RoleRestaurateur, model.RoleAdmin),
    )

    // ---- Establishments ----
    g.POST("/owner/establishments", o.CreateEstablishment)
    g.GET("/owner/establishments", o.ListMyEstablishments)
    g.PUT("/owner/establishments/:id", o.UpdateEstablishment)
    g.DELETE("/owner/establishments/:id", o.DeleteEstablishment)
    g.GET("/owner/establishments/:id/history", o.ListHistory)

    // ---- Zones ----
    g.POST("/owner/establishments/:id/zones", o.CreateZone)
    g.PUT("/owner/zones/:id", o.UpdateZone)
    g.DELETE("/owner/zones/:id", o.DeleteZone)

    // ---- Weekly schedule ----
    g.PUT("/owner/establishments/:id/schedule/:weekday", o.UpsertSchedule)
    g.DELETE("/owner/establishments/:id/schedule/:weekday", o.DeleteSchedule)

    // Verification is admin only; the handler rejects everyone else.
    g.POST("/admin/establishments/:id/verify", o.VerifyEstablishment)
}
