package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4"

    "github.com/davrbek/restaurant-reservation/internal/handler"
    "github.com/davrbek/restaurant-reservation/internal/middleware"
    "github.com/davrbek/restaurant-reservation/internal/model"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check, which
// load balancers and monitoring systems use to verify the service is up.
func RegisterRoutes(e *echo.Echo) {
    e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
    // Session lifecycle: none of these require an existing session.
    g := e.Group("/v1/auth")
    g.POST("/register", a.Register)
    g.POST("/login", a.Login)
    // /refresh rotates the refresh token; /refresh-access only mints a new
    // access token and leaves the refresh token as is.
    g.POST("/refresh", a.Refresh)
    g.POST("/refresh-access", a.RefreshAccess)
    // Logout accepts either a bearer token (revoke all sessions) or a
    // refresh_token in the body (revoke one), so it stays outside the
    // JWT-protected group.
    g.POST("/logout", a.Logout)

    // Profile endpoints require a valid access token.  Any known role may
    // read and update its own profile.
    auth := e.Group("/v1")
    auth.Use(middleware.JWTAuth(jwtSecret))
    auth.Use(middleware.RequireRole(model.RoleClient, model.RoleRestaurateur, model.RoleAdmin))
    auth.GET("/me", a.Me)
    auth.PUT("/me", a.UpdateProfile)
}

// RegisterPublic registers the unauthenticated surface: venue browsing,
// confirmation codes and the booking endpoint itself.  Booking is public
// because guests reserve without an account; the handler picks up a bearer
// token when one is present.  The cache middleware wraps only the browse
// reads, where repeated identical GETs are common.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, conf *handler.ConfirmationHandler,
    b *handler.BookingHandler, cache echo.MiddlewareFunc) {
    browse := e.Group("/v1", cache)
    browse.GET("/establishments", p.ListEstablishments)
    browse.GET("/establishments/:id", p.GetEstablishment)
    browse.GET("/establishments/:id/zones", p.ListZones)
    browse.GET("/establishments/:id/schedule", p.GetSchedule)
    browse.GET("/establishments/:id/slots", p.ListSlots)
    browse.GET("/establishments/:id/availability", p.GetAvailability)

    // Confirmation codes for anonymous guests.
    e.POST("/v1/confirmations", conf.Issue)
    e.POST("/v1/confirmations/verify", conf.Verify)

    // Booking and the guest manage-token endpoints.  The token in the URL
    // is the only credential a guest holds.
    e.POST("/v1/establishments/:id/reservations", b.CreateReservation)
    e.GET("/v1/guest/reservations/:token", b.GetGuestReservation)
    e.DELETE("/v1/guest/reservations/:token", b.CancelGuestReservation)
}
