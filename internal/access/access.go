// Package access centralizes the authorization rules for reservations
// and establishments.  Handlers never compare role strings inline; they
// ask these predicates, so the full rule set is readable in one place.
package access

import (
    "github.com/davrbek/restaurant-reservation/internal/model"
)

// Actor is the authenticated principal extracted from the JWT.
type Actor struct {
    UserID uint64
    Role   string
}

// IsAdmin reports whether the actor holds the platform-wide role.
func (a Actor) IsAdmin() bool { return a.Role == model.RoleAdmin }

// IsRestaurateur reports whether the actor can own establishments.
func (a Actor) IsRestaurateur() bool { return a.Role == model.RoleRestaurateur }

// CanManageEstablishment allows the owner of the venue and admins.
// Owner identity comes from the establishments row, never from a claim,
// so a stale or forged token cannot grant management rights.
func CanManageEstablishment(actor Actor, ownerID uint64) bool {
    return actor.IsAdmin() || (actor.IsRestaurateur() && actor.UserID == ownerID)
}

// CanViewReservation allows the guest who placed the booking, the venue
// owner and admins.  Anonymous bookings carry no user id and are reached
// through their manage token instead, which bypasses this check.
func CanViewReservation(actor Actor, res *model.Reservation, ownerID uint64) bool {
    if actor.IsAdmin() {
        return true
    }
    if res.UserID != nil && *res.UserID == actor.UserID {
        return true
    }
    return actor.IsRestaurateur() && actor.UserID == ownerID
}

// CanTransitionReservation allows accept / mark-visited / owner-cancel:
// venue owner and admins only.  Guests cancel through their own
// endpoint, which checks CanCancelOwn instead.
func CanTransitionReservation(actor Actor, ownerID uint64) bool {
    return CanManageEstablishment(actor, ownerID)
}

// CanCancelOwn allows a signed-in guest to cancel a reservation they
// placed themselves.
func CanCancelOwn(actor Actor, res *model.Reservation) bool {
    return res.UserID != nil && *res.UserID == actor.UserID
}
