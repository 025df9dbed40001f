package model

import "time"

// Reservation records a booking request for one or more slots of an
// establishment zone.  A reservation belongs either to a registered user
// (UserID set, contact fields copied from the profile) or to an
// anonymous guest (UserID nil, contact fields mandatory), never
// neither; CreateReservation validates this before anything is written.
//
// The lifecycle is a small state machine over two flags:
//
//	pending  (neither flag)  → accepted (IsAccepted) → visited (IsVisited)
//	pending / accepted       → cancelled (row deleted, archived to history)
//
// The guard methods below are the single source of truth for which
// transitions are legal; handlers call them before mutating anything so
// every refusal maps to one sentinel error.
type Reservation struct {
    ID              uint64     // reservations.id
    EstablishmentID uint64     // reservations.establishment_id
    ZoneID          uint64     // reservations.zone_id
    UserID          *uint64    // reservations.user_id (nullable for guests)
    FirstName       string     // reservations.first_name
    LastName        string     // reservations.last_name
    Phone           string     // reservations.phone
    Email           string     // reservations.email
    Guests          uint32     // reservations.guests
    Comment         *string    // reservations.comment (nullable)
    StayAt          time.Time  // reservations.stay_at (date+time of the first slot)
    IsAccepted      bool       // reservations.is_accepted
    IsVisited       bool       // reservations.is_visited
    ManageToken     string     // reservations.manage_token (guest self-service handle)
    ReminderSentAt  *time.Time // reservations.reminder_sent_at (nullable)
    CreatedAt       time.Time  // reservations.created_at
}

// HasContact reports whether the reservation carries usable guest
// contact data: either a linked user or all four anonymous fields.
func (r *Reservation) HasContact() bool {
    if r.UserID != nil {
        return true
    }
    return r.FirstName != "" && r.LastName != "" && r.Phone != "" && r.Email != ""
}

// CanAccept checks the owner "accept" transition.  Accepting twice is a
// conflict, not a no-op, so double clicks surface to the caller.
func (r *Reservation) CanAccept() error {
    if r.IsAccepted {
        return ErrAlreadyAccepted
    }
    return nil
}

// CanMarkVisited checks the owner "visited" transition.  A reservation
// must have been accepted first and its stay time must have arrived.
func (r *Reservation) CanMarkVisited(now time.Time) error {
    if r.IsVisited {
        return ErrAlreadyVisited
    }
    if !r.IsAccepted {
        return ErrNotAccepted
    }
    if r.StayAt.After(now) {
        return ErrStayNotReached
    }
    return nil
}

// CanCancel checks the cancel/delete transition for both sides.  An
// accepted reservation with a future stay is protected: the diner has a
// confirmed table and this path may not silently take it away.
func (r *Reservation) CanCancel(now time.Time) error {
    if r.IsVisited {
        return ErrAlreadyVisited
    }
    if r.IsAccepted && r.StayAt.After(now) {
        return ErrConfirmedUpcoming
    }
    return nil
}

// Terminal outcomes recorded in reservation_history.outcome.
const (
    OutcomeVisited   = "VISITED"
    OutcomeCancelled = "CANCELLED"
    OutcomeExpired   = "EXPIRED"
)

// ReservationHistory is the append-only archival copy of a reservation's
// terminal state.  Rows are written once, when a reservation is visited,
// cancelled or expired, and are never updated afterwards.
type ReservationHistory struct {
    ID              uint64    // reservation_history.id
    EstablishmentID uint64    // reservation_history.establishment_id
    ReservationID   uint64    // reservation_history.reservation_id
    FirstName       string    // reservation_history.first_name
    LastName        string    // reservation_history.last_name
    Phone           string    // reservation_history.phone
    Email           string    // reservation_history.email
    Guests          uint32    // reservation_history.guests
    StayAt          time.Time // reservation_history.stay_at
    Outcome         string    // reservation_history.outcome
    ArchivedAt      time.Time // reservation_history.archived_at
}
