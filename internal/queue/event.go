// Package queue defines the reservation event payload and the background
// consumer that turns events into guest and owner notifications.
package queue

// Event kinds carried on the reservation.events queue.
const (
    EventCreated   = "reservation.created"
    EventAccepted  = "reservation.accepted"
    EventCancelled = "reservation.cancelled"
    EventReminder  = "reservation.reminder"
)

// ReservationEvent is published on every lifecycle change.  It carries
// everything downstream consumers need to notify without querying the
// primary database.
type ReservationEvent struct {
    Kind              string `json:"kind"`
    ReservationID     uint64 `json:"reservation_id"`
    EstablishmentID   uint64 `json:"establishment_id"`
    EstablishmentName string `json:"establishment_name"`
    TelegramChatID    string `json:"telegram_chat_id,omitempty"`
    GuestFirstName    string `json:"guest_first_name"`
    GuestLastName     string `json:"guest_last_name"`
    GuestEmail        string `json:"guest_email,omitempty"`
    Guests            uint32 `json:"guests"`
    StayAt            string `json:"stay_at"` // RFC 3339, UTC
    OccurredAt        string `json:"occurred_at"`
}
