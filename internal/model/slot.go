package model

import "time"

// Slot statuses are intentionally just a boolean: a slot is either still
// bookable or it has been consumed by a reservation.  Cancelling the
// reservation flips it back.

// Slot is one bookable (zone, date, time) unit derived from the weekly
// schedule.  Slots exist only for dates inside the rolling generation
// window and only for weekdays the establishment is open.  The time of
// day always falls on the configured grid (half-hour by default).
//
// Fields:
//  ID              – primary key identifier.
//  EstablishmentID – owning establishment.
//  ZoneID          – seating area this slot belongs to.
//  Date            – calendar date of the slot (UTC midnight).
//  TimeOfDay       – grid time as "HH:MM".
//  Seats           – seats offered by this slot (zone capacity at generation time).
//  IsActive        – false once consumed by a reservation.
//  CreatedAt       – creation timestamp.
type Slot struct {
    ID              uint64    // slots.id
    EstablishmentID uint64    // slots.establishment_id
    ZoneID          uint64    // slots.zone_id
    Date            time.Time // slots.slot_date
    TimeOfDay       string    // slots.slot_time ("19:30")
    Seats           uint32    // slots.seats
    IsActive        bool      // slots.is_active
    CreatedAt       time.Time // slots.created_at
}

// Availability is the remaining-seat ledger row for one zone on one date.
// One row exists per (zone, date) inside the generation window.  It is
// seeded with the zone capacity and mutated only through the conditional
// reserve/restore statements inside a booking transaction, which keeps
// the counter within [0, capacity] at all times.
type Availability struct {
    ID              uint64    // availability.id
    EstablishmentID uint64    // availability.establishment_id
    ZoneID          uint64    // availability.zone_id
    Date            time.Time // availability.slot_date
    RemainingSeats  uint32    // availability.remaining_seats
}
