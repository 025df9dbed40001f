package model

import "time"

// Establishment represents a restaurant listing owned by a restaurateur.
// It is the root aggregate: zones, work schedules, slots and availability
// rows all cascade from it.  This struct corresponds to a row in the
// `establishments` table.
//
// Fields:
//  ID             – primary key identifier.
//  OwnerID        – user ID of the restaurateur.
//  Name           – establishment name, unique per owner.
//  Description    – optional free-text description.
//  Address        – street address shown to diners.
//  Latitude       – geocoordinate (nil when not geocoded).
//  Longitude      – geocoordinate (nil when not geocoded).
//  Phone          – contact phone for the venue.
//  Email          – contact email for the venue.
//  TelegramChatID – chat that receives booking notifications (nil = none).
//  IsVerified     – set by admins once the listing is checked.
//  CreatedAt      – timestamp when the listing was created.
//  UpdatedAt      – timestamp of last update.
type Establishment struct {
    ID             uint64     // establishments.id
    OwnerID        uint64     // establishments.owner_id
    Name           string     // establishments.name
    Description    *string    // establishments.description (nullable)
    Address        string     // establishments.address
    Latitude       *float64   // establishments.latitude (nullable)
    Longitude      *float64   // establishments.longitude (nullable)
    Phone          string     // establishments.phone
    Email          string     // establishments.email
    TelegramChatID *string    // establishments.telegram_chat_id (nullable)
    IsVerified     bool       // establishments.is_verified
    CreatedAt      time.Time  // establishments.created_at
    UpdatedAt      time.Time  // establishments.updated_at
}

// WorkSchedule is one weekday entry of an establishment's weekly opening
// hours.  At most one row exists per (establishment, weekday); the unique
// key enforces it.  Times are stored as "HH:MM" strings in UTC.  When
// IsDayOff is set the open/close times are ignored and no slots are
// generated for that weekday.
type WorkSchedule struct {
    ID              uint64    // work_schedules.id
    EstablishmentID uint64    // work_schedules.establishment_id
    Weekday         int       // work_schedules.weekday, 0=Sunday .. 6=Saturday (time.Weekday)
    OpensAt         string    // work_schedules.opens_at ("10:00")
    ClosesAt        string    // work_schedules.closes_at ("22:00")
    IsDayOff        bool      // work_schedules.is_day_off
    UpdatedAt       time.Time // work_schedules.updated_at
}

// Zone is a named seating area inside an establishment with a fixed seat
// capacity.  Capacity is static configuration; the number of seats still
// free on a given date lives in the availability ledger, never here.
type Zone struct {
    ID              uint64    // zones.id
    EstablishmentID uint64    // zones.establishment_id
    Name            string    // zones.name
    Seats           uint32    // zones.seats, must be >= 1
    CreatedAt       time.Time // zones.created_at
    UpdatedAt       time.Time // zones.updated_at
}
