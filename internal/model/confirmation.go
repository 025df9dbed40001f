package model

import "time"

// ConfirmationCode is the short-lived verification token that gates
// anonymous bookings.  One live row exists per contact (email address or
// phone number); requesting a new code replaces the previous row.  A
// code must be verified before the contact can book and is consumed by
// the first successful booking.
type ConfirmationCode struct {
    ID         uint64    // confirmation_codes.id
    Contact    string    // confirmation_codes.contact (email or phone)
    Code       string    // confirmation_codes.code (6 digits)
    IsVerified bool      // confirmation_codes.is_verified
    ExpiresAt  time.Time // confirmation_codes.expires_at
    CreatedAt  time.Time // confirmation_codes.created_at
}

// Expired reports whether the code can no longer be verified or used.
func (c *ConfirmationCode) Expired(now time.Time) bool {
    return !c.ExpiresAt.After(now)
}
