package model

import "errors"

var (
	// Reservation lifecycle guard errors
	ErrAlreadyAccepted   = errors.New("reservation already accepted")
	ErrNotAccepted       = errors.New("reservation not yet confirmed")
	ErrAlreadyVisited    = errors.New("reservation already marked visited")
	ErrStayNotReached    = errors.New("stay time not yet reached")
	ErrConfirmedUpcoming = errors.New("confirmed upcoming reservation cannot be cancelled")

	// Booking validation errors
	ErrContactRequired   = errors.New("guest bookings require first name, last name, phone and email")
	ErrCodeNotVerified   = errors.New("contact has no verified confirmation code")
	ErrSlotsNotFound     = errors.New("one or more slots do not exist for this establishment")
	ErrNotEnoughSeats    = errors.New("not enough seats remaining in the zone")
	ErrMixedSlots        = errors.New("slots must belong to a single zone and date")

	// Schedule validation errors
	ErrInvalidHours = errors.New("opening time must be before closing time")
)
