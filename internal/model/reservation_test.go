package model

import (
    "errors"
    "testing"
    "time"
)

func u64(v uint64) *uint64 { return &v }

func TestHasContact(t *testing.T) {
    cases := []struct {
        name string
        res  Reservation
        want bool
    }{
        {"linked user", Reservation{UserID: u64(7)}, true},
        {"linked user with empty fields", Reservation{UserID: u64(7), FirstName: "", Email: ""}, true},
        {"full guest contact", Reservation{FirstName: "Aziz", LastName: "Karimov", Phone: "+998901234567", Email: "aziz@example.com"}, true},
        {"guest missing phone", Reservation{FirstName: "Aziz", LastName: "Karimov", Email: "aziz@example.com"}, false},
        {"guest missing everything", Reservation{}, false},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            if got := tc.res.HasContact(); got != tc.want {
                t.Fatalf("HasContact() = %v, want %v", got, tc.want)
            }
        })
    }
}

func TestCanAccept(t *testing.T) {
    pending := Reservation{}
    if err := pending.CanAccept(); err != nil {
        t.Fatalf("pending reservation should be acceptable, got %v", err)
    }
    accepted := Reservation{IsAccepted: true}
    if err := accepted.CanAccept(); !errors.Is(err, ErrAlreadyAccepted) {
        t.Fatalf("accepting twice should return ErrAlreadyAccepted, got %v", err)
    }
}

func TestCanMarkVisited(t *testing.T) {
    now := time.Date(2026, 8, 30, 19, 0, 0, 0, time.UTC)
    past := now.Add(-time.Hour)
    future := now.Add(time.Hour)

    cases := []struct {
        name string
        res  Reservation
        want error
    }{
        {"accepted and stay reached", Reservation{IsAccepted: true, StayAt: past}, nil},
        {"accepted exactly at stay time", Reservation{IsAccepted: true, StayAt: now}, nil},
        {"not yet accepted", Reservation{StayAt: past}, ErrNotAccepted},
        {"stay still ahead", Reservation{IsAccepted: true, StayAt: future}, ErrStayNotReached},
        {"already visited", Reservation{IsAccepted: true, IsVisited: true, StayAt: past}, ErrAlreadyVisited},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            err := tc.res.CanMarkVisited(now)
            if !errors.Is(err, tc.want) {
                t.Fatalf("CanMarkVisited() = %v, want %v", err, tc.want)
            }
        })
    }
}

func TestCanCancel(t *testing.T) {
    now := time.Date(2026, 8, 30, 19, 0, 0, 0, time.UTC)
    past := now.Add(-time.Hour)
    future := now.Add(time.Hour)

    cases := []struct {
        name string
        res  Reservation
        want error
    }{
        {"pending with future stay", Reservation{StayAt: future}, nil},
        {"pending with past stay", Reservation{StayAt: past}, nil},
        {"accepted but stay already passed", Reservation{IsAccepted: true, StayAt: past}, nil},
        {"accepted with upcoming stay", Reservation{IsAccepted: true, StayAt: future}, ErrConfirmedUpcoming},
        {"already visited", Reservation{IsVisited: true, StayAt: past}, ErrAlreadyVisited},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            err := tc.res.CanCancel(now)
            if !errors.Is(err, tc.want) {
                t.Fatalf("CanCancel() = %v, want %v", err, tc.want)
            }
        })
    }
}
