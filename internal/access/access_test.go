package access

import (
    "testing"

    "github.com/davrbek/restaurant-reservation/internal/model"
)

func u64(v uint64) *uint64 { return &v }

func TestCanManageEstablishment(t *testing.T) {
    tests := []struct {
        name    string
        actor   Actor
        ownerID uint64
        want    bool
    }{
        {"owner", Actor{UserID: 7, Role: model.RoleRestaurateur}, 7, true},
        {"other restaurateur", Actor{UserID: 8, Role: model.RoleRestaurateur}, 7, false},
        {"admin", Actor{UserID: 1, Role: model.RoleAdmin}, 7, true},
        {"client with matching id", Actor{UserID: 7, Role: model.RoleClient}, 7, false},
    }
    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            if got := CanManageEstablishment(tt.actor, tt.ownerID); got != tt.want {
                t.Errorf("got %v, want %v", got, tt.want)
            }
        })
    }
}

func TestCanViewReservation(t *testing.T) {
    res := &model.Reservation{UserID: u64(42)}
    anon := &model.Reservation{UserID: nil}

    tests := []struct {
        name    string
        actor   Actor
        res     *model.Reservation
        ownerID uint64
        want    bool
    }{
        {"booking guest", Actor{UserID: 42, Role: model.RoleClient}, res, 7, true},
        {"unrelated client", Actor{UserID: 43, Role: model.RoleClient}, res, 7, false},
        {"venue owner", Actor{UserID: 7, Role: model.RoleRestaurateur}, res, 7, true},
        {"other restaurateur", Actor{UserID: 8, Role: model.RoleRestaurateur}, res, 7, false},
        {"admin", Actor{UserID: 1, Role: model.RoleAdmin}, res, 7, true},
        {"anonymous booking, client id 0 match", Actor{UserID: 0, Role: model.RoleClient}, anon, 7, false},
        {"anonymous booking, owner", Actor{UserID: 7, Role: model.RoleRestaurateur}, anon, 7, true},
    }
    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            if got := CanViewReservation(tt.actor, tt.res, tt.ownerID); got != tt.want {
                t.Errorf("got %v, want %v", got, tt.want)
            }
        })
    }
}

func TestCanCancelOwn(t *testing.T) {
    res := &model.Reservation{UserID: u64(42)}
    if !CanCancelOwn(Actor{UserID: 42, Role: model.RoleClient}, res) {
        t.Error("guest should cancel own booking")
    }
    if CanCancelOwn(Actor{UserID: 9, Role: model.RoleClient}, res) {
        t.Error("stranger must not cancel someone else's booking")
    }
    if CanCancelOwn(Actor{UserID: 0, Role: model.RoleClient}, &model.Reservation{}) {
        t.Error("anonymous booking has no owning user")
    }
}
