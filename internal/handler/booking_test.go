package handler

import (
    "net/http"
    "net/http/httptest"
    "reflect"
    "testing"

    "github.com/labstack/echo/v4"

    "github.com/davrbek/restaurant-reservation/internal/config"
    "github.com/davrbek/restaurant-reservation/internal/model"
    "github.com/davrbek/restaurant-reservation/internal/utils"
)

func TestDedupeIDs(t *testing.T) {
    cases := []struct {
        name string
        in   []uint64
        want []uint64
    }{
        {"already clean", []uint64{3, 1, 2}, []uint64{3, 1, 2}},
        {"duplicates dropped, order kept", []uint64{5, 5, 2, 5, 2}, []uint64{5, 2}},
        {"zero ids dropped", []uint64{0, 7, 0}, []uint64{7}},
        {"all invalid", []uint64{0, 0}, []uint64{}},
        {"empty input", []uint64{}, []uint64{}},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            if got := dedupeIDs(tc.in); !reflect.DeepEqual(got, tc.want) {
                t.Fatalf("dedupeIDs(%v) = %v, want %v", tc.in, got, tc.want)
            }
        })
    }
}

func bookingCtx(t *testing.T, authorization string) echo.Context {
    t.Helper()
    req := httptest.NewRequest(http.MethodPost, "/v1/establishments/1/reservations", nil)
    if authorization != "" {
        req.Header.Set("Authorization", authorization)
    }
    return echo.New().NewContext(req, httptest.NewRecorder())
}

func TestOptionalUserID(t *testing.T) {
    const secret = "test-secret"
    h := &BookingHandler{Cfg: config.Config{JWTSecret: secret}}

    access, err := utils.NewAccessToken(secret, 42, model.RoleClient, 15)
    if err != nil {
        t.Fatalf("mint access token: %v", err)
    }

    if got := h.optionalUserID(bookingCtx(t, "Bearer "+access.Token)); got == nil || *got != 42 {
        t.Fatalf("valid bearer should resolve to user 42, got %v", got)
    }
    if got := h.optionalUserID(bookingCtx(t, "")); got != nil {
        t.Fatalf("missing header should be anonymous, got %v", got)
    }
    if got := h.optionalUserID(bookingCtx(t, "Bearer not-a-jwt")); got != nil {
        t.Fatalf("garbage token should be anonymous, got %v", got)
    }

    wrong, err := utils.NewAccessToken("other-secret", 42, model.RoleClient, 15)
    if err != nil {
        t.Fatalf("mint access token: %v", err)
    }
    if got := h.optionalUserID(bookingCtx(t, "Bearer "+wrong.Token)); got != nil {
        t.Fatalf("token signed with another secret should be anonymous, got %v", got)
    }
}
