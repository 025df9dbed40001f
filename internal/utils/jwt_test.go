package utils

import (
    "testing"
    "time"

    "github.com/golang-jwt/jwt/v5"
)

func TestNewAccessTokenRoundTrip(t *testing.T) {
    const secret = "test-secret"
    at, err := NewAccessToken(secret, 42, "RESTAURATEUR", 15)
    if err != nil {
        t.Fatalf("NewAccessToken: %v", err)
    }
    if at.Token == "" {
        t.Fatal("empty token")
    }
    if until := time.Until(at.Exp); until < 14*time.Minute || until > 16*time.Minute {
        t.Errorf("expiry %v not ~15m away", at.Exp)
    }

    parsed, err := jwt.Parse(at.Token, func(tok *jwt.Token) (interface{}, error) {
        return []byte(secret), nil
    })
    if err != nil || !parsed.Valid {
        t.Fatalf("parse signed token: %v", err)
    }
    claims := parsed.Claims.(jwt.MapClaims)
    if sub, _ := claims["sub"].(float64); uint64(sub) != 42 {
        t.Errorf("sub = %v, want 42", claims["sub"])
    }
    if claims["role"] != "RESTAURATEUR" {
        t.Errorf("role = %v", claims["role"])
    }
}

func TestNewRefreshToken(t *testing.T) {
    rt, err := NewRefreshToken(30)
    if err != nil {
        t.Fatalf("NewRefreshToken: %v", err)
    }
    if len(rt.Raw) != 96 {
        t.Errorf("raw length = %d, want 96", len(rt.Raw))
    }
    other, _ := NewRefreshToken(30)
    if rt.Raw == other.Raw {
        t.Error("two refresh tokens should not collide")
    }
    if HashRefreshRaw(rt.Raw) == rt.Raw {
        t.Error("hash must differ from raw")
    }
    if HashRefreshRaw(rt.Raw) != HashRefreshRaw(rt.Raw) {
        t.Error("hash must be deterministic")
    }
}

func TestNumericCode(t *testing.T) {
    for i := 0; i < 20; i++ {
        code, err := NumericCode(6)
        if err != nil {
            t.Fatalf("NumericCode: %v", err)
        }
        if len(code) != 6 {
            t.Fatalf("code %q length = %d, want 6", code, len(code))
        }
        for _, c := range code {
            if c < '0' || c > '9' {
                t.Fatalf("code %q has non-digit", code)
            }
        }
    }
}

func TestHashAndVerifyPassword(t *testing.T) {
    hash, err := HashPassword("s3cret", 4)
    if err != nil {
        t.Fatalf("HashPassword: %v", err)
    }
    if !VerifyPassword(hash, "s3cret") {
        t.Error("correct password rejected")
    }
    if VerifyPassword(hash, "wrong") {
        t.Error("wrong password accepted")
    }
}
