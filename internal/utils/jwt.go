// Package utils holds token and hashing helpers shared by the auth
// handlers and middleware.
package utils

import (
    "crypto/rand"
    "crypto/sha256"
    "encoding/hex"
    "math/big"
    "time"

    "github.com/golang-jwt/jwt/v5"
)

// AccessToken is a signed HS256 JWT plus its expiry.  Access tokens are
// short-lived and travel in the Authorization header.
type AccessToken struct {
    Token string
    Exp   time.Time
}

// RefreshToken is the long-lived token used to mint new access tokens.
// Raw goes to the client; only its SHA-256 hash is ever stored.
type RefreshToken struct {
    Raw string
    Exp time.Time
}

// NewAccessToken signs an HS256 JWT carrying the user id (sub) and role.
func NewAccessToken(secret string, userID uint64, role string, ttlMin int) (AccessToken, error) {
    exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
    claims := jwt.MapClaims{
        "sub":  userID,
        "role": role,
        "exp":  exp.Unix(),
        "iat":  time.Now().UTC().Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}

// NewRefreshToken returns a 96-hex-char random token valid for ttlDays.
func NewRefreshToken(ttlDays int) (RefreshToken, error) {
    raw, err := randomHex(48)
    if err != nil {
        return RefreshToken{}, err
    }
    return RefreshToken{
        Raw: raw,
        Exp: time.Now().UTC().Add(time.Duration(ttlDays) * 24 * time.Hour),
    }, nil
}

// HashRefreshRaw hashes a raw refresh token for storage.  Keeping only
// the hash means a leaked database cannot be replayed into sessions.
func HashRefreshRaw(raw string) string {
    sum := sha256.Sum256([]byte(raw))
    return hex.EncodeToString(sum[:])
}

// NumericCode returns an n-digit confirmation code from crypto/rand,
// left-padded with zeros so every code has the same length.
func NumericCode(n int) (string, error) {
    max := big.NewInt(1)
    for i := 0; i < n; i++ {
        max.Mul(max, big.NewInt(10))
    }
    v, err := rand.Int(rand.Reader, max)
    if err != nil {
        return "", err
    }
    code := v.String()
    for len(code) < n {
        code = "0" + code
    }
    return code, nil
}

func randomHex(n int) (string, error) {
    buf := make([]byte, n)
    if _, err := rand.Read(buf); err != nil {
        return "", err
    }
    return hex.EncodeToString(buf), nil
}
