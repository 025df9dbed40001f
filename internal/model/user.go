package model

import "time"

// Role names stored in users.role and carried in the JWT "role" claim.
// The set is closed: every authorization decision switches over these
// three values and nothing else.
const (
    RoleClient       = "CLIENT"       // diners who browse and book
    RoleRestaurateur = "RESTAURATEUR" // establishment owners
    RoleAdmin        = "ADMIN"        // back-office operators
)

// User represents an application user record as stored in the `users`
// table.  Each field corresponds to a column in the database.  Contact
// fields are copied onto reservations made while authenticated, so a
// booking keeps its guest details even if the profile changes later.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  Role         – one of CLIENT, RESTAURATEUR, ADMIN.
//  FirstName    – given name, used to prefill reservations.
//  LastName     – family name, used to prefill reservations.
//  Phone        – contact phone number.
//  IsActive     – whether the account is active.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
    ID           uint64    // users.id
    Email        string    // users.email
    PasswordHash string    // users.password_hash
    Role         string    // users.role
    FirstName    string    // users.first_name
    LastName     string    // users.last_name
    Phone        string    // users.phone
    IsActive     bool      // users.is_active
    CreatedAt    time.Time // users.created_at
    UpdatedAt    time.Time // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// refresh token belongs to a user and contains metadata for expiry
// and revocation.  The plain token is not stored; only its
// SHA‑256 hash.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA‑256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
    ID        uint64     // refresh_tokens.id
    UserID    uint64     // refresh_tokens.user_id
    TokenHash string     // refresh_tokens.token_hash
    ExpiresAt time.Time  // refresh_tokens.expires_at
    RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
    CreatedAt time.Time  // refresh_tokens.created_at
}
