package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/davrbek/restaurant-reservation/internal/model"
)

// ConfirmationRepo manages the short-lived codes that gate anonymous
// bookings.  One live row exists per contact; issuing a new code
// replaces the old row entirely, so a contact can never accumulate
// several valid codes.
type ConfirmationRepo struct {
    db *sql.DB
}

// NewConfirmationRepo returns a new ConfirmationRepo bound to the given database.
func NewConfirmationRepo(db *sql.DB) *ConfirmationRepo { return &ConfirmationRepo{db: db} }

// Issue deletes any previous code for the contact and inserts a fresh
// unverified one with the given TTL.
func (r *ConfirmationRepo) Issue(ctx context.Context, contact, code string, ttl time.Duration) error {
    if _, err := r.db.ExecContext(ctx,
        `DELETE FROM confirmation_codes WHERE contact = ?`, contact); err != nil {
        return err
    }
    _, err := r.db.ExecContext(ctx,
        `INSERT INTO confirmation_codes (contact, code, expires_at) VALUES (?,?,?)`,
        contact, code, time.Now().UTC().Add(ttl).Format("2006-01-02 15:04:05"))
    return err
}

// Verify marks the contact's code as verified when it matches and has
// not expired.  Zero affected rows means wrong code, expired code or no
// code at all; the caller reports all three identically to avoid
// leaking which one it was.
func (r *ConfirmationRepo) Verify(ctx context.Context, contact, code string) (bool, error) {
    res, err := r.db.ExecContext(ctx,
        `UPDATE confirmation_codes
         SET is_verified = 1
         WHERE contact = ? AND code = ? AND expires_at > ?`,
        contact, code, time.Now().UTC().Format("2006-01-02 15:04:05"))
    if err != nil {
        return false, err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return false, err
    }
    return n > 0, nil
}

// ConsumeVerifiedTx deletes the contact's verified, unexpired code
// inside the booking transaction.  Zero affected rows means the contact
// never verified (or the code lapsed), in which case the booking must
// not proceed.  Deleting rather than flagging makes each verification
// good for exactly one booking.
func (r *ConfirmationRepo) ConsumeVerifiedTx(ctx context.Context, tx *sql.Tx, contact string) (bool, error) {
    res, err := tx.ExecContext(ctx,
        `DELETE FROM confirmation_codes
         WHERE contact = ? AND is_verified = 1 AND expires_at > ?`,
        contact, time.Now().UTC().Format("2006-01-02 15:04:05"))
    if err != nil {
        return false, err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return false, err
    }
    return n > 0, nil
}

// Get returns the live code row for a contact, mainly for tests and
// support tooling.
func (r *ConfirmationRepo) Get(ctx context.Context, contact string) (model.ConfirmationCode, error) {
    var c model.ConfirmationCode
    err := r.db.QueryRowContext(ctx,
        `SELECT id, contact, code, is_verified, expires_at, created_at
         FROM confirmation_codes WHERE contact = ?`,
        contact).Scan(&c.ID, &c.Contact, &c.Code, &c.IsVerified, &c.ExpiresAt, &c.CreatedAt)
    return c, err
}

// DeleteExpired prunes lapsed codes; called by the scheduler.
func (r *ConfirmationRepo) DeleteExpired(ctx context.Context) (int64, error) {
    res, err := r.db.ExecContext(ctx,
        `DELETE FROM confirmation_codes WHERE expires_at <= ?`,
        time.Now().UTC().Format("2006-01-02 15:04:05"))
    if err != nil {
        return 0, err
    }
    return res.RowsAffected()
}
