package repository

import (
    "context"
    "database/sql"

    "github.com/davrbek/restaurant-reservation/internal/model"
)

// HistoryRepo writes and reads the append-only reservation archive.
// Rows are inserted exactly once, inside the same transaction that
// finalizes the reservation, and never updated.
type HistoryRepo struct {
    db *sql.DB
}

// NewHistoryRepo returns a new HistoryRepo bound to the given database.
func NewHistoryRepo(db *sql.DB) *HistoryRepo { return &HistoryRepo{db: db} }

// ArchiveTx copies a reservation's terminal state into the history table
// within the caller's transaction.
func (r *HistoryRepo) ArchiveTx(ctx context.Context, tx *sql.Tx, res *model.Reservation, outcome string) error {
    _, err := tx.ExecContext(ctx,
        `INSERT INTO reservation_history
         (establishment_id, reservation_id, first_name, last_name, phone, email, guests, stay_at, outcome)
         VALUES (?,?,?,?,?,?,?,?,?)`,
        res.EstablishmentID, res.ID, res.FirstName, res.LastName, res.Phone, res.Email,
        res.Guests, res.StayAt.UTC().Format("2006-01-02 15:04:05"), outcome)
    return err
}

// ListByEstablishmentForOwner returns the archive of a venue, newest
// first, after verifying ownership the same way the reservation listing
// does.
func (r *HistoryRepo) ListByEstablishmentForOwner(ctx context.Context, establishmentID, ownerID uint64) ([]model.ReservationHistory, error) {
    var actualOwner uint64
    if err := r.db.QueryRowContext(ctx,
        `SELECT owner_id FROM establishments WHERE id = ?`, establishmentID).Scan(&actualOwner); err != nil {
        return nil, err
    }
    if actualOwner != ownerID {
        return nil, ErrForbidden
    }
    rows, err := r.db.QueryContext(ctx,
        `SELECT id, establishment_id, reservation_id, first_name, last_name, phone, email, guests, stay_at, outcome, archived_at
         FROM reservation_history WHERE establishment_id = ? ORDER BY archived_at DESC`,
        establishmentID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.ReservationHistory, 0)
    for rows.Next() {
        var h model.ReservationHistory
        if err := rows.Scan(&h.ID, &h.EstablishmentID, &h.ReservationID, &h.FirstName, &h.LastName,
            &h.Phone, &h.Email, &h.Guests, &h.StayAt, &h.Outcome, &h.ArchivedAt); err != nil {
            return nil, err
        }
        out = append(out, h)
    }
    return out, rows.Err()
}
