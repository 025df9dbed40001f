package repository

import (
    "context"
    "database/sql"
    "strings"
    "time"

    "github.com/davrbek/restaurant-reservation/internal/model"
)

// SlotRepo provides data access to the generated slots table.  Slots are
// the unit of booking: claiming them is the contended step, so every
// method that participates in a booking takes an explicit transaction.
type SlotRepo struct {
    db *sql.DB
}

// NewSlotRepo returns a new SlotRepo bound to the provided database.
func NewSlotRepo(db *sql.DB) *SlotRepo { return &SlotRepo{db: db} }

const slotCols = `id, establishment_id, zone_id, slot_date, TIME_FORMAT(slot_time, '%H:%i'), seats, is_active, created_at`

// CreateBulk inserts multiple slot rows in one statement using INSERT
// IGNORE so that re-running generation never duplicates a (zone, date,
// time) triple and never resets a consumed slot's is_active flag.
func (r *SlotRepo) CreateBulk(ctx context.Context, slots []model.Slot) error {
    if len(slots) == 0 {
        return nil
    }
    query := `INSERT IGNORE INTO slots (establishment_id, zone_id, slot_date, slot_time, seats) VALUES `
    args := make([]interface{}, 0, len(slots)*5)
    for i, s := range slots {
        if i > 0 {
            query += ","
        }
        query += "(?, ?, ?, ?, ?)"
        args = append(args, s.EstablishmentID, s.ZoneID, s.Date.Format("2006-01-02"), s.TimeOfDay, s.Seats)
    }
    _, err := r.db.ExecContext(ctx, query, args...)
    return err
}

// ListOpen returns the active slots of an establishment for one date,
// optionally narrowed to a zone.  Ordering by zone then time gives
// deterministic output for the public endpoint.
func (r *SlotRepo) ListOpen(ctx context.Context, establishmentID uint64, date time.Time, zoneID uint64) ([]model.Slot, error) {
    q := `SELECT ` + slotCols + ` FROM slots WHERE establishment_id = ? AND slot_date = ? AND is_active = 1`
    args := []any{establishmentID, date.Format("2006-01-02")}
    if zoneID != 0 {
        q += ` AND zone_id = ?`
        args = append(args, zoneID)
    }
    q += ` ORDER BY zone_id, slot_time`
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Slot, 0)
    for rows.Next() {
        var s model.Slot
        if err := rows.Scan(&s.ID, &s.EstablishmentID, &s.ZoneID, &s.Date, &s.TimeOfDay, &s.Seats, &s.IsActive, &s.CreatedAt); err != nil {
            return nil, err
        }
        out = append(out, s)
    }
    return out, rows.Err()
}

// GetManyTx loads the requested slots inside the booking transaction so
// the caller can validate zone/date consistency before claiming.  The
// result preserves no particular order; callers index by ID.  Slots that
// do not exist or belong to a different establishment are simply absent
// from the result.
func (r *SlotRepo) GetManyTx(ctx context.Context, tx *sql.Tx, establishmentID uint64, ids []uint64) ([]model.Slot, error) {
    if len(ids) == 0 {
        return nil, nil
    }
    placeholders := make([]string, len(ids))
    args := make([]any, 0, len(ids)+1)
    args = append(args, establishmentID)
    for i, id := range ids {
        placeholders[i] = "?"
        args = append(args, id)
    }
    q := `SELECT ` + slotCols + ` FROM slots WHERE establishment_id = ? AND id IN (` + strings.Join(placeholders, ",") + `)`
    rows, err := tx.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.Slot
    for rows.Next() {
        var s model.Slot
        if err := rows.Scan(&s.ID, &s.EstablishmentID, &s.ZoneID, &s.Date, &s.TimeOfDay, &s.Seats, &s.IsActive, &s.CreatedAt); err != nil {
            return nil, err
        }
        out = append(out, s)
    }
    return out, rows.Err()
}

// ClaimTx atomically consumes the given slots: a conditional UPDATE
// flips is_active only on rows that are still active, and the affected
// row count is compared against the request.  When a concurrent booking
// already took any of the slots the count is short and ErrConflict is
// returned, which rolls the whole booking back.  This is the
// linearization point for "at most one reservation per slot".
func (r *SlotRepo) ClaimTx(ctx context.Context, tx *sql.Tx, establishmentID uint64, ids []uint64) error {
    if len(ids) == 0 {
        return ErrConflict
    }
    placeholders := make([]string, len(ids))
    args := make([]any, 0, len(ids)+1)
    args = append(args, establishmentID)
    for i, id := range ids {
        placeholders[i] = "?"
        args = append(args, id)
    }
    q := `UPDATE slots SET is_active = 0
          WHERE establishment_id = ? AND id IN (` + strings.Join(placeholders, ",") + `) AND is_active = 1`
    res, err := tx.ExecContext(ctx, q, args...)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n != int64(len(ids)) {
        return ErrConflict
    }
    return nil
}

// ReactivateTx returns slots to the bookable pool after a cancellation.
func (r *SlotRepo) ReactivateTx(ctx context.Context, tx *sql.Tx, ids []uint64) error {
    if len(ids) == 0 {
        return nil
    }
    placeholders := make([]string, len(ids))
    args := make([]any, 0, len(ids))
    for i, id := range ids {
        placeholders[i] = "?"
        args = append(args, id)
    }
    _, err := tx.ExecContext(ctx,
        `UPDATE slots SET is_active = 1 WHERE id IN (`+strings.Join(placeholders, ",")+`)`,
        args...)
    return err
}

// DeleteStale removes slots older than the given number of days.  Past
// slots are useless for booking; the scheduler prunes them so the table
// does not grow without bound.
func (r *SlotRepo) DeleteStale(ctx context.Context, keepDays int) (int64, error) {
    res, err := r.db.ExecContext(ctx,
        `DELETE FROM slots WHERE slot_date < DATE_SUB(CURDATE(), INTERVAL ? DAY)`, keepDays)
    if err != nil {
        return 0, err
    }
    return res.RowsAffected()
}
