package repository

import (
    "context"
    "database/sql"

    "github.com/davrbek/restaurant-reservation/internal/model"
)

// AvailabilityRepo maintains the remaining-seat ledger, one row per
// (zone, date) inside the generation window.  The counter is only ever
// mutated through the conditional statements below, always inside the
// same transaction as the slot claim or release, so it can never go
// negative and never exceed the zone capacity.
type AvailabilityRepo struct {
    db *sql.DB
}

// NewAvailabilityRepo returns a new AvailabilityRepo bound to the given database.
func NewAvailabilityRepo(db *sql.DB) *AvailabilityRepo { return &AvailabilityRepo{db: db} }

// EnsureBulk seeds ledger rows for the given zone/date pairs with the
// zone capacity.  INSERT IGNORE gives get-or-create semantics: existing
// rows, including partially consumed ones, are left untouched, which
// is what makes window generation idempotent.
func (r *AvailabilityRepo) EnsureBulk(ctx context.Context, rows []model.Availability) error {
    if len(rows) == 0 {
        return nil
    }
    query := `INSERT IGNORE INTO availability (establishment_id, zone_id, slot_date, remaining_seats) VALUES `
    args := make([]interface{}, 0, len(rows)*4)
    for i, a := range rows {
        if i > 0 {
            query += ","
        }
        query += "(?, ?, ?, ?)"
        args = append(args, a.EstablishmentID, a.ZoneID, a.Date.Format("2006-01-02"), a.RemainingSeats)
    }
    _, err := r.db.ExecContext(ctx, query, args...)
    return err
}

// ListByEstablishment returns the ledger rows of a venue from today
// onward, ordered by date then zone.
func (r *AvailabilityRepo) ListByEstablishment(ctx context.Context, establishmentID uint64) ([]model.Availability, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT id, establishment_id, zone_id, slot_date, remaining_seats
         FROM availability
         WHERE establishment_id = ? AND slot_date >= CURDATE()
         ORDER BY slot_date, zone_id`,
        establishmentID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Availability, 0)
    for rows.Next() {
        var a model.Availability
        if err := rows.Scan(&a.ID, &a.EstablishmentID, &a.ZoneID, &a.Date, &a.RemainingSeats); err != nil {
            return nil, err
        }
        out = append(out, a)
    }
    return out, rows.Err()
}

// ReserveTx deducts guest seats from the ledger row for (zone, date).
// The WHERE clause only matches when enough seats remain, so the counter
// cannot go negative; zero affected rows means the zone is (now) too
// full and the booking must roll back with ErrConflict.
func (r *AvailabilityRepo) ReserveTx(ctx context.Context, tx *sql.Tx, zoneID uint64, date string, guests uint32) error {
    res, err := tx.ExecContext(ctx,
        `UPDATE availability
         SET remaining_seats = remaining_seats - ?
         WHERE zone_id = ? AND slot_date = ? AND remaining_seats >= ?`,
        guests, zoneID, date, guests)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrConflict
    }
    return nil
}

// RestoreTx returns guest seats to the ledger after a cancellation or
// expiry.  The LEAST against the zone capacity caps the restore: a
// double release (or a capacity edit in between) can never push the
// counter above what the zone physically holds.
func (r *AvailabilityRepo) RestoreTx(ctx context.Context, tx *sql.Tx, zoneID uint64, date string, guests uint32) error {
    _, err := tx.ExecContext(ctx,
        `UPDATE availability a
         JOIN zones z ON z.id = a.zone_id
         SET a.remaining_seats = LEAST(z.seats, a.remaining_seats + ?)
         WHERE a.zone_id = ? AND a.slot_date = ?`,
        guests, zoneID, date)
    return err
}

// Get returns one ledger row; sql.ErrNoRows when the date is outside the
// generated window.
func (r *AvailabilityRepo) Get(ctx context.Context, zoneID uint64, date string) (model.Availability, error) {
    var a model.Availability
    err := r.db.QueryRowContext(ctx,
        `SELECT id, establishment_id, zone_id, slot_date, remaining_seats
         FROM availability WHERE zone_id = ? AND slot_date = ?`,
        zoneID, date).Scan(&a.ID, &a.EstablishmentID, &a.ZoneID, &a.Date, &a.RemainingSeats)
    return a, err
}

// DeleteStale prunes ledger rows older than keepDays, mirroring the slot
// pruning done by the scheduler.
func (r *AvailabilityRepo) DeleteStale(ctx context.Context, keepDays int) (int64, error) {
    res, err := r.db.ExecContext(ctx,
        `DELETE FROM availability WHERE slot_date < DATE_SUB(CURDATE(), INTERVAL ? DAY)`, keepDays)
    if err != nil {
        return 0, err
    }
    return res.RowsAffected()
}
