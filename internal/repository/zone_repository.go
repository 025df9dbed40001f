package repository

import (
    "context"
    "database/sql"
    "strings"

    "github.com/davrbek/restaurant-reservation/internal/model"
)

// ZoneRepo provides CRUD operations for seating areas.  A zone's seat
// count is static configuration; editing it never rewrites existing
// availability rows (they may already be partially consumed), it only
// changes what future generation cycles seed.
type ZoneRepo struct {
    db *sql.DB
}

// NewZoneRepo returns a new ZoneRepo bound to the given database.
func NewZoneRepo(db *sql.DB) *ZoneRepo { return &ZoneRepo{db: db} }

// Create inserts a zone and returns its ID.  Zone names are unique per
// establishment; a duplicate surfaces as ErrConflict.
func (r *ZoneRepo) Create(ctx context.Context, z *model.Zone) (uint64, error) {
    res, err := r.db.ExecContext(ctx,
        `INSERT INTO zones (establishment_id, name, seats) VALUES (?,?,?)`,
        z.EstablishmentID, z.Name, z.Seats)
    if err != nil {
        if strings.Contains(strings.ToLower(err.Error()), "1062") {
            return 0, ErrConflict
        }
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// GetByID fetches a single zone.
func (r *ZoneRepo) GetByID(ctx context.Context, id uint64) (model.Zone, error) {
    var z model.Zone
    err := r.db.QueryRowContext(ctx,
        `SELECT id, establishment_id, name, seats, created_at, updated_at FROM zones WHERE id = ?`,
        id).Scan(&z.ID, &z.EstablishmentID, &z.Name, &z.Seats, &z.CreatedAt, &z.UpdatedAt)
    return z, err
}

// ListByEstablishment returns the zones of a venue ordered by name.
func (r *ZoneRepo) ListByEstablishment(ctx context.Context, establishmentID uint64) ([]model.Zone, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT id, establishment_id, name, seats, created_at, updated_at
         FROM zones WHERE establishment_id = ? ORDER BY name`,
        establishmentID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Zone, 0)
    for rows.Next() {
        var z model.Zone
        if err := rows.Scan(&z.ID, &z.EstablishmentID, &z.Name, &z.Seats, &z.CreatedAt, &z.UpdatedAt); err != nil {
            return nil, err
        }
        out = append(out, z)
    }
    return out, rows.Err()
}

// Update changes a zone's name and seat count.
func (r *ZoneRepo) Update(ctx context.Context, z *model.Zone) error {
    res, err := r.db.ExecContext(ctx,
        `UPDATE zones SET name=?, seats=? WHERE id=? AND establishment_id=?`,
        z.Name, z.Seats, z.ID, z.EstablishmentID)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return sql.ErrNoRows
    }
    return nil
}

// Delete removes a zone unless reservations reference it.
func (r *ZoneRepo) Delete(ctx context.Context, id, establishmentID uint64) error {
    var count int
    if err := r.db.QueryRowContext(ctx,
        `SELECT COUNT(*) FROM reservations WHERE zone_id = ?`, id).Scan(&count); err != nil {
        return err
    }
    if count > 0 {
        return ErrConflict
    }
    res, err := r.db.ExecContext(ctx,
        `DELETE FROM zones WHERE id=? AND establishment_id=?`, id, establishmentID)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return sql.ErrNoRows
    }
    return nil
}
