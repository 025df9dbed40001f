package repository

import (
    "context"
    "database/sql"
    "strings"

    "github.com/davrbek/restaurant-reservation/internal/model"
)

// EstablishmentRepo provides CRUD operations for restaurant listings.
// Establishments are the root aggregate: deleting one cascades to its
// zones, schedules, slots and availability rows via foreign keys.
type EstablishmentRepo struct {
    db *sql.DB
}

// NewEstablishmentRepo returns a new EstablishmentRepo bound to the given database.
func NewEstablishmentRepo(db *sql.DB) *EstablishmentRepo { return &EstablishmentRepo{db: db} }

// DB exposes the underlying handle so handlers can begin transactions
// that span several repositories.
func (r *EstablishmentRepo) DB() *sql.DB { return r.db }

const establishmentCols = `id, owner_id, name, description, address, latitude, longitude,
       phone, email, telegram_chat_id, is_verified, created_at, updated_at`

func scanEstablishment(row interface{ Scan(...any) error }) (model.Establishment, error) {
    var e model.Establishment
    var desc, chat sql.NullString
    var lat, lng sql.NullFloat64
    err := row.Scan(&e.ID, &e.OwnerID, &e.Name, &desc, &e.Address, &lat, &lng,
        &e.Phone, &e.Email, &chat, &e.IsVerified, &e.CreatedAt, &e.UpdatedAt)
    if err != nil {
        return e, err
    }
    if desc.Valid {
        d := desc.String
        e.Description = &d
    }
    if chat.Valid {
        cval := chat.String
        e.TelegramChatID = &cval
    }
    if lat.Valid {
        v := lat.Float64
        e.Latitude = &v
    }
    if lng.Valid {
        v := lng.Float64
        e.Longitude = &v
    }
    return e, nil
}

// Create inserts a new establishment for the given owner and returns its ID.
func (r *EstablishmentRepo) Create(ctx context.Context, e *model.Establishment) (uint64, error) {
    res, err := r.db.ExecContext(ctx,
        `INSERT INTO establishments (owner_id, name, description, address, latitude, longitude, phone, email, telegram_chat_id)
         VALUES (?,?,?,?,?,?,?,?,?)`,
        e.OwnerID, e.Name, e.Description, e.Address, e.Latitude, e.Longitude, e.Phone, e.Email, e.TelegramChatID)
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

// GetByID fetches a single establishment.
func (r *EstablishmentRepo) GetByID(ctx context.Context, id uint64) (model.Establishment, error) {
    row := r.db.QueryRowContext(ctx,
        `SELECT `+establishmentCols+` FROM establishments WHERE id = ?`, id)
    e, err := scanEstablishment(row)
    if err == sql.ErrNoRows {
        return e, ErrEstablishmentNotFound
    }
    return e, err
}

// OwnerOf returns the owner user ID of an establishment.  Used by
// authorization checks before loading the full row.
func (r *EstablishmentRepo) OwnerOf(ctx context.Context, id uint64) (uint64, error) {
    var ownerID uint64
    err := r.db.QueryRowContext(ctx,
        `SELECT owner_id FROM establishments WHERE id = ?`, id).Scan(&ownerID)
    if err == sql.ErrNoRows {
        return 0, ErrEstablishmentNotFound
    }
    return ownerID, err
}

// List returns establishments ordered by name with optional name filter
// and keyset-free limit/offset paging.  Intended for the public browse
// endpoint, so unverified listings are excluded.
func (r *EstablishmentRepo) List(ctx context.Context, nameFilter string, limit, offset int) ([]model.Establishment, error) {
    if limit <= 0 || limit > 100 {
        limit = 20
    }
    q := `SELECT ` + establishmentCols + ` FROM establishments WHERE is_verified = 1`
    args := make([]any, 0, 3)
    if nameFilter != "" {
        q += ` AND name LIKE ?`
        args = append(args, "%"+nameFilter+"%")
    }
    q += ` ORDER BY name LIMIT ? OFFSET ?`
    args = append(args, limit, offset)
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Establishment, 0)
    for rows.Next() {
        e, err := scanEstablishment(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, e)
    }
    return out, rows.Err()
}

// ListIDs returns the IDs of all establishments.  The scheduler uses it
// to roll the generation window forward for every venue.
func (r *EstablishmentRepo) ListIDs(ctx context.Context) ([]uint64, error) {
    rows, err := r.db.QueryContext(ctx, `SELECT id FROM establishments`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var ids []uint64
    for rows.Next() {
        var id uint64
        if err := rows.Scan(&id); err != nil {
            return nil, err
        }
        ids = append(ids, id)
    }
    return ids, rows.Err()
}

// ListByOwner returns all establishments belonging to a restaurateur,
// including unverified ones.
func (r *EstablishmentRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Establishment, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT `+establishmentCols+` FROM establishments WHERE owner_id = ? ORDER BY name`, ownerID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Establishment, 0)
    for rows.Next() {
        e, err := scanEstablishment(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, e)
    }
    return out, rows.Err()
}

// Update modifies the mutable listing fields.  Ownership must already be
// verified by the caller; the WHERE clause re-checks it anyway so a
// stale check cannot overwrite another owner's data.
func (r *EstablishmentRepo) Update(ctx context.Context, e *model.Establishment) error {
    res, err := r.db.ExecContext(ctx,
        `UPDATE establishments
         SET name=?, description=?, address=?, latitude=?, longitude=?, phone=?, email=?, telegram_chat_id=?
         WHERE id=? AND owner_id=?`,
        e.Name, e.Description, e.Address, e.Latitude, e.Longitude, e.Phone, e.Email, e.TelegramChatID,
        e.ID, e.OwnerID)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrEstablishmentNotFound
    }
    return nil
}

// SetVerified flips the admin verification flag.
func (r *EstablishmentRepo) SetVerified(ctx context.Context, id uint64, verified bool) error {
    _, err := r.db.ExecContext(ctx,
        `UPDATE establishments SET is_verified=? WHERE id=?`, verified, id)
    return err
}

// Delete removes an establishment and, via FK cascade, everything owned
// by it.  Establishments with reservations on file cannot be deleted.
func (r *EstablishmentRepo) Delete(ctx context.Context, id, ownerID uint64) error {
    var count int
    if err := r.db.QueryRowContext(ctx,
        `SELECT COUNT(*) FROM reservations WHERE establishment_id = ?`, id).Scan(&count); err != nil {
        return err
    }
    if count > 0 {
        return ErrConflict
    }
    res, err := r.db.ExecContext(ctx,
        `DELETE FROM establishments WHERE id=? AND owner_id=?`, id, ownerID)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrEstablishmentNotFound
    }
    return nil
}
