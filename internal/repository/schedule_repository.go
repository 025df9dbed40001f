package repository

import (
    "context"
    "database/sql"

    "github.com/davrbek/restaurant-reservation/internal/model"
)

// ScheduleRepo manages the weekly opening hours of establishments.  The
// work_schedules table carries at most one row per (establishment,
// weekday); Upsert relies on that unique key so that repeated edits
// never produce duplicate weekday entries.
type ScheduleRepo struct {
    db *sql.DB
}

// NewScheduleRepo returns a new ScheduleRepo bound to the given database.
func NewScheduleRepo(db *sql.DB) *ScheduleRepo { return &ScheduleRepo{db: db} }

// Upsert inserts or replaces the schedule entry for one weekday.
func (r *ScheduleRepo) Upsert(ctx context.Context, s *model.WorkSchedule) error {
    _, err := r.db.ExecContext(ctx,
        `INSERT INTO work_schedules (establishment_id, weekday, opens_at, closes_at, is_day_off)
         VALUES (?,?,?,?,?)
         ON DUPLICATE KEY UPDATE opens_at=VALUES(opens_at), closes_at=VALUES(closes_at), is_day_off=VALUES(is_day_off)`,
        s.EstablishmentID, s.Weekday, s.OpensAt, s.ClosesAt, s.IsDayOff)
    return err
}

// ListByEstablishment returns all schedule entries for a venue ordered
// by weekday.  Missing weekdays simply have no row.
func (r *ScheduleRepo) ListByEstablishment(ctx context.Context, establishmentID uint64) ([]model.WorkSchedule, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT id, establishment_id, weekday, TIME_FORMAT(opens_at, '%H:%i'), TIME_FORMAT(closes_at, '%H:%i'), is_day_off, updated_at
         FROM work_schedules WHERE establishment_id = ? ORDER BY weekday`,
        establishmentID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.WorkSchedule, 0, 7)
    for rows.Next() {
        var s model.WorkSchedule
        if err := rows.Scan(&s.ID, &s.EstablishmentID, &s.Weekday, &s.OpensAt, &s.ClosesAt, &s.IsDayOff, &s.UpdatedAt); err != nil {
            return nil, err
        }
        out = append(out, s)
    }
    return out, rows.Err()
}

// GetByWeekday returns the entry for one weekday, or sql.ErrNoRows when
// the establishment has no entry for that day.
func (r *ScheduleRepo) GetByWeekday(ctx context.Context, establishmentID uint64, weekday int) (model.WorkSchedule, error) {
    var s model.WorkSchedule
    err := r.db.QueryRowContext(ctx,
        `SELECT id, establishment_id, weekday, TIME_FORMAT(opens_at, '%H:%i'), TIME_FORMAT(closes_at, '%H:%i'), is_day_off, updated_at
         FROM work_schedules WHERE establishment_id = ? AND weekday = ?`,
        establishmentID, weekday).
        Scan(&s.ID, &s.EstablishmentID, &s.Weekday, &s.OpensAt, &s.ClosesAt, &s.IsDayOff, &s.UpdatedAt)
    return s, err
}

// Delete removes a weekday entry.  Already-generated slots for that
// weekday keep existing; only future generation cycles notice.
func (r *ScheduleRepo) Delete(ctx context.Context, establishmentID uint64, weekday int) error {
    res, err := r.db.ExecContext(ctx,
        `DELETE FROM work_schedules WHERE establishment_id = ? AND weekday = ?`,
        establishmentID, weekday)
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
