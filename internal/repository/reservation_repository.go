package repository

import (
    "context"
    "database/sql"
    "strings"
    "time"

    "github.com/davrbek/restaurant-reservation/internal/model"
)

// ReservationRepo provides CRUD operations for reservations and their
// slot links.  A reservation groups one or more slots of a single zone
// and date under one booking party.  All timestamp fields are stored in
// UTC.  Methods suffixed Tx participate in the booking/cancellation
// transactions owned by the handlers.
type ReservationRepo struct {
    db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationCols = `id, establishment_id, zone_id, user_id, first_name, last_name, phone, email,
       guests, comment, stay_at, is_accepted, is_visited, manage_token, reminder_sent_at, created_at`

func scanReservation(row interface{ Scan(...any) error }) (model.Reservation, error) {
    var res model.Reservation
    var userID sql.NullInt64
    var comment sql.NullString
    var reminded sql.NullTime
    err := row.Scan(&res.ID, &res.EstablishmentID, &res.ZoneID, &userID,
        &res.FirstName, &res.LastName, &res.Phone, &res.Email,
        &res.Guests, &comment, &res.StayAt, &res.IsAccepted, &res.IsVisited,
        &res.ManageToken, &reminded, &res.CreatedAt)
    if err != nil {
        return res, err
    }
    if userID.Valid {
        uid := uint64(userID.Int64)
        res.UserID = &uid
    }
    if comment.Valid {
        cm := comment.String
        res.Comment = &cm
    }
    if reminded.Valid {
        t := reminded.Time
        res.ReminderSentAt = &t
    }
    return res, nil
}

// CreateTx inserts a new reservation within the scope of an existing
// transaction and populates the generated ID and creation timestamp on
// the provided value.  The caller must commit or rollback.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
    result, err := tx.ExecContext(ctx,
        `INSERT INTO reservations (establishment_id, zone_id, user_id, first_name, last_name, phone, email, guests, comment, stay_at, manage_token)
         VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
        res.EstablishmentID, res.ZoneID, res.UserID, res.FirstName, res.LastName, res.Phone, res.Email,
        res.Guests, res.Comment, res.StayAt.UTC().Format("2006-01-02 15:04:05"), res.ManageToken)
    if err != nil {
        return err
    }
    id, err := result.LastInsertId()
    if err != nil {
        return err
    }
    res.ID = uint64(id)
    return tx.QueryRowContext(ctx,
        `SELECT created_at FROM reservations WHERE id = ?`, res.ID).Scan(&res.CreatedAt)
}

// AttachSlotsTx links the consumed slots to the reservation in a single
// bulk insert.  Passing an empty slice has no effect and returns nil.
func (r *ReservationRepo) AttachSlotsTx(ctx context.Context, tx *sql.Tx, reservationID uint64, slotIDs []uint64) error {
    if len(slotIDs) == 0 {
        return nil
    }
    query := `INSERT INTO reservation_slots (reservation_id, slot_id) VALUES `
    args := make([]interface{}, 0, len(slotIDs)*2)
    for i, sid := range slotIDs {
        if i > 0 {
            query += ","
        }
        query += "(?, ?)"
        args = append(args, reservationID, sid)
    }
    _, err := tx.ExecContext(ctx, query, args...)
    return err
}

// SlotIDsTx returns the slot IDs linked to a reservation, inside the
// caller's transaction so cancellation can reactivate exactly that set.
func (r *ReservationRepo) SlotIDsTx(ctx context.Context, tx *sql.Tx, reservationID uint64) ([]uint64, error) {
    rows, err := tx.QueryContext(ctx,
        `SELECT slot_id FROM reservation_slots WHERE reservation_id = ?`, reservationID)
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

// GetByID fetches one reservation row without related data.  Used by the
// transition handlers to evaluate guards before mutating anything.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (model.Reservation, error) {
    row := r.db.QueryRowContext(ctx,
        `SELECT `+reservationCols+` FROM reservations WHERE id = ?`, id)
    return scanReservation(row)
}

// GetByIDTx is GetByID inside the caller's transaction.
func (r *ReservationRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Reservation, error) {
    row := tx.QueryRowContext(ctx,
        `SELECT `+reservationCols+` FROM reservations WHERE id = ?`, id)
    return scanReservation(row)
}

// GetByManageToken fetches a reservation by the opaque token handed to
// anonymous guests.  sql.ErrNoRows doubles as "bad token".
func (r *ReservationRepo) GetByManageToken(ctx context.Context, token string) (model.Reservation, error) {
    row := r.db.QueryRowContext(ctx,
        `SELECT `+reservationCols+` FROM reservations WHERE manage_token = ?`, token)
    return scanReservation(row)
}

// ReservationDetail is a reservation joined with establishment and zone
// names plus the booked slot times, shaped for API responses.
type ReservationDetail struct {
    ID                uint64   `json:"id"`
    EstablishmentID   uint64   `json:"establishment_id"`
    EstablishmentName string   `json:"establishment_name"`
    ZoneID            uint64   `json:"zone_id"`
    ZoneName          string   `json:"zone_name"`
    Status            string   `json:"status"`
    Guests            uint32   `json:"guests"`
    Comment           *string  `json:"comment,omitempty"`
    StayAt            string   `json:"stay_at"`
    FirstName         string   `json:"first_name"`
    LastName          string   `json:"last_name"`
    Phone             string   `json:"phone"`
    Email             string   `json:"email"`
    Slots             []string `json:"slots"` // "HH:MM" times of the booked slots
    CreatedAt         string   `json:"created_at"`
}

func statusOf(accepted, visited bool) string {
    switch {
    case visited:
        return "VISITED"
    case accepted:
        return "ACCEPTED"
    default:
        return "PENDING"
    }
}

const detailQuery = `SELECT r.id, r.establishment_id, e.name, r.zone_id, z.name,
       r.is_accepted, r.is_visited, r.guests, r.comment, r.stay_at,
       r.first_name, r.last_name, r.phone, r.email, r.created_at
       FROM reservations r
       JOIN establishments e ON e.id = r.establishment_id
       JOIN zones z ON z.id = r.zone_id`

func scanDetail(rows *sql.Rows) (ReservationDetail, error) {
    var d ReservationDetail
    var accepted, visited bool
    var comment sql.NullString
    var stayAt, createdAt time.Time
    if err := rows.Scan(&d.ID, &d.EstablishmentID, &d.EstablishmentName, &d.ZoneID, &d.ZoneName,
        &accepted, &visited, &d.Guests, &comment, &stayAt,
        &d.FirstName, &d.LastName, &d.Phone, &d.Email, &createdAt); err != nil {
        return d, err
    }
    d.Status = statusOf(accepted, visited)
    if comment.Valid {
        cm := comment.String
        d.Comment = &cm
    }
    d.StayAt = stayAt.UTC().Format(time.RFC3339)
    d.CreatedAt = createdAt.UTC().Format(time.RFC3339)
    d.Slots = []string{}
    return d, nil
}

// populateSlots fills the Slots list for every detail in one IN query.
func (r *ReservationRepo) populateSlots(ctx context.Context, details []ReservationDetail) ([]ReservationDetail, error) {
    if len(details) == 0 {
        return details, nil
    }
    index := make(map[uint64]int, len(details))
    ids := make([]interface{}, 0, len(details))
    placeholders := make([]string, 0, len(details))
    for i, d := range details {
        index[d.ID] = i
        ids = append(ids, d.ID)
        placeholders = append(placeholders, "?")
    }
    q := `SELECT rs.reservation_id, TIME_FORMAT(s.slot_time, '%H:%i')
          FROM reservation_slots rs
          JOIN slots s ON s.id = rs.slot_id
          WHERE rs.reservation_id IN (` + strings.Join(placeholders, ",") + `)
          ORDER BY rs.reservation_id, s.slot_time`
    rows, err := r.db.QueryContext(ctx, q, ids...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    for rows.Next() {
        var rid uint64
        var tod string
        if err := rows.Scan(&rid, &tod); err != nil {
            return nil, err
        }
        if i, ok := index[rid]; ok {
            details[i].Slots = append(details[i].Slots, tod)
        }
    }
    return details, rows.Err()
}

// ListByUser returns all reservations of a registered client, newest
// first, with establishment/zone names and slot times attached.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]ReservationDetail, error) {
    rows, err := r.db.QueryContext(ctx,
        detailQuery+` WHERE r.user_id = ? ORDER BY r.created_at DESC`, userID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    details := make([]ReservationDetail, 0)
    for rows.Next() {
        d, err := scanDetail(rows)
        if err != nil {
            return nil, err
        }
        details = append(details, d)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return r.populateSlots(ctx, details)
}

// ListByEstablishmentForOwner returns a page of reservations of a venue
// when accessed by its owner, newest first.  It verifies ownership
// first: sql.ErrNoRows means the establishment does not exist,
// ErrForbidden means it belongs to a different restaurateur.
func (r *ReservationRepo) ListByEstablishmentForOwner(ctx context.Context, establishmentID, ownerID uint64, limit, offset int) ([]ReservationDetail, error) {
    var actualOwner uint64
    if err := r.db.QueryRowContext(ctx,
        `SELECT owner_id FROM establishments WHERE id = ?`, establishmentID).Scan(&actualOwner); err != nil {
        return nil, err
    }
    if actualOwner != ownerID {
        return nil, ErrForbidden
    }
    rows, err := r.db.QueryContext(ctx,
        detailQuery+` WHERE r.establishment_id = ? ORDER BY r.created_at DESC LIMIT ? OFFSET ?`,
        establishmentID, limit, offset)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    details := make([]ReservationDetail, 0)
    for rows.Next() {
        d, err := scanDetail(rows)
        if err != nil {
            return nil, err
        }
        details = append(details, d)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return r.populateSlots(ctx, details)
}

// GetDetail returns a single reservation with names and slot times.  The
// caller performs authorization before exposing the result.
func (r *ReservationRepo) GetDetail(ctx context.Context, id uint64) (*ReservationDetail, error) {
    rows, err := r.db.QueryContext(ctx, detailQuery+` WHERE r.id = ?`, id)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    if !rows.Next() {
        if err := rows.Err(); err != nil {
            return nil, err
        }
        return nil, sql.ErrNoRows
    }
    d, err := scanDetail(rows)
    if err != nil {
        return nil, err
    }
    rows.Close()
    details, err := r.populateSlots(ctx, []ReservationDetail{d})
    if err != nil {
        return nil, err
    }
    return &details[0], nil
}

// AcceptTx sets is_accepted inside the caller's transaction.  The guard
// in the WHERE clause re-checks the flag so that two racing accepts
// cannot both succeed; the loser sees ErrConflict.
func (r *ReservationRepo) AcceptTx(ctx context.Context, tx *sql.Tx, id uint64) error {
    res, err := tx.ExecContext(ctx,
        `UPDATE reservations SET is_accepted = 1 WHERE id = ? AND is_accepted = 0`, id)
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

// MarkVisitedTx sets is_visited with the same conditional pattern.
func (r *ReservationRepo) MarkVisitedTx(ctx context.Context, tx *sql.Tx, id uint64) error {
    res, err := tx.ExecContext(ctx,
        `UPDATE reservations SET is_visited = 1 WHERE id = ? AND is_accepted = 1 AND is_visited = 0`, id)
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

// DeleteTx removes a reservation; reservation_slots rows cascade via FK.
func (r *ReservationRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
    _, err := tx.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
    return err
}

// ListDueReminders returns accepted reservations whose stay begins
// within the given horizon and that have not been reminded yet.
func (r *ReservationRepo) ListDueReminders(ctx context.Context, horizon time.Duration) ([]model.Reservation, error) {
    now := time.Now().UTC()
    rows, err := r.db.QueryContext(ctx,
        `SELECT `+reservationCols+` FROM reservations
         WHERE is_accepted = 1 AND is_visited = 0 AND reminder_sent_at IS NULL
           AND stay_at > ? AND stay_at <= ?`,
        now.Format("2006-01-02 15:04:05"),
        now.Add(horizon).Format("2006-01-02 15:04:05"))
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.Reservation
    for rows.Next() {
        res, err := scanReservation(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, res)
    }
    return out, rows.Err()
}

// MarkReminderSent stamps reminder_sent_at so a reservation is reminded
// at most once even across scheduler restarts.
func (r *ReservationRepo) MarkReminderSent(ctx context.Context, id uint64) error {
    _, err := r.db.ExecContext(ctx,
        `UPDATE reservations SET reminder_sent_at = NOW() WHERE id = ? AND reminder_sent_at IS NULL`, id)
    return err
}

// ListExpiredPending returns reservations that were never accepted and
// whose stay time has passed.  The scheduler archives them as EXPIRED.
func (r *ReservationRepo) ListExpiredPending(ctx context.Context) ([]model.Reservation, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT `+reservationCols+` FROM reservations
         WHERE is_accepted = 0 AND is_visited = 0 AND stay_at < ?`,
        time.Now().UTC().Format("2006-01-02 15:04:05"))
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.Reservation
    for rows.Next() {
        res, err := scanReservation(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, res)
    }
    return out, rows.Err()
}
