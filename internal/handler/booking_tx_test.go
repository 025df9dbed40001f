package handler

import (
    "context"
    "errors"
    "testing"
    "time"

    sqlmock "github.com/DATA-DOG/go-sqlmock"

    "github.com/davrbek/restaurant-reservation/internal/config"
    "github.com/davrbek/restaurant-reservation/internal/model"
    "github.com/davrbek/restaurant-reservation/internal/repository"
)

// The booking transaction is where the two seat-safety rules live: a
// slot is consumed by at most one reservation (conditional claim checked
// against RowsAffected) and the ledger never goes negative (conditional
// debit).  These tests drive book() over a mocked connection and assert
// that losing either condition rolls the whole transaction back with the
// right sentinel.

func newBookingHarness(t *testing.T) (*BookingHandler, sqlmock.Sqlmock) {
    t.Helper()
    db, mock, err := sqlmock.New()
    if err != nil {
        t.Fatalf("open sqlmock: %v", err)
    }
    t.Cleanup(func() { _ = db.Close() })
    return &BookingHandler{
        Cfg:            config.Config{},
        Users:          repository.NewUserRepo(db),
        Establishments: repository.NewEstablishmentRepo(db),
        Slots:          repository.NewSlotRepo(db),
        Availability:   repository.NewAvailabilityRepo(db),
        Reservations:   repository.NewReservationRepo(db),
        History:        repository.NewHistoryRepo(db),
        Confirmations:  repository.NewConfirmationRepo(db),
    }, mock
}

var bookingDate = time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)

func slotColumns() []string {
    return []string{"id", "establishment_id", "zone_id", "slot_date", "slot_time", "seats", "is_active", "created_at"}
}

func twoEveningSlots() *sqlmock.Rows {
    return sqlmock.NewRows(slotColumns()).
        AddRow(int64(10), int64(1), int64(5), bookingDate, "19:30", int64(8), true, bookingDate).
        AddRow(int64(11), int64(1), int64(5), bookingDate, "19:00", int64(8), true, bookingDate)
}

func clientRequest() *bookingRequest {
    uid := uint64(42)
    return &bookingRequest{
        establishmentID: 1,
        slotIDs:         []uint64{10, 11},
        guests:          3,
        userID:          &uid,
        firstName:       "Aziz",
        lastName:        "Karimov",
        phone:           "+998901234567",
        email:           "aziz@example.com",
    }
}

func TestBookCommitsWhenClaimAndDebitSucceed(t *testing.T) {
    h, mock := newBookingHarness(t)

    mock.ExpectBegin()
    mock.ExpectQuery("SELECT id, establishment_id, zone_id, slot_date").
        WithArgs(int64(1), int64(10), int64(11)).
        WillReturnRows(twoEveningSlots())
    mock.ExpectExec("UPDATE slots SET is_active = 0").
        WithArgs(int64(1), int64(10), int64(11)).
        WillReturnResult(sqlmock.NewResult(0, 2))
    mock.ExpectExec("UPDATE availability").
        WithArgs(int64(3), int64(5), "2026-09-02", int64(3)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectExec("INSERT INTO reservations").
        WillReturnResult(sqlmock.NewResult(77, 1))
    mock.ExpectQuery("SELECT created_at FROM reservations").
        WithArgs(int64(77)).
        WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(bookingDate))
    mock.ExpectExec("INSERT INTO reservation_slots").
        WithArgs(int64(77), int64(10), int64(77), int64(11)).
        WillReturnResult(sqlmock.NewResult(0, 2))
    mock.ExpectCommit()

    res, err := h.book(context.Background(), clientRequest())
    if err != nil {
        t.Fatalf("book() = %v, want success", err)
    }
    if res.ID != 77 || res.ZoneID != 5 {
        t.Errorf("reservation = id %d zone %d, want id 77 zone 5", res.ID, res.ZoneID)
    }
    // Stay time comes from the earliest slot, not request order.
    want := time.Date(2026, 9, 2, 19, 0, 0, 0, time.UTC)
    if !res.StayAt.Equal(want) {
        t.Errorf("StayAt = %v, want %v", res.StayAt, want)
    }
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Errorf("unmet expectations: %v", err)
    }
}

func TestBookRollsBackWhenClaimLosesRace(t *testing.T) {
    h, mock := newBookingHarness(t)

    mock.ExpectBegin()
    mock.ExpectQuery("SELECT id, establishment_id, zone_id, slot_date").
        WillReturnRows(twoEveningSlots())
    // A concurrent booking already flipped one of the two slots: the
    // conditional UPDATE reports a short count.
    mock.ExpectExec("UPDATE slots SET is_active = 0").
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectRollback()

    if _, err := h.book(context.Background(), clientRequest()); !errors.Is(err, repository.ErrConflict) {
        t.Fatalf("book() = %v, want ErrConflict", err)
    }
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Errorf("unmet expectations: %v", err)
    }
}

func TestBookRollsBackWhenLedgerIsShort(t *testing.T) {
    h, mock := newBookingHarness(t)

    mock.ExpectBegin()
    mock.ExpectQuery("SELECT id, establishment_id, zone_id, slot_date").
        WillReturnRows(twoEveningSlots())
    mock.ExpectExec("UPDATE slots SET is_active = 0").
        WillReturnResult(sqlmock.NewResult(0, 2))
    // The conditional debit matches nothing when remaining_seats < guests,
    // so the claim above must be undone too.
    mock.ExpectExec("UPDATE availability").
        WithArgs(int64(3), int64(5), "2026-09-02", int64(3)).
        WillReturnResult(sqlmock.NewResult(0, 0))
    mock.ExpectRollback()

    if _, err := h.book(context.Background(), clientRequest()); !errors.Is(err, model.ErrNotEnoughSeats) {
        t.Fatalf("book() = %v, want ErrNotEnoughSeats", err)
    }
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Errorf("unmet expectations: %v", err)
    }
}

func TestBookRejectsUnknownSlots(t *testing.T) {
    h, mock := newBookingHarness(t)

    mock.ExpectBegin()
    // Only one of the two requested ids exists for this establishment.
    mock.ExpectQuery("SELECT id, establishment_id, zone_id, slot_date").
        WillReturnRows(sqlmock.NewRows(slotColumns()).
            AddRow(int64(10), int64(1), int64(5), bookingDate, "19:30", int64(8), true, bookingDate))
    mock.ExpectRollback()

    if _, err := h.book(context.Background(), clientRequest()); !errors.Is(err, model.ErrSlotsNotFound) {
        t.Fatalf("book() = %v, want ErrSlotsNotFound", err)
    }
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Errorf("unmet expectations: %v", err)
    }
}

func TestBookRejectsMixedZones(t *testing.T) {
    h, mock := newBookingHarness(t)

    mock.ExpectBegin()
    mock.ExpectQuery("SELECT id, establishment_id, zone_id, slot_date").
        WillReturnRows(sqlmock.NewRows(slotColumns()).
            AddRow(int64(10), int64(1), int64(5), bookingDate, "19:00", int64(8), true, bookingDate).
            AddRow(int64(11), int64(1), int64(6), bookingDate, "19:00", int64(8), true, bookingDate))
    mock.ExpectRollback()

    if _, err := h.book(context.Background(), clientRequest()); !errors.Is(err, model.ErrMixedSlots) {
        t.Fatalf("book() = %v, want ErrMixedSlots", err)
    }
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Errorf("unmet expectations: %v", err)
    }
}

func TestBookRequiresVerifiedCodeForGuests(t *testing.T) {
    h, mock := newBookingHarness(t)

    req := clientRequest()
    req.userID = nil
    req.needsCode = true

    mock.ExpectBegin()
    mock.ExpectQuery("SELECT id, establishment_id, zone_id, slot_date").
        WillReturnRows(twoEveningSlots())
    mock.ExpectExec("UPDATE slots SET is_active = 0").
        WillReturnResult(sqlmock.NewResult(0, 2))
    mock.ExpectExec("UPDATE availability").
        WillReturnResult(sqlmock.NewResult(0, 1))
    // No verified, unexpired code row for the contact: nothing deleted.
    mock.ExpectExec("DELETE FROM confirmation_codes").
        WillReturnResult(sqlmock.NewResult(0, 0))
    mock.ExpectRollback()

    if _, err := h.book(context.Background(), req); !errors.Is(err, model.ErrCodeNotVerified) {
        t.Fatalf("book() = %v, want ErrCodeNotVerified", err)
    }
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Errorf("unmet expectations: %v", err)
    }
}
