package repository

import (
    "context"
    "errors"
    "regexp"
    "testing"

    sqlmock "github.com/DATA-DOG/go-sqlmock"
)

func newAvailabilityHarness(t *testing.T) (*AvailabilityRepo, sqlmock.Sqlmock) {
    t.Helper()
    db, mock, err := sqlmock.New()
    if err != nil {
        t.Fatalf("open sqlmock: %v", err)
    }
    t.Cleanup(func() { _ = db.Close() })
    return NewAvailabilityRepo(db), mock
}

func TestReserveTxDebitsOnlyWhenSeatsRemain(t *testing.T) {
    cases := []struct {
        name     string
        affected int64
        wantErr  error
    }{
        {"enough seats", 1, nil},
        {"zone too full", 0, ErrConflict},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            repo, mock := newAvailabilityHarness(t)
            mock.ExpectBegin()
            // guests appears twice: once as the decrement and once in the
            // remaining_seats >= ? guard that keeps the counter at zero
            // or above.
            mock.ExpectExec(regexp.QuoteMeta(`remaining_seats - ?`)).
                WithArgs(int64(4), int64(5), "2026-09-02", int64(4)).
                WillReturnResult(sqlmock.NewResult(0, tc.affected))
            mock.ExpectRollback()

            tx, err := repo.db.Begin()
            if err != nil {
                t.Fatalf("begin: %v", err)
            }
            defer func() { _ = tx.Rollback() }()

            if err := repo.ReserveTx(context.Background(), tx, 5, "2026-09-02", 4); !errors.Is(err, tc.wantErr) {
                t.Fatalf("ReserveTx() = %v, want %v", err, tc.wantErr)
            }
        })
    }
}

func TestRestoreTxCapsAtZoneCapacity(t *testing.T) {
    repo, mock := newAvailabilityHarness(t)

    mock.ExpectBegin()
    // The restore must go through LEAST against the zone's capacity so a
    // double release can never push the counter past what the zone holds.
    mock.ExpectExec(regexp.QuoteMeta(`LEAST(z.seats, a.remaining_seats + ?)`)).
        WithArgs(int64(4), int64(5), "2026-09-02").
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectRollback()

    tx, err := repo.db.Begin()
    if err != nil {
        t.Fatalf("begin: %v", err)
    }
    defer func() { _ = tx.Rollback() }()

    if err := repo.RestoreTx(context.Background(), tx, 5, "2026-09-02", 4); err != nil {
        t.Fatalf("RestoreTx() = %v, want success", err)
    }
    _ = tx.Rollback()
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Errorf("unmet expectations: %v", err)
    }
}

func TestRestoreTxToleratesPrunedLedgerRow(t *testing.T) {
    repo, mock := newAvailabilityHarness(t)

    mock.ExpectBegin()
    // Expiry can run after the scheduler pruned the day's ledger row;
    // zero matched rows is not an error, the seats are simply gone.
    mock.ExpectExec(regexp.QuoteMeta(`LEAST(z.seats, a.remaining_seats + ?)`)).
        WillReturnResult(sqlmock.NewResult(0, 0))
    mock.ExpectRollback()

    tx, err := repo.db.Begin()
    if err != nil {
        t.Fatalf("begin: %v", err)
    }
    defer func() { _ = tx.Rollback() }()

    if err := repo.RestoreTx(context.Background(), tx, 5, "2026-09-02", 4); err != nil {
        t.Fatalf("RestoreTx() = %v, want success", err)
    }
}
