// Package scheduler runs the periodic maintenance loop: rolling the
// availability window forward, queueing visit reminders, expiring
// pending reservations whose stay time passed, and pruning stale rows.
package scheduler

import (
    "context"
    "database/sql"
    "log"
    "time"

    "github.com/davrbek/restaurant-reservation/internal/availability"
    "github.com/davrbek/restaurant-reservation/internal/model"
    "github.com/davrbek/restaurant-reservation/internal/queue"
    "github.com/davrbek/restaurant-reservation/internal/repository"
    qp "github.com/davrbek/restaurant-reservation/internal/service"
)

// Scheduler owns the background ticker.  Every pass is independent and
// idempotent, so a crashed or skipped pass is repaired by the next one.
type Scheduler struct {
    DB             *sql.DB
    Establishments *repository.EstablishmentRepo
    Reservations   *repository.ReservationRepo
    Slots          *repository.SlotRepo
    Availability   *repository.AvailabilityRepo
    History        *repository.HistoryRepo
    Confirmations  *repository.ConfirmationRepo
    Tokens         *repository.TokenRepo
    Generator      *availability.Generator

    Interval       time.Duration // time between passes
    ReminderBefore time.Duration // how far ahead reminders fire
}

// Run blocks, executing one pass immediately and then one per tick,
// until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
    s.pass(ctx)
    ticker := time.NewTicker(s.Interval)
    defer ticker.Stop()
    for {
        select {
        case <-ctx.Done():
            return
        case <-ticker.C:
            s.pass(ctx)
        }
    }
}

func (s *Scheduler) pass(ctx context.Context) {
    s.rollWindows(ctx)
    s.sendReminders(ctx)
    s.expirePending(ctx)
    s.prune(ctx)
}

// rollWindows tops up the slot grid for every establishment so the
// bookable horizon always covers the full window.
func (s *Scheduler) rollWindows(ctx context.Context) {
    ids, err := s.Establishments.ListIDs(ctx)
    if err != nil {
        log.Printf("scheduler: list establishments: %v", err)
        return
    }
    for _, id := range ids {
        if err := s.Generator.EnsureWindow(ctx, id); err != nil {
            log.Printf("scheduler: ensure window for establishment %d: %v", id, err)
        }
    }
}

// sendReminders publishes a reminder event for every accepted
// reservation whose stay falls inside the reminder horizon, then marks
// the row so the next pass skips it.
func (s *Scheduler) sendReminders(ctx context.Context) {
    due, err := s.Reservations.ListDueReminders(ctx, s.ReminderBefore)
    if err != nil {
        log.Printf("scheduler: list due reminders: %v", err)
        return
    }
    for i := range due {
        res := &due[i]
        est, err := s.Establishments.GetByID(ctx, res.EstablishmentID)
        if err != nil {
            log.Printf("scheduler: load establishment %d: %v", res.EstablishmentID, err)
            continue
        }
        ev := eventFor(queue.EventReminder, res, &est)
        if err := qp.PublishReservationEvent(ctx, ev); err != nil {
            continue // leave unmarked so the next pass retries
        }
        if err := s.Reservations.MarkReminderSent(ctx, res.ID); err != nil {
            log.Printf("scheduler: mark reminder sent for reservation %d: %v", res.ID, err)
        }
    }
}

// expirePending archives reservations that were never accepted and whose
// stay time has passed.  The ledger seats are handed back (the restore
// is capped at zone capacity, so a concurrent cancel cannot overshoot)
// and the row moves to history with the EXPIRED outcome.
func (s *Scheduler) expirePending(ctx context.Context) {
    expired, err := s.Reservations.ListExpiredPending(ctx)
    if err != nil {
        log.Printf("scheduler: list expired pending: %v", err)
        return
    }
    for i := range expired {
        res := &expired[i]
        if err := s.archiveExpired(ctx, res); err != nil {
            log.Printf("scheduler: expire reservation %d: %v", res.ID, err)
        }
    }
}

func (s *Scheduler) archiveExpired(ctx context.Context, res *model.Reservation) error {
    tx, err := s.DB.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    if err := s.Availability.RestoreTx(ctx, tx, res.ZoneID, res.StayAt.UTC().Format("2006-01-02"), res.Guests); err != nil {
        return err
    }
    if err := s.History.ArchiveTx(ctx, tx, res, model.OutcomeExpired); err != nil {
        return err
    }
    if err := s.Reservations.DeleteTx(ctx, tx, res.ID); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// prune drops rows no query will ever read again: past slots and ledger
// rows (kept one day for support lookups), lapsed confirmation codes and
// long-expired refresh tokens.
func (s *Scheduler) prune(ctx context.Context) {
    if n, err := s.Slots.DeleteStale(ctx, 1); err != nil {
        log.Printf("scheduler: prune slots: %v", err)
    } else if n > 0 {
        log.Printf("scheduler: pruned %d stale slots", n)
    }
    if n, err := s.Availability.DeleteStale(ctx, 1); err != nil {
        log.Printf("scheduler: prune availability: %v", err)
    } else if n > 0 {
        log.Printf("scheduler: pruned %d stale availability rows", n)
    }
    if _, err := s.Confirmations.DeleteExpired(ctx); err != nil {
        log.Printf("scheduler: prune confirmation codes: %v", err)
    }
    if _, err := s.Tokens.DeleteExpired(ctx, 24*time.Hour); err != nil {
        log.Printf("scheduler: prune refresh tokens: %v", err)
    }
}

// eventFor builds the queue payload shared by the scheduler's
// publishers.
func eventFor(kind string, res *model.Reservation, est *model.Establishment) queue.ReservationEvent {
    chatID := ""
    if est.TelegramChatID != nil {
        chatID = *est.TelegramChatID
    }
    return queue.ReservationEvent{
        Kind:              kind,
        ReservationID:     res.ID,
        EstablishmentID:   est.ID,
        EstablishmentName: est.Name,
        TelegramChatID:    chatID,
        GuestFirstName:    res.FirstName,
        GuestLastName:     res.LastName,
        GuestEmail:        res.Email,
        Guests:            res.Guests,
        StayAt:            res.StayAt.UTC().Format(time.RFC3339),
    }
}
