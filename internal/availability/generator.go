package availability

import (
    "context"
    "fmt"
    "time"

    "github.com/davrbek/restaurant-reservation/internal/model"
    "github.com/davrbek/restaurant-reservation/internal/repository"
)

// Generator materializes the bookable window for establishments: one
// availability ledger row per (zone, open date) and one slot row per
// (zone, open date, grid time).  All writes are INSERT IGNORE, so the
// generator can run any number of times, from owner edits or from the
// scheduler, without duplicating rows or resetting consumed state.
//
// It is always invoked explicitly by the code that changed the inputs
// (schedule upsert, zone create, establishment create) rather than by a
// persistence hook, so the call sites are visible and the transaction
// boundaries stay auditable.
type Generator struct {
    Schedules    *repository.ScheduleRepo
    Zones        *repository.ZoneRepo
    Slots        *repository.SlotRepo
    Availability *repository.AvailabilityRepo

    WindowDays int           // how many days ahead to generate (7 by default)
    Interval   time.Duration // grid step (30m by default)
}

// NewGenerator wires a Generator from its repositories.
func NewGenerator(schedules *repository.ScheduleRepo, zones *repository.ZoneRepo, slots *repository.SlotRepo, avail *repository.AvailabilityRepo, windowDays int, interval time.Duration) *Generator {
    if schedules == nil || zones == nil || slots == nil || avail == nil {
        panic("nil repository passed to NewGenerator")
    }
    if windowDays <= 0 {
        windowDays = 7
    }
    if interval <= 0 {
        interval = 30 * time.Minute
    }
    return &Generator{
        Schedules:    schedules,
        Zones:        zones,
        Slots:        slots,
        Availability: avail,
        WindowDays:   windowDays,
        Interval:     interval,
    }
}

// EnsureWindow generates missing slots and ledger rows for one
// establishment across the rolling window.  Days the establishment is
// closed (no schedule row, or is_day_off) produce nothing.  Existing
// rows are never touched, so partially consumed counters survive.
func (g *Generator) EnsureWindow(ctx context.Context, establishmentID uint64) error {
    entries, err := g.Schedules.ListByEstablishment(ctx, establishmentID)
    if err != nil {
        return fmt.Errorf("load schedule: %w", err)
    }
    zones, err := g.Zones.ListByEstablishment(ctx, establishmentID)
    if err != nil {
        return fmt.Errorf("load zones: %w", err)
    }
    if len(entries) == 0 || len(zones) == 0 {
        return nil // nothing to generate yet
    }
    byWeekday := scheduleIndex(entries)

    var ledger []model.Availability
    var slots []model.Slot
    for _, date := range WindowDates(time.Now(), g.WindowDays) {
        entry, ok := byWeekday[int(date.Weekday())]
        if !ok || entry.IsDayOff {
            continue
        }
        ticks, err := GridTimes(entry.OpensAt, entry.ClosesAt, g.Interval)
        if err != nil {
            return fmt.Errorf("establishment %d weekday %d: %w", establishmentID, entry.Weekday, err)
        }
        for _, z := range zones {
            ledger = append(ledger, model.Availability{
                EstablishmentID: establishmentID,
                ZoneID:          z.ID,
                Date:            date,
                RemainingSeats:  z.Seats,
            })
            for _, tick := range ticks {
                slots = append(slots, model.Slot{
                    EstablishmentID: establishmentID,
                    ZoneID:          z.ID,
                    Date:            date,
                    TimeOfDay:       tick,
                    Seats:           z.Seats,
                })
            }
        }
    }

    if err := g.Availability.EnsureBulk(ctx, ledger); err != nil {
        return fmt.Errorf("ensure availability: %w", err)
    }
    if err := g.Slots.CreateBulk(ctx, slots); err != nil {
        return fmt.Errorf("ensure slots: %w", err)
    }
    return nil
}
