// Package availability derives bookable slots and remaining-seat ledger
// rows from an establishment's weekly schedule.  The pure date/grid
// arithmetic lives in this file; the database side is in generator.go.
package availability

import (
    "fmt"
    "time"

    "github.com/davrbek/restaurant-reservation/internal/model"
)

// clockLayout is the wire format of schedule and slot times ("19:30").
const clockLayout = "15:04"

// WindowDates returns the rolling generation window: `days` consecutive
// UTC dates starting at the date of `from`.  Each returned value is a
// midnight timestamp so it can be compared and formatted as a date.
func WindowDates(from time.Time, days int) []time.Time {
    from = from.UTC()
    day := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
    out := make([]time.Time, 0, days)
    for i := 0; i < days; i++ {
        out = append(out, day.AddDate(0, 0, i))
    }
    return out
}

// GridTimes expands an open interval into grid ticks: every `interval`
// step in [opensAt, closesAt).  The closing time itself is excluded: a
// restaurant closing at 22:00 does not seat guests at 22:00.  Returns an
// error when either time is malformed or the interval is empty.
func GridTimes(opensAt, closesAt string, interval time.Duration) ([]string, error) {
    open, err := time.Parse(clockLayout, opensAt)
    if err != nil {
        return nil, fmt.Errorf("parse opens_at %q: %w", opensAt, err)
    }
    close_, err := time.Parse(clockLayout, closesAt)
    if err != nil {
        return nil, fmt.Errorf("parse closes_at %q: %w", closesAt, err)
    }
    if !open.Before(close_) {
        return nil, model.ErrInvalidHours
    }
    if interval <= 0 {
        interval = 30 * time.Minute
    }
    var ticks []string
    for t := open; t.Before(close_); t = t.Add(interval) {
        ticks = append(ticks, t.Format(clockLayout))
    }
    return ticks, nil
}

// CombineDateTime joins a window date with a grid time into one UTC
// timestamp, used to stamp a reservation's stay_at from its first slot.
func CombineDateTime(date time.Time, timeOfDay string) (time.Time, error) {
    tod, err := time.Parse(clockLayout, timeOfDay)
    if err != nil {
        return time.Time{}, fmt.Errorf("parse slot time %q: %w", timeOfDay, err)
    }
    d := date.UTC()
    return time.Date(d.Year(), d.Month(), d.Day(), tod.Hour(), tod.Minute(), 0, 0, time.UTC), nil
}

// scheduleIndex maps weekday -> schedule entry for quick lookups while
// walking the window.
func scheduleIndex(entries []model.WorkSchedule) map[int]model.WorkSchedule {
    idx := make(map[int]model.WorkSchedule, len(entries))
    for _, s := range entries {
        idx[s.Weekday] = s
    }
    return idx
}
