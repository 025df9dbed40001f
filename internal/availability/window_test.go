package availability

import (
    "errors"
    "testing"
    "time"

    "github.com/davrbek/restaurant-reservation/internal/model"
)

func TestWindowDates(t *testing.T) {
    from := time.Date(2026, 8, 30, 17, 45, 12, 0, time.UTC)
    got := WindowDates(from, 7)
    if len(got) != 7 {
        t.Fatalf("expected 7 dates, got %d", len(got))
    }
    first := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
    if !got[0].Equal(first) {
        t.Errorf("first date = %v, want %v", got[0], first)
    }
    last := first.AddDate(0, 0, 6)
    if !got[6].Equal(last) {
        t.Errorf("last date = %v, want %v", got[6], last)
    }
    for _, d := range got {
        if d.Hour() != 0 || d.Minute() != 0 || d.Second() != 0 {
            t.Errorf("date %v is not a midnight timestamp", d)
        }
    }
}

func TestWindowDatesCrossesMonthBoundary(t *testing.T) {
    from := time.Date(2026, 8, 29, 23, 59, 0, 0, time.UTC)
    got := WindowDates(from, 4)
    want := []string{"2026-08-29", "2026-08-30", "2026-08-31", "2026-09-01"}
    for i, w := range want {
        if got[i].Format("2006-01-02") != w {
            t.Errorf("date[%d] = %s, want %s", i, got[i].Format("2006-01-02"), w)
        }
    }
}

func TestGridTimes(t *testing.T) {
    tests := []struct {
        name     string
        opens    string
        closes   string
        interval time.Duration
        want     []string
        wantErr  error
    }{
        {
            name: "evening service", opens: "18:00", closes: "20:00", interval: 30 * time.Minute,
            want: []string{"18:00", "18:30", "19:00", "19:30"},
        },
        {
            name: "single tick", opens: "12:00", closes: "12:30", interval: 30 * time.Minute,
            want: []string{"12:00"},
        },
        {
            name: "hourly grid", opens: "10:00", closes: "13:00", interval: time.Hour,
            want: []string{"10:00", "11:00", "12:00"},
        },
        {
            name: "zero interval falls back to half hour", opens: "09:00", closes: "10:00", interval: 0,
            want: []string{"09:00", "09:30"},
        },
        {
            name: "closes before opens", opens: "22:00", closes: "10:00", interval: 30 * time.Minute,
            wantErr: model.ErrInvalidHours,
        },
        {
            name: "equal open and close", opens: "10:00", closes: "10:00", interval: 30 * time.Minute,
            wantErr: model.ErrInvalidHours,
        },
    }
    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            got, err := GridTimes(tt.opens, tt.closes, tt.interval)
            if tt.wantErr != nil {
                if !errors.Is(err, tt.wantErr) {
                    t.Fatalf("expected %v, got %v", tt.wantErr, err)
                }
                return
            }
            if err != nil {
                t.Fatalf("unexpected error: %v", err)
            }
            if len(got) != len(tt.want) {
                t.Fatalf("got %d ticks %v, want %d", len(got), got, len(tt.want))
            }
            for i := range got {
                if got[i] != tt.want[i] {
                    t.Errorf("tick[%d] = %s, want %s", i, got[i], tt.want[i])
                }
            }
        })
    }
}

func TestGridTimesRejectsMalformedClock(t *testing.T) {
    if _, err := GridTimes("25:00", "26:00", 30*time.Minute); err == nil {
        t.Fatal("expected parse error for 25:00")
    }
    if _, err := GridTimes("10:00", "not-a-time", 30*time.Minute); err == nil {
        t.Fatal("expected parse error for malformed close")
    }
}

func TestCombineDateTime(t *testing.T) {
    date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
    got, err := CombineDateTime(date, "19:30")
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    want := time.Date(2026, 9, 1, 19, 30, 0, 0, time.UTC)
    if !got.Equal(want) {
        t.Errorf("got %v, want %v", got, want)
    }
    if _, err := CombineDateTime(date, "nope"); err == nil {
        t.Fatal("expected parse error")
    }
}

func TestScheduleIndex(t *testing.T) {
    entries := []model.WorkSchedule{
        {Weekday: 1, OpensAt: "10:00", ClosesAt: "22:00"},
        {Weekday: 6, OpensAt: "12:00", ClosesAt: "23:00", IsDayOff: true},
    }
    idx := scheduleIndex(entries)
    if len(idx) != 2 {
        t.Fatalf("expected 2 entries, got %d", len(idx))
    }
    if idx[1].OpensAt != "10:00" {
        t.Errorf("weekday 1 opens_at = %s", idx[1].OpensAt)
    }
    if !idx[6].IsDayOff {
        t.Error("weekday 6 should be a day off")
    }
    if _, ok := idx[3]; ok {
        t.Error("weekday 3 should be absent")
    }
}
