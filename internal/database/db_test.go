package database

import (
    "strings"
    "testing"
    "time"
)

func TestPoolConfig(t *testing.T) {
    cfg := poolConfig("app", "secret", "db", "3306", "reservations")

    if cfg.Addr != "db:3306" {
        t.Errorf("Addr = %q, want %q", cfg.Addr, "db:3306")
    }
    if cfg.DBName != "reservations" {
        t.Errorf("DBName = %q, want %q", cfg.DBName, "reservations")
    }
    if !cfg.ParseTime {
        t.Error("ParseTime must be enabled so DATETIME scans into time.Time")
    }
    if cfg.Loc != time.UTC {
        t.Errorf("Loc = %v, want UTC", cfg.Loc)
    }
    // Without this an UPDATE that matches a row but changes nothing
    // reports 0 affected rows, and idempotent PUTs would turn into 404s.
    if !cfg.ClientFoundRows {
        t.Error("ClientFoundRows must be enabled for matched-row counting")
    }

    dsn := cfg.FormatDSN()
    for _, want := range []string{"clientFoundRows=true", "parseTime=true", "charset=utf8mb4"} {
        if !strings.Contains(dsn, want) {
            t.Errorf("DSN %q missing %q", dsn, want)
        }
    }
}
