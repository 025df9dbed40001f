package database

import (
    "context"
    "database/sql"
    "net"
    "time"

    "github.com/go-sql-driver/mysql"
)

// poolConfig builds the driver configuration.  parseTime maps DATETIME
// columns to time.Time and loc=UTC keeps stay times and slot dates
// consistent across the generator, the booking path and the scheduler,
// which all compare them.  ClientFoundRows makes RowsAffected count
// matched rows instead of changed rows, so the repositories' "0 rows =
// not found / conflict" checks stay correct when an UPDATE resubmits
// identical values.
func poolConfig(user, pass, host, port, name string) *mysql.Config {
    cfg := mysql.NewConfig()
    cfg.User = user
    cfg.Passwd = pass
    cfg.Net = "tcp"
    cfg.Addr = net.JoinHostPort(host, port)
    cfg.DBName = name
    cfg.ParseTime = true
    cfg.Loc = time.UTC
    cfg.ClientFoundRows = true
    cfg.Params = map[string]string{"charset": "utf8mb4"}
    return cfg
}

// Open connects to MySQL and verifies the connection.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
    db, err := sql.Open("mysql", poolConfig(user, pass, host, port, name).FormatDSN())
    if err != nil {
        return nil, err
    }

    // Sized for the booking transactions, which hold a connection for
    // several statements.
    db.SetMaxOpenConns(25)
    db.SetMaxIdleConns(25)
    db.SetConnMaxLifetime(30 * time.Minute)

    ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()
    if err := db.PingContext(ctx); err != nil {
        return nil, err
    }
    return db, nil
}
