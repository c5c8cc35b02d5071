// Package db opens the form store's database and runs its embedded
// migrations.
//
// The connection URL scheme selects the driver: sqlite:// for single-node
// deployments, postgres:// when the marketing site runs more than one
// instance. Named queries live in queries/*.sql (dotsql); schema DDL lives
// in the top-level migrations/ embed.
package db

import (
	"fmt"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// PoolConfig bounds the sqlx connection pool. Values come from the db
// section of the service config; DefaultPool matches the config defaults.
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdleTime time.Duration
	ConnMaxLifetime time.Duration
}

// DefaultPool returns pool limits suitable for one formward instance.
func DefaultPool() PoolConfig {
	return PoolConfig{
		MaxOpenConns:    8,
		MaxIdleConns:    2,
		ConnMaxIdleTime: 5 * time.Minute,
		ConnMaxLifetime: 30 * time.Minute,
	}
}

// sqlitePragmas is appended to every sqlite DSN. Submissions and admin
// saves write concurrently, so a busy timeout replaces immediate
// SQLITE_BUSY failures; foreign keys back the submissions -> forms
// reference and are off by default in sqlite.
const sqlitePragmas = "_busy_timeout=5000&_foreign_keys=on"

// dsnFromURL maps a connection URL onto a driver name and data source.
// sqlite://file.db and sqlite:///absolute/path are both accepted; query
// parameters on a sqlite URL are kept and the standard pragmas appended.
func dsnFromURL(dbURL string) (driver, dsn string, err error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		return "", "", fmt.Errorf("invalid database URL: %w", err)
	}

	switch u.Scheme {
	case "sqlite":
		// Relative paths parse with the first segment as host.
		path := u.Path
		if u.Host != "" {
			path = u.Host + u.Path
		}
		params := sqlitePragmas
		if u.RawQuery != "" {
			params = u.RawQuery + "&" + sqlitePragmas
		}
		return "sqlite3", path + "?" + params, nil
	case "postgres":
		return "postgres", dbURL, nil
	default:
		return "", "", fmt.Errorf("unsupported database scheme: %s (expected sqlite or postgres)", u.Scheme)
	}
}

// Open connects to the database named by dbURL, applies the pool limits,
// and verifies the connection with a ping.
func Open(dbURL string, pool PoolConfig) (*sqlx.DB, error) {
	driver, dsn, err := dsnFromURL(dbURL)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(pool.MaxOpenConns)
	db.SetMaxIdleConns(pool.MaxIdleConns)
	db.SetConnMaxIdleTime(pool.ConnMaxIdleTime)
	db.SetConnMaxLifetime(pool.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
