// Package store persists forecast assumptions and recorded actuals.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib" // register pgx driver
	_ "modernc.org/sqlite"             // register sqlite driver
)

// ErrNotFound is returned when a forecast or actual entry does not exist.
var ErrNotFound = errors.New("not found")

// Driver names accepted by Open.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// timeLayout sorts lexicographically for UTC times.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Store is a database/sql backed store for forecasts and actuals.
type Store struct {
	db      *sql.DB
	dialect string
	now     func() time.Time
}

// Open connects to the database and creates the schema if needed. An empty
// driver means sqlite, whose DSN is a file path.
func Open(driver, dsn string) (*Store, error) {
	if driver == "" {
		driver = DriverSQLite
	}

	var (
		db  *sql.DB
		ddl []string
		err error
	)
	switch driver {
	case DriverSQLite:
		if dsn == "" {
			return nil, errors.New("sqlite store needs a database path")
		}
		if err := os.MkdirAll(filepath.Dir(dsn), 0o750); err != nil {
			return nil, fmt.Errorf("creating store dir: %w", err)
		}
		db, err = sql.Open("sqlite", dsn+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)")
		ddl = sqliteSchema
	case DriverPostgres, "pgx":
		driver = DriverPostgres
		db, err = sql.Open("pgx", dsn)
		ddl = postgresSchema
	case DriverMySQL, "mariadb":
		driver = DriverMySQL
		var mysqlDSN string
		mysqlDSN, err = toMySQLDSN(dsn)
		if err == nil {
			db, err = sql.Open("mysql", mysqlDSN)
		}
		ddl = mysqlSchema
	default:
		return nil, fmt.Errorf("unknown store driver %q (want sqlite, postgres or mysql)", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", driver, err)
	}

	if driver != DriverSQLite {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	for _, stmt := range ddl {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("creating schema: %w", err)
		}
	}

	return &Store{db: db, dialect: driver, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Dialect returns the normalized driver name.
func (s *Store) Dialect() string {
	return s.dialect
}

// Ping checks the database connection.
func (s *Store) Ping() error {
	return s.db.Ping()
}

// rebind rewrites ? placeholders to $n for postgres.
func (s *Store) rebind(query string) string {
	if s.dialect != DriverPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// toMySQLDSN accepts either a driver-native DSN or a mysql:// / mariadb:// URL.
func toMySQLDSN(dsn string) (string, error) {
	if !strings.HasPrefix(dsn, "mysql://") && !strings.HasPrefix(dsn, "mariadb://") {
		if _, err := mysql.ParseDSN(dsn); err != nil {
			return "", fmt.Errorf("parse dsn: %w", err)
		}
		return dsn, nil
	}

	rest := dsn[strings.Index(dsn, "://")+3:]
	cfg := mysql.NewConfig()
	if at := strings.LastIndex(rest, "@"); at >= 0 {
		cred := rest[:at]
		rest = rest[at+1:]
		user, pass, _ := strings.Cut(cred, ":")
		cfg.User, cfg.Passwd = user, pass
	}
	host, dbName, _ := strings.Cut(rest, "/")
	dbName, _, _ = strings.Cut(dbName, "?")
	if cfg.User == "" || host == "" || dbName == "" {
		return "", errors.New("incomplete dsn (need user, host and database)")
	}
	cfg.Net = "tcp"
	cfg.Addr = host
	cfg.DBName = dbName
	cfg.InterpolateParams = true
	return cfg.FormatDSN(), nil
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(timeLayout)
}

func parseTimestamp(v string) time.Time {
	t, err := time.Parse(timeLayout, v)
	if err != nil {
		return time.Time{}
	}
	return t
}
