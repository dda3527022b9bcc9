package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("record not found")

const (
	DialectMySQL  = "mysql"
	DialectSQLite = "sqlite"
)

// Store persists users and their exercise logs.
type Store struct {
	db      *sql.DB
	dialect string
}

// Open connects to MySQL, or to SQLite when dsn starts with "sqlite:".
func Open(dsn string) (*Store, error) {
	if path, ok := strings.CutPrefix(dsn, "sqlite:"); ok {
		db, err := sql.Open("sqlite", path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		// a single connection keeps ":memory:" databases shared
		db.SetMaxOpenConns(1)
		return New(db, DialectSQLite), nil
	}

	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	db.SetConnMaxLifetime(time.Minute * 3)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	return New(db, DialectMySQL), nil
}

func New(db *sql.DB, dialect string) *Store {
	return &Store{db: db, dialect: dialect}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

var schema = map[string][]string{
	DialectMySQL: {
		`CREATE TABLE IF NOT EXISTS user (
			id INT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL UNIQUE,
			password VARCHAR(255) NOT NULL,
			admin BOOLEAN NOT NULL DEFAULT FALSE
		)`,
		`CREATE TABLE IF NOT EXISTS cardio (
			id INT AUTO_INCREMENT PRIMARY KEY,
			user_id INT NOT NULL,
			name VARCHAR(255) NOT NULL,
			date DATETIME NOT NULL,
			distance DOUBLE NOT NULL,
			duration DOUBLE NOT NULL,
			INDEX (user_id)
		)`,
		`CREATE TABLE IF NOT EXISTS resistance (
			id INT AUTO_INCREMENT PRIMARY KEY,
			user_id INT NOT NULL,
			name VARCHAR(255) NOT NULL,
			date DATETIME NOT NULL,
			weight DOUBLE NOT NULL,
			sets INT NOT NULL,
			reps INT NOT NULL,
			INDEX (user_id)
		)`,
	},
	DialectSQLite: {
		`CREATE TABLE IF NOT EXISTS user (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			admin BOOLEAN NOT NULL DEFAULT FALSE
		)`,
		`CREATE TABLE IF NOT EXISTS cardio (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			date DATETIME NOT NULL,
			distance REAL NOT NULL,
			duration REAL NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS resistance (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			date DATETIME NOT NULL,
			weight REAL NOT NULL,
			sets INTEGER NOT NULL,
			reps INTEGER NOT NULL
		)`,
	},
}

// Migrate creates the tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	stmts, ok := schema[s.dialect]
	if !ok {
		return fmt.Errorf("no schema for dialect %q", s.dialect)
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// sqlTime scans DATETIME columns from either driver.
type sqlTime struct {
	time.Time
}

var timeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

func (t *sqlTime) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		t.Time = v.UTC()
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	}
	return fmt.Errorf("cannot scan %T into time", src)
}

func (t *sqlTime) parse(s string) error {
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("unrecognized time %q", s)
}
