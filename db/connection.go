package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

// Dialect is the database/sql driver name, which also decides placeholder style and migrations.
type Dialect string

const (
	Postgres Dialect = "pgx"
	SQLite   Dialect = "sqlite3"
)

func ParseDialect(driver string) (Dialect, error) {
	switch Dialect(driver) {
	case Postgres, SQLite:
		return Dialect(driver), nil
	case "postgres", "postgresql":
		return Postgres, nil
	case "sqlite":
		return SQLite, nil
	}
	return "", fmt.Errorf("unsupported database driver %q", driver)
}

// Rebind rewrites '?' placeholders into the dialect's positional form.
func (d Dialect) Rebind(query string) string {
	if d != Postgres {
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

// DBService represents a service that interacts with a database.
type DBService struct {
	DB      *sql.DB
	Dialect Dialect
}

// NewDBService opens a connection for the given driver and checks it with a ping.
// For SQLite the connection string is a file path.
func NewDBService(driver, connStr string) (*DBService, error) {
	dialect, err := ParseDialect(driver)
	if err != nil {
		return nil, err
	}
	if connStr == "" {
		return nil, fmt.Errorf("missing DB_CONNECTION_STRING in environment variables")
	}

	dsn := connStr
	if dialect == SQLite {
		if connStr != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(connStr), 0750); err != nil {
				return nil, fmt.Errorf("could not create database directory: %w", err)
			}
		}
		dsn = connStr + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"
	}

	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("could not open db connection: %w", err)
	}

	if dialect == SQLite {
		// a single connection serializes writers and keeps :memory: databases alive
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	} else {
		db.SetMaxOpenConns(50)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("could not connect to the database: %w", err)
	}

	return &DBService{DB: db, Dialect: dialect}, nil
}

// Health checks the health of the database connection by pinging the database.
// It returns a map with keys indicating various health statistics.
func (s *DBService) Health(ctx context.Context) map[string]string {
	stats := make(map[string]string)

	if err := s.DB.PingContext(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		return stats
	}

	dbStats := s.DB.Stats()
	stats["status"] = "up"
	stats["message"] = "It's healthy"
	stats["open_connections"] = strconv.Itoa(dbStats.OpenConnections)
	stats["in_use"] = strconv.Itoa(dbStats.InUse)
	stats["idle"] = strconv.Itoa(dbStats.Idle)
	return stats
}

// Close closes the database connection.
func (s *DBService) Close() error {
	log.Info().Str("driver", string(s.Dialect)).Msg("Closing database connection")
	return s.DB.Close()
}
