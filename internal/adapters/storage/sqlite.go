// Package storage provides the JSON file and SQLite implementations of the
// persistence gateway.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"modernc.org/sqlite"

	"github.com/xvierd/desk-pet/internal/domain"
	"github.com/xvierd/desk-pet/internal/ports"
)

// Keys under which the documents are stored.
const (
	keyReminders = "reminders"
	keyStats     = "stats"
)

// SQLiteGateway stores the reminder and statistics documents in a
// key-value table.
type SQLiteGateway struct {
	db *sql.DB
}

// Ensure SQLiteGateway implements ports.Gateway.
var (
	_ ports.Gateway        = (*SQLiteGateway)(nil)
	_ ports.ReminderBackup = (*SQLiteGateway)(nil)
	_ ports.StatsClock     = (*SQLiteGateway)(nil)
)

// New creates a new SQLite gateway.
func New(dbPath string) (*SQLiteGateway, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Each connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	gateway := &SQLiteGateway{db: db}
	if err := gateway.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return gateway, nil
}

// NewMemory creates a new in-memory SQLite gateway for testing.
func NewMemory() (*SQLiteGateway, error) {
	return New(":memory:")
}

// Close closes the database connection.
func (s *SQLiteGateway) Close() error {
	return s.db.Close()
}

// Migrate creates the database schema.
func (s *SQLiteGateway) Migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	return nil
}

// LoadReminders implements ports.Gateway.
func (s *SQLiteGateway) LoadReminders(ctx context.Context) ([]domain.Reminder, error) {
	data, err := s.get(ctx, keyReminders)
	if err != nil {
		return nil, err
	}
	return decodeReminders(data)
}

// SaveReminders implements ports.Gateway.
func (s *SQLiteGateway) SaveReminders(ctx context.Context, reminders []domain.Reminder) error {
	data, err := encodeReminders(reminders)
	if err != nil {
		return err
	}
	return s.put(ctx, keyReminders, data)
}

// LoadStats implements ports.Gateway.
func (s *SQLiteGateway) LoadStats(ctx context.Context) (domain.Statistics, error) {
	data, err := s.get(ctx, keyStats)
	if err != nil {
		return domain.NewStatistics(), err
	}
	return decodeStats(data)
}

// SaveStats implements ports.Gateway.
func (s *SQLiteGateway) SaveStats(ctx context.Context, stats domain.Statistics) error {
	data, err := encodeStats(stats)
	if err != nil {
		return err
	}
	return s.put(ctx, keyStats, data)
}

// BackupReminders copies the reminder document to the first free key of
// reminders.bak, reminders.bak.1, reminders.bak.2 and so on.
func (s *SQLiteGateway) BackupReminders(ctx context.Context) (string, error) {
	data, err := s.get(ctx, keyReminders)
	if err != nil {
		return "", err
	}
	if data == nil {
		return "", fmt.Errorf("nothing to back up: no %s document", keyReminders)
	}

	key := keyReminders + ".bak"
	for n := 1; ; n++ {
		existing, err := s.get(ctx, key)
		if err != nil {
			return "", err
		}
		if existing == nil {
			break
		}
		key = fmt.Sprintf("%s.bak.%d", keyReminders, n)
	}
	if err := s.put(ctx, key, data); err != nil {
		return "", err
	}
	return "kv:" + key, nil
}

// StatsUpdatedAt implements ports.StatsClock.
func (s *SQLiteGateway) StatsUpdatedAt(ctx context.Context) (time.Time, error) {
	return s.updatedAt(ctx, keyStats)
}

// updatedAt returns when key was last written.
func (s *SQLiteGateway) updatedAt(ctx context.Context, key string) (time.Time, error) {
	var updated time.Time
	err := s.db.QueryRowContext(ctx, "SELECT updated_at FROM kv WHERE key = ?", key).Scan(&updated)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read %s timestamp: %w", key, err)
	}
	return updated, nil
}

func (s *SQLiteGateway) get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", key, err)
	}
	return []byte(value), nil
}

func (s *SQLiteGateway) put(ctx context.Context, key string, data []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(data), time.Now().UTC())
	if err != nil {
		if isBusyError(err) {
			return fmt.Errorf("failed to save %s: database is locked by another process: %w", key, err)
		}
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// isBusyError checks if an error is SQLITE_BUSY.
func isBusyError(err error) bool {
	var sqliteErr *sqlite.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code()&0xff == 5
}
