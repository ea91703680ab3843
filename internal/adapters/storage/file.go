package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/xvierd/desk-pet/internal/domain"
	"github.com/xvierd/desk-pet/internal/ports"
)

// File names used by the JSON backend.
const (
	RemindersFile = "reminders.json"
	StatsFile     = "pomodoro_stats.json"
)

// FileGateway stores reminders and statistics as JSON files in a directory.
type FileGateway struct {
	dir string
	mu  sync.Mutex
}

// Ensure FileGateway implements ports.Gateway.
var (
	_ ports.Gateway        = (*FileGateway)(nil)
	_ ports.ReminderBackup = (*FileGateway)(nil)
	_ ports.StatsClock     = (*FileGateway)(nil)
)

// NewFileGateway creates a gateway rooted at dir, creating it if needed.
func NewFileGateway(dir string) (*FileGateway, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileGateway{dir: dir}, nil
}

// Dir returns the data directory.
func (g *FileGateway) Dir() string {
	return g.dir
}

// LoadReminders implements ports.Gateway.
func (g *FileGateway) LoadReminders(ctx context.Context) ([]domain.Reminder, error) {
	data, err := g.read(ctx, RemindersFile)
	if err != nil {
		return nil, err
	}
	return decodeReminders(data)
}

// SaveReminders implements ports.Gateway.
func (g *FileGateway) SaveReminders(ctx context.Context, reminders []domain.Reminder) error {
	data, err := encodeReminders(reminders)
	if err != nil {
		return err
	}
	return g.write(ctx, RemindersFile, data)
}

// BackupReminders copies reminders.json next to itself as
// reminders.json.bak, or reminders.json.bak.N when earlier backups exist.
func (g *FileGateway) BackupReminders(ctx context.Context) (string, error) {
	data, err := g.read(ctx, RemindersFile)
	if err != nil {
		return "", err
	}
	if data == nil {
		return "", fmt.Errorf("nothing to back up: %s does not exist", RemindersFile)
	}

	g.mu.Lock()
	name := RemindersFile + ".bak"
	for n := 1; ; n++ {
		if _, err := os.Stat(filepath.Join(g.dir, name)); errors.Is(err, fs.ErrNotExist) {
			break
		}
		name = fmt.Sprintf("%s.bak.%d", RemindersFile, n)
	}
	g.mu.Unlock()

	if err := g.write(ctx, name, data); err != nil {
		return "", err
	}
	return filepath.Join(g.dir, name), nil
}

// LoadStats implements ports.Gateway.
func (g *FileGateway) LoadStats(ctx context.Context) (domain.Statistics, error) {
	data, err := g.read(ctx, StatsFile)
	if err != nil {
		return domain.NewStatistics(), err
	}
	return decodeStats(data)
}

// SaveStats implements ports.Gateway.
func (g *FileGateway) SaveStats(ctx context.Context, stats domain.Statistics) error {
	data, err := encodeStats(stats)
	if err != nil {
		return err
	}
	return g.write(ctx, StatsFile, data)
}

// StatsUpdatedAt implements ports.StatsClock from the file's mtime.
func (g *FileGateway) StatsUpdatedAt(ctx context.Context) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	info, err := os.Stat(filepath.Join(g.dir, StatsFile))
	if errors.Is(err, fs.ErrNotExist) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to stat %s: %w", StatsFile, err)
	}
	return info.ModTime(), nil
}

// Close implements ports.Gateway.
func (g *FileGateway) Close() error {
	return nil
}

func (g *FileGateway) read(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	data, err := os.ReadFile(filepath.Join(g.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}

// write replaces name atomically via a temp file in the same directory.
func (g *FileGateway) write(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	tmp, err := os.CreateTemp(g.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(g.dir, name)); err != nil {
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}
