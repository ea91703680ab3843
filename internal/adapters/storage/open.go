package storage

import (
	"fmt"
	"path/filepath"

	"github.com/xvierd/desk-pet/internal/ports"
)

// Backend names accepted by Open.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// DatabaseFile is the SQLite file name inside the data directory.
const DatabaseFile = "deskpet.db"

// Open returns the gateway for backend rooted at dataDir.
func Open(backend, dataDir string) (ports.Gateway, error) {
	switch backend {
	case "", BackendJSON:
		files, err := NewFileGateway(dataDir)
		if err != nil {
			return nil, err
		}
		return files, nil
	case BackendSQLite:
		files, err := NewFileGateway(dataDir)
		if err != nil {
			return nil, err
		}
		db, err := New(filepath.Join(files.Dir(), DatabaseFile))
		if err != nil {
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q (want %s or %s)", backend, BackendJSON, BackendSQLite)
	}
}
