package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dori/worklog/internal/db"
	"github.com/gofrs/flock"
)

// EnvWorkLog names the environment variable holding the work log path.
const EnvWorkLog = "WORK_LOG"

// App holds the application state and dependencies
type App struct {
	DB       *db.DB
	DataDir  string
	lockFile *flock.Flock
}

// Config holds application configuration
type Config struct {
	DBPath string
}

// DefaultConfig resolves the work log location: the WORK_LOG
// environment variable if set, otherwise the XDG-style default.
func DefaultConfig() *Config {
	if path := os.Getenv(EnvWorkLog); path != "" {
		return &Config{DBPath: path}
	}
	return &Config{DBPath: db.DefaultDBPath()}
}

// New creates a new application instance
func New(cfg *Config) (*App, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	app := &App{DataDir: dataDir}

	// The log assumes exclusive single-process access for the duration
	// of one command; a concurrent invocation fails fast instead of
	// racing the write-back.
	if err := app.acquireLock(); err != nil {
		return nil, err
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		app.releaseLock()
		return nil, fmt.Errorf("failed to open work log: %w", err)
	}
	app.DB = database

	return app, nil
}

// acquireLock acquires an exclusive file lock to prevent concurrent commands
func (a *App) acquireLock() error {
	lockPath := filepath.Join(a.DataDir, "worklog.lock")
	a.lockFile = flock.New(lockPath)

	locked, err := a.lockFile.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}

	if !locked {
		return fmt.Errorf("another worklog command is already running against this log")
	}

	return nil
}

// releaseLock releases the file lock
func (a *App) releaseLock() {
	if a.lockFile != nil {
		a.lockFile.Unlock()
	}
}

// Close cleans up application resources
func (a *App) Close() error {
	var errs []error

	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close work log: %w", err))
		}
	}

	a.releaseLock()

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}
