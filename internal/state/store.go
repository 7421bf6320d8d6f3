// Package state persists analysis results in SQLite so runs can be listed,
// compared and rendered again later.
package state

import (
	"context"
	"errors"
	"time"

	"github.com/leapstack-labs/leapfix/pkg/lint"
)

// Store errors.
var (
	ErrNotOpened   = errors.New("database not opened")
	ErrRunNotFound = errors.New("run not found")
)

// Run is a persisted analysis run.
type Run struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Projects    int       `json:"projects"`
	Diagnostics int       `json:"diagnostics"`
}

// Store is the persistence interface for analysis results.
type Store interface {
	Open(path string) error
	Migrate() error
	Close() error

	// SaveResult writes the result as a new run and returns its ID.
	SaveResult(ctx context.Context, result *lint.CodeAnalysisResult) (string, error)
	// LoadDiagnostics rebuilds the result saved under runID.
	LoadDiagnostics(ctx context.Context, runID string) (*lint.CodeAnalysisResult, error)
	// GetRun returns one run.
	GetRun(ctx context.Context, runID string) (*Run, error)
	// ListRuns returns all runs, newest first.
	ListRuns(ctx context.Context) ([]Run, error)
}

var _ Store = (*SQLiteStore)(nil)
