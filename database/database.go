// Package database persists inspection reports behind a backend-agnostic
// contract. The concrete backend is selected once at startup: a connection
// string in the environment picks the networked MySQL backend, its absence
// picks the embedded SQLite file next to the binary.
package database

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/apex/log"

	"truckcheck/config"
	"truckcheck/models"
)

// Kind identifies which persistence technology is active for the process.
type Kind string

const (
	KindMySQL  Kind = "mysql"
	KindSQLite Kind = "sqlite"
)

// ErrNotFound reports a single-report read for an id that does not exist.
var ErrNotFound = errors.New("report not found")

// StorageError wraps any backend read or write failure. Handlers surface it
// as a 500 envelope; it never terminates the process.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Backend is the per-technology persistence capability. Adding a backend
// means adding one implementation with its own column table; call sites stay
// untouched.
type Backend interface {
	Kind() Kind
	// Init creates the reports table if absent. Safe to call repeatedly.
	Init(ctx context.Context) error
	CreateReport(ctx context.Context, args *models.SubmitReportArgs) (int64, error)
	GetReport(ctx context.Context, id int64) (*models.Report, error)
	// ListReports returns all reports newest first.
	ListReports(ctx context.Context) ([]models.Report, error)
	Close() error
}

// Store wraps a Backend and tolerates one that was unreachable at boot: a
// failed Init is logged, the store starts degraded, every operation fails
// with a StorageError, and Init is re-attempted before the next operation
// instead of crashing the process.
type Store struct {
	backend Backend

	mu    sync.Mutex
	ready bool
}

func NewStore(cfg *config.Config) (*Store, error) {
	var (
		backend Backend
		err     error
	)
	if cfg.BackendKind() == string(KindMySQL) {
		backend, err = NewMySQLBackend(cfg.DatabaseURL)
	} else {
		backend, err = NewSQLiteBackend(cfg.SQLitePath)
	}
	if err != nil {
		return nil, err
	}
	return NewStoreWithBackend(backend), nil
}

func NewStoreWithBackend(backend Backend) *Store {
	s := &Store{backend: backend}
	if err := s.init(context.Background()); err != nil {
		log.Errorf("Schema init failed, %s store starts degraded: %v", backend.Kind(), err)
	}
	return s
}

func (s *Store) init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ready {
		return nil
	}
	if err := s.backend.Init(ctx); err != nil {
		return &StorageError{Op: "init schema", Err: err}
	}
	s.ready = true
	return nil
}

func (s *Store) Kind() Kind { return s.backend.Kind() }

// CreateReport inserts one report and returns the backend-assigned id.
func (s *Store) CreateReport(ctx context.Context, args *models.SubmitReportArgs) (int64, error) {
	if err := s.init(ctx); err != nil {
		return 0, err
	}
	id, err := s.backend.CreateReport(ctx, args)
	if err != nil {
		return 0, &StorageError{Op: "create report", Err: err}
	}
	return id, nil
}

func (s *Store) GetReport(ctx context.Context, id int64) (*models.Report, error) {
	if err := s.init(ctx); err != nil {
		return nil, err
	}
	report, err := s.backend.GetReport(ctx, id)
	if err != nil {
		return nil, &StorageError{Op: fmt.Sprintf("get report %d", id), Err: err}
	}
	return report, nil
}

// ListReports returns every stored report ordered by creation time,
// descending.
func (s *Store) ListReports(ctx context.Context) ([]models.Report, error) {
	if err := s.init(ctx); err != nil {
		return nil, err
	}
	reports, err := s.backend.ListReports(ctx)
	if err != nil {
		return nil, &StorageError{Op: "list reports", Err: err}
	}
	return reports, nil
}

func (s *Store) Close() error { return s.backend.Close() }
