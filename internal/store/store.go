package store

import (
	"context"
	"fmt"

	"github.com/tosifAN/sunrise-2024/internal/models"
)

// TaskStore holds the canonical, ordered task list. Lookups of a missing id
// are not errors: Get and Update return nil, Delete and Complete do nothing.
type TaskStore interface {
	ListAll(ctx context.Context) ([]models.Task, error)
	ListActive(ctx context.Context) ([]models.Task, error)
	ListCompleted(ctx context.Context) ([]models.Task, error)
	Get(ctx context.Context, id int) (*models.Task, error)
	Create(ctx context.Context, req *models.CreateTaskRequest) (*models.Task, error)
	Update(ctx context.Context, id int, req *models.UpdateTaskRequest) (*models.Task, error)
	Delete(ctx context.Context, id int) error
	Complete(ctx context.Context, id int) error
	Reset(ctx context.Context) error
	Close() error
}

// Backend names accepted by New.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// New builds the store selected by backend, seeded with seed.
func New(backend, dbPath string, seed []models.Task) (TaskStore, error) {
	switch backend {
	case "", BackendMemory:
		return NewMemoryStore(seed), nil
	case BackendSQLite:
		db, err := Open(dbPath)
		if err != nil {
			return nil, err
		}
		s, err := NewSQLiteStore(db, seed)
		if err != nil {
			db.Close()
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}

func filterStage(tasks []models.Task, keep func(models.Stage) bool) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if keep(t.Stage) {
			out = append(out, t)
		}
	}
	return out
}

func isCompleted(s models.Stage) bool { return s == models.StageCompleted }
