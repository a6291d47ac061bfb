package store

import (
	"context"
	"sync"

	"github.com/tosifAN/sunrise-2024/internal/models"
	"github.com/tosifAN/sunrise-2024/internal/seed"
)

// MemoryStore keeps tasks in an ordered slice for the life of the process.
type MemoryStore struct {
	mu    sync.RWMutex
	seed  []models.Task
	tasks []models.Task
}

// NewMemoryStore creates a store holding a copy of seedTasks.
func NewMemoryStore(seedTasks []models.Task) *MemoryStore {
	s := &MemoryStore{seed: seed.Clone(seedTasks)}
	s.tasks = seed.Clone(s.seed)
	return s
}

func (s *MemoryStore) ListAll(ctx context.Context) ([]models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return seed.Clone(s.tasks), nil
}

func (s *MemoryStore) ListActive(ctx context.Context) ([]models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filterStage(s.tasks, models.Stage.IsActive), nil
}

func (s *MemoryStore) ListCompleted(ctx context.Context) ([]models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filterStage(s.tasks, isCompleted), nil
}

func (s *MemoryStore) Get(ctx context.Context, id int) (*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return nil, nil
	}
	t := s.tasks[i]
	return &t, nil
}

func (s *MemoryStore) Create(ctx context.Context, req *models.CreateTaskRequest) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	maxID := 0
	for _, t := range s.tasks {
		if t.ID > maxID {
			maxID = t.ID
		}
	}

	t := models.Task{
		ID:          maxID + 1,
		Title:       req.Title,
		Description: req.Description,
		Persona:     req.Persona,
		Group:       req.Group,
		Stage:       models.StageToDo,
	}
	s.tasks = append(s.tasks, t)
	return &t, nil
}

func (s *MemoryStore) Update(ctx context.Context, id int, req *models.UpdateTaskRequest) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return nil, nil
	}
	s.tasks[i].Apply(req)
	t := s.tasks[i]
	return &t, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	}
	return nil
}

func (s *MemoryStore) Complete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		s.tasks[i].Stage = models.StageCompleted
	}
	return nil
}

func (s *MemoryStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = seed.Clone(s.seed)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

// indexOf must be called with mu held.
func (s *MemoryStore) indexOf(id int) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
