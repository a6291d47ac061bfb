package board

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tosifAN/sunrise-2024/internal/models"
	"github.com/tosifAN/sunrise-2024/internal/store"
)

// Service runs task operations against a store and applies the
// stage-progression rule on completion.
type Service struct {
	store  store.TaskStore
	logger *slog.Logger
}

func NewService(s store.TaskStore, logger *slog.Logger) *Service {
	return &Service{store: s, logger: logger}
}

// CompleteResult describes what a completion changed. Completed is nil when
// the id did not exist.
type CompleteResult struct {
	Completed *models.Task
	Activated *models.Task
}

func (s *Service) List(ctx context.Context) ([]models.Task, error) {
	return s.store.ListAll(ctx)
}

func (s *Service) ListActive(ctx context.Context) ([]models.Task, error) {
	return s.store.ListActive(ctx)
}

func (s *Service) ListCompleted(ctx context.Context) ([]models.Task, error) {
	return s.store.ListCompleted(ctx)
}

func (s *Service) Get(ctx context.Context, id int) (*models.Task, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, req *models.CreateTaskRequest) (*models.Task, error) {
	t, err := s.store.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	s.logger.Debug("task created", "id", t.ID, "group", t.Group)
	return t, nil
}

func (s *Service) Update(ctx context.Context, id int, req *models.UpdateTaskRequest) (*models.Task, error) {
	t, err := s.store.Update(ctx, id, req)
	if err != nil {
		return nil, fmt.Errorf("update task %d: %w", id, err)
	}
	if t == nil {
		s.logger.Debug("update on unknown task ignored", "id", id)
	}
	return t, nil
}

func (s *Service) Delete(ctx context.Context, id int) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	return nil
}

func (s *Service) Reset(ctx context.Context) error {
	if err := s.store.Reset(ctx); err != nil {
		return fmt.Errorf("reset tasks: %w", err)
	}
	s.logger.Info("tasks reset to seed list")
	return nil
}

// Complete marks id Completed and activates the next eligible task, if any.
// An unknown id is a no-op.
func (s *Service) Complete(ctx context.Context, id int) (*CompleteResult, error) {
	result := &CompleteResult{}

	task, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("complete task %d: %w", id, err)
	}
	if task == nil {
		s.logger.Debug("complete on unknown task ignored", "id", id)
		return result, nil
	}

	if err := s.store.Complete(ctx, id); err != nil {
		return nil, fmt.Errorf("complete task %d: %w", id, err)
	}
	task.Stage = models.StageCompleted
	result.Completed = task

	tasks, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("complete task %d: %w", id, err)
	}
	next, ok := NextEligible(tasks, *task)
	if !ok {
		s.logger.Info("task completed", "id", id, "group", task.Group)
		return result, nil
	}

	inProgress := models.StageInProgress
	activated, err := s.store.Update(ctx, next.ID, &models.UpdateTaskRequest{Stage: &inProgress})
	if err != nil {
		return nil, fmt.Errorf("activate task %d: %w", next.ID, err)
	}
	result.Activated = activated

	if activated == nil {
		s.logger.Info("task completed", "id", id, "group", task.Group)
		return result, nil
	}
	s.logger.Info("task completed",
		"id", id,
		"group", task.Group,
		"activated", activated.ID,
		"activated_group", activated.Group,
	)
	return result, nil
}

// Board returns the stage columns for the current task list.
func (s *Service) Board(ctx context.Context) (*models.BoardResponse, error) {
	tasks, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load board: %w", err)
	}
	return &models.BoardResponse{Columns: Columns(tasks)}, nil
}

// Count returns the number of tasks in the store.
func (s *Service) Count(ctx context.Context) (int, error) {
	tasks, err := s.store.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	return len(tasks), nil
}
