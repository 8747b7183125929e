package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/task-tracker/internal/domain"
	"github.com/spec-kit/task-tracker/internal/events"
	"github.com/spec-kit/task-tracker/internal/repository"
	apperrors "github.com/spec-kit/task-tracker/pkg/util"
)

// TaskService coordinates owner-scoped task workflows. The owner identifier
// always comes from the authenticated principal, never from client input.
type TaskService struct {
	tasks      repository.TaskRepository
	dispatcher events.Dispatcher
}

// NewTaskService constructs the service.
func NewTaskService(tasks repository.TaskRepository, dispatcher events.Dispatcher) *TaskService {
	return &TaskService{tasks: tasks, dispatcher: dispatcher}
}

// TaskCreateInput describes task creation payload.
type TaskCreateInput struct {
	Title       string
	Description string
	Priority    domain.TaskPriority
}

// TaskUpdateInput carries partial update fields. Nil fields retain their
// prior values.
type TaskUpdateInput struct {
	Title       *string
	Description *string
	Status      *domain.TaskStatus
	Priority    *domain.TaskPriority
}

// TaskListFilter describes optional list filters.
type TaskListFilter struct {
	Status   *domain.TaskStatus
	Priority *domain.TaskPriority
}

// CreateTask creates a task for the owner, applying defaults for status and
// priority.
func (s *TaskService) CreateTask(ctx context.Context, ownerID string, input TaskCreateInput) (*domain.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title is required", nil)
	}

	priority := input.Priority
	if priority == "" {
		priority = domain.TaskPriorityMedium
	}
	if !priority.Valid() {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": string(input.Priority)})
	}

	task := &domain.Task{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Status:      domain.TaskStatusPending,
		Priority:    priority,
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	s.publish(ctx, events.Event{
		Type:    events.EventTaskCreated,
		TaskID:  task.ID,
		OwnerID: ownerID,
		Payload: events.TaskCreatedPayload{
			Title:    task.Title,
			Status:   task.Status,
			Priority: task.Priority,
		},
	})
	return task, nil
}

// ListTasks returns the owner's tasks in descending creation order.
func (s *TaskService) ListTasks(ctx context.Context, ownerID string, filter TaskListFilter) ([]domain.Task, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": string(*filter.Status)})
	}
	if filter.Priority != nil && !filter.Priority.Valid() {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": string(*filter.Priority)})
	}
	return s.tasks.ListByOwner(ctx, ownerID, repository.TaskFilter{
		Status:   filter.Status,
		Priority: filter.Priority,
	})
}

// GetTask fetches a single task owned by the caller.
func (s *TaskService) GetTask(ctx context.Context, ownerID, taskID string) (*domain.Task, error) {
	task, err := s.tasks.GetByOwner(ctx, ownerID, taskID)
	if err != nil {
		return nil, mapTaskErr(err)
	}
	return task, nil
}

// UpdateTask applies the fields present in input, leaving the rest untouched,
// and always refreshes the modification timestamp on success.
func (s *TaskService) UpdateTask(ctx context.Context, ownerID, taskID string, input TaskUpdateInput) (*domain.Task, error) {
	task, err := s.tasks.GetByOwner(ctx, ownerID, taskID)
	if err != nil {
		return nil, mapTaskErr(err)
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, apperrors.NewValidationError("title cannot be empty", nil)
		}
		task.Title = title
	}
	if input.Description != nil {
		task.Description = strings.TrimSpace(*input.Description)
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": string(*input.Status)})
		}
		task.Status = *input.Status
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": string(*input.Priority)})
		}
		task.Priority = *input.Priority
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, mapTaskErr(err)
	}
	s.publish(ctx, events.Event{
		Type:    events.EventTaskUpdated,
		TaskID:  task.ID,
		OwnerID: ownerID,
		Payload: events.TaskUpdatedPayload{
			Status:   task.Status,
			Priority: task.Priority,
		},
	})
	return task, nil
}

// DeleteTask removes a task permanently.
func (s *TaskService) DeleteTask(ctx context.Context, ownerID, taskID string) error {
	if err := s.tasks.Delete(ctx, ownerID, taskID); err != nil {
		return mapTaskErr(err)
	}
	s.publish(ctx, events.Event{
		Type:    events.EventTaskDeleted,
		TaskID:  taskID,
		OwnerID: ownerID,
	})
	return nil
}

func (s *TaskService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}

// mapTaskErr hides whether an id is absent or owned by another user.
func mapTaskErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound("task")
	}
	return err
}
