package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/task-tracker/internal/domain"
	"github.com/spec-kit/task-tracker/internal/repository"
)

// fakeUserRepository is an in-memory stand-in for the Postgres user store.
type fakeUserRepository struct {
	mu    sync.Mutex
	users map[string]*domain.User
	now   time.Time
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{
		users: make(map[string]*domain.User),
		now:   time.Now().UTC(),
	}
}

func (r *fakeUserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.CreatedAt = r.now
	user.UpdatedAt = r.now
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

// fakeTaskRepository mimics the owner-scoped query semantics of the real
// repository: a missing id and a cross-owner id both yield pgx.ErrNoRows.
type fakeTaskRepository struct {
	mu    sync.Mutex
	tasks map[string]*domain.Task
	clock time.Time
}

func newFakeTaskRepository() *fakeTaskRepository {
	return &fakeTaskRepository{
		tasks: make(map[string]*domain.Task),
		clock: time.Now().UTC().Truncate(time.Second),
	}
}

// tick returns a strictly increasing timestamp so creation order is total.
func (r *fakeTaskRepository) tick() time.Time {
	r.clock = r.clock.Add(time.Second)
	return r.clock
}

func (r *fakeTaskRepository) Create(_ context.Context, task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.tick()
	task.CreatedAt = now
	task.UpdatedAt = now
	clone := *task
	r.tasks[task.ID] = &clone
	return nil
}

func (r *fakeTaskRepository) GetByOwner(_ context.Context, ownerID, taskID string) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[taskID]
	if !ok || task.OwnerID != ownerID {
		return nil, pgx.ErrNoRows
	}
	clone := *task
	return &clone, nil
}

func (r *fakeTaskRepository) Update(_ context.Context, task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.tasks[task.ID]
	if !ok || stored.OwnerID != task.OwnerID {
		return pgx.ErrNoRows
	}
	task.UpdatedAt = r.tick()
	task.CreatedAt = stored.CreatedAt
	clone := *task
	r.tasks[task.ID] = &clone
	return nil
}

func (r *fakeTaskRepository) Delete(_ context.Context, ownerID, taskID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[taskID]
	if !ok || task.OwnerID != ownerID {
		return pgx.ErrNoRows
	}
	delete(r.tasks, taskID)
	return nil
}

func (r *fakeTaskRepository) ListByOwner(_ context.Context, ownerID string, filter repository.TaskFilter) ([]domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Task
	for _, task := range r.tasks {
		if task.OwnerID != ownerID {
			continue
		}
		if filter.Status != nil && task.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && task.Priority != *filter.Priority {
			continue
		}
		result = append(result, *task)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *fakeTaskRepository) CountsByOwner(_ context.Context, ownerID string) (*domain.TaskStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := &domain.TaskStats{}
	for _, task := range r.tasks {
		if task.OwnerID != ownerID {
			continue
		}
		stats.Total++
		switch task.Status {
		case domain.TaskStatusPending:
			stats.Pending++
		case domain.TaskStatusInProgress:
			stats.InProgress++
		case domain.TaskStatusCompleted:
			stats.Completed++
		}
	}
	return stats, nil
}
