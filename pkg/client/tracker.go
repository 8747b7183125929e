package client

import "context"

// Tracker combines the API client with a TaskCache and keeps the cache in
// sync from mutation responses. Responses are applied in completion order;
// under rapid concurrent edits the last response to resolve wins.
type Tracker struct {
	client *Client
	cache  *TaskCache
}

// NewTracker builds a tracker around an existing client.
func NewTracker(c *Client) *Tracker {
	return &Tracker{client: c, cache: NewTaskCache()}
}

// Client returns the underlying API client.
func (t *Tracker) Client() *Client {
	return t.client
}

// Tasks returns the cached list.
func (t *Tracker) Tasks() []Task {
	return t.cache.Tasks()
}

// Load discards the cache and replaces it wholesale with a fresh list call.
// Used on initial load and on every filter change.
func (t *Tracker) Load(ctx context.Context, filter TaskFilter) ([]Task, error) {
	tasks, err := t.client.ListTasks(ctx, filter)
	if err != nil {
		return nil, err
	}
	t.cache.Replace(filter, tasks)
	return t.cache.Tasks(), nil
}

// Create creates a task and prepends it to the cache.
func (t *Tracker) Create(ctx context.Context, input CreateTaskInput) (*Task, error) {
	task, err := t.client.CreateTask(ctx, input)
	if err != nil {
		return nil, err
	}
	t.cache.ApplyCreate(*task)
	return task, nil
}

// Update applies a partial update and reconciles the cached entry in place.
func (t *Tracker) Update(ctx context.Context, id string, input UpdateTaskInput) (*Task, error) {
	task, err := t.client.UpdateTask(ctx, id, input)
	if err != nil {
		return nil, err
	}
	t.cache.ApplyUpdate(*task)
	return task, nil
}

// Delete removes a task and drops it from the cache.
func (t *Tracker) Delete(ctx context.Context, id string) error {
	if err := t.client.DeleteTask(ctx, id); err != nil {
		return err
	}
	t.cache.ApplyDelete(id)
	return nil
}
