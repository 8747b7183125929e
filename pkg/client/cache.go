package client

import "sync"

// TaskCache is a non-persistent mirror of the last-fetched filtered task
// list. Mutations are reconciled in place from the server's response instead
// of re-fetching; a filter change replaces the contents wholesale.
type TaskCache struct {
	mu     sync.Mutex
	filter TaskFilter
	tasks  []Task
}

// NewTaskCache returns an empty cache.
func NewTaskCache() *TaskCache {
	return &TaskCache{}
}

// Replace swaps the cached list for a freshly fetched one.
func (c *TaskCache) Replace(filter TaskFilter, tasks []Task) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter = filter
	c.tasks = append([]Task(nil), tasks...)
}

// Filter returns the filter the cached list was fetched with.
func (c *TaskCache) Filter() TaskFilter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// Tasks returns a copy of the cached list.
func (c *TaskCache) Tasks() []Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Task(nil), c.tasks...)
}

// Len returns the number of cached tasks.
func (c *TaskCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tasks)
}

// ApplyCreate prepends a just-created task. New tasks are always newest, so
// prepending preserves descending creation order.
func (c *TaskCache) ApplyCreate(task Task) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tasks = append([]Task{task}, c.tasks...)
}

// ApplyUpdate replaces the matching entry in place, preserving its position.
// Unknown ids are ignored.
func (c *TaskCache) ApplyUpdate(task Task) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.tasks {
		if c.tasks[i].ID == task.ID {
			c.tasks[i] = task
			return
		}
	}
}

// ApplyDelete removes the matching entry. Unknown ids are ignored.
func (c *TaskCache) ApplyDelete(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.tasks {
		if c.tasks[i].ID == id {
			c.tasks = append(c.tasks[:i], c.tasks[i+1:]...)
			return
		}
	}
}
