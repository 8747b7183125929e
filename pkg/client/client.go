// Package client is the Go SDK for the task tracker API. It owns the stored
// credential (Session), mirrors the last-fetched task list (TaskCache) and
// reconciles it from mutation responses (Tracker).
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrUnauthorized is returned when the server rejects the credential. The
// session is cleared before it is returned; callers should route to login.
var ErrUnauthorized = errors.New("unauthorized")

// APIError carries a server-provided error payload.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d %s: %s", e.Status, e.Code, e.Message)
}

// Task is the wire representation of a task.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// User is the wire representation of an account.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// TaskStats aggregates per-status counts.
type TaskStats struct {
	Total      int64 `json:"total"`
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"in_progress"`
	Completed  int64 `json:"completed"`
}

// TaskFilter narrows a list call. Empty fields match everything.
type TaskFilter struct {
	Status   string
	Priority string
}

// CreateTaskInput is the create payload.
type CreateTaskInput struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Priority    string `json:"priority,omitempty"`
}

// UpdateTaskInput is a partial update; nil fields are omitted from the
// request and preserved server-side.
type UpdateTaskInput struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
	Priority    *string `json:"priority,omitempty"`
}

// Client calls the task tracker API, attaching the session credential to
// every protected request.
type Client struct {
	baseURL string
	http    *http.Client
	session *Session
}

// NewClient builds a client. A nil httpClient gets a sane default timeout.
func NewClient(baseURL string, session *Session, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		session: session,
	}
}

// Session returns the client's session.
func (c *Client) Session() *Session {
	return c.session
}

type authPayload struct {
	User User `json:"user"`
	Auth struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expires_at"`
	} `json:"auth"`
}

// Register creates an account and stores the issued credential.
func (c *Client) Register(ctx context.Context, name, email, password string) (*User, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	var payload authPayload
	if err := c.do(ctx, http.MethodPost, "/auth/register", body, &payload, false); err != nil {
		return nil, err
	}
	if err := c.session.SetToken(payload.Auth.Token); err != nil {
		return nil, err
	}
	return &payload.User, nil
}

// Login authenticates and stores the issued credential.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	body := map[string]string{"email": email, "password": password}
	var payload authPayload
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &payload, false); err != nil {
		return nil, err
	}
	if err := c.session.SetToken(payload.Auth.Token); err != nil {
		return nil, err
	}
	return &payload.User, nil
}

// Profile probes the profile endpoint, lazily confirming the stored
// credential. An unauthorized response clears the session.
func (c *Client) Profile(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/auth/profile", nil, &user, true); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListTasks fetches the filtered task list, newest first.
func (c *Client) ListTasks(ctx context.Context, filter TaskFilter) ([]Task, error) {
	params := url.Values{}
	if filter.Status != "" {
		params.Set("status", filter.Status)
	}
	if filter.Priority != "" {
		params.Set("priority", filter.Priority)
	}
	path := "/tasks"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}
	var tasks []Task
	if err := c.do(ctx, http.MethodGet, path, nil, &tasks, true); err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetTask fetches a single task.
func (c *Client) GetTask(ctx context.Context, id string) (*Task, error) {
	var task Task
	if err := c.do(ctx, http.MethodGet, "/tasks/"+url.PathEscape(id), nil, &task, true); err != nil {
		return nil, err
	}
	return &task, nil
}

// CreateTask creates a task.
func (c *Client) CreateTask(ctx context.Context, input CreateTaskInput) (*Task, error) {
	var task Task
	if err := c.do(ctx, http.MethodPost, "/tasks", input, &task, true); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask applies a partial update.
func (c *Client) UpdateTask(ctx context.Context, id string, input UpdateTaskInput) (*Task, error) {
	var task Task
	if err := c.do(ctx, http.MethodPut, "/tasks/"+url.PathEscape(id), input, &task, true); err != nil {
		return nil, err
	}
	return &task, nil
}

// DeleteTask removes a task permanently.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/tasks/"+url.PathEscape(id), nil, nil, true)
}

// Stats fetches the owner's stat counters.
func (c *Client) Stats(ctx context.Context) (*TaskStats, error) {
	var stats TaskStats
	if err := c.do(ctx, http.MethodGet, "/tasks/stats", nil, &stats, true); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, authed bool) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		token := c.session.Token()
		if token == "" {
			return ErrUnauthorized
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		// Stale or revoked credential; discard it regardless of endpoint.
		_ = c.session.Clear()
		return ErrUnauthorized
	}
	if resp.StatusCode >= 400 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return err
	}
	return json.Unmarshal(envelope.Data, out)
}

func decodeAPIError(resp *http.Response) error {
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil || envelope.Error.Message == "" {
		return &APIError{Status: resp.StatusCode, Code: "UNKNOWN", Message: resp.Status}
	}
	return &APIError{Status: resp.StatusCode, Code: envelope.Error.Code, Message: envelope.Error.Message}
}
