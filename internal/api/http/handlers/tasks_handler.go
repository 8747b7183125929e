package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/task-tracker/internal/api/dto"
	"github.com/spec-kit/task-tracker/internal/auth"
	"github.com/spec-kit/task-tracker/internal/domain"
	"github.com/spec-kit/task-tracker/internal/service"
	apperrors "github.com/spec-kit/task-tracker/pkg/util"
)

// TasksHandler manages the owner-scoped task endpoints.
type TasksHandler struct {
	tasks *service.TaskService
	stats *service.StatsService
}

// NewTasksHandler constructs handler.
func NewTasksHandler(taskService *service.TaskService, statsService *service.StatsService) *TasksHandler {
	return &TasksHandler{tasks: taskService, stats: statsService}
}

// Create POST /tasks.
func (h *TasksHandler) Create(c *fiber.Ctx) error {
	owner, ok := auth.OwnerFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("unauthorized")
	}
	var req dto.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	task, err := h.tasks.CreateTask(c.Context(), owner.ID, service.TaskCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": taskResponse(task)})
}

// List GET /tasks?status=&priority=.
func (h *TasksHandler) List(c *fiber.Ctx) error {
	owner, ok := auth.OwnerFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("unauthorized")
	}

	filter := service.TaskListFilter{}
	if statusStr := c.Query("status"); statusStr != "" {
		status := domain.TaskStatus(statusStr)
		filter.Status = &status
	}
	if priorityStr := c.Query("priority"); priorityStr != "" {
		priority := domain.TaskPriority(priorityStr)
		filter.Priority = &priority
	}

	tasks, err := h.tasks.ListTasks(c.Context(), owner.ID, filter)
	if err != nil {
		return err
	}
	items := make([]dto.TaskResponse, 0, len(tasks))
	for i := range tasks {
		items = append(items, taskResponse(&tasks[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /tasks/:id.
func (h *TasksHandler) Get(c *fiber.Ctx) error {
	owner, ok := auth.OwnerFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("unauthorized")
	}
	task, err := h.tasks.GetTask(c.Context(), owner.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": taskResponse(task)})
}

// Update PUT /tasks/:id.
func (h *TasksHandler) Update(c *fiber.Ctx) error {
	owner, ok := auth.OwnerFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("unauthorized")
	}
	var req dto.UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	task, err := h.tasks.UpdateTask(c.Context(), owner.ID, c.Params("id"), service.TaskUpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": taskResponse(task)})
}

// Delete DELETE /tasks/:id.
func (h *TasksHandler) Delete(c *fiber.Ctx) error {
	owner, ok := auth.OwnerFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("unauthorized")
	}
	if err := h.tasks.DeleteTask(c.Context(), owner.ID, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "task deleted"}})
}

// Stats GET /tasks/stats.
func (h *TasksHandler) Stats(c *fiber.Ctx) error {
	owner, ok := auth.OwnerFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("unauthorized")
	}
	stats, err := h.stats.GetStats(c.Context(), owner.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}

func taskResponse(task *domain.Task) dto.TaskResponse {
	return dto.TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}
