package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mfernan/user-tasks-api/internal/dto"
	apierrors "github.com/mfernan/user-tasks-api/internal/errors"
	"github.com/mfernan/user-tasks-api/internal/services"
	"github.com/mfernan/user-tasks-api/internal/utils"
)

// TaskHandler coordinates task-related HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// CreateTaskForUser creates a task owned by the user in the path.
func (h *TaskHandler) CreateTaskForUser(c *gin.Context) {
	userID, ok := parseIDParam(c)
	if !ok {
		return
	}

	type CreateTaskRequest struct {
		Title       string     `json:"title" binding:"required"`
		Description string     `json:"description"`
		Completed   bool       `json:"completed"`
		Priority    *int       `json:"priority"`
		DueDate     *time.Time `json:"due_date"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.Create(userID, services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// ListTasks returns all tasks with an optional completed filter.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	completed, ok := parseBoolQuery(c, "completed")
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)

	tasks, err := h.taskService.List(services.ListTasksInput{
		Completed: completed,
		Skip:      params.Skip,
		Limit:     params.Limit,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// ListUserTasks returns the tasks owned by the user in the path.
func (h *TaskHandler) ListUserTasks(c *gin.Context) {
	userID, ok := parseIDParam(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)

	tasks, err := h.taskService.ListForUser(userID, params.Skip, params.Limit)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// GetTask returns a single task by ID.
func (h *TaskHandler) GetTask(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	task, err := h.taskService.Get(id)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// UpdateTask applies a partial update. The raw body is inspected so that an
// absent due_date and "due_date": null are distinguishable.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	patch, ok := buildTaskPatch(c, raw)
	if !ok {
		return
	}

	task, err := h.taskService.Update(id, patch)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// buildTaskPatch maps raw JSON fields onto a typed patch. It writes the 400
// response itself when a field has the wrong type.
func buildTaskPatch(c *gin.Context, raw map[string]any) (services.TaskPatch, bool) {
	var patch services.TaskPatch

	if v, ok := raw["title"]; ok {
		s, ok := v.(string)
		if !ok {
			apierrors.BadRequest(c, "title must be a string")
			return patch, false
		}
		patch.Title = &s
	}
	if v, ok := raw["description"]; ok {
		s, ok := v.(string)
		if !ok {
			apierrors.BadRequest(c, "description must be a string")
			return patch, false
		}
		patch.Description = &s
	}
	if v, ok := raw["completed"]; ok {
		b, ok := v.(bool)
		if !ok {
			apierrors.BadRequest(c, "completed must be a boolean")
			return patch, false
		}
		patch.Completed = &b
	}
	if v, ok := raw["priority"]; ok {
		f, ok := v.(float64)
		if !ok {
			apierrors.BadRequest(c, "priority must be a number")
			return patch, false
		}
		priority := int(f)
		patch.Priority = &priority
	}
	if v, ok := raw["due_date"]; ok {
		if v == nil {
			patch.ClearDueDate = true
		} else if s, ok := v.(string); ok {
			parsed, err := time.Parse(time.RFC3339, s)
			if err != nil {
				apierrors.BadRequest(c, "due_date must be an RFC 3339 timestamp or null")
				return patch, false
			}
			patch.DueDate = &parsed
		} else {
			apierrors.BadRequest(c, "due_date must be an RFC 3339 timestamp or null")
			return patch, false
		}
	}

	return patch, true
}

// DeleteTask deletes a task.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.taskService.Delete(id); err != nil {
		respondTaskError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrTitleEmpty),
		errors.Is(err, services.ErrInvalidPriority):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrTaskDeletionFailed):
		apierrors.DeletionFailed(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
