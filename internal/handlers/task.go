package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker-api/internal/dto"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/services"
	"github.com/yukikurage/task-tracker-api/internal/utils"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns tasks assigned to the caller or in projects they can read.
// Can filter by project_id, status and priority.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var query dto.ListTasksQuery
	if !bindQuery(c, &query) {
		return
	}

	input := services.ListTasksInput{
		ProjectID:  query.ProjectID,
		Pagination: utils.GetPaginationParams(c),
	}
	if query.Status != "" {
		status := models.TaskStatus(query.Status)
		input.Status = &status
	}
	if query.Priority != "" {
		priority := models.TaskPriority(query.Priority)
		input.Priority = &priority
	}

	tasks, total, err := h.taskService.ListTasks(c.Request.Context(), p, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, input.Pagination, total))
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(c.Request.Context(), p, taskID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a personal task, or a project task when project_id is set
func (h *TaskHandler) CreateTask(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req dto.CreateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), p, services.CreateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		Priority:       req.Priority,
		Status:         req.Status,
		DueDate:        req.DueDate,
		AssignedUserID: req.AssignedUserID,
		ProjectID:      req.ProjectID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), p, taskID, services.UpdateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		Priority:       req.Priority,
		Status:         req.Status,
		DueDate:        req.DueDate,
		ClearDueDate:   req.ClearDueDate,
		AssignedUserID: req.AssignedUserID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), p, taskID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
