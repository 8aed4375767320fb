package dto

import (
	"time"

	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/utils"
)

// CreateTaskRequest is the body of POST /api/tasks
type CreateTaskRequest struct {
	Title          string              `json:"title" binding:"required,max=255"`
	Description    string              `json:"description"`
	Priority       models.TaskPriority `json:"priority" binding:"omitempty,priority"`
	Status         models.TaskStatus   `json:"status" binding:"omitempty,taskstatus"`
	DueDate        *time.Time          `json:"due_date"`
	AssignedUserID *uint64             `json:"assigned_user_id" binding:"omitempty,min=1"`
	ProjectID      *uint64             `json:"project_id" binding:"omitempty,min=1"`
}

// UpdateTaskRequest is the body of PATCH /api/tasks/:id
type UpdateTaskRequest struct {
	Title          *string              `json:"title" binding:"omitempty,min=1,max=255"`
	Description    *string              `json:"description"`
	Priority       *models.TaskPriority `json:"priority" binding:"omitempty,priority"`
	Status         *models.TaskStatus   `json:"status" binding:"omitempty,taskstatus"`
	DueDate        *time.Time           `json:"due_date"`
	ClearDueDate   bool                 `json:"clear_due_date"`
	AssignedUserID *uint64              `json:"assigned_user_id" binding:"omitempty,min=1"`
}

// ListTasksQuery holds the filters of GET /api/tasks
type ListTasksQuery struct {
	ProjectID *uint64 `form:"project_id" binding:"omitempty,min=1"`
	Status    string  `form:"status" binding:"omitempty,taskstatus"`
	Priority  string  `form:"priority" binding:"omitempty,priority"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID             uint64              `json:"id"`
	Title          string              `json:"title"`
	Description    string              `json:"description"`
	Priority       models.TaskPriority `json:"priority"`
	Status         models.TaskStatus   `json:"status"`
	DueDate        *time.Time          `json:"due_date"`
	AssignedUserID uint64              `json:"assigned_user_id"`
	ProjectID      *uint64             `json:"project_id"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
	AssignedUser   *UserDTO            `json:"assigned_user,omitempty"`
	Project        *ProjectDTO         `json:"project,omitempty"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO                `json:"tasks"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:             task.ID,
		Title:          task.Title,
		Description:    task.Description,
		Priority:       task.Priority,
		Status:         task.Status,
		DueDate:        task.DueDate,
		AssignedUserID: task.AssignedUserID,
		ProjectID:      task.ProjectID,
		CreatedAt:      task.CreatedAt,
		UpdatedAt:      task.UpdatedAt,
	}

	if task.AssignedUser.ID != 0 {
		assignee := ToPublicUserDTO(task.AssignedUser)
		dto.AssignedUser = &assignee
	}
	if task.Project != nil {
		project := ToProjectDTO(*task.Project)
		dto.Project = &project
	}

	return dto
}

// ToTaskListResponse converts a page of tasks
func ToTaskListResponse(tasks []models.Task, params utils.PaginationParams, total int64) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}

	return TaskListResponse{
		Tasks:      items,
		Pagination: params.Response(total),
	}
}
