package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/task-tracker-api/internal/auth"
	"github.com/yukikurage/task-tracker-api/internal/authz"
	"github.com/yukikurage/task-tracker-api/internal/logger"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/repository"
	"github.com/yukikurage/task-tracker-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrTitleRequired   = errors.New("title is required")
	ErrTitleEmpty      = errors.New("title cannot be empty")
	ErrInvalidPriority = errors.New("priority must be low, medium or high")
	ErrInvalidStatus   = errors.New("status must be todo, in_progress or done")
	ErrInvalidAssignee = errors.New("assignee must be the project owner or a collaborator, or yourself for a personal task")
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	guard       *authz.Guard
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, userRepo repository.UserRepository, guard *authz.Guard) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
		guard:       guard,
	}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	ProjectID  *uint64
	Status     *models.TaskStatus
	Priority   *models.TaskPriority
	Pagination utils.PaginationParams
}

// CreateTaskInput represents input for creating a task. AssignedUserID
// defaults to the caller.
type CreateTaskInput struct {
	Title          string
	Description    string
	Priority       models.TaskPriority
	Status         models.TaskStatus
	DueDate        *time.Time
	AssignedUserID *uint64
	ProjectID      *uint64
}

// UpdateTaskInput represents input for updating a task
type UpdateTaskInput struct {
	Title          *string
	Description    *string
	Priority       *models.TaskPriority
	Status         *models.TaskStatus
	DueDate        *time.Time
	ClearDueDate   bool
	AssignedUserID *uint64
}

var taskPreloads = []string{"AssignedUser", "Project"}

// ListTasks returns tasks assigned to the principal or in projects they own
// or collaborate on
func (s *TaskService) ListTasks(ctx context.Context, principal auth.Principal, input ListTasksInput) ([]models.Task, int64, error) {
	if principal.IsZero() {
		return nil, 0, authz.ErrForbidden
	}

	if input.ProjectID != nil {
		project, err := s.loadProject(ctx, *input.ProjectID)
		if err != nil {
			return nil, 0, err
		}
		if err := s.guard.Authorize(ctx, principal, authz.ActionRead, authz.ProjectResource(project)); err != nil {
			if errors.Is(err, authz.ErrForbidden) {
				logger.WarnContext(ctx, "project task listing denied",
					"project_id", project.ID,
					"user_id", principal.UserID(),
				)
			}
			return nil, 0, err
		}
	}

	tasks, total, err := s.taskRepo.List(ctx, repository.TaskFilter{
		VisibleTo:  principal.UserID(),
		ProjectID:  input.ProjectID,
		Status:     input.Status,
		Priority:   input.Priority,
		Pagination: input.Pagination,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, total, nil
}

// GetTask returns a task the principal may read
func (s *TaskService) GetTask(ctx context.Context, principal auth.Principal, taskID uint64) (*models.Task, error) {
	task, _, err := s.authorizedTask(ctx, principal, authz.ActionRead, taskID)
	return task, err
}

// CreateTask creates a personal task or a task inside a project
func (s *TaskService) CreateTask(ctx context.Context, principal auth.Principal, input CreateTaskInput) (*models.Task, error) {
	if principal.IsZero() {
		return nil, authz.ErrForbidden
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if input.Priority == "" {
		input.Priority = models.PriorityMedium
	}
	if !input.Priority.Valid() {
		return nil, ErrInvalidPriority
	}
	if input.Status == "" {
		input.Status = models.TaskStatusTodo
	}
	if !input.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	assigneeID := principal.UserID()
	if input.AssignedUserID != nil {
		assigneeID = *input.AssignedUserID
	}

	task := &models.Task{
		Title:          title,
		Description:    input.Description,
		Priority:       input.Priority,
		Status:         input.Status,
		DueDate:        input.DueDate,
		AssignedUserID: assigneeID,
		ProjectID:      input.ProjectID,
	}

	var project *models.Project
	if input.ProjectID != nil {
		var err error
		if project, err = s.loadProject(ctx, *input.ProjectID); err != nil {
			return nil, err
		}
	}

	// project membership of the assignee is only checked once the caller
	// may create in the project
	if project == nil {
		if err := s.ensureAssignable(ctx, principal, assigneeID, nil); err != nil {
			return nil, err
		}
	}
	if err := s.guard.Authorize(ctx, principal, authz.ActionCreate, authz.TaskResource(task, project)); err != nil {
		return nil, err
	}
	if project != nil {
		if err := s.ensureAssignable(ctx, principal, assigneeID, project); err != nil {
			return nil, err
		}
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	logger.InfoContext(ctx, "task created", "task_id", task.ID, "actor_id", principal.UserID())
	return s.taskRepo.FindByID(ctx, task.ID, taskPreloads...)
}

// UpdateTask updates an existing task. The project of a task cannot change.
func (s *TaskService) UpdateTask(ctx context.Context, principal auth.Principal, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, project, err := s.authorizedTask(ctx, principal, authz.ActionUpdate, taskID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleEmpty
		}
		task.Title = title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, ErrInvalidPriority
		}
		task.Priority = *input.Priority
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		task.Status = *input.Status
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.AssignedUserID != nil && *input.AssignedUserID != task.AssignedUserID {
		if err := s.ensureAssignable(ctx, principal, *input.AssignedUserID, project); err != nil {
			return nil, err
		}
		task.AssignedUserID = *input.AssignedUserID
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.taskRepo.FindByID(ctx, task.ID, taskPreloads...)
}

// DeleteTask deletes a task
func (s *TaskService) DeleteTask(ctx context.Context, principal auth.Principal, taskID uint64) error {
	if _, _, err := s.authorizedTask(ctx, principal, authz.ActionDelete, taskID); err != nil {
		return err
	}

	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	logger.InfoContext(ctx, "task deleted", "task_id", taskID, "actor_id", principal.UserID())
	return nil
}

// authorizedTask loads a task with its project and checks action against it.
func (s *TaskService) authorizedTask(ctx context.Context, principal auth.Principal, action authz.Action, taskID uint64) (*models.Task, *models.Project, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID, taskPreloads...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrTaskNotFound
		}
		return nil, nil, fmt.Errorf("failed to find task: %w", err)
	}

	project := task.Project
	if task.ProjectID != nil && project == nil {
		// the project was deleted underneath the task
		return nil, nil, ErrTaskNotFound
	}

	if err := s.guard.Authorize(ctx, principal, action, authz.TaskResource(task, project)); err != nil {
		if errors.Is(err, authz.ErrForbidden) {
			logger.WarnContext(ctx, "task access denied",
				"task_id", taskID,
				"user_id", principal.UserID(),
				"action", action,
			)
		}
		return nil, nil, err
	}
	return task, project, nil
}

func (s *TaskService) loadProject(ctx context.Context, projectID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// ensureAssignable checks that assigneeID exists and may hold a task in
// project: only the caller for a personal task, otherwise the owner or a
// collaborator.
func (s *TaskService) ensureAssignable(ctx context.Context, principal auth.Principal, assigneeID uint64, project *models.Project) error {
	if project == nil {
		if assigneeID != principal.UserID() {
			return ErrInvalidAssignee
		}
		return nil
	}

	if _, err := s.userRepo.FindByID(ctx, assigneeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidAssignee
		}
		return fmt.Errorf("failed to find assignee: %w", err)
	}

	if assigneeID == project.OwnerID {
		return nil
	}
	if _, err := s.projectRepo.FindCollaborator(ctx, project.ID, assigneeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidAssignee
		}
		return fmt.Errorf("failed to check assignee: %w", err)
	}
	return nil
}
