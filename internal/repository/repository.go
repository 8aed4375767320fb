package repository

import (
	"context"
	"errors"

	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/utils"
)

var (
	// ErrUsernameTaken is returned when a user with the same username already exists.
	ErrUsernameTaken = errors.New("user repository: username already exists")
	// ErrEmailTaken is returned when a user with the same email already exists.
	ErrEmailTaken = errors.New("user repository: email already exists")
	// ErrDuplicateUser is returned when a unique violation occurred but the colliding field could not be determined.
	ErrDuplicateUser = errors.New("user repository: duplicate user")
	// ErrCollaboratorExists is returned when the (project, user) pair already has a collaborator row.
	ErrCollaboratorExists = errors.New("project repository: collaborator already exists")
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// CreateUnique inserts a user, failing with ErrUsernameTaken, ErrEmailTaken
	// or ErrDuplicateUser when the uniqueness invariant would be violated.
	CreateUnique(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(ctx context.Context, username string) (*models.User, error)

	// FindByIdentity finds a user whose username or email equals identity
	FindByIdentity(ctx context.Context, identity string) (*models.User, error)

	// Delete soft deletes a user
	Delete(ctx context.Context, id uint64) error
}

// ProjectRepository defines the interface for project and collaborator data access
type ProjectRepository interface {
	// Create creates a new project
	Create(ctx context.Context, project *models.Project) error

	// FindByID finds a project by ID
	FindByID(ctx context.Context, id uint64) (*models.Project, error)

	// ListForUser lists projects the user owns or collaborates on
	ListForUser(ctx context.Context, userID uint64, params utils.PaginationParams) ([]models.Project, int64, error)

	// Update updates a project
	Update(ctx context.Context, project *models.Project) error

	// Delete deletes a project with its tasks and collaborators
	Delete(ctx context.Context, id uint64) error

	// AddCollaborator inserts a collaborator row, failing with ErrCollaboratorExists for a known pair
	AddCollaborator(ctx context.Context, collaborator *models.ProjectCollaborator) error

	// FindCollaborator finds the collaborator row for a (project, user) pair
	FindCollaborator(ctx context.Context, projectID, userID uint64) (*models.ProjectCollaborator, error)

	// UpdateCollaboratorRole changes the role of an existing collaborator
	UpdateCollaboratorRole(ctx context.Context, projectID, userID uint64, role models.CollaboratorRole) error

	// RemoveCollaborator deletes a collaborator row
	RemoveCollaborator(ctx context.Context, projectID, userID uint64) error

	// ListCollaborators lists all collaborators of a project
	ListCollaborators(ctx context.Context, projectID uint64) ([]models.ProjectCollaborator, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(ctx context.Context, task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks with filtering and pagination
	List(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error)

	// Update updates a task
	Update(ctx context.Context, task *models.Task) error

	// Delete soft deletes a task
	Delete(ctx context.Context, id uint64) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	// VisibleTo restricts results to tasks assigned to the user or in projects
	// the user owns or collaborates on.
	VisibleTo  uint64
	ProjectID  *uint64
	Status     *models.TaskStatus
	Priority   *models.TaskPriority
	Pagination utils.PaginationParams
}
