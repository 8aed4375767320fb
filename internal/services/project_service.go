package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/task-tracker-api/internal/auth"
	"github.com/yukikurage/task-tracker-api/internal/authz"
	"github.com/yukikurage/task-tracker-api/internal/logger"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/repository"
	"github.com/yukikurage/task-tracker-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound      = errors.New("project not found")
	ErrProjectNameRequired  = errors.New("project name is required")
	ErrAlreadyCollaborating = errors.New("user already collaborates on this project")
	ErrCollaboratorNotFound = errors.New("collaborator not found")
	ErrInvalidRole          = errors.New("role must be editor or viewer")
	ErrOwnerRoleFixed       = errors.New("the project owner's role cannot be changed")
	ErrCollaboratorRequired = errors.New("user_id or username is required")
)

// ProjectService handles projects and their collaborators. Every operation
// on an existing project is checked by the guard.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	guard       *authz.Guard
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo repository.ProjectRepository, userRepo repository.UserRepository, guard *authz.Guard) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
		guard:       guard,
	}
}

// CreateProjectInput represents input for creating a project
type CreateProjectInput struct {
	Name        string
	Description string
}

// UpdateProjectInput represents input for updating a project
type UpdateProjectInput struct {
	Name        *string
	Description *string
}

// AddCollaboratorInput represents input for inviting a user to a project
// AddCollaboratorInput names the invitee by UserID, or by Username when
// UserID is zero.
type AddCollaboratorInput struct {
	UserID   uint64
	Username string
	Role     models.CollaboratorRole
}

// CreateProject creates a project owned by the principal
func (s *ProjectService) CreateProject(ctx context.Context, principal auth.Principal, input CreateProjectInput) (*models.Project, error) {
	if principal.IsZero() {
		return nil, authz.ErrForbidden
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrProjectNameRequired
	}

	project := &models.Project{
		Name:        name,
		Description: input.Description,
		OwnerID:     principal.UserID(),
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	logger.InfoContext(ctx, "project created", "project_id", project.ID, "owner_id", project.OwnerID)
	return project, nil
}

// ListProjects returns projects the principal owns or collaborates on
func (s *ProjectService) ListProjects(ctx context.Context, principal auth.Principal, params utils.PaginationParams) ([]models.Project, int64, error) {
	if principal.IsZero() {
		return nil, 0, authz.ErrForbidden
	}

	projects, total, err := s.projectRepo.ListForUser(ctx, principal.UserID(), params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, total, nil
}

// GetProject returns a project the principal may read
func (s *ProjectService) GetProject(ctx context.Context, principal auth.Principal, projectID uint64) (*models.Project, error) {
	return s.authorizedProject(ctx, principal, authz.ActionRead, projectID)
}

// UpdateProject renames or re-describes a project
func (s *ProjectService) UpdateProject(ctx context.Context, principal auth.Principal, projectID uint64, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.authorizedProject(ctx, principal, authz.ActionUpdate, projectID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrProjectNameRequired
		}
		project.Name = name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return project, nil
}

// DeleteProject deletes a project with its tasks and collaborators
func (s *ProjectService) DeleteProject(ctx context.Context, principal auth.Principal, projectID uint64) error {
	if _, err := s.authorizedProject(ctx, principal, authz.ActionDelete, projectID); err != nil {
		return err
	}

	if err := s.projectRepo.Delete(ctx, projectID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	logger.InfoContext(ctx, "project deleted", "project_id", projectID, "actor_id", principal.UserID())
	return nil
}

// ListCollaborators lists the collaborator rows of a project. The owner is
// not included since it has no row.
func (s *ProjectService) ListCollaborators(ctx context.Context, principal auth.Principal, projectID uint64) ([]models.ProjectCollaborator, error) {
	if _, err := s.authorizedProject(ctx, principal, authz.ActionRead, projectID); err != nil {
		return nil, err
	}

	collaborators, err := s.projectRepo.ListCollaborators(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list collaborators: %w", err)
	}
	return collaborators, nil
}

func (s *ProjectService) findInvitee(ctx context.Context, input AddCollaboratorInput) (*models.User, error) {
	var (
		user *models.User
		err  error
	)
	switch username := strings.TrimSpace(input.Username); {
	case input.UserID != 0:
		user, err = s.userRepo.FindByID(ctx, input.UserID)
	case username != "":
		user, err = s.userRepo.FindByUsername(ctx, username)
	default:
		return nil, ErrCollaboratorRequired
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// AddCollaborator invites a user to a project. Adding an existing
// collaborator, or the owner, fails with ErrAlreadyCollaborating and leaves
// the existing role untouched.
func (s *ProjectService) AddCollaborator(ctx context.Context, principal auth.Principal, projectID uint64, input AddCollaboratorInput) (*models.ProjectCollaborator, error) {
	project, err := s.authorizedProject(ctx, principal, authz.ActionManageCollaborators, projectID)
	if err != nil {
		return nil, err
	}

	if !input.Role.Assignable() {
		return nil, ErrInvalidRole
	}

	user, err := s.findInvitee(ctx, input)
	if err != nil {
		return nil, err
	}

	if user.ID == project.OwnerID {
		return nil, ErrAlreadyCollaborating
	}

	collaborator := &models.ProjectCollaborator{
		ProjectID: project.ID,
		UserID:    user.ID,
		Role:      input.Role,
	}
	if err := s.projectRepo.AddCollaborator(ctx, collaborator); err != nil {
		if errors.Is(err, repository.ErrCollaboratorExists) {
			return nil, ErrAlreadyCollaborating
		}
		return nil, fmt.Errorf("failed to add collaborator: %w", err)
	}
	collaborator.User = *user

	logger.InfoContext(ctx, "collaborator added",
		"project_id", project.ID,
		"user_id", user.ID,
		"role", input.Role,
	)
	return collaborator, nil
}

// UpdateCollaboratorRole changes the role of an existing collaborator
func (s *ProjectService) UpdateCollaboratorRole(ctx context.Context, principal auth.Principal, projectID, userID uint64, role models.CollaboratorRole) (*models.ProjectCollaborator, error) {
	project, err := s.authorizedProject(ctx, principal, authz.ActionManageCollaborators, projectID)
	if err != nil {
		return nil, err
	}

	if !role.Assignable() {
		return nil, ErrInvalidRole
	}
	if userID == project.OwnerID {
		return nil, ErrOwnerRoleFixed
	}

	if err := s.projectRepo.UpdateCollaboratorRole(ctx, projectID, userID, role); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCollaboratorNotFound
		}
		return nil, fmt.Errorf("failed to update collaborator role: %w", err)
	}

	collaborator, err := s.projectRepo.FindCollaborator(ctx, projectID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload collaborator: %w", err)
	}
	return collaborator, nil
}

// RemoveCollaborator revokes a collaborator's access
func (s *ProjectService) RemoveCollaborator(ctx context.Context, principal auth.Principal, projectID, userID uint64) error {
	project, err := s.authorizedProject(ctx, principal, authz.ActionManageCollaborators, projectID)
	if err != nil {
		return err
	}

	if userID == project.OwnerID {
		return ErrOwnerRoleFixed
	}

	if err := s.projectRepo.RemoveCollaborator(ctx, projectID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCollaboratorNotFound
		}
		return fmt.Errorf("failed to remove collaborator: %w", err)
	}

	logger.InfoContext(ctx, "collaborator removed", "project_id", projectID, "user_id", userID)
	return nil
}

// authorizedProject loads a project and checks action against it.
func (s *ProjectService) authorizedProject(ctx context.Context, principal auth.Principal, action authz.Action, projectID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if err := s.guard.Authorize(ctx, principal, action, authz.ProjectResource(project)); err != nil {
		if errors.Is(err, authz.ErrForbidden) {
			logger.WarnContext(ctx, "project access denied",
				"project_id", projectID,
				"user_id", principal.UserID(),
				"action", action,
			)
		}
		return nil, err
	}
	return project, nil
}
