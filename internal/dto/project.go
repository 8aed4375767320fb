package dto

import (
	"time"

	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/utils"
)

// CreateProjectRequest is the body of POST /api/projects
type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description" binding:"max=2000"`
}

// UpdateProjectRequest is the body of PATCH /api/projects/:id
type UpdateProjectRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
}

// AddCollaboratorRequest is the body of POST /api/projects/:id/collaborators.
// The invitee is named by user_id or username.
type AddCollaboratorRequest struct {
	UserID   uint64                  `json:"user_id" binding:"required_without=Username"`
	Username string                  `json:"username" binding:"required_without=UserID,omitempty,max=50"`
	Role     models.CollaboratorRole `json:"role" binding:"required,collabrole"`
}

// UpdateCollaboratorRequest is the body of PATCH /api/projects/:id/collaborators/:user_id
type UpdateCollaboratorRequest struct {
	Role models.CollaboratorRole `json:"role" binding:"required,collabrole"`
}

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     uint64    `json:"owner_id"`
	Owner       *UserDTO  `json:"owner,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CollaboratorDTO represents a collaborator row in API responses
type CollaboratorDTO struct {
	User      UserDTO                 `json:"user"`
	Role      models.CollaboratorRole `json:"role"`
	CreatedAt time.Time               `json:"created_at"`
}

// ProjectListResponse represents a paginated list of projects
type ProjectListResponse struct {
	Projects   []ProjectDTO             `json:"projects"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	dto := ProjectDTO{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		OwnerID:     project.OwnerID,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}

	// Include owner if preloaded
	if project.Owner.ID != 0 {
		owner := ToPublicUserDTO(project.Owner)
		dto.Owner = &owner
	}

	return dto
}

// ToCollaboratorDTO converts a ProjectCollaborator to CollaboratorDTO
func ToCollaboratorDTO(collaborator models.ProjectCollaborator) CollaboratorDTO {
	user := collaborator.User
	if user.ID == 0 {
		user.ID = collaborator.UserID
	}
	return CollaboratorDTO{
		User:      ToPublicUserDTO(user),
		Role:      collaborator.Role,
		CreatedAt: collaborator.CreatedAt,
	}
}

// ToCollaboratorDTOs converts a slice of collaborators
func ToCollaboratorDTOs(collaborators []models.ProjectCollaborator) []CollaboratorDTO {
	items := make([]CollaboratorDTO, len(collaborators))
	for i, collaborator := range collaborators {
		items[i] = ToCollaboratorDTO(collaborator)
	}
	return items
}

// ToProjectListResponse converts a page of projects
func ToProjectListResponse(projects []models.Project, params utils.PaginationParams, total int64) ProjectListResponse {
	items := make([]ProjectDTO, len(projects))
	for i, project := range projects {
		items[i] = ToProjectDTO(project)
	}
	return ProjectListResponse{
		Projects:   items,
		Pagination: params.Response(total),
	}
}
