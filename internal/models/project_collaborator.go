package models

import "time"

// CollaboratorRole is the role attribute on the user/project relationship.
type CollaboratorRole string

const (
	// RoleOwner is held implicitly by Project.OwnerID and is never stored in a row.
	RoleOwner  CollaboratorRole = "owner"
	RoleEditor CollaboratorRole = "editor"
	RoleViewer CollaboratorRole = "viewer"
)

// AssignableRoles are the roles a collaborator row may carry.
var AssignableRoles = []CollaboratorRole{RoleEditor, RoleViewer}

func (r CollaboratorRole) Assignable() bool {
	for _, role := range AssignableRoles {
		if r == role {
			return true
		}
	}
	return false
}

// ProjectCollaborator joins one user and one project. The composite primary
// key guarantees at most one row per pair.
type ProjectCollaborator struct {
	ProjectID uint64           `gorm:"primarykey;autoIncrement:false" json:"project_id"`
	UserID    uint64           `gorm:"primarykey;autoIncrement:false" json:"user_id"`
	Role      CollaboratorRole `gorm:"type:varchar(20);not null" json:"role"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`

	// Relations
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	User    User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
