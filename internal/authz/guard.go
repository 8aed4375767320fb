// Package authz decides whether a resolved principal may act on a project or task.
package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/task-tracker-api/internal/auth"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"gorm.io/gorm"
)

// ErrForbidden is returned when an identified principal is denied an action.
var ErrForbidden = errors.New("forbidden")

// Action is an operation a principal requests on a resource.
type Action string

const (
	ActionRead                Action = "read"
	ActionCreate              Action = "create"
	ActionUpdate              Action = "update"
	ActionDelete              Action = "delete"
	ActionManageCollaborators Action = "manage_collaborators"
)

type standingKind int

const (
	standingNone standingKind = iota
	standingOwner
	standingCollaborator
)

// Standing is a principal's relation to a project: Owner, Collaborator(role) or None.
type Standing struct {
	kind standingKind
	role models.CollaboratorRole
}

func Owner() Standing { return Standing{kind: standingOwner, role: models.RoleOwner} }

func Collaborator(role models.CollaboratorRole) Standing {
	return Standing{kind: standingCollaborator, role: role}
}

func None() Standing { return Standing{} }

// Role returns the effective role, or "" for None.
func (s Standing) Role() models.CollaboratorRole { return s.role }

func (s Standing) String() string {
	switch s.kind {
	case standingOwner:
		return "owner"
	case standingCollaborator:
		return "collaborator(" + string(s.role) + ")"
	default:
		return "none"
	}
}

type target int

const (
	targetProject target = iota
	targetTask
)

type permission struct {
	target target
	action Action
}

// permissions lists every allowed (target, action) per effective role.
// Anything missing is denied, including unknown roles.
var permissions = map[models.CollaboratorRole]map[permission]bool{
	models.RoleOwner: {
		{targetProject, ActionRead}:                true,
		{targetProject, ActionUpdate}:              true,
		{targetProject, ActionDelete}:              true,
		{targetProject, ActionManageCollaborators}: true,
		{targetTask, ActionRead}:                   true,
		{targetTask, ActionCreate}:                 true,
		{targetTask, ActionUpdate}:                 true,
		{targetTask, ActionDelete}:                 true,
	},
	models.RoleEditor: {
		{targetProject, ActionRead}: true,
		{targetTask, ActionRead}:    true,
		{targetTask, ActionCreate}:  true,
		{targetTask, ActionUpdate}:  true,
	},
	models.RoleViewer: {
		{targetProject, ActionRead}: true,
		{targetTask, ActionRead}:    true,
	},
}

func (s Standing) allows(t target, action Action) bool {
	if s.kind == standingNone {
		return false
	}
	return permissions[s.role][permission{t, action}]
}

// Resource is the object of an authorization check.
type Resource struct {
	project *models.Project
	task    *models.Task
}

// ProjectResource targets the project itself.
func ProjectResource(project *models.Project) Resource {
	return Resource{project: project}
}

// TaskResource targets a task. project must be the task's project, or nil for
// a personal task.
func TaskResource(task *models.Task, project *models.Project) Resource {
	return Resource{project: project, task: task}
}

// CollaboratorFinder loads the collaborator row for a (project, user) pair.
type CollaboratorFinder interface {
	FindCollaborator(ctx context.Context, projectID, userID uint64) (*models.ProjectCollaborator, error)
}

// Guard evaluates ownership and collaboration-role rules.
type Guard struct {
	collaborators CollaboratorFinder
}

func NewGuard(collaborators CollaboratorFinder) *Guard {
	return &Guard{collaborators: collaborators}
}

// StandingOf reports how principal relates to project.
func (g *Guard) StandingOf(ctx context.Context, principal auth.Principal, project *models.Project) (Standing, error) {
	if principal.IsZero() || project == nil {
		return None(), nil
	}
	if project.OwnerID == principal.UserID() {
		return Owner(), nil
	}

	collaborator, err := g.collaborators.FindCollaborator(ctx, project.ID, principal.UserID())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return None(), nil
		}
		return None(), fmt.Errorf("failed to load collaborator: %w", err)
	}
	return Collaborator(collaborator.Role), nil
}

// Authorize returns nil if principal may perform action on resource and
// ErrForbidden otherwise. Rules, by precedence: the assignee of a task may
// read and update it (and delete it when it has no project); the project
// owner may do everything; a collaborator is limited by role.
func (g *Guard) Authorize(ctx context.Context, principal auth.Principal, action Action, resource Resource) error {
	if principal.IsZero() {
		return ErrForbidden
	}

	t := targetProject
	if resource.task != nil {
		t = targetTask
		if assigneeAllows(principal, action, resource) {
			return nil
		}
	}

	if resource.project == nil {
		return ErrForbidden
	}
	if resource.task != nil && (resource.task.ProjectID == nil || *resource.task.ProjectID != resource.project.ID) {
		return ErrForbidden
	}

	standing, err := g.StandingOf(ctx, principal, resource.project)
	if err != nil {
		return err
	}
	if !standing.allows(t, action) {
		return ErrForbidden
	}
	return nil
}

func assigneeAllows(principal auth.Principal, action Action, resource Resource) bool {
	task := resource.task
	if task.AssignedUserID != principal.UserID() {
		return false
	}

	switch action {
	case ActionRead, ActionUpdate:
		return true
	case ActionCreate, ActionDelete:
		return task.ProjectID == nil && resource.project == nil
	default:
		return false
	}
}
