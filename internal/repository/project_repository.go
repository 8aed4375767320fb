package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/task-tracker-api/internal/database"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project
func (r *GormProjectRepository) Create(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(project).Error
}

// FindByID finds a project by ID
func (r *GormProjectRepository) FindByID(ctx context.Context, id uint64) (*models.Project, error) {
	var project models.Project
	if err := r.db.WithContext(ctx).First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// ListForUser lists projects the user owns or collaborates on, newest first
func (r *GormProjectRepository) ListForUser(ctx context.Context, userID uint64, params utils.PaginationParams) ([]models.Project, int64, error) {
	db := r.db.WithContext(ctx)

	collaborating := db.Model(&models.ProjectCollaborator{}).
		Select("project_id").
		Where("user_id = ?", userID)

	query := db.Model(&models.Project{}).
		Where("projects.owner_id = ? OR projects.id IN (?)", userID, collaborating).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var projects []models.Project
	if err := query.
		Preload("Owner").
		Order("projects.created_at DESC").
		Scopes(database.Paginate(params)).
		Find(&projects).Error; err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

// Update updates a project
func (r *GormProjectRepository) Update(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(project).Error
}

// Delete deletes a project and all related data in a transaction
func (r *GormProjectRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectCollaborator{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Project{}, id).Error
	})
}

// AddCollaborator checks and inserts within one transaction; the composite
// primary key rejects a concurrent duplicate that slips past the check.
func (r *GormProjectRepository) AddCollaborator(ctx context.Context, collaborator *models.ProjectCollaborator) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.ProjectCollaborator{}).
			Where("project_id = ? AND user_id = ?", collaborator.ProjectID, collaborator.UserID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrCollaboratorExists
		}
		return tx.Omit(clause.Associations).Create(collaborator).Error
	})
	if err == nil || errors.Is(err, ErrCollaboratorExists) {
		return err
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrCollaboratorExists
	}
	if _, findErr := r.FindCollaborator(ctx, collaborator.ProjectID, collaborator.UserID); findErr == nil {
		return ErrCollaboratorExists
	}
	return fmt.Errorf("add collaborator: %w", err)
}

// FindCollaborator finds a specific project collaborator
func (r *GormProjectRepository) FindCollaborator(ctx context.Context, projectID, userID uint64) (*models.ProjectCollaborator, error) {
	var collaborator models.ProjectCollaborator
	if err := r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&collaborator).Error; err != nil {
		return nil, err
	}
	return &collaborator, nil
}

// UpdateCollaboratorRole changes a collaborator's role, returning
// gorm.ErrRecordNotFound when the pair has no row.
func (r *GormProjectRepository) UpdateCollaboratorRole(ctx context.Context, projectID, userID uint64, role models.CollaboratorRole) error {
	result := r.db.WithContext(ctx).
		Model(&models.ProjectCollaborator{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Update("role", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RemoveCollaborator removes a collaborator, returning gorm.ErrRecordNotFound
// when the pair has no row.
func (r *GormProjectRepository) RemoveCollaborator(ctx context.Context, projectID, userID uint64) error {
	result := r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&models.ProjectCollaborator{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListCollaborators lists all collaborators of a project
func (r *GormProjectRepository) ListCollaborators(ctx context.Context, projectID uint64) ([]models.ProjectCollaborator, error) {
	var collaborators []models.ProjectCollaborator
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&collaborators).Error; err != nil {
		return nil, err
	}
	return collaborators, nil
}
