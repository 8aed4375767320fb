package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/task-tracker-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// CreateUnique checks and inserts within one transaction. The unique indexes
// remain the final arbiter: a concurrent insert that slips past the check
// fails on the index and is reported the same way.
func (r *GormUserRepository) CreateUnique(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkUserUnique(tx, user); err != nil {
			return err
		}
		return tx.Create(user).Error
	})
	if err == nil || isDuplicateUserErr(err) {
		return err
	}

	if dupErr := checkUserUnique(r.db.WithContext(ctx), user); dupErr != nil {
		return dupErr
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateUser
	}
	return fmt.Errorf("create user: %w", err)
}

func isDuplicateUserErr(err error) bool {
	return errors.Is(err, ErrUsernameTaken) || errors.Is(err, ErrEmailTaken) || errors.Is(err, ErrDuplicateUser)
}

// checkUserUnique includes soft-deleted rows since the unique indexes do.
func checkUserUnique(db *gorm.DB, user *models.User) error {
	var count int64
	if err := db.Unscoped().Model(&models.User{}).Where("username = ?", user.Username).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrUsernameTaken
	}

	if err := db.Unscoped().Model(&models.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrEmailTaken
	}
	return nil
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername finds a user by username
func (r *GormUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIdentity finds a user by username or email
func (r *GormUserRepository) FindByIdentity(ctx context.Context, identity string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).
		Where("username = ? OR email = ?", identity, identity).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Delete soft deletes a user
func (r *GormUserRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&models.User{}, id).Error
}
