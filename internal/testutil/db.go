// Package testutil provides database fixtures shared by package tests.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-tracker-api/internal/config"
	"github.com/yukikurage/task-tracker-api/internal/database"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"gorm.io/gorm"
)

// NewDB opens a migrated SQLite database in a temp dir through the same
// connection setup the server uses.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Connect(&config.Config{
		GinMode: gin.TestMode,
		DB: config.DBConfig{
			Driver: "sqlite",
			Path:   filepath.Join(t.TempDir(), "test.db"),
		},
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.Migrate(db))

	return db
}

// CreateUser inserts a user row directly, bypassing password hashing.
func CreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hashed",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateProject inserts a project owned by ownerID.
func CreateProject(t *testing.T, db *gorm.DB, name string, ownerID uint64) *models.Project {
	t.Helper()

	project := &models.Project{Name: name, OwnerID: ownerID}
	require.NoError(t, db.Create(project).Error)
	return project
}

// AddCollaborator inserts a collaborator row.
func AddCollaborator(t *testing.T, db *gorm.DB, projectID, userID uint64, role models.CollaboratorRole) {
	t.Helper()

	require.NoError(t, db.Create(&models.ProjectCollaborator{
		ProjectID: projectID,
		UserID:    userID,
		Role:      role,
	}).Error)
}

// CreateTask inserts a task assigned to assigneeID, optionally in a project.
func CreateTask(t *testing.T, db *gorm.DB, title string, assigneeID uint64, projectID *uint64) *models.Task {
	t.Helper()

	task := &models.Task{
		Title:          title,
		Priority:       models.PriorityMedium,
		Status:         models.TaskStatusTodo,
		AssignedUserID: assigneeID,
		ProjectID:      projectID,
	}
	require.NoError(t, db.Create(task).Error)
	return task
}
